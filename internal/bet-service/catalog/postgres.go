package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radieske/jogo-do-bicho-platform/internal/valuation"
)

// ErrSettingsMissing indica que system_settings não tem a linha de limites.
var ErrSettingsMissing = errors.New("catalog: system settings not configured")

// PostgresSource lê modalidades e limites direto do banco.
type PostgresSource struct {
	DB *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource { return &PostgresSource{DB: db} }

// LoadSnapshot lê todas as modalidades (ativas ou não) e os limites vigentes.
func (s *PostgresSource) LoadSnapshot(ctx context.Context) (valuation.Snapshot, error) {
	const qModes = `
		SELECT id, name, description, odds, active
		FROM game_modes
		ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, qModes)
	if err != nil {
		return valuation.Snapshot{}, fmt.Errorf("query game_modes: %w", err)
	}
	defer rows.Close()

	var snap valuation.Snapshot
	for rows.Next() {
		var m valuation.GameMode
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Odds, &m.Active); err != nil {
			return valuation.Snapshot{}, fmt.Errorf("scan game_mode: %w", err)
		}
		snap.GameModes = append(snap.GameModes, m)
	}
	if err := rows.Err(); err != nil {
		return valuation.Snapshot{}, err
	}

	const qSettings = `
		SELECT min_bet_amount, max_bet_amount, max_payout, default_bet_amount
		FROM system_settings
		WHERE id = 1;
	`
	st := &snap.Settings
	err = s.DB.QueryRowContext(ctx, qSettings).
		Scan(&st.MinBetAmount, &st.MaxBetAmount, &st.MaxPayout, &st.DefaultBetAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return valuation.Snapshot{}, ErrSettingsMissing
	}
	if err != nil {
		return valuation.Snapshot{}, fmt.Errorf("query system_settings: %w", err)
	}

	return snap, nil
}
