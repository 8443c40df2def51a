package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var ErrBetNotFound = errors.New("bet not found")

// Postgres implementa operações de persistência de apostas em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// CreatePending insere a aposta com status PENDING_CONFIRMATION.
// O ID vem de quem chama, pois já foi usado como external_ref da reserva.
func (p *Postgres) CreatePending(ctx context.Context, b *Bet) error {
	animals := make([]int64, len(b.Animals))
	for i, a := range b.Animals {
		animals[i] = int64(a)
	}
	var secondary sql.NullInt64
	if b.SecondaryDrawID > 0 {
		secondary = sql.NullInt64{Int64: b.SecondaryDrawID, Valid: true}
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets
		  (id, user_id, draw_id, secondary_draw_id, game_mode_id, bet_type, premio_type,
		   animals, bet_numbers, amount, raw_odds, effective_odds, potential_win, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		b.ID, b.UserID, b.DrawID, secondary, b.GameModeID, b.BetType, b.PremioType,
		pq.Array(animals), pq.Array(b.Numbers),
		b.Amount, b.RawOdds, b.EffectiveOdds, b.PotentialWin, StatusPending,
	)
	if err != nil {
		return fmt.Errorf("insert bet %s: %w", b.ID, err)
	}
	b.Status = StatusPending
	return nil
}

// GetStatus retorna o status atual de uma aposta pelo betID
func (p *Postgres) GetStatus(ctx context.Context, betID string) (string, error) {
	var s string
	err := p.db.QueryRowContext(ctx, `SELECT status FROM bets WHERE id=$1`, betID).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrBetNotFound
	}
	return s, err
}
