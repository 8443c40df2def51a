package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/jogo-do-bicho-platform/pkg/contracts/events"
)

// PostgresRepo implementa operações de persistência de modalidades em um banco Postgres
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// Apply grava a modalidade e o histórico na mesma transação.
// Versões antigas ou repetidas são ignoradas (applied=false), então
// reentrega do Kafka não volta a odd para trás.
func (r *PostgresRepo) Apply(ctx context.Context, e events.GameModeUpdate) (applied bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// ON CONFLICT com WHERE: só atualiza se a versão recebida for mais nova
	const qUpsert = `
		INSERT INTO game_modes
		  (id, name, description, odds, active, version, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
		  name        = EXCLUDED.name,
		  description = EXCLUDED.description,
		  odds        = EXCLUDED.odds,
		  active      = EXCLUDED.active,
		  version     = EXCLUDED.version,
		  updated_at  = EXCLUDED.updated_at
		WHERE game_modes.version < EXCLUDED.version
	`
	res, err := tx.ExecContext(ctx, qUpsert,
		e.GameModeID, e.Name, e.Description, e.Odds, e.Active, e.Version, e.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("upsert game_mode %d: %w", e.GameModeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, tx.Rollback()
	}

	const qHistory = `
		INSERT INTO game_mode_history
		  (game_mode_id, odds, active, version, updated_by, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6)
	`
	if _, err = tx.ExecContext(ctx, qHistory,
		e.GameModeID, e.Odds, e.Active, e.Version, e.UpdatedBy, e.UpdatedAt,
	); err != nil {
		return false, fmt.Errorf("insert game_mode_history %d: %w", e.GameModeID, err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}
