package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Evento publicado no tópico "game_mode_updates" pela administração
type GameModeUpdate struct {
	GameModeID  int64           `json:"game_mode_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Odds        decimal.Decimal `json:"odds"`
	Active      bool            `json:"active"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UpdatedBy   string          `json:"updated_by,omitempty"` // usuário admin
	Version     int             `json:"version"`              // incrementado a cada edição
}
