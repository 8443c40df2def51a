package repo

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusPending = "PENDING_CONFIRMATION"

// Bet é o modelo persistido no Postgres. Odds e prêmio ficam gravados como
// vigentes no momento da aposta.
type Bet struct {
	ID              string
	UserID          string
	DrawID          int64
	SecondaryDrawID int64
	GameModeID      int64
	BetType         string
	PremioType      string
	Animals         []int
	Numbers         []string
	Amount          decimal.Decimal
	RawOdds         decimal.Decimal
	EffectiveOdds   decimal.Decimal
	PotentialWin    decimal.Decimal
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
