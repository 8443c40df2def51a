package dto

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/jogo-do-bicho-platform/internal/valuation"
)

type PlaceBetResponse struct {
	BetID         string          `json:"betId"`
	Status        string          `json:"status"` // PENDING_CONFIRMATION
	Amount        decimal.Decimal `json:"amount"`
	EffectiveOdds decimal.Decimal `json:"effectiveOdds"`
	PotentialWin  decimal.Decimal `json:"potentialWinAmount"`
	Message       string          `json:"message,omitempty"`
}

type BetStatusResponse struct {
	BetID  string `json:"betId"`
	Status string `json:"status"`
}

// ErrorResponse cobre erros de formato e rejeições do motor.
type ErrorResponse struct {
	Error     string               `json:"error"`
	Details   map[string]string    `json:"details,omitempty"`
	Rejection *valuation.Rejection `json:"rejection,omitempty"`
	Quote     *valuation.Quote     `json:"quote,omitempty"`
}
