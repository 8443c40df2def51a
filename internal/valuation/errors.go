package valuation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Categorias de erro do motor de valoração. Os tipos detalhados abaixo
// fazem Unwrap para uma delas, então o chamador usa errors.Is.
var (
	ErrInvalidBetType       = errors.New("invalid bet type")
	ErrGameModeNotFound     = errors.New("game mode not found")
	ErrUnsupportedPrizeType = errors.New("unsupported premio type")
	ErrStructuralValidation = errors.New("structural validation failed")
	ErrStakeOutOfRange      = errors.New("stake out of range")
	ErrPayoutLimitExceeded  = errors.New("payout limit exceeded")
)

// Códigos de motivo expostos para a UI.
const (
	ReasonInvalidBetType       = "invalid_bet_type"
	ReasonGameModeUnavailable  = "game_mode_unavailable"
	ReasonUnsupportedPremio    = "unsupported_premio_type"
	ReasonInvalidSelection     = "invalid_selection"
	ReasonInvalidAmount        = "invalid_amount"
	ReasonStakeOutOfRange      = "stake_out_of_range"
	ReasonPayoutLimitExceeded  = "payout_limit_exceeded"
	ReasonMissingSecondaryDraw = "missing_secondary_draw"
)

// FieldError aponta o campo da submissão que causou a rejeição.
type FieldError struct {
	Kind   error  // uma das categorias Err*
	Reason string // código de motivo
	Field  string // ex: "animalId2", "betNumbers[0]", "amount"
	Bound  string // limite violado, quando houver (ex: "min=1.00")
	Msg    string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Msg)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// PayoutLimitError carrega a maior aposta que caberia no teto de pagamento.
type PayoutLimitError struct {
	PotentialWin      decimal.Decimal
	MaxPayout         decimal.Decimal
	SuggestedMaxStake decimal.Decimal
}

func (e *PayoutLimitError) Error() string {
	return fmt.Sprintf("%s: potential win %s above max payout %s (max stake %s)",
		ErrPayoutLimitExceeded, e.PotentialWin.StringFixed(2), e.MaxPayout.StringFixed(2), e.SuggestedMaxStake.StringFixed(2))
}

func (e *PayoutLimitError) Unwrap() error { return ErrPayoutLimitExceeded }

// Rejection é a forma serializável de qualquer erro do motor.
type Rejection struct {
	Reason            string           `json:"reason"`
	Field             string           `json:"field,omitempty"`
	Bound             string           `json:"bound,omitempty"`
	Message           string           `json:"message"`
	SuggestedMaxStake *decimal.Decimal `json:"suggestedMaxStake,omitempty"`
}

// RejectionFrom converte um erro do motor em rejeição. Erros desconhecidos
// nunca deveriam chegar aqui; caem em invalid_selection para não vazar.
func RejectionFrom(err error) *Rejection {
	var pl *PayoutLimitError
	if errors.As(err, &pl) {
		s := pl.SuggestedMaxStake
		return &Rejection{
			Reason:            ReasonPayoutLimitExceeded,
			Field:             "amount",
			Bound:             "maxPayout=" + pl.MaxPayout.StringFixed(2),
			Message:           err.Error(),
			SuggestedMaxStake: &s,
		}
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return &Rejection{Reason: fe.Reason, Field: fe.Field, Bound: fe.Bound, Message: fe.Error()}
	}

	switch {
	case errors.Is(err, ErrGameModeNotFound):
		return &Rejection{
			Reason:  ReasonGameModeUnavailable,
			Field:   "gameModeId",
			Message: "modalidade indisponível, escolha outra modalidade",
		}
	case errors.Is(err, ErrInvalidBetType):
		return &Rejection{Reason: ReasonInvalidBetType, Field: "type", Message: err.Error()}
	case errors.Is(err, ErrUnsupportedPrizeType):
		return &Rejection{Reason: ReasonUnsupportedPremio, Field: "premioType", Message: err.Error()}
	case errors.Is(err, ErrStakeOutOfRange):
		return &Rejection{Reason: ReasonStakeOutOfRange, Field: "amount", Message: err.Error()}
	}
	return &Rejection{Reason: ReasonInvalidSelection, Message: err.Error()}
}
