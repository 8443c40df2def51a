package events

import "github.com/shopspring/decimal"

// BetPlaced é publicado no tópico "bet_placed" depois que a aposta foi
// reservada na carteira e persistida como PENDING_CONFIRMATION.
// Odds e prêmio são os vigentes no momento da aposta e não mudam depois.
type BetPlaced struct {
	BetID           string          `json:"bet_id"`
	UserID          string          `json:"user_id"`
	DrawID          int64           `json:"draw_id"`
	SecondaryDrawID int64           `json:"secondary_draw_id,omitempty"`
	GameModeID      int64           `json:"game_mode_id"`
	BetType         string          `json:"bet_type"`
	PremioType      string          `json:"premio_type"`
	Animals         []int           `json:"animals,omitempty"`
	Numbers         []string        `json:"numbers,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	RawOdds         decimal.Decimal `json:"raw_odds"`
	EffectiveOdds   decimal.Decimal `json:"effective_odds"`
	PotentialWin    decimal.Decimal `json:"potential_win"`
	ReservedRef     string          `json:"reserved_ref"` // external_ref usado na reserva da carteira (betID)
	TsUnixMs        int64           `json:"ts_unix_ms"`
}
