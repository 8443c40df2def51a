package valuation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// GameMode é uma modalidade de jogo com sua odd corrente.
type GameMode struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Odds        decimal.Decimal `json:"odds"`
	Active      bool            `json:"active"`
}

// SystemSettings são os limites de aposta definidos pela administração.
type SystemSettings struct {
	MinBetAmount     decimal.Decimal `json:"minBetAmount"`
	MaxBetAmount     decimal.Decimal `json:"maxBetAmount"`
	MaxPayout        decimal.Decimal `json:"maxPayout"`
	DefaultBetAmount decimal.Decimal `json:"defaultBetAmount"`
}

// Validate checa a coerência dos limites antes de aceitá-los num snapshot.
func (s SystemSettings) Validate() error {
	if !s.MinBetAmount.IsPositive() || !s.MaxBetAmount.IsPositive() || !s.MaxPayout.IsPositive() {
		return errors.New("settings: limits must be positive")
	}
	if s.MinBetAmount.GreaterThan(s.MaxBetAmount) {
		return fmt.Errorf("settings: minBetAmount %s above maxBetAmount %s", s.MinBetAmount, s.MaxBetAmount)
	}
	if s.DefaultBetAmount.LessThan(s.MinBetAmount) || s.DefaultBetAmount.GreaterThan(s.MaxBetAmount) {
		return fmt.Errorf("settings: defaultBetAmount %s outside [%s, %s]", s.DefaultBetAmount, s.MinBetAmount, s.MaxBetAmount)
	}
	return nil
}

// Snapshot é a configuração lida no momento da aposta. Não é alterada
// depois de montada.
type Snapshot struct {
	GameModes []GameMode     `json:"gameModes"`
	Settings  SystemSettings `json:"settings"`
}

// OddsTable resolve gameModeId para a odd vigente.
type OddsTable struct {
	modes map[int64]GameMode
}

func NewOddsTable(modes []GameMode) *OddsTable {
	t := &OddsTable{modes: make(map[int64]GameMode, len(modes))}
	for _, m := range modes {
		t.modes[m.ID] = m
	}
	return t
}

// GetOdds falha para modalidade desconhecida ou inativa.
func (t *OddsTable) GetOdds(gameModeID int64) (decimal.Decimal, error) {
	m, ok := t.modes[gameModeID]
	if !ok || !m.Active {
		return decimal.Zero, fmt.Errorf("%w: id=%d", ErrGameModeNotFound, gameModeID)
	}
	return m.Odds, nil
}

// Active lista as modalidades ofertáveis ordenadas por id.
func (t *OddsTable) Active() []GameMode {
	out := make([]GameMode, 0, len(t.modes))
	for _, m := range t.modes {
		if m.Active {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
