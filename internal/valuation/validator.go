// Package valuation implementa o motor de valoração de apostas do jogo do
// bicho: odds por modalidade, distribuição por faixa de prêmio, cálculo de
// prêmio potencial e validação da submissão.
//
// O pacote não faz I/O nem guarda estado mutável: cada chamada trabalha sobre
// um Snapshot imutável, então o mesmo input sempre produz o mesmo resultado.
package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// State é a etapa da validação em que a submissão se encontra.
type State string

const (
	StateReceived              State = "received"
	StateStructurallyValidated State = "structurally_validated"
	StateStakeValidated        State = "stake_validated"
	StatePayoutValidated       State = "payout_validated"
	StateAccepted              State = "accepted"
	StateRejected              State = "rejected"
)

// Submission é a aposta como enviada pelo cliente, antes de persistir.
type Submission struct {
	DrawID          int64      `json:"drawId"`
	GameModeID      int64      `json:"gameModeId"`
	Type            BetType    `json:"type"`
	Premio          PremioType `json:"premioType"`
	Stake           Stake      `json:"amount"`
	Animals         []int      `json:"animals,omitempty"`
	Numbers         []string   `json:"betNumbers,omitempty"`
	SecondaryDrawID int64      `json:"secondaryDrawId,omitempty"`
}

// Quote é a decisão do motor para uma submissão.
type Quote struct {
	Accepted          bool             `json:"accepted"`
	State             State            `json:"state"`
	Stake             *decimal.Decimal `json:"stake,omitempty"`
	RawOdds           *decimal.Decimal `json:"rawOdds,omitempty"`
	EffectiveOdds     *decimal.Decimal `json:"effectiveOdds,omitempty"`
	PotentialWin      *decimal.Decimal `json:"potentialWin,omitempty"`
	SuggestedMaxStake *decimal.Decimal `json:"suggestedMaxStake,omitempty"`
	Rejection         *Rejection       `json:"rejection,omitempty"`
}

// Engine avalia apostas contra um snapshot de configuração.
type Engine struct {
	odds     *OddsTable
	settings SystemSettings
}

func New(s Snapshot) *Engine {
	return &Engine{odds: NewOddsTable(s.GameModes), settings: s.Settings}
}

func (e *Engine) Odds() *OddsTable { return e.odds }

func (e *Engine) Settings() SystemSettings { return e.settings }

// ValidateAndPrice percorre Received -> StructurallyValidated ->
// StakeValidated -> PayoutValidated -> Accepted. Qualquer falha encerra em
// Rejected com o motivo; nenhum erro escapa daqui.
func (e *Engine) ValidateAndPrice(sub Submission) Quote {
	q := Quote{State: StateReceived}

	if err := validateStructure(sub); err != nil {
		return q.reject(err)
	}
	q.State = StateStructurallyValidated

	stake, err := e.validateStake(sub.Stake)
	if err != nil {
		return q.reject(err)
	}
	q.Stake = &stake
	q.State = StateStakeValidated

	p, err := e.ComputePotentialWin(stake, sub.GameModeID, sub.Type, sub.Premio)
	if err != nil {
		if !p.EffectiveOdds.IsZero() {
			q.RawOdds, q.EffectiveOdds = &p.RawOdds, &p.EffectiveOdds
		}
		return q.reject(err)
	}
	q.RawOdds, q.EffectiveOdds, q.PotentialWin = &p.RawOdds, &p.EffectiveOdds, &p.PotentialWin
	q.State = StatePayoutValidated

	q.Accepted = true
	q.State = StateAccepted
	return q
}

func (q Quote) reject(err error) Quote {
	q.Accepted = false
	q.State = StateRejected
	q.Rejection = RejectionFrom(err)
	q.SuggestedMaxStake = q.Rejection.SuggestedMaxStake
	return q
}

// AnimalField nomeia o campo do i-ésimo bicho como a API recebe
// (animalId, animalId2, ..., animalId5).
func AnimalField(i int) string {
	if i == 0 {
		return "animalId"
	}
	return fmt.Sprintf("animalId%d", i+1)
}

func structural(field, msg string) error {
	return &FieldError{Kind: ErrStructuralValidation, Reason: ReasonInvalidSelection, Field: field, Msg: msg}
}

func validateStructure(sub Submission) error {
	c, err := Classify(sub.Type)
	if err != nil {
		return err
	}
	if err := checkPremio(c, sub.Premio); err != nil {
		return err
	}
	if sub.DrawID <= 0 {
		return structural("drawId", "sorteio obrigatório")
	}

	// 0 marca um campo animalIdN vazio antes de outro preenchido
	for i, a := range sub.Animals {
		if a == 0 {
			return structural(AnimalField(i), "bicho obrigatório")
		}
	}
	if n := len(sub.Animals); n < c.AnimalSlots {
		return structural(AnimalField(n), fmt.Sprintf("modalidade exige %d bicho(s), recebido %d", c.AnimalSlots, n))
	} else if n > c.AnimalSlots {
		return structural(AnimalField(c.AnimalSlots), fmt.Sprintf("modalidade aceita %d bicho(s), recebido %d", c.AnimalSlots, n))
	}
	seen := make(map[int]bool, len(sub.Animals))
	for i, a := range sub.Animals {
		if a < 1 || a > NumGroups {
			return &FieldError{
				Kind: ErrStructuralValidation, Reason: ReasonInvalidSelection,
				Field: AnimalField(i), Bound: fmt.Sprintf("1..%d", NumGroups),
				Msg: fmt.Sprintf("grupo %d inexistente", a),
			}
		}
		if seen[a] {
			return structural(AnimalField(i), fmt.Sprintf("grupo %d repetido", a))
		}
		seen[a] = true
	}

	if n := len(sub.Numbers); n != c.NumericSlots {
		field := "betNumbers"
		if n < c.NumericSlots {
			field = fmt.Sprintf("betNumbers[%d]", n)
		}
		return structural(field, fmt.Sprintf("modalidade exige %d número(s), recebido %d", c.NumericSlots, n))
	}
	seenNum := make(map[string]bool, len(sub.Numbers))
	for i, num := range sub.Numbers {
		field := fmt.Sprintf("betNumbers[%d]", i)
		if !isDigits(num, c.NumericDigits) {
			return &FieldError{
				Kind: ErrStructuralValidation, Reason: ReasonInvalidSelection,
				Field: field, Bound: fmt.Sprintf("digits=%d", c.NumericDigits),
				Msg: fmt.Sprintf("%q deve ter exatamente %d dígitos", num, c.NumericDigits),
			}
		}
		if seenNum[num] {
			return structural(field, fmt.Sprintf("número %s repetido", num))
		}
		seenNum[num] = true
	}

	if c.NeedsSecondaryDraw && sub.SecondaryDrawID <= 0 {
		return &FieldError{
			Kind: ErrStructuralValidation, Reason: ReasonMissingSecondaryDraw,
			Field: "secondaryDrawId", Msg: "passe ida e volta exige o sorteio de volta",
		}
	}
	return nil
}

// isDigits aceita só ASCII 0-9; zeros à esquerda são significativos.
func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (e *Engine) validateStake(s Stake) (decimal.Decimal, error) {
	d, err := s.Decimal()
	if err != nil {
		return decimal.Zero, &FieldError{
			Kind: ErrStructuralValidation, Reason: ReasonInvalidAmount,
			Field: "amount", Msg: fmt.Sprintf("valor %q inválido", s.String()),
		}
	}
	if !d.IsPositive() || !d.Equal(d.Truncate(2)) {
		return decimal.Zero, &FieldError{
			Kind: ErrStructuralValidation, Reason: ReasonInvalidAmount,
			Field: "amount", Msg: fmt.Sprintf("valor %s deve ser positivo e em centavos", d),
		}
	}

	lo, hi := e.settings.MinBetAmount, e.settings.MaxBetAmount
	if d.LessThan(lo) {
		return decimal.Zero, &FieldError{
			Kind: ErrStakeOutOfRange, Reason: ReasonStakeOutOfRange,
			Field: "amount", Bound: "min=" + lo.StringFixed(2),
			Msg: fmt.Sprintf("aposta mínima é %s", FormatBRL(lo)),
		}
	}
	if d.GreaterThan(hi) {
		return decimal.Zero, &FieldError{
			Kind: ErrStakeOutOfRange, Reason: ReasonStakeOutOfRange,
			Field: "amount", Bound: "max=" + hi.StringFixed(2),
			Msg: fmt.Sprintf("aposta máxima é %s", FormatBRL(hi)),
		}
	}
	return d, nil
}
