package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PremioType é a faixa de prêmio alvo: "1".."5" ou "1-5".
type PremioType string

const (
	PremioFirst  PremioType = "1"
	PremioSecond PremioType = "2"
	PremioThird  PremioType = "3"
	PremioFourth PremioType = "4"
	PremioFifth  PremioType = "5"
	PremioAll    PremioType = "1-5"
)

// premioTiers é o número de faixas cobertas por "1-5".
var premioTiers = decimal.NewFromInt(5)

func (p PremioType) valid() bool {
	switch p {
	case PremioFirst, PremioSecond, PremioThird, PremioFourth, PremioFifth, PremioAll:
		return true
	}
	return false
}

// AdjustMultiplier aplica a distribuição de prêmio à odd bruta.
// Em "1-5" a odd é dividida igualmente pelas cinco faixas.
func AdjustMultiplier(rawOdds decimal.Decimal, premio PremioType) (decimal.Decimal, error) {
	if !premio.valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedPrizeType, string(premio))
	}
	if premio == PremioAll {
		return rawOdds.Div(premioTiers), nil
	}
	return rawOdds, nil
}

// ResolveMultiplier é AdjustMultiplier respeitando a elegibilidade da modalidade.
func ResolveMultiplier(c Contract, rawOdds decimal.Decimal, premio PremioType) (decimal.Decimal, error) {
	if err := checkPremio(c, premio); err != nil {
		return decimal.Zero, err
	}
	return AdjustMultiplier(rawOdds, premio)
}

func checkPremio(c Contract, premio PremioType) error {
	if !premio.valid() {
		return &FieldError{
			Kind:   ErrUnsupportedPrizeType,
			Reason: ReasonUnsupportedPremio,
			Field:  "premioType",
			Bound:  `"1".."5" | "1-5"`,
			Msg:    fmt.Sprintf("premioType %q desconhecido", string(premio)),
		}
	}
	if premio == PremioAll && !c.MultiPrizeEligible {
		return &FieldError{
			Kind:   ErrUnsupportedPrizeType,
			Reason: ReasonUnsupportedPremio,
			Field:  "premioType",
			Msg:    "modalidade não aceita aposta do 1º ao 5º prêmio",
		}
	}
	return nil
}
