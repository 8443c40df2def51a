package valuation

import "github.com/shopspring/decimal"

// Payout é o resultado do cálculo de prêmio potencial.
type Payout struct {
	RawOdds       decimal.Decimal `json:"rawOdds"`
	EffectiveOdds decimal.Decimal `json:"effectiveOdds"`
	PotentialWin  decimal.Decimal `json:"potentialWin"`
}

// ComputePotentialWin trunca stake*odds em centavos e aplica o teto de
// pagamento. Truncar (e não arredondar) garante que a casa nunca paga mais
// que o multiplicador nominal.
func ComputePotentialWin(stake, effectiveOdds, maxPayout decimal.Decimal) (decimal.Decimal, error) {
	win := stake.Mul(effectiveOdds).RoundDown(2)
	if win.GreaterThan(maxPayout) {
		return win, &PayoutLimitError{
			PotentialWin:      win,
			MaxPayout:         maxPayout,
			SuggestedMaxStake: MaxStakeFor(maxPayout, effectiveOdds),
		}
	}
	return win, nil
}

// MaxStakeFor é a maior aposta, em centavos, cujo prêmio cabe em maxPayout.
func MaxStakeFor(maxPayout, effectiveOdds decimal.Decimal) decimal.Decimal {
	if !effectiveOdds.IsPositive() {
		return decimal.Zero
	}
	return maxPayout.Div(effectiveOdds).RoundDown(2)
}

// ComputePotentialWin resolve a odd da modalidade, ajusta pela faixa de
// prêmio e calcula o prêmio potencial contra o snapshot do engine.
func (e *Engine) ComputePotentialWin(stake decimal.Decimal, gameModeID int64, t BetType, premio PremioType) (Payout, error) {
	c, err := Classify(t)
	if err != nil {
		return Payout{}, err
	}
	raw, err := e.odds.GetOdds(gameModeID)
	if err != nil {
		return Payout{}, err
	}
	eff, err := ResolveMultiplier(c, raw, premio)
	if err != nil {
		return Payout{}, err
	}
	p := Payout{RawOdds: raw, EffectiveOdds: eff}
	p.PotentialWin, err = ComputePotentialWin(stake, eff, e.settings.MaxPayout)
	return p, err
}
