package valuation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	plainNumberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	groupedIntRe  = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
	brlIntRe      = regexp.MustCompile(`^-?(\d+|\d{1,3}(\.\d{3})+)$`)
)

// Limites de tamanho de um valor monetário. Comparar um decimal com expoente
// sem limite força a reescala para centavos com um big.Int de 10^exp dígitos.
const (
	maxAmountText   = 40
	maxAmountDigits = 15 // dígitos da parte inteira
	maxAmountScale  = 15 // casas decimais
)

var (
	errEmptyAmount     = errors.New("empty amount")
	errAmountMagnitude = errors.New("amount out of representable range")
)

// CheckAmount rejeita decimais fora da faixa monetária sem reescalar o valor.
// Deve rodar antes de qualquer comparação ou aritmética com valores externos.
func CheckAmount(d decimal.Decimal) error {
	exp := int(d.Exponent())
	if exp < -maxAmountScale || exp > maxAmountDigits || d.NumDigits()+exp > maxAmountDigits {
		return fmt.Errorf("%w: %d digits, exponent %d", errAmountMagnitude, d.NumDigits(), exp)
	}
	return nil
}

// ParseBRL normaliza um valor monetário em formato brasileiro.
// Aceita "R$ 1.234,56", "1234,56", "1.234" (milhar) e "12.50" (ponto decimal,
// só quando não há vírgula nem agrupamento de milhar).
func ParseBRL(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "R$")
	v = strings.NewReplacer(" ", "", "\u00a0", "").Replace(v)
	if v == "" {
		return decimal.Zero, errEmptyAmount
	}
	if len(v) > maxAmountText {
		return decimal.Zero, fmt.Errorf("%w: %d chars", errAmountMagnitude, len(v))
	}

	switch {
	case strings.Contains(v, ","):
		parts := strings.Split(v, ",")
		if len(parts) != 2 || parts[1] == "" || !brlIntRe.MatchString(parts[0]) {
			return decimal.Zero, fmt.Errorf("invalid amount %q", s)
		}
		v = strings.ReplaceAll(parts[0], ".", "") + "." + parts[1]
	case groupedIntRe.MatchString(v):
		v = strings.ReplaceAll(v, ".", "")
	}

	if !plainNumberRe.MatchString(v) {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, err
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// FormatBRL gera a forma canônica "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() && fixed != "0.00" {
		b.WriteString("-")
	}
	b.WriteString("R$ ")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// Stake é o valor apostado como chegou na requisição: número JSON ou
// string localizada. A conversão fica para a validação, assim um valor
// mal formado vira rejeição e não erro de decode.
type Stake struct {
	raw     string
	value   decimal.Decimal
	numeric bool
}

func StakeOf(d decimal.Decimal) Stake { return Stake{value: d, numeric: true} }

func StakeText(s string) Stake { return Stake{raw: s} }

// Decimal retorna o valor normalizado, já dentro da faixa monetária.
func (s Stake) Decimal() (decimal.Decimal, error) {
	if s.numeric {
		if err := CheckAmount(s.value); err != nil {
			return decimal.Zero, err
		}
		return s.value, nil
	}
	return ParseBRL(s.raw)
}

func (s Stake) String() string {
	if s.numeric {
		if CheckAmount(s.value) != nil {
			// sem expandir o expoente
			return s.value.Coefficient().String() + "e" + strconv.Itoa(int(s.value.Exponent()))
		}
		return s.value.String()
	}
	return s.raw
}

func (s *Stake) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = Stake{}
		return nil
	}
	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*s = StakeText(raw)
		return nil
	}
	// número longo demais vira texto e cai em invalid_amount na validação
	if len(b) > maxAmountText {
		*s = StakeText(string(b))
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*s = StakeOf(d)
	return nil
}

func (s Stake) MarshalJSON() ([]byte, error) {
	if d, err := s.Decimal(); err == nil {
		return json.Marshal(d.StringFixed(2))
	}
	return json.Marshal(s.raw)
}
