package valuation

import "fmt"

// BetType é a modalidade estrutural da aposta.
type BetType string

const (
	BetGroup         BetType = "group"
	BetDuqueGrupo    BetType = "duque_grupo"
	BetTernoGrupo    BetType = "terno_grupo"
	BetQuadraDuque   BetType = "quadra_duque"
	BetQuinaGrupo    BetType = "quina_grupo"
	BetDozen         BetType = "dozen"
	BetDuqueDezena   BetType = "duque_dezena"
	BetTernoDezena   BetType = "terno_dezena"
	BetHundred       BetType = "hundred"
	BetThousand      BetType = "thousand"
	BetPasseIda      BetType = "passe_ida"
	BetPasseIdaVolta BetType = "passe_ida_volta"
)

// NumGroups é a quantidade de grupos (bichos).
const NumGroups = 25

// Contract descreve o que uma modalidade exige da submissão.
type Contract struct {
	AnimalSlots        int  // bichos exigidos (0..5)
	NumericSlots       int  // números exigidos
	NumericDigits      int  // dígitos por número: 0, 2, 3 ou 4
	MultiPrizeEligible bool // aceita premioType "1-5"
	NeedsSecondaryDraw bool // passe ida e volta referencia um segundo sorteio
}

var contracts = map[BetType]Contract{
	BetGroup:         {AnimalSlots: 1, MultiPrizeEligible: true},
	BetDuqueGrupo:    {AnimalSlots: 2},
	BetTernoGrupo:    {AnimalSlots: 3},
	BetQuadraDuque:   {AnimalSlots: 4},
	BetQuinaGrupo:    {AnimalSlots: 5},
	BetDozen:         {NumericSlots: 1, NumericDigits: 2, MultiPrizeEligible: true},
	BetDuqueDezena:   {NumericSlots: 2, NumericDigits: 2},
	BetTernoDezena:   {NumericSlots: 3, NumericDigits: 2},
	BetHundred:       {NumericSlots: 1, NumericDigits: 3, MultiPrizeEligible: true},
	BetThousand:      {NumericSlots: 1, NumericDigits: 4, MultiPrizeEligible: true},
	BetPasseIda:      {AnimalSlots: 2},
	BetPasseIdaVolta: {AnimalSlots: 2, NeedsSecondaryDraw: true},
}

// Classify devolve o contrato estrutural da modalidade.
func Classify(t BetType) (Contract, error) {
	c, ok := contracts[t]
	if !ok {
		return Contract{}, fmt.Errorf("%w: %q", ErrInvalidBetType, string(t))
	}
	return c, nil
}

// BetTypes lista as modalidades conhecidas, na ordem de exibição.
func BetTypes() []BetType {
	return []BetType{
		BetGroup, BetDuqueGrupo, BetTernoGrupo, BetQuadraDuque, BetQuinaGrupo,
		BetDozen, BetDuqueDezena, BetTernoDezena, BetHundred, BetThousand,
		BetPasseIda, BetPasseIdaVolta,
	}
}
