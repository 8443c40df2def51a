package dto

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/jogo-do-bicho-platform/internal/valuation"
)

// PlaceBetRequest é o corpo de POST /bets e POST /bets/quote.
// Os bichos chegam em campos separados (animalId..animalId5), como o front envia.
// As tags validate cobrem só o formato do payload; regras de aposta ficam com
// o motor de valoração, que devolve o motivo da rejeição.
type PlaceBetRequest struct {
	UserID          string           `json:"userId" validate:"required,max=64"`
	DrawID          int64            `json:"drawId"`
	SecondaryDrawID int64            `json:"secondaryDrawId,omitempty" validate:"omitempty,gt=0,nefield=DrawID"`
	GameModeID      int64            `json:"gameModeId"`
	Amount          valuation.Stake  `json:"amount"`
	Type            string           `json:"type" validate:"max=32"`
	PremioType      string           `json:"premioType" validate:"max=8"`
	AnimalID        *int             `json:"animalId,omitempty"`
	AnimalID2       *int             `json:"animalId2,omitempty"`
	AnimalID3       *int             `json:"animalId3,omitempty"`
	AnimalID4       *int             `json:"animalId4,omitempty"`
	AnimalID5       *int             `json:"animalId5,omitempty"`
	BetNumbers      []string         `json:"betNumbers,omitempty" validate:"max=5,dive,max=8"`
	PotentialWin    *decimal.Decimal `json:"potentialWinAmount,omitempty"` // o que o cliente exibiu
}

// Submission converte o request no formato do motor de valoração. Os bichos
// mantêm a posição do campo: um animalIdN vazio antes de outro preenchido
// vira 0, e o motor rejeita apontando esse campo. Vazios no fim são cortados.
func (r PlaceBetRequest) Submission() valuation.Submission {
	fields := []*int{r.AnimalID, r.AnimalID2, r.AnimalID3, r.AnimalID4, r.AnimalID5}
	last := -1
	for i, a := range fields {
		if a != nil {
			last = i
		}
	}
	var animals []int
	for _, a := range fields[:last+1] {
		if a == nil {
			animals = append(animals, 0)
			continue
		}
		animals = append(animals, *a)
	}
	return valuation.Submission{
		DrawID:          r.DrawID,
		GameModeID:      r.GameModeID,
		Type:            valuation.BetType(r.Type),
		Premio:          valuation.PremioType(r.PremioType),
		Stake:           r.Amount,
		Animals:         animals,
		Numbers:         r.BetNumbers,
		SecondaryDrawID: r.SecondaryDrawID,
	}
}
