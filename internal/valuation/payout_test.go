package valuation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAdjustMultiplier(t *testing.T) {
	for _, raw := range []string{"18", "4000", "7", "0.01", "123.456", "600"} {
		odds := d(raw)

		single, err := AdjustMultiplier(odds, PremioThird)
		if err != nil || !single.Equal(odds) {
			t.Errorf("single tier %s: got %s, %v", raw, single, err)
		}

		all, err := AdjustMultiplier(odds, PremioAll)
		if err != nil {
			t.Fatalf("1-5 %s: %v", raw, err)
		}
		if !all.Mul(decimal.NewFromInt(5)).Equal(odds) {
			t.Errorf("1-5 %s: got %s, not exactly raw/5", raw, all)
		}
	}

	if _, err := AdjustMultiplier(d("18"), "0"); !errors.Is(err, ErrUnsupportedPrizeType) {
		t.Errorf("want ErrUnsupportedPrizeType, got %v", err)
	}
}

func TestResolveMultiplierEligibility(t *testing.T) {
	for _, bt := range BetTypes() {
		c, err := Classify(bt)
		if err != nil {
			t.Fatal(err)
		}
		_, err = ResolveMultiplier(c, d("10"), PremioAll)
		if c.MultiPrizeEligible && err != nil {
			t.Errorf("%s: unexpected error %v", bt, err)
		}
		if !c.MultiPrizeEligible && !errors.Is(err, ErrUnsupportedPrizeType) {
			t.Errorf("%s: want ErrUnsupportedPrizeType, got %v", bt, err)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		bt      BetType
		animals int
		numbers int
		digits  int
	}{
		{BetGroup, 1, 0, 0},
		{BetDuqueGrupo, 2, 0, 0},
		{BetTernoGrupo, 3, 0, 0},
		{BetQuadraDuque, 4, 0, 0},
		{BetQuinaGrupo, 5, 0, 0},
		{BetDozen, 0, 1, 2},
		{BetDuqueDezena, 0, 2, 2},
		{BetTernoDezena, 0, 3, 2},
		{BetHundred, 0, 1, 3},
		{BetThousand, 0, 1, 4},
		{BetPasseIda, 2, 0, 0},
		{BetPasseIdaVolta, 2, 0, 0},
	}
	for _, tc := range cases {
		c, err := Classify(tc.bt)
		if err != nil {
			t.Fatalf("%s: %v", tc.bt, err)
		}
		if c.AnimalSlots != tc.animals || c.NumericSlots != tc.numbers || c.NumericDigits != tc.digits {
			t.Errorf("%s: got %+v", tc.bt, c)
		}
	}
	if _, err := Classify("milhar_invertida"); !errors.Is(err, ErrInvalidBetType) {
		t.Errorf("want ErrInvalidBetType, got %v", err)
	}
}

func TestComputePotentialWinTruncates(t *testing.T) {
	maxPayout := d("1000000")
	cases := []struct {
		stake, odds, want string
	}{
		{"2.00", "18", "36"},
		{"5.00", "3.6", "18"},
		{"0.33", "3.6", "1.18"},     // 1.188
		{"1.99", "0.37", "0.73"},    // 0.7363
		{"3.33", "33.33", "110.98"}, // 110.9889
	}
	for _, tc := range cases {
		stake, odds := d(tc.stake), d(tc.odds)
		got, err := ComputePotentialWin(stake, odds, maxPayout)
		if err != nil {
			t.Fatalf("%s x %s: %v", tc.stake, tc.odds, err)
		}
		if !got.Equal(d(tc.want)) {
			t.Errorf("%s x %s = %s, want %s", tc.stake, tc.odds, got, tc.want)
		}
		if got.GreaterThan(stake.Mul(odds)) {
			t.Errorf("%s x %s: %s above exact product", tc.stake, tc.odds, got)
		}
	}
}

func TestComputePotentialWinMonotonic(t *testing.T) {
	odds := d("3.6")
	maxPayout := d("1000000")
	prev := decimal.Zero
	for cents := int64(1); cents <= 5000; cents += 7 {
		stake := decimal.New(cents, -2)
		got, err := ComputePotentialWin(stake, odds, maxPayout)
		if err != nil {
			t.Fatal(err)
		}
		if got.LessThan(prev) {
			t.Fatalf("stake %s: %s below previous %s", stake, got, prev)
		}
		prev = got
	}
}

func TestComputePotentialWinLimit(t *testing.T) {
	_, err := ComputePotentialWin(d("10"), d("4000"), d("10000"))
	var pl *PayoutLimitError
	if !errors.As(err, &pl) {
		t.Fatalf("want PayoutLimitError, got %v", err)
	}
	if !pl.SuggestedMaxStake.Equal(d("2.5")) {
		t.Errorf("suggested = %s", pl.SuggestedMaxStake)
	}

	// o valor sugerido precisa caber no teto
	win, err := ComputePotentialWin(pl.SuggestedMaxStake, d("4000"), d("10000"))
	if err != nil || !win.Equal(d("10000")) {
		t.Errorf("suggested stake win = %s, %v", win, err)
	}

	if got := MaxStakeFor(d("100"), d("3")); !got.Equal(d("33.33")) {
		t.Errorf("MaxStakeFor(100, 3) = %s, want 33.33", got)
	}
	if got := MaxStakeFor(d("100"), decimal.Zero); !got.IsZero() {
		t.Errorf("MaxStakeFor with zero odds = %s", got)
	}
}

func TestOddsTableActive(t *testing.T) {
	tbl := NewOddsTable(testSnapshot().GameModes)
	active := tbl.Active()
	if len(active) != 3 {
		t.Fatalf("active = %d, want 3", len(active))
	}
	for i := 1; i < len(active); i++ {
		if active[i-1].ID >= active[i].ID {
			t.Errorf("not ordered: %v", active)
		}
	}
	if _, err := tbl.GetOdds(modeOff); !errors.Is(err, ErrGameModeNotFound) {
		t.Errorf("inactive mode: want ErrGameModeNotFound, got %v", err)
	}
}

func TestSystemSettingsValidate(t *testing.T) {
	ok := testSnapshot().Settings
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid settings: %v", err)
	}

	bad := ok
	bad.MinBetAmount = d("600")
	if bad.Validate() == nil {
		t.Error("min above max should fail")
	}
	bad = ok
	bad.DefaultBetAmount = d("0.5")
	if bad.Validate() == nil {
		t.Error("default below min should fail")
	}
	bad = ok
	bad.MaxPayout = decimal.Zero
	if bad.Validate() == nil {
		t.Error("zero max payout should fail")
	}
}
