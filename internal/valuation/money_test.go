package valuation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseBRL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"R$ 1.234,56", "1234.56"},
		{"R$1.234,56", "1234.56"},
		{"1234,56", "1234.56"},
		{"  2,5 ", "2.5"},
		{"1.000", "1000"},
		{"1.000.000,00", "1000000"},
		{"12.50", "12.5"},
		{"10", "10"},
		{"R$ 0,01", "0.01"},
		{"R$ 10,00", "10"},
	}
	for _, tc := range cases {
		got, err := ParseBRL(tc.in)
		if err != nil {
			t.Errorf("ParseBRL(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(d(tc.want)) {
			t.Errorf("ParseBRL(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseBRLInvalid(t *testing.T) {
	for _, in := range []string{"", "R$", "abc", "1,2,3", "12.34,5", "1,", "1e3", "1.2.3", "-", "1234567890123456,00", "0,0000000000000001", "1111111111111111111111111111111111111111111"} {
		if v, err := ParseBRL(in); err == nil {
			t.Errorf("ParseBRL(%q) = %s, expected error", in, v)
		}
	}
}

func TestFormatBRLRoundTrip(t *testing.T) {
	cases := []struct {
		in        string
		canonical string
	}{
		{"1234,56", "R$ 1.234,56"},
		{"R$1.234,5", "R$ 1.234,50"},
		{"12.50", "R$ 12,50"},
		{"1.000", "R$ 1.000,00"},
		{"0,01", "R$ 0,01"},
		{"999", "R$ 999,00"},
		{"1000000", "R$ 1.000.000,00"},
	}
	for _, tc := range cases {
		v, err := ParseBRL(tc.in)
		if err != nil {
			t.Fatalf("ParseBRL(%q): %v", tc.in, err)
		}
		if got := FormatBRL(v); got != tc.canonical {
			t.Errorf("FormatBRL(ParseBRL(%q)) = %q, want %q", tc.in, got, tc.canonical)
		}
		back, err := ParseBRL(tc.canonical)
		if err != nil || !back.Equal(v) {
			t.Errorf("ParseBRL(%q) = %s, %v; want %s", tc.canonical, back, err, v)
		}
	}
}

func TestFormatBRLNegative(t *testing.T) {
	if got := FormatBRL(d("-1234.5")); got != "-R$ 1.234,50" {
		t.Errorf("got %q", got)
	}
}

func TestStakeUnmarshalJSON(t *testing.T) {
	var body struct {
		A Stake `json:"a"`
		B Stake `json:"b"`
		C Stake `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 1234.56, "b": "R$ 1.234,56", "c": null}`), &body); err != nil {
		t.Fatal(err)
	}
	a, errA := body.A.Decimal()
	b, errB := body.B.Decimal()
	if errA != nil || errB != nil {
		t.Fatalf("decimal: %v %v", errA, errB)
	}
	if !a.Equal(b) {
		t.Errorf("number %s and localized string %s differ", a, b)
	}
	if _, err := body.C.Decimal(); err == nil {
		t.Error("null stake should not normalize")
	}

	out, err := json.Marshal(body.B)
	if err != nil || string(out) != `"1234.56"` {
		t.Errorf("marshal = %s, %v", out, err)
	}
}

func TestCheckAmount(t *testing.T) {
	ok := []decimal.Decimal{
		d("0.01"), d("500"), d("999999999999999"), d("0.000000000000001"),
		decimal.New(1, 3), decimal.Zero,
	}
	for _, v := range ok {
		if err := CheckAmount(v); err != nil {
			t.Errorf("CheckAmount(%s): %v", v, err)
		}
	}

	bad := []decimal.Decimal{
		decimal.New(1, 20000000),
		decimal.New(-1, 20000000),
		decimal.New(1, -20000000),
		d("1000000000000000"),
		decimal.New(1, 16),
	}
	for _, v := range bad {
		if err := CheckAmount(v); !errors.Is(err, errAmountMagnitude) {
			t.Errorf("CheckAmount(%se%d) = %v, want errAmountMagnitude", v.Coefficient(), v.Exponent(), err)
		}
	}
}

func TestStakeHugeExponent(t *testing.T) {
	var body struct {
		A Stake `json:"a"`
	}
	if err := json.Unmarshal([]byte(`{"a": 1e20000000}`), &body); err != nil {
		t.Fatal(err)
	}
	if _, err := body.A.Decimal(); !errors.Is(err, errAmountMagnitude) {
		t.Fatalf("want errAmountMagnitude, got %v", err)
	}
	if got := body.A.String(); got != "1e20000000" {
		t.Errorf("String() = %q", got)
	}
}
