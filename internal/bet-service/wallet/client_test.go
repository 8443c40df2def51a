package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	walletdto "github.com/radieske/jogo-do-bicho-platform/internal/bet-service/wallet/dto"
)

func TestCents(t *testing.T) {
	cases := map[string]int64{"2.00": 200, "1234.56": 123456, "0.01": 1, "10": 1000}
	for in, want := range cases {
		if got := Cents(decimal.RequireFromString(in)); got != want {
			t.Errorf("Cents(%s) = %d, want %d", in, got, want)
		}
	}
}

func TestReserve(t *testing.T) {
	var got walletdto.ReserveRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wallet/reserve" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(walletdto.ReserveResponse{ReservationID: "res-1", Status: "RESERVED"})
	}))
	defer srv.Close()

	id, err := New(srv.URL, time.Second).Reserve(context.Background(), "u1", decimal.RequireFromString("12.34"), "bet-1")
	if err != nil {
		t.Fatal(err)
	}
	if id != "res-1" {
		t.Errorf("reservation = %q", id)
	}
	if got.AmountCents != 1234 || got.ExternalRef != "bet-1" || got.UserID != "u1" {
		t.Errorf("request = %+v", got)
	}
}

func TestReserveInsufficientFunds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Reserve(context.Background(), "u1", decimal.NewFromInt(5), "bet-1")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
}

func TestRefund(t *testing.T) {
	var got walletdto.RefundRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wallet/refund" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL, time.Second).Refund(context.Background(), "u1", "bet-1", "persist_failed"); err != nil {
		t.Fatal(err)
	}
	if got.ExternalRef != "bet-1" || got.Reason != "persist_failed" {
		t.Errorf("request = %+v", got)
	}
}

func TestWalletServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).Refund(context.Background(), "u1", "bet-1", "")
	if err == nil || errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want generic error, got %v", err)
	}
}
