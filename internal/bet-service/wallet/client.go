package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	walletdto "github.com/radieske/jogo-do-bicho-platform/internal/bet-service/wallet/dto"
)

// ErrInsufficientFunds indica que a carteira recusou a reserva por saldo.
var ErrInsufficientFunds = errors.New("wallet: insufficient funds")

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Cents converte o valor da aposta (já validado, 2 casas) para centavos.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Truncate(0).IntPart()
}

// Reserve bloqueia o valor da aposta na carteira do usuário.
func (c *Client) Reserve(ctx context.Context, userID string, amount decimal.Decimal, externalRef string) (string, error) {
	var out walletdto.ReserveResponse
	err := c.post(ctx, "/wallet/reserve", walletdto.ReserveRequest{
		UserID: userID, AmountCents: Cents(amount), ExternalRef: externalRef,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.ReservationID, nil
}

// Refund devolve uma reserva quando a aposta não pôde ser registrada.
func (c *Client) Refund(ctx context.Context, userID, externalRef, reason string) error {
	return c.post(ctx, "/wallet/refund", walletdto.RefundRequest{
		UserID: userID, ExternalRef: externalRef, Reason: reason,
	}, nil)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("wallet %s: %w", path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusPaymentRequired || res.StatusCode == http.StatusConflict:
		return ErrInsufficientFunds
	case res.StatusCode >= 300:
		return fmt.Errorf("wallet %s http %d", path, res.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("wallet %s decode: %w", path, err)
	}
	return nil
}
