package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/radieske/jogo-do-bicho-platform/internal/valuation"
)

// Metrics agrupa os contadores expostos em /metrics pelo bet-service.
type Metrics struct {
	Quotes         *prometheus.CounterVec
	BetsPlaced     prometheus.Counter
	RefundFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bet_quotes_total", Help: "valorações por resultado e motivo de rejeição",
		}, []string{"result", "reason"}),
		BetsPlaced:     prometheus.NewCounter(prometheus.CounterOpts{Name: "bets_placed_total", Help: "apostas registradas como pendentes"}),
		RefundFailures: prometheus.NewCounter(prometheus.CounterOpts{Name: "bet_refund_failures_total", Help: "reservas que não puderam ser devolvidas"}),
	}
	reg.MustRegister(m.Quotes, m.BetsPlaced, m.RefundFailures)
	return m
}

func (m *Metrics) observeQuote(q valuation.Quote) {
	if q.Accepted {
		m.Quotes.WithLabelValues("accepted", "").Inc()
		return
	}
	m.Quotes.WithLabelValues("rejected", q.Rejection.Reason).Inc()
}
