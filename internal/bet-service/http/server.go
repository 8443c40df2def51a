package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/jogo-do-bicho-platform/internal/bet-service/dto"
	"github.com/radieske/jogo-do-bicho-platform/internal/bet-service/repo"
	"github.com/radieske/jogo-do-bicho-platform/internal/bet-service/wallet"
	"github.com/radieske/jogo-do-bicho-platform/internal/valuation"
	"github.com/radieske/jogo-do-bicho-platform/pkg/contracts/events"
)

// Catalog entrega o snapshot de modalidades/limites vigente e o motor
// montado sobre ele.
type Catalog interface {
	Snapshot(ctx context.Context) (valuation.Snapshot, error)
	Engine(ctx context.Context) (*valuation.Engine, error)
}

// limite do corpo de POST /bets e /bets/quote
const maxBodyBytes = 16 << 10

type BetStore interface {
	CreatePending(ctx context.Context, b *repo.Bet) error
	GetStatus(ctx context.Context, betID string) (string, error)
}

type Wallet interface {
	Reserve(ctx context.Context, userID string, amount decimal.Decimal, externalRef string) (string, error)
	Refund(ctx context.Context, userID, externalRef, reason string) error
}

type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
}

type Server struct {
	log      *zap.Logger
	catalog  Catalog
	repo     BetStore
	wcli     Wallet
	publ     Publisher
	metrics  *Metrics
	validate *validator.Validate
	newID    func() string
}

func NewServer(log *zap.Logger, c Catalog, r BetStore, w Wallet, p Publisher, m *Metrics) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())
	// erros de validação saem com o nome do campo JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Server{
		log: log, catalog: c, repo: r, wcli: w, publ: p, metrics: m,
		validate: v,
		newID:    uuid.NewString,
	}
}

// Router retorna o roteador HTTP com os endpoints REST
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/game-modes", s.listGameModes)    // modalidades ativas
	r.Get("/system-settings", s.getSettings) // limites vigentes
	r.Post("/bets/quote", s.quoteBet)        // simula sem reservar
	r.Post("/bets", s.placeBet)              // registra a aposta
	r.Get("/bets/{id}", s.getBetStatus)      // status da aposta
	return r
}

func (s *Server) listGameModes(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, valuation.NewOddsTable(snap.GameModes).Active())
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Settings)
}

// quoteBet roda a valoração completa e devolve o Quote, aceito ou não.
func (s *Server) quoteBet(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r, "UserID")
	if !ok {
		return
	}
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}

	q := engine.ValidateAndPrice(req.Submission())
	s.metrics.observeQuote(q)
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}

	// 1) Valoração com o snapshot vigente; o valor do cliente é só conferido
	q := engine.ValidateAndPrice(req.Submission())
	s.metrics.observeQuote(q)
	if !q.Accepted {
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: q.Rejection.Reason, Rejection: q.Rejection, Quote: &q,
		})
		return
	}
	if req.PotentialWin != nil && !req.PotentialWin.Equal(*q.PotentialWin) {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{
			Error: "potential_win_mismatch", Quote: &q,
		})
		return
	}

	// 2) Reserva saldo via wallet (external_ref = betID)
	betID := s.newID()
	if _, err := s.wcli.Reserve(r.Context(), req.UserID, *q.Stake, betID); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "insufficient_funds"})
			return
		}
		s.log.Error("wallet reserve failed", zap.String("bet_id", betID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: "wallet_unavailable"})
		return
	}

	// 3) Persiste PENDING com as odds usadas
	bet := &repo.Bet{
		ID:              betID,
		UserID:          req.UserID,
		DrawID:          req.DrawID,
		SecondaryDrawID: req.SecondaryDrawID,
		GameModeID:      req.GameModeID,
		BetType:         req.Type,
		PremioType:      req.PremioType,
		Animals:         req.Submission().Animals,
		Numbers:         req.BetNumbers,
		Amount:          *q.Stake,
		RawOdds:         *q.RawOdds,
		EffectiveOdds:   *q.EffectiveOdds,
		PotentialWin:    *q.PotentialWin,
	}
	if err := s.repo.CreatePending(r.Context(), bet); err != nil {
		s.log.Error("persist bet failed", zap.String("bet_id", betID), zap.Error(err))
		s.refund(req.UserID, betID)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "persist_failed"})
		return
	}

	// 4) Publica evento bet_placed
	if err := s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:           betID,
		UserID:          bet.UserID,
		DrawID:          bet.DrawID,
		SecondaryDrawID: bet.SecondaryDrawID,
		GameModeID:      bet.GameModeID,
		BetType:         bet.BetType,
		PremioType:      bet.PremioType,
		Animals:         bet.Animals,
		Numbers:         bet.Numbers,
		Amount:          bet.Amount,
		RawOdds:         bet.RawOdds,
		EffectiveOdds:   bet.EffectiveOdds,
		PotentialWin:    bet.PotentialWin,
		ReservedRef:     betID,
	}); err != nil {
		// aposta já está gravada como PENDING; a confirmação reprocessa pendentes
		s.log.Warn("publish bet_placed failed", zap.String("bet_id", betID), zap.Error(err))
	}
	s.metrics.BetsPlaced.Inc()

	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{
		BetID:         betID,
		Status:        repo.StatusPending,
		Amount:        bet.Amount,
		EffectiveOdds: bet.EffectiveOdds,
		PotentialWin:  bet.PotentialWin,
	})
}

func (s *Server) getBetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid betId"})
		return
	}

	st, err := s.repo.GetStatus(r.Context(), id)
	if errors.Is(err, repo.ErrBetNotFound) {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}
	if err != nil {
		s.log.Error("get bet status", zap.String("bet_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "internal"})
		return
	}

	writeJSON(w, http.StatusOK, dto.BetStatusResponse{BetID: id, Status: st})
}

// refund desfaz a reserva fora do ctx da requisição, que pode já ter acabado.
func (s *Server) refund(userID, betID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.wcli.Refund(ctx, userID, betID, "persist_failed"); err != nil {
		s.log.Error("wallet refund failed", zap.String("bet_id", betID), zap.Error(err))
		s.metrics.RefundFailures.Inc()
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, except ...string) (dto.PlaceBetRequest, bool) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return req, false
	}
	// valor exibido pelo cliente é comparado com o calculado; fora da faixa
	// monetária nem chega à comparação
	if req.PotentialWin != nil {
		if err := valuation.CheckAmount(*req.PotentialWin); err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error: "invalid payload", Details: map[string]string{"potentialWinAmount": "amount"},
			})
			return req, false
		}
	}

	var err error
	if len(except) > 0 {
		err = s.validate.StructExcept(req, except...)
	} else {
		err = s.validate.Struct(req)
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload", Details: details})
		return req, false
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return req, false
	}
	return req, true
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (valuation.Snapshot, bool) {
	snap, err := s.catalog.Snapshot(r.Context())
	if err != nil {
		s.log.Error("catalog unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "catalog_unavailable"})
		return snap, false
	}
	return snap, true
}

func (s *Server) engine(w http.ResponseWriter, r *http.Request) (*valuation.Engine, bool) {
	e, err := s.catalog.Engine(r.Context())
	if err != nil {
		s.log.Error("catalog unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "catalog_unavailable"})
		return nil, false
	}
	return e, true
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
