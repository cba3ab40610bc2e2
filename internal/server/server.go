// Package server is the reference lookup service behind `stocksearch serve`.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stocksearch/internal/domain"
	"stocksearch/internal/logging"
	"stocksearch/internal/market"
	"stocksearch/internal/trie"
)

const shutdownTimeout = 5 * time.Second

const msgTickerRequired = "Ticker symbol required"

// Directory is the dataset the server answers from
type Directory interface {
	Search(prefix string) ([]trie.Match, error)
	Suggest(prefix string) ([]string, error)
	Lookup(symbol string) (domain.Company, error)
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the access and error logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logging.Component(logger, "server") }
}

// WithLatency delays each lookup by a random duration below upper. Useful for
// watching out-of-order responses being reconciled by the client.
func WithLatency(upper time.Duration) Option {
	return func(s *Server) { s.latency = upper }
}

// Server serves suggestions and detail records over HTTP
type Server struct {
	dir     Directory
	logger  zerolog.Logger
	latency time.Duration
	mux     *http.ServeMux
}

// New creates a server over dir
func New(dir Directory, opts ...Option) *Server {
	s := &Server{
		dir:    dir,
		logger: zerolog.Nop(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/suggestions/{query}", s.handleSuggestions)
	s.mux.HandleFunc("GET /api/stock/{symbol}", s.handleStock)
	s.mux.HandleFunc("GET /search", s.handleSearch)
	s.mux.HandleFunc("GET /companyinfo", s.handleCompanyInfo)
	s.mux.HandleFunc("GET /dividends", s.handleDividends)
	s.mux.HandleFunc("GET /graphs", s.handleGraphs)
	s.mux.HandleFunc("GET /stockprice", s.handleStockPrice)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Handler returns the full middleware-wrapped handler
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withRecovery(s.mux))
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if !s.delay(r.Context()) {
		return
	}
	query := r.PathValue("query")
	symbols, err := s.dir.Suggest(query)
	if errors.Is(err, trie.ErrInvalidSymbol) {
		// no stored symbol can match
		symbols = nil
	} else if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	writeJSON(w, http.StatusOK, symbols)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	if !s.delay(r.Context()) {
		return
	}
	company, err := s.dir.Lookup(r.PathValue("symbol"))
	if err != nil {
		s.writeLookupError(w, r, err, "Stock not found")
		return
	}
	writeJSON(w, http.StatusOK, market.NewDetail(company))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToUpper(r.URL.Query().Get("prefix"))
	matches, err := s.dir.Search(prefix)
	if errors.Is(err, trie.ErrInvalidSymbol) {
		s.writeError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	} else if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	pairs := make([][2]any, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, [2]any{m.Symbol, m.MarketCap})
	}
	writeJSON(w, http.StatusOK, pairs)
}

func (s *Server) handleCompanyInfo(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		s.writeError(w, r, http.StatusBadRequest, msgTickerRequired, nil)
		return
	}
	company, err := s.dir.Lookup(ticker)
	if err != nil {
		s.writeLookupError(w, r, err, "Company not found")
		return
	}
	writeJSON(w, http.StatusOK, market.Info(company))
}

func (s *Server) handleDividends(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		s.writeError(w, r, http.StatusBadRequest, msgTickerRequired, nil)
		return
	}

	rows := [][2]any{}
	company, err := s.dir.Lookup(ticker)
	if err != nil && !errors.Is(err, market.ErrUnknownSymbol) {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}
	for _, d := range company.Dividends {
		rows = append(rows, [2]any{d.Date, d.Amount})
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleGraphs lists the yearly figures as rows; an unknown ticker has none
func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		s.writeError(w, r, http.StatusBadRequest, msgTickerRequired, nil)
		return
	}

	company, err := s.dir.Lookup(ticker)
	if err != nil && !errors.Is(err, market.ErrUnknownSymbol) {
		s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}
	writeJSON(w, http.StatusOK, market.FinancialRows(company))
}

func (s *Server) handleStockPrice(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		s.writeError(w, r, http.StatusBadRequest, msgTickerRequired, nil)
		return
	}
	company, err := s.dir.Lookup(ticker)
	if err != nil {
		s.writeLookupError(w, r, err, "Stock not found")
		return
	}
	writeJSON(w, http.StatusOK, market.Prices(company))
}

func (s *Server) writeLookupError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, market.ErrUnknownSymbol) {
		s.writeError(w, r, http.StatusNotFound, notFound, err)
		return
	}
	s.writeError(w, r, http.StatusInternalServerError, err.Error(), err)
}

// writeError sends {"error": msg} and logs err
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	event := s.logger.Debug()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Str("request_id", logging.RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Str("error_message", msg).
		AnErr("cause", err).
		Msg("request failed")
	writeJSON(w, status, map[string]string{"error": msg})
}

// delay applies the configured latency; false means the client went away
func (s *Server) delay(ctx context.Context) bool {
	if s.latency <= 0 {
		return true
	}
	t := time.NewTimer(rand.N(s.latency))
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
