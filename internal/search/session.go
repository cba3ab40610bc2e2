package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"stocksearch/internal/domain"
	"stocksearch/internal/eventbus"
	"stocksearch/internal/logging"
)

// Backend resolves fragments and identifiers. Both calls are read-only.
type Backend interface {
	Suggest(ctx context.Context, fragment string) ([]string, error)
	Resolve(ctx context.Context, identifier string) (domain.DetailRecord, error)
}

// Option configures a Session
type Option func(*Session)

// WithMinFragmentLength sets the suggestion trigger threshold
func WithMinFragmentLength(n int) Option {
	return func(s *Session) { s.minFragmentLength = n }
}

// WithBus publishes session events on the given bus
func WithBus(bus eventbus.EventBus) Option {
	return func(s *Session) { s.bus = bus }
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logging.Component(logger, "search") }
}

// WithRequestTimeout bounds every lookup; zero means no bound
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithCancelSuperseded controls whether issuing a request cancels the
// in-flight request of the same kind. Enabled by default.
func WithCancelSuperseded(enabled bool) Option {
	return func(s *Session) { s.cancelSuperseded = enabled }
}

// Session owns the state of one search widget. A single goroutine applies
// every user intent and every lookup completion, so transitions never
// interleave. Readers get immutable snapshots.
type Session struct {
	backend           Backend
	bus               eventbus.EventBus
	logger            zerolog.Logger
	timeout           time.Duration
	minFragmentLength int
	cancelSuperseded  bool

	ctx     context.Context
	cancel  context.CancelFunc
	ops     chan func()
	stopped chan struct{}
	once    sync.Once

	snapshot atomic.Pointer[State]
	updates  chan State

	// owned by the run loop
	state    State
	inflight map[domain.FetchKind]context.CancelFunc
}

// NewSession starts a session against the given backend
func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend:           backend,
		logger:            zerolog.Nop(),
		minFragmentLength: DefaultMinFragmentLength,
		cancelSuperseded:  true,
		ops:               make(chan func()),
		stopped:           make(chan struct{}),
		updates:           make(chan State, 1),
		inflight:          make(map[domain.FetchKind]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.state = NewState(s.minFragmentLength)
	initial := s.state.clone()
	s.snapshot.Store(&initial)

	go s.run()
	return s
}

// Snapshot returns the current state
func (s *Session) Snapshot() State {
	return s.snapshot.Load().clone()
}

// Updates delivers the newest state after every change. Only the latest
// undelivered state is kept.
func (s *Session) Updates() <-chan State {
	return s.updates
}

// Done is closed once the session has stopped
func (s *Session) Done() <-chan struct{} {
	return s.stopped
}

// SetQueryText records the raw text and, past the threshold, issues exactly
// one suggestion lookup for it
func (s *Session) SetQueryText(text string) error {
	return s.do(func() {
		next, req := s.state.WithQueryText(text)
		s.commit(next)
		if req != nil {
			s.start(*req)
		}
	})
}

// SetSelection records the committed selection; an empty id clears it
func (s *Session) SetSelection(id string) error {
	return s.do(func() {
		if s.state.Selection == id {
			return
		}
		s.commit(s.state.WithSelection(id))
		s.publish(domain.SelectionChangedEvent{Selection: id, Cleared: id == ""})
	})
}

// ClearSelection is SetSelection with no identifier
func (s *Session) ClearSelection() error {
	return s.SetSelection("")
}

// RequestDetail issues a detail lookup for the selection, falling back to
// the query text. It returns ErrNotActionable when both are empty.
func (s *Session) RequestDetail() error {
	var result error
	if err := s.do(func() {
		next, req, err := s.state.WithDetailRequest()
		if err != nil {
			result = err
			return
		}
		s.commit(next)
		s.start(*req)
	}); err != nil {
		return err
	}
	return result
}

// Close cancels every in-flight lookup and stops the session.
// No state changes are applied afterwards.
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

func (s *Session) run() {
	defer close(s.stopped)
	for {
		select {
		case f := <-s.ops:
			f()
		case <-s.ctx.Done():
			for _, cancel := range s.inflight {
				cancel()
			}
			return
		}
	}
}

// do runs f on the session goroutine and waits for it
func (s *Session) do(f func()) error {
	done := make(chan struct{})
	select {
	case s.ops <- func() { f(); close(done) }:
	case <-s.ctx.Done():
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-s.stopped:
		return ErrClosed
	}
}

// post hands a completion to the session goroutine without waiting
func (s *Session) post(f func()) {
	select {
	case s.ops <- f:
	case <-s.ctx.Done():
	}
}

func (s *Session) commit(next State) {
	s.state = next
	snap := next.clone()
	s.snapshot.Store(&snap)

	select {
	case <-s.updates:
	default:
	}
	s.updates <- snap.clone()
}

// start launches the lookup for req in its own goroutine
func (s *Session) start(req Request) {
	if cancel, ok := s.inflight[req.Kind]; ok && s.cancelSuperseded {
		cancel()
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(s.ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(s.ctx)
	}
	s.inflight[req.Kind] = cancel

	log := s.logger.With().Str("kind", string(req.Kind)).Uint64("seq", req.Seq).Str("key", req.Key).Logger()
	log.Debug().Msg("lookup issued")

	switch req.Kind {
	case domain.FetchSuggest:
		s.publish(domain.SuggestRequestedEvent{Seq: req.Seq, Fragment: req.Key})
	case domain.FetchDetail:
		s.publish(domain.DetailRequestedEvent{Seq: req.Seq, Identifier: req.Key})
	}

	go func() {
		list, rec, err := s.fetch(ctx, req)
		superseded := errors.Is(ctx.Err(), context.Canceled)
		cancel()
		s.post(func() { s.complete(req, superseded, list, rec, err, log) })
	}()
}

// fetch calls the backend, turning panics into failures
func (s *Session) fetch(ctx context.Context, req Request) (list []string, rec domain.DetailRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: backend panic: %v", ErrFetchFailed, r)
		}
	}()

	switch req.Kind {
	case domain.FetchSuggest:
		list, err = s.backend.Suggest(ctx, req.Key)
	case domain.FetchDetail:
		rec, err = s.backend.Resolve(ctx, req.Key)
		if err == nil && rec.IsZero() {
			err = errors.New("empty detail record")
		}
	}
	if err != nil && !errors.Is(err, ErrFetchFailed) {
		err = fmt.Errorf("%w: %s %q: %w", ErrFetchFailed, req.Kind, req.Key, err)
	}
	return list, rec, err
}

func (s *Session) complete(req Request, superseded bool, list []string, rec domain.DetailRecord, err error, log zerolog.Logger) {
	if s.ownsHandle(req) {
		delete(s.inflight, req.Kind)
	}

	if superseded {
		log.Debug().Msg("lookup superseded")
		s.publish(domain.ResponseDiscardedEvent{Kind: req.Kind, Seq: req.Seq, Key: req.Key, Reason: "cancelled"})
		return
	}

	if err != nil {
		next, outcome := s.state.WithFailure(req, err)
		s.commit(next)
		if outcome == OutcomeStale {
			log.Debug().Err(err).Stringer("outcome", outcome).Msg("failure discarded")
			s.publish(domain.ResponseDiscardedEvent{Kind: req.Kind, Seq: req.Seq, Key: req.Key, Reason: "stale"})
			return
		}
		log.Warn().Err(err).Msg("lookup failed")
		s.publish(domain.FetchFailedEvent{Kind: req.Kind, Seq: req.Seq, Key: req.Key, Err: err})
		return
	}

	var (
		next    State
		outcome Outcome
	)
	switch req.Kind {
	case domain.FetchSuggest:
		next, outcome = s.state.WithSuggestions(req.Seq, req.Key, list)
	case domain.FetchDetail:
		next, outcome = s.state.WithDetail(req.Seq, rec)
	}
	s.commit(next)

	if outcome == OutcomeStale {
		log.Debug().Stringer("outcome", outcome).Msg("response discarded")
		s.publish(domain.ResponseDiscardedEvent{Kind: req.Kind, Seq: req.Seq, Key: req.Key, Reason: "stale"})
		return
	}

	switch req.Kind {
	case domain.FetchSuggest:
		log.Debug().Int("count", len(list)).Msg("suggestions applied")
		s.publish(domain.SuggestAppliedEvent{Seq: req.Seq, Fragment: req.Key, Count: len(list)})
	case domain.FetchDetail:
		log.Debug().Str("symbol", rec.Symbol()).Msg("detail applied")
		s.publish(domain.DetailAppliedEvent{Seq: req.Seq, Symbol: rec.Symbol()})
	}
}

// ownsHandle reports whether the stored cancel handle was created for req
func (s *Session) ownsHandle(req Request) bool {
	switch req.Kind {
	case domain.FetchSuggest:
		return req.Seq == s.state.suggestIssued
	case domain.FetchDetail:
		return req.Seq == s.state.detailIssued
	}
	return false
}

func (s *Session) publish(event domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
