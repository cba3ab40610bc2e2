package search

import (
	"unicode/utf8"

	"stocksearch/internal/domain"
)

// DefaultMinFragmentLength is the shortest query text that triggers a suggestion lookup
const DefaultMinFragmentLength = 2

// Request describes one lookup issued by a state transition
type Request struct {
	Kind domain.FetchKind
	Seq  uint64
	Key  string // fragment for suggestions, identifier for details
}

// Outcome reports what a completion did to the state
type Outcome int

const (
	// OutcomeApplied means the response replaced the previous value
	OutcomeApplied Outcome = iota
	// OutcomeStale means the response belonged to superseded input and was dropped
	OutcomeStale
)

func (o Outcome) String() string {
	if o == OutcomeApplied {
		return "applied"
	}
	return "stale"
}

// Failure records the most recent lookup that failed
type Failure struct {
	Kind domain.FetchKind
	Seq  uint64
	Key  string
	Err  error
}

// State is the complete, immutable state of one search widget.
// Every transition returns a new State; the receiver is never modified.
type State struct {
	QueryText   string
	Selection   string // empty when nothing is committed
	Suggestions []string
	Detail      domain.DetailRecord
	Failure     *Failure

	minFragmentLength int

	// Per-kind request sequence numbers. issued is the newest request,
	// settled the newest one whose response (of any kind) has been observed.
	suggestIssued  uint64
	suggestSettled uint64
	detailIssued   uint64
	detailSettled  uint64
}

// NewState returns the empty state a widget starts with
func NewState(minFragmentLength int) State {
	if minFragmentLength < 1 {
		minFragmentLength = DefaultMinFragmentLength
	}
	return State{minFragmentLength: minFragmentLength}
}

// MinFragmentLength returns the suggestion trigger threshold in runes
func (s State) MinFragmentLength() int {
	if s.minFragmentLength < 1 {
		return DefaultMinFragmentLength
	}
	return s.minFragmentLength
}

// WithQueryText records new raw text. When the text is long enough it also
// returns the suggestion request that must be issued for it.
func (s State) WithQueryText(text string) (State, *Request) {
	next := s
	next.QueryText = text
	if utf8.RuneCountInString(text) < s.MinFragmentLength() {
		return next, nil
	}

	next.suggestIssued++
	return next, &Request{Kind: domain.FetchSuggest, Seq: next.suggestIssued, Key: text}
}

// WithSelection records the committed selection; an empty id clears it
func (s State) WithSelection(id string) State {
	next := s
	next.Selection = id
	return next
}

// EffectiveIdentifier is the selection if there is one, the query text otherwise
func (s State) EffectiveIdentifier() string {
	if s.Selection != "" {
		return s.Selection
	}
	return s.QueryText
}

// CanRequestDetail reports whether a detail lookup would do anything
func (s State) CanRequestDetail() bool {
	return s.EffectiveIdentifier() != ""
}

// WithDetailRequest issues a detail lookup for the effective identifier.
// It returns ErrNotActionable and the unchanged state when there is nothing to look up.
func (s State) WithDetailRequest() (State, *Request, error) {
	id := s.EffectiveIdentifier()
	if id == "" {
		return s, nil, ErrNotActionable
	}

	next := s
	next.detailIssued++
	return next, &Request{Kind: domain.FetchDetail, Seq: next.detailIssued, Key: id}, nil
}

// DetailInFlight reports whether the newest detail request is still unanswered
func (s State) DetailInFlight() bool {
	return s.detailSettled < s.detailIssued
}

// SuggestInFlight reports whether the newest suggestion request is still unanswered
func (s State) SuggestInFlight() bool {
	return s.suggestSettled < s.suggestIssued
}

// WithSuggestions applies a suggestion response. It is dropped unless it is
// newer than every suggestion response already observed and its fragment is
// still the current query text.
func (s State) WithSuggestions(seq uint64, fragment string, list []string) (State, Outcome) {
	if seq <= s.suggestSettled || fragment != s.QueryText {
		next := s
		if seq > next.suggestSettled {
			next.suggestSettled = seq
		}
		return next, OutcomeStale
	}

	next := s
	next.suggestSettled = seq
	next.Suggestions = append([]string(nil), list...)
	next.Failure = clearFailure(s.Failure, domain.FetchSuggest)
	return next, OutcomeApplied
}

// WithDetail applies a detail response, replacing the record wholesale, unless
// a newer detail response has already been observed.
func (s State) WithDetail(seq uint64, rec domain.DetailRecord) (State, Outcome) {
	if seq <= s.detailSettled {
		return s, OutcomeStale
	}

	next := s
	next.detailSettled = seq
	next.Detail = rec
	next.Failure = clearFailure(s.Failure, domain.FetchDetail)
	return next, OutcomeApplied
}

// WithFailure records a failed lookup. The last good value is kept; a failure
// for a superseded request, or for a fragment that is no longer the query
// text, only settles its sequence number.
func (s State) WithFailure(req Request, err error) (State, Outcome) {
	next := s
	switch req.Kind {
	case domain.FetchSuggest:
		if req.Seq <= s.suggestSettled {
			return s, OutcomeStale
		}
		next.suggestSettled = req.Seq
		if req.Seq < s.suggestIssued || req.Key != s.QueryText {
			return next, OutcomeStale
		}
	case domain.FetchDetail:
		if req.Seq <= s.detailSettled {
			return s, OutcomeStale
		}
		next.detailSettled = req.Seq
		if req.Seq < s.detailIssued {
			return next, OutcomeStale
		}
	default:
		return s, OutcomeStale
	}

	next.Failure = &Failure{Kind: req.Kind, Seq: req.Seq, Key: req.Key, Err: err}
	return next, OutcomeApplied
}

// Failed reports whether the last lookup of the given kind failed
func (s State) Failed(kind domain.FetchKind) bool {
	return s.Failure != nil && s.Failure.Kind == kind
}

// clone detaches the suggestion slice so a snapshot can be handed out
func (s State) clone() State {
	out := s
	if s.Suggestions != nil {
		out.Suggestions = append([]string(nil), s.Suggestions...)
	}
	return out
}

func clearFailure(f *Failure, kind domain.FetchKind) *Failure {
	if f != nil && f.Kind == kind {
		return nil
	}
	return f
}
