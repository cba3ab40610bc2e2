package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSuggestRequested  EventType = "SuggestRequested"
	EventSuggestApplied    EventType = "SuggestApplied"
	EventResponseDiscarded EventType = "ResponseDiscarded"
	EventDetailRequested   EventType = "DetailRequested"
	EventDetailApplied     EventType = "DetailApplied"
	EventFetchFailed       EventType = "FetchFailed"
	EventSelectionChanged  EventType = "SelectionChanged"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// FetchKind distinguishes the two lookups a session issues
type FetchKind string

const (
	FetchSuggest FetchKind = "suggest"
	FetchDetail  FetchKind = "detail"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SuggestRequestedEvent is emitted when a suggestion lookup is issued
type SuggestRequestedEvent struct {
	Seq      uint64
	Fragment string
}

func (e SuggestRequestedEvent) Type() EventType { return EventSuggestRequested }

// SuggestAppliedEvent is emitted when a suggestion list replaces the previous one
type SuggestAppliedEvent struct {
	Seq      uint64
	Fragment string
	Count    int
}

func (e SuggestAppliedEvent) Type() EventType { return EventSuggestApplied }

// ResponseDiscardedEvent is emitted when a response arrives for superseded input
type ResponseDiscardedEvent struct {
	Kind   FetchKind
	Seq    uint64
	Key    string
	Reason string
}

func (e ResponseDiscardedEvent) Type() EventType { return EventResponseDiscarded }

// DetailRequestedEvent is emitted when a detail lookup is issued
type DetailRequestedEvent struct {
	Seq        uint64
	Identifier string
}

func (e DetailRequestedEvent) Type() EventType { return EventDetailRequested }

// DetailAppliedEvent is emitted when a detail record replaces the previous one
type DetailAppliedEvent struct {
	Seq    uint64
	Symbol string
}

func (e DetailAppliedEvent) Type() EventType { return EventDetailApplied }

// FetchFailedEvent is emitted when a lookup fails; state is left unchanged
type FetchFailedEvent struct {
	Kind FetchKind
	Seq  uint64
	Key  string
	Err  error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// SelectionChangedEvent is emitted when the committed selection changes
type SelectionChangedEvent struct {
	Selection string
	Cleared   bool
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path       string
	BackendURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
