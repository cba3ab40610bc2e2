package cli

import (
	"github.com/rs/zerolog"

	"stocksearch/internal/eventbus"
	"stocksearch/internal/logging"
)

// subscribeDiagnostics logs the selection and config events. Lookup events
// are logged by the search session itself.
func subscribeDiagnostics(bus eventbus.EventBus, logger zerolog.Logger) []func() {
	log := logging.Component(logger, "events")

	types := []eventbus.EventType{
		eventbus.EventSelectionChanged,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
	}

	unsub := make([]func(), 0, len(types))
	for _, t := range types {
		unsub = append(unsub, bus.Subscribe(t, func(e eventbus.DomainEvent) {
			logEvent(log, e)
		}))
	}
	return unsub
}

func logEvent(log zerolog.Logger, e eventbus.DomainEvent) {
	switch ev := e.(type) {
	case eventbus.SelectionChangedEvent:
		log.Debug().Str("selection", ev.Selection).Bool("cleared", ev.Cleared).Msg("selection changed")
	case eventbus.ConfigLoadedEvent:
		log.Info().Str("path", ev.Path).Str("backend", ev.BackendURL).Msg("config loaded")
	case eventbus.ConfigSavedEvent:
		log.Info().Str("path", ev.Path).Msg("config saved")
	default:
		log.Debug().Str("event", string(e.Type())).Interface("payload", e).Msg("event")
	}
}
