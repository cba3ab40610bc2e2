package cli

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"stocksearch/internal/backend"
	"stocksearch/internal/search"
	"stocksearch/internal/ui"
)

// newClient builds the backend client from the loaded configuration
func (a *app) newClient() (*backend.Client, error) {
	return backend.NewClient(a.cfg.Backend.URL,
		backend.WithTimeout(time.Duration(a.cfg.Backend.Timeout)),
		backend.WithLogger(a.logger),
	)
}

// runTUI starts the interactive search screen
func (a *app) runTUI(cmd *cobra.Command) error {
	client, err := a.newClient()
	if err != nil {
		return err
	}

	session := search.NewSession(client,
		search.WithMinFragmentLength(a.cfg.Search.MinFragmentLength),
		search.WithBus(a.bus),
		search.WithLogger(a.logger),
		search.WithRequestTimeout(time.Duration(a.cfg.Backend.Timeout)),
	)
	defer session.Close()

	model := ui.NewModel(session, ui.Settings{
		MinFragmentLength: a.cfg.Search.MinFragmentLength,
		MaxVisible:        a.cfg.Search.MaxVisibleSuggestions,
		Ready:             a.e2eMode(),
		Logger:            a.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	model.SetProgram(p)

	a.log.Info().Str("backend", client.BaseURL()).Msg("starting search screen")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			a.log.Info().Msg("search screen interrupted")
			return nil
		}
		return fmt.Errorf("run search screen: %w", err)
	}
	a.log.Info().Msg("search screen closed")
	return nil
}
