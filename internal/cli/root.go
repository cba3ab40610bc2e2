// Package cli wires the stocksearch commands together.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stocksearch/internal/config"
	"stocksearch/internal/eventbus"
	"stocksearch/internal/logging"
)

// EnvE2E switches the terminal UI into test-harness mode
const EnvE2E = "STOCKSEARCH_E2E_TEST"

// rootOptions holds the persistent flags
type rootOptions struct {
	configPath string
	debug      bool
	backendURL string
}

// app is the state shared by every command after PersistentPreRunE
type app struct {
	opts      rootOptions
	configSvc config.ConfigService
	cfg       *config.Config
	logs      *logging.Result
	logger    zerolog.Logger // base logger handed to packages
	log       zerolog.Logger // the cli's own lines
	bus       eventbus.EventBus
	unsub     []func()
	lookupEnv func(string) (string, bool)
}

// NewRootCmd creates the root command. Without a subcommand it starts the
// interactive search screen.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmdWithEnv(version, os.LookupEnv)
}

func newRootCmdWithEnv(version string, lookupEnv func(string) (string, bool)) *cobra.Command {
	a := &app{logger: zerolog.Nop(), log: zerolog.Nop(), lookupEnv: lookupEnv}

	cmd := &cobra.Command{
		Use:   "stocksearch",
		Short: "Search stock tickers as you type",
		Long: `stocksearch suggests ticker symbols while you type and shows the
company record for the one you pick.

Suggestions are fetched from the backend once the query is long enough;
answers for text you have already changed are discarded.`,
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.cleanup()
		},
		RunE: a.guard(func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd)
		}),
	}

	cmd.PersistentFlags().StringVar(&a.opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().BoolVar(&a.opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&a.opts.backendURL, "backend", "", "backend base URL (overrides config and "+config.EnvBackendURL+")")

	cmd.AddCommand(newServeCmd(a), newSuggestCmd(a), newQuoteCmd(a), newConfigCmd(a))
	return cmd
}

const rootCmdExample = `  # Start the search screen against the configured backend
  stocksearch

  # Run the bundled backend in another terminal
  stocksearch serve --listen 127.0.0.1:5000

  # One-shot lookups for scripts
  stocksearch suggest AA
  stocksearch quote AAPL

  # Write the default configuration
  stocksearch config init`

// Execute runs the root command with signal handling and returns the exit code
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// setup loads configuration, then logging, then the event bus
// annotationSkipConfigLoad marks commands that run on defaults so a broken
// config file cannot block them
const annotationSkipConfigLoad = "stocksearch/skip-config-load"

func (a *app) setup(cmd *cobra.Command) error {
	a.configSvc = config.NewConfigService(a.opts.configPath)
	cfg := config.DefaultConfig()
	if _, skip := cmd.Annotations[annotationSkipConfigLoad]; !skip {
		loaded, err := a.configSvc.Load()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.opts.backendURL != "" {
		cfg.Backend.URL = a.opts.backendURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.setupLogging(cmd)

	a.bus = eventbus.New(a.logger)
	a.unsub = subscribeDiagnostics(a.bus, a.logger)
	a.configSvc = config.NewConfigServiceWithBus(a.configSvc.Path(), a.bus)
	a.bus.Publish(eventbus.ConfigLoadedEvent{Path: a.configSvc.Path(), BackendURL: cfg.Backend.URL})

	a.log.Debug().Str("command", cmd.Name()).Str("config", a.configSvc.Path()).Msg("command started")
	return nil
}

func (a *app) cleanup() error {
	for _, unsub := range a.unsub {
		unsub()
	}
	a.unsub = nil
	if a.bus != nil {
		a.bus.Close()
		a.bus = nil
	}
	return a.logs.Close()
}

// guard runs cleanup when a command fails; cobra skips post-run hooks then
func (a *app) guard(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err != nil {
			_ = a.cleanup()
		}
		return err
	}
}

// e2eMode reports whether a terminal test harness drives the process
func (a *app) e2eMode() bool {
	v, ok := a.lookupEnv(EnvE2E)
	return ok && v == "1"
}
