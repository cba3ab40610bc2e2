package cli

import (
	"io"

	"github.com/spf13/cobra"

	"stocksearch/internal/logging"
)

// setupLogging configures logging from config and flags. The search screen
// logs to the configured file only; other commands log to stderr. Each
// package tags the base logger with its own component.
func (a *app) setupLogging(cmd *cobra.Command) {
	cfg := logging.Config{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
	}
	if a.opts.debug {
		cfg.Level = "debug"
	}

	var fallback io.Writer = cmd.ErrOrStderr()
	if cmd == cmd.Root() {
		cfg.File = a.cfg.Logging.File
		fallback = io.Discard
	}

	res, err := logging.New(cfg, fallback)
	a.logs = res
	a.logger = res.Logger
	a.log = logging.Component(res.Logger, "cli")
	if err != nil {
		cmd.PrintErrf("Warning: %v; logging disabled\n", err)
	}
}
