package cli

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"stocksearch/internal/market"
	"stocksearch/internal/server"
)

// newServeCmd runs the bundled lookup backend
func newServeCmd(a *app) *cobra.Command {
	var (
		listen     string
		dataset    string
		maxResults int
		latency    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bundled ticker backend",
		Long: `Serves ticker suggestions and company records over HTTP from a YAML
dataset. Without --dataset the built-in sample companies are used.`,
		Example: `  # Serve the built-in dataset
  stocksearch serve

  # Serve a custom dataset with random delays of up to 800ms
  stocksearch serve --dataset companies.yaml --latency 800ms`,
		Args: cobra.NoArgs,
		RunE: a.guard(func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("listen") {
				listen = a.cfg.Server.Listen
			}
			if !cmd.Flags().Changed("dataset") {
				dataset = a.cfg.Server.Dataset
			}
			if !cmd.Flags().Changed("max-results") {
				maxResults = a.cfg.Server.MaxPrefixResults
			}
			if latency < 0 {
				return fmt.Errorf("latency must be >= 0, got %s", latency)
			}

			dir, err := market.Load(dataset, maxResults, a.logger)
			if err != nil {
				return err
			}

			srv := server.New(dir,
				server.WithLogger(a.logger),
				server.WithLatency(latency),
			)

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d companies on http://%s\n", dir.Len(), ln.Addr())
			return srv.Serve(cmd.Context(), ln)
		}),
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config)")
	cmd.Flags().StringVar(&dataset, "dataset", "", "YAML company dataset (default: built-in)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "descendants returned per prefix (default from config)")
	cmd.Flags().DurationVar(&latency, "latency", 0, "add a random delay up to this long to each response")

	return cmd
}
