package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"stocksearch/internal/logging"
)

// newSuggestCmd prints the suggestions for one fragment
func newSuggestCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "suggest <fragment>",
		Short: "Print ticker suggestions for a fragment",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			ctx := logging.ContextWithRequestID(cmd.Context(), logging.NewRequestID())
			list, err := client.Suggest(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(list)
			}
			for _, s := range list {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	return cmd
}

// newQuoteCmd prints the record for one identifier
func newQuoteCmd(a *app) *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Print the company record for a ticker",
		Example: `  stocksearch quote AAPL
  stocksearch quote AAPL --field "metrics.Market Cap"`,
		Args: cobra.ExactArgs(1),
		RunE: a.guard(func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			ctx := logging.ContextWithRequestID(cmd.Context(), logging.NewRequestID())
			rec, err := client.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			if field != "" {
				fmt.Fprintln(cmd.OutOrStdout(), rec.Get(field).String())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), gjson.GetBytes(rec.Raw(), "@pretty").String())
			return nil
		}),
	}

	cmd.Flags().StringVar(&field, "field", "", "print a single field (gjson path)")
	return cmd
}
