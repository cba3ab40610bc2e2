package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"stocksearch/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

// newConfigInitCmd writes the default configuration
func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Example: `  stocksearch config init
  stocksearch config init --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfigLoad: "true"},
		RunE: a.guard(func(cmd *cobra.Command, _ []string) error {
			path := a.configSvc.Path()
			if !force {
				_, err := os.Stat(path)
				if err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			if err := a.configSvc.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file: %s\n", path)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	return cmd
}

// newConfigShowCmd prints the effective configuration
func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: a.guard(func(cmd *cobra.Command, _ []string) error {
			data, err := toml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", a.configSvc.Path())
			_, err = out.Write(data)
			return err
		}),
	}
}
