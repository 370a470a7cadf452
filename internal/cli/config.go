package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/evotodo/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usage("usage: evotodo config <show|path>")
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.Config.YAML()
			if err != nil {
				return err
			}
			_, err = a.Out.Write(b)
			return err
		},
	}, &cobra.Command{
		Use:   "path",
		Short: "Print the config file locations, global first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(a.Out, config.GlobalPath())
			fmt.Fprintln(a.Out, config.ProjectPath())
			return nil
		},
	})
	return cmd
}
