package config

import (
	"fmt"

	"github.com/spf13/cobra"

	appconfig "tvmanager/internal/infrastructure/config"
	"tvmanager/internal/interfaces/cli/cliutil"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	cmd.AddCommand(newInitCommand())
	return cmd
}

func newInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = cliutil.ConfigPath()
			}
			if path == "" {
				path = "./configs/config.yaml"
			}
			if err := appconfig.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Destination file (default: --config or ./configs/config.yaml)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
