package commands

import (
	"fmt"
	"os"

	"github.com/rpgo/glidepath/internal/config"
	"github.com/spf13/cobra"
)

func newExampleConfigCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "example-config [file]",
		Short: "Write a documented example configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "glidepath.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.NewInputParser().WriteExampleConfiguration(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
