package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/candles/pkg/candles"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the candles version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.jsonMode {
				return printJSON(cmd, map[string]string{
					"version": candles.Version,
					"module":  candles.ModulePath,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "candles v%s\nmodule: %s\n", candles.Version, candles.ModulePath)
			return nil
		},
	}
}
