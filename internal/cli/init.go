// Init command for the candles CLI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/candles/internal/paths"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the candles config and data directories",
		Long: `Creates the configuration directory with a default config.yaml and
initializes the configured storage backend. Re-running init is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.settings
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			count := len(store.List())
			a.closeStore(store)

			if a.flags.jsonMode {
				return printJSON(cmd, map[string]any{
					"config_file": paths.ConfigFile(s.configDir),
					"data_dir":    s.storage.DataDir,
					"backend":     s.storage.Backend,
					"saved":       count,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", paths.ConfigFile(s.configDir))
			fmt.Fprintf(out, "Backend: %s\n", s.storage.Backend)
			fmt.Fprintf(out, "Data: %s\n", s.storage.DataDir)
			fmt.Fprintf(out, "Saved candles: %d\n", count)
			return nil
		},
	}
}
