package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/candles/internal/view"
)

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved candles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeStore(store)

			records := store.List()
			if a.flags.jsonMode {
				return printJSON(cmd, records)
			}
			if err := view.RenderList(cmd.OutOrStdout(), records); err != nil {
				return sysError("write output: %w", err)
			}
			return nil
		},
	}
}
