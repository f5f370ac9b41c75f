package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteOutput is the --json shape of the delete command.
type deleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved candle",
		Long:    `Deletes the saved candle with the given id. Deleting an unknown id does nothing and is not an error.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeStore(store)

			_, found := store.Get(id)
			store.Delete(cmd.Context(), id)

			if a.flags.jsonMode {
				return printJSON(cmd, deleteOutput{ID: id, Deleted: found})
			}
			if found {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No candle %s\n", id)
			}
			return nil
		},
	}
}
