// Shared helpers for candles CLI commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/candles/internal/form"
	"github.com/mesh-intelligence/candles/internal/logging"
	"github.com/mesh-intelligence/candles/internal/view"
	"github.com/mesh-intelligence/candles/pkg/candles"
	"github.com/mesh-intelligence/candles/pkg/types"
)

// openStore connects the configured backend and loads the saved list. The
// caller must Close the returned store.
func (a *app) openStore(ctx context.Context) (types.RecordStore, error) {
	store, err := candles.Open(ctx, a.settings.storage, a.logger)
	if err != nil {
		return nil, sysError("attach backend: %w", err)
	}
	return store, nil
}

// closeStore closes store and logs a failure; closing never changes the
// command result.
func (a *app) closeStore(store types.RecordStore) {
	if err := store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close backend")
	}
}

// newForm builds a calculator form bound to store using configured defaults.
func (a *app) newForm(store form.Creator) *form.Controller {
	return form.New(store,
		form.WithConversionFactor(a.settings.conversionFactor),
		form.RequireCalculation(a.settings.requireCalculation),
		form.WithLogger(logging.Component(a.logger, "form")),
	)
}

// printJSON writes v as indented JSON to the command output.
func printJSON(cmd *cobra.Command, v any) error {
	if err := view.RenderJSON(cmd.OutOrStdout(), v); err != nil {
		return sysError("write output: %w", err)
	}
	return nil
}

func savedMessage(rec types.CandleRecord) string {
	return fmt.Sprintf("Saved candle %q (%s)", rec.Name, rec.ID)
}
