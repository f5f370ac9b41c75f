package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/candles/internal/calc"
	"github.com/mesh-intelligence/candles/internal/form"
	"github.com/mesh-intelligence/candles/internal/view"
	"github.com/mesh-intelligence/candles/pkg/types"
)

// calcOutput is the --json shape of the calc command.
type calcOutput struct {
	Details types.Details       `json:"details"`
	Saved   *types.CandleRecord `json:"saved,omitempty"`
}

func (a *app) newCalcCmd() *cobra.Command {
	var (
		water     string
		factor    string
		fragrance string
		name      string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate wax and fragrance weights",
		Long: `Calculates the total, wax and fragrance weights for a container from the
water weight it holds. total = water * factor, fragrance = total * percent / 100,
wax = total - fragrance. Commas are accepted as decimal separators.

With --name the result is saved to the candle list.`,
		Example: `  candles calc --water 100 --fragrance 10
  candles calc --water 250 --factor 0,9 --fragrance 8 --name "Vanilla tin"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saving := cmd.Flags().Changed("name")

			var creator form.Creator
			if saving {
				store, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer a.closeStore(store)
				creator = store
			}

			f := a.newForm(creator)
			if err := f.SetInput(calc.FieldWater, water); err != nil {
				return userError("%w", err)
			}
			if cmd.Flags().Changed("factor") {
				if err := f.SetInput(calc.FieldFactor, factor); err != nil {
					return userError("%w", err)
				}
			}
			if err := f.SetInput(calc.FieldFragrance, fragrance); err != nil {
				return userError("%w", err)
			}
			if err := f.Calculate(); err != nil {
				return userError("calculate: %w", err)
			}

			out := calcOutput{Details: f.Results()}
			if saving {
				rec, err := saveForm(cmd, f, name)
				if err != nil {
					return err
				}
				out.Saved = &rec
			}

			if a.flags.jsonMode {
				return printJSON(cmd, out)
			}
			if err := view.RenderResults(cmd.OutOrStdout(), out.Details); err != nil {
				return sysError("write output: %w", err)
			}
			if out.Saved != nil {
				fmt.Fprintln(cmd.OutOrStdout(), savedMessage(*out.Saved))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&water, "water", "", "water weight the container holds, in grams (required)")
	cmd.Flags().StringVar(&factor, "factor", "", "wax conversion factor (default from config: 0.86)")
	cmd.Flags().StringVar(&fragrance, "fragrance", "", "fragrance load in percent (required)")
	cmd.Flags().StringVar(&name, "name", "", "save the result under this name")
	_ = cmd.MarkFlagRequired("water")
	_ = cmd.MarkFlagRequired("fragrance")

	return cmd
}

// saveForm walks a computed form through the name prompt and persists it.
func saveForm(cmd *cobra.Command, f *form.Controller, name string) (types.CandleRecord, error) {
	if err := f.SaveCandle(); err != nil {
		return types.CandleRecord{}, userError("save: %w", err)
	}
	if err := f.SetName(name); err != nil {
		return types.CandleRecord{}, userError("save: %w", err)
	}
	rec, err := f.Confirm(cmd.Context())
	if err != nil {
		if errors.Is(err, types.ErrEmptyName) {
			return types.CandleRecord{}, userError("save: enter a valid candle name: %w", err)
		}
		return types.CandleRecord{}, sysError("save: %w", err)
	}
	return rec, nil
}
