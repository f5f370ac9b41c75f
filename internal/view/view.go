// Package view renders calculator results and the saved candle list for the
// terminal.
package view

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/candles/pkg/types"
)

// EmptyListMessage is printed when no candles are saved.
const EmptyListMessage = "No saved candles"

func grams(d types.Details) (total, wax, fragrance string) {
	return d.TotalWeight.StringFixed(types.WeightPlaces),
		d.WaxWeight.StringFixed(types.WeightPlaces),
		d.FragranceWeight.StringFixed(types.WeightPlaces)
}

// RenderResults writes the results block of the calculator.
func RenderResults(w io.Writer, d types.Details) error {
	total, wax, fragrance := grams(d)
	_, err := fmt.Fprintf(w,
		"Total weight (wax + fragrance): %s g\nWax: %s g\nFragrance: %s g\n",
		total, wax, fragrance)
	return err
}

// RenderRecord writes one saved candle.
func RenderRecord(w io.Writer, r types.CandleRecord) error {
	total, wax, fragrance := grams(r.Details)
	_, err := fmt.Fprintf(w,
		"%s\n  Date: %s\n  ID: %s\n  Total weight: %s g\n  Wax: %s g\n  Fragrance: %s g\n",
		r.Name, r.Date, r.ID, total, wax, fragrance)
	return err
}

// RenderList writes every record in order, separated by blank lines, or
// EmptyListMessage when there are none.
func RenderList(w io.Writer, records []types.CandleRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, EmptyListMessage)
		return err
	}
	for i, r := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := RenderRecord(w, r); err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes v as indented JSON. A nil record slice is written as [].
func RenderJSON(w io.Writer, v any) error {
	if recs, ok := v.([]types.CandleRecord); ok && recs == nil {
		v = []types.CandleRecord{}
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
