// Package calc turns a water weight, a conversion factor and a fragrance
// percentage into the total, wax and fragrance weights of a candle.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/candles/pkg/types"
)

// DefaultConversionFactor is the water-to-wax factor offered before the user
// types one.
const DefaultConversionFactor = "0.86"

// Input field names, used in error messages and by the form.
const (
	FieldWater     = "water"
	FieldFactor    = "factor"
	FieldFragrance = "fragrance"
)

// Normalize converts comma decimal separators to dots so "8,5" parses as 8.5.
func Normalize(raw string) string {
	return strings.ReplaceAll(raw, ",", ".")
}

// Compute derives the candle weights from the three raw inputs.
//
// total is water * factor, the fragrance share is percent/100 of the total
// and wax is the remainder. Each output is rounded to two decimal places.
// Negative and zero inputs are computed as-is. Any unparseable input, or one
// outside the float64 range, returns an error wrapping types.ErrInvalidInput.
func Compute(water, factor, percent string) (types.Details, error) {
	w, err := parse(FieldWater, water)
	if err != nil {
		return types.Details{}, err
	}
	f, err := parse(FieldFactor, factor)
	if err != nil {
		return types.Details{}, err
	}
	p, err := parse(FieldFragrance, percent)
	if err != nil {
		return types.Details{}, err
	}

	total := w.Mul(f)
	fragrance := total.Mul(p).Shift(-2)
	wax := total.Sub(fragrance)
	for _, v := range []decimal.Decimal{total, fragrance, wax} {
		if !types.InRange(v) {
			return types.Details{}, fmt.Errorf("result out of range: %w", types.ErrInvalidInput)
		}
	}

	return types.Details{
		TotalWeight:     total.Round(types.WeightPlaces),
		WaxWeight:       wax.Round(types.WeightPlaces),
		FragranceWeight: fragrance.Round(types.WeightPlaces),
	}, nil
}

func parse(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%s: empty: %w", field, types.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a number: %w", field, raw, types.ErrInvalidInput)
	}

	// Inputs are bounded to the float64 range so products stay small enough
	// to multiply and round.
	f, err := strconv.ParseFloat(s, 64)
	switch {
	case err == nil && !math.IsInf(f, 0) && !math.IsNaN(f):
		return d, nil
	case errors.Is(err, strconv.ErrRange) && f == 0:
		// Underflows to zero, as a float parse does.
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("%s: %q is not a finite number: %w", field, raw, types.ErrInvalidInput)
	}
}
