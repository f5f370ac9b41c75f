package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WeightPlaces is the number of decimal places every weight is stored and
// displayed with.
const WeightPlaces = 2

// maxMagnitude is the number of integer digits of the largest float64.
const maxMagnitude = 309

// magnitude returns the position of the leading digit of d relative to the
// decimal point: 1 for 5, 3 for 100, -2 for 0.005. It never rescales d, so
// it is cheap for any exponent.
func magnitude(d decimal.Decimal) int64 {
	c := d.Coefficient()
	return int64(len(c.Abs(c).String())) + int64(d.Exponent())
}

// InRange reports whether d lies within the float64 range. Weights beyond it
// cannot be rounded or printed in bounded time.
func InRange(d decimal.Decimal) bool {
	return d.IsZero() || magnitude(d) <= maxMagnitude
}

// decodeWeight bounds a decoded weight. Values too small to survive rounding
// to WeightPlaces become zero.
func decodeWeight(name string, d decimal.Decimal) (decimal.Decimal, error) {
	if !InRange(d) {
		return decimal.Zero, fmt.Errorf("decode details: %s out of range: %w", name, ErrInvalidInput)
	}
	if !d.IsZero() && magnitude(d) < -WeightPlaces {
		return decimal.Zero, nil
	}
	return d, nil
}

// Details holds the three derived weights of a calculation, in grams.
type Details struct {
	TotalWeight     decimal.Decimal
	WaxWeight       decimal.Decimal
	FragranceWeight decimal.Decimal
}

// detailsJSON is the persisted shape of Details. Weights are written as
// fixed two-decimal strings.
type detailsJSON struct {
	TotalWeight     decimal.Decimal `json:"totalWeight"`
	WaxWeight       decimal.Decimal `json:"waxWeight"`
	FragranceWeight decimal.Decimal `json:"fragranceWeight"`
}

type fixedDetailsJSON struct {
	TotalWeight     string `json:"totalWeight"`
	WaxWeight       string `json:"waxWeight"`
	FragranceWeight string `json:"fragranceWeight"`
}

// MarshalJSON writes each weight as a two-decimal string ("86.00").
func (d Details) MarshalJSON() ([]byte, error) {
	return json.Marshal(fixedDetailsJSON{
		TotalWeight:     d.TotalWeight.StringFixed(WeightPlaces),
		WaxWeight:       d.WaxWeight.StringFixed(WeightPlaces),
		FragranceWeight: d.FragranceWeight.StringFixed(WeightPlaces),
	})
}

// UnmarshalJSON accepts weights as quoted strings or bare numbers. Missing
// weights decode as zero. Weights outside the float64 range are rejected
// with ErrInvalidInput.
func (d *Details) UnmarshalJSON(data []byte) error {
	var raw detailsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode details: %w", err)
	}

	total, err := decodeWeight("totalWeight", raw.TotalWeight)
	if err != nil {
		return err
	}
	wax, err := decodeWeight("waxWeight", raw.WaxWeight)
	if err != nil {
		return err
	}
	fragrance, err := decodeWeight("fragranceWeight", raw.FragranceWeight)
	if err != nil {
		return err
	}
	*d = Details{TotalWeight: total, WaxWeight: wax, FragranceWeight: fragrance}
	return nil
}

// Equal reports whether both triples hold the same weights at storage
// precision.
func (d Details) Equal(other Details) bool {
	return d.TotalWeight.Round(WeightPlaces).Equal(other.TotalWeight.Round(WeightPlaces)) &&
		d.WaxWeight.Round(WeightPlaces).Equal(other.WaxWeight.Round(WeightPlaces)) &&
		d.FragranceWeight.Round(WeightPlaces).Equal(other.FragranceWeight.Round(WeightPlaces))
}

// CandleRecord is a saved calculation with a user-given name and the day it
// was created. Records are immutable once created.
type CandleRecord struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Date    string  `json:"date"`
	Details Details `json:"details"`
}

// Equal reports whether two records match field by field.
func (r CandleRecord) Equal(other CandleRecord) bool {
	return r.ID == other.ID &&
		r.Name == other.Name &&
		r.Date == other.Date &&
		r.Details.Equal(other.Details)
}

// NormalizeName trims surrounding whitespace from a candle name.
// Returns ErrEmptyName if nothing is left.
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	return trimmed, nil
}

// FormatDate renders the day-month creation stamp, e.g. "7-3" for 7 March.
// No zero padding, no year.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Day(), int(t.Month()))
}
