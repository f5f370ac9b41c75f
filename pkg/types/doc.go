// Package types defines the candle record model, the storage interfaces and
// the standard error values shared by the calculator, the record store and
// the CLI.
package types
