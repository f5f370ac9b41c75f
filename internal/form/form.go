// Package form holds the transient calculator form: three raw inputs, the
// staged results and the name prompt used to save them.
//
// A Controller moves between three states:
//
//	Editing --Calculate(valid)--> Computed --SaveCandle--> NamingPending
//	NamingPending --Confirm(non-empty name)--> Editing (record created)
//	NamingPending --Confirm(empty name)--> NamingPending
//	NamingPending --Cancel--> Editing
//
// Any input edit re-enters Editing. A Controller is not safe for concurrent
// use; it belongs to one interactive session.
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/candles/internal/calc"
	"github.com/mesh-intelligence/candles/pkg/types"
)

// State is the position of the form in its save workflow.
type State int

// Form states.
const (
	Editing State = iota
	Computed
	NamingPending
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Computed:
		return "computed"
	case NamingPending:
		return "naming"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Form errors.
var (
	ErrUnknownField  = errors.New("unknown input field")
	ErrNotCalculated = errors.New("calculate before saving")
	ErrNoPrompt      = errors.New("no name prompt is open")
)

// Creator persists a confirmed candle.
type Creator interface {
	Create(ctx context.Context, name string, details types.Details) (types.CandleRecord, error)
}

// Inputs are the raw, comma-normalized strings typed into the form.
type Inputs struct {
	Water     string
	Factor    string
	Fragrance string
}

// Controller drives the form state machine.
type Controller struct {
	store              Creator
	logger             zerolog.Logger
	requireCalculation bool

	state      State
	inputs     Inputs
	results    types.Details
	calculated bool
	name       string
}

// Option configures a Controller.
type Option func(*Controller)

// WithConversionFactor sets the initial conversion factor input. An empty
// factor keeps the default.
func WithConversionFactor(factor string) Option {
	return func(c *Controller) {
		if factor != "" {
			c.inputs.Factor = calc.Normalize(factor)
		}
	}
}

// RequireCalculation makes SaveCandle refuse to open the name prompt until a
// calculation has succeeded. Off by default: saving the zero-valued default
// results is allowed.
func RequireCalculation(require bool) Option {
	return func(c *Controller) {
		c.requireCalculation = require
	}
}

// WithLogger sets the logger used for ignored invalid input.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New returns a Controller in the Editing state with the default conversion
// factor filled in.
func New(store Creator, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: zerolog.Nop(),
		state:  Editing,
		inputs: Inputs{Factor: calc.DefaultConversionFactor},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Inputs returns the current raw inputs.
func (c *Controller) Inputs() Inputs { return c.inputs }

// Results returns the staged results. They are zero until the first
// successful calculation and are kept across later edits.
func (c *Controller) Results() types.Details { return c.results }

// Calculated reports whether any calculation has succeeded.
func (c *Controller) Calculated() bool { return c.calculated }

// Name returns the pending candle name.
func (c *Controller) Name() string { return c.name }

// SetInput stores raw (with commas normalized to dots) in the named field and
// re-enters Editing, closing an open name prompt. Staged results are kept.
func (c *Controller) SetInput(field, raw string) error {
	value := calc.Normalize(raw)
	switch field {
	case calc.FieldWater:
		c.inputs.Water = value
	case calc.FieldFactor:
		c.inputs.Factor = value
	case calc.FieldFragrance:
		c.inputs.Fragrance = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	c.state = Editing
	return nil
}

// Calculate computes results from the current inputs. On success the results
// are staged and the form moves to Computed. Invalid input returns an error
// wrapping types.ErrInvalidInput and leaves state and results untouched.
func (c *Controller) Calculate() error {
	details, err := calc.Compute(c.inputs.Water, c.inputs.Factor, c.inputs.Fragrance)
	if err != nil {
		c.logger.Debug().Err(err).Msg("calculation ignored")
		return err
	}
	c.results = details
	c.calculated = true
	c.state = Computed
	return nil
}

// SaveCandle opens the name prompt for the staged results.
func (c *Controller) SaveCandle() error {
	if c.requireCalculation && !c.calculated {
		return ErrNotCalculated
	}
	c.state = NamingPending
	return nil
}

// SetName updates the pending name. Requires an open prompt.
func (c *Controller) SetName(name string) error {
	if c.state != NamingPending {
		return ErrNoPrompt
	}
	c.name = name
	return nil
}

// Confirm saves the staged results under the pending name. An empty name
// returns types.ErrEmptyName and keeps the prompt open. On success the name
// is cleared and the form returns to Editing.
func (c *Controller) Confirm(ctx context.Context) (types.CandleRecord, error) {
	if c.state != NamingPending {
		return types.CandleRecord{}, ErrNoPrompt
	}
	if _, err := types.NormalizeName(c.name); err != nil {
		return types.CandleRecord{}, err
	}

	rec, err := c.store.Create(ctx, c.name, c.results)
	if err != nil {
		return types.CandleRecord{}, fmt.Errorf("create candle: %w", err)
	}
	c.name = ""
	c.state = Editing
	return rec, nil
}

// Cancel closes the name prompt without saving. The pending name is kept for
// the next prompt.
func (c *Controller) Cancel() error {
	if c.state != NamingPending {
		return ErrNoPrompt
	}
	c.state = Editing
	return nil
}
