// Interactive calculator session for the candles CLI.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/candles/internal/calc"
	"github.com/mesh-intelligence/candles/internal/form"
	"github.com/mesh-intelligence/candles/internal/view"
	"github.com/mesh-intelligence/candles/pkg/types"
)

const shellPrompt = "candles> "

const shellHelp = `Commands:
  water <grams>        set the water weight
  factor <value>       set the conversion factor
  fragrance <percent>  set the fragrance percentage
  calc                 calculate from the current inputs
  results              show the last results
  save                 save the results (opens the name prompt)
  name <text>          set the candle name
  confirm              save under the current name
  cancel               close the name prompt
  list                 show saved candles
  delete <id>          delete a saved candle
  state                show the form
  help                 show this help
  quit                 leave the shell
`

// shellSession is one interactive form bound to a record store.
type shellSession struct {
	app   *app
	store types.RecordStore
	form  *form.Controller
	out   io.Writer
}

func (a *app) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive calculator session",
		Long: `Reads commands from standard input, one per line. Edit the inputs, calculate,
then save the result under a name. Type help for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeStore(store)

			s := &shellSession{
				app:   a,
				store: store,
				form:  a.newForm(store),
				out:   cmd.OutOrStdout(),
			}
			return s.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// run reads lines from in until quit or end of input.
func (s *shellSession) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, shellPrompt)
	for scanner.Scan() {
		verb, arg := splitCommand(scanner.Text())
		if verb == "quit" || verb == "exit" {
			return nil
		}
		if verb != "" {
			s.dispatch(ctx, verb, arg)
		}
		fmt.Fprint(s.out, shellPrompt)
	}
	fmt.Fprintln(s.out)
	if err := scanner.Err(); err != nil {
		return sysError("read input: %w", err)
	}
	return nil
}

// splitCommand splits a line into its verb and the rest of the line.
func splitCommand(line string) (verb, arg string) {
	line = strings.TrimSpace(line)
	verb, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(verb), strings.TrimSpace(arg)
}

func (s *shellSession) dispatch(ctx context.Context, verb, arg string) {
	switch verb {
	case calc.FieldWater, calc.FieldFactor, calc.FieldFragrance:
		s.setInput(verb, arg)
	case "calc":
		s.calculate()
	case "results":
		s.printResults()
	case "save":
		s.save()
	case "name":
		s.setName(arg)
	case "confirm":
		s.confirm(ctx)
	case "cancel":
		if err := s.form.Cancel(); err != nil {
			s.println("Nothing to cancel.")
		}
	case "list":
		if err := view.RenderList(s.out, s.store.List()); err != nil {
			s.app.logger.Error().Err(err).Msg("render list")
		}
	case "delete":
		s.delete(ctx, arg)
	case "state":
		s.printState()
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	default:
		s.printf("Unknown command %q. Type help for the command list.\n", verb)
	}
}

func (s *shellSession) setInput(field, raw string) {
	if err := s.form.SetInput(field, raw); err != nil {
		s.printf("%v\n", err)
	}
}

// calculate ignores invalid input unless the shell is configured to report
// it. Previous results stay on screen either way.
func (s *shellSession) calculate() {
	if err := s.form.Calculate(); err != nil {
		if s.app.settings.reportInvalidInput {
			s.printf("Invalid input: %v\n", err)
		}
		return
	}
	s.printResults()
}

func (s *shellSession) printResults() {
	if err := view.RenderResults(s.out, s.form.Results()); err != nil {
		s.app.logger.Error().Err(err).Msg("render results")
	}
}

func (s *shellSession) save() {
	if err := s.form.SaveCandle(); err != nil {
		if errors.Is(err, form.ErrNotCalculated) {
			s.println("Calculate before saving.")
			return
		}
		s.printf("%v\n", err)
		return
	}
	s.println("Enter a name for the candle with: name <text>, then confirm or cancel.")
}

func (s *shellSession) setName(name string) {
	if err := s.form.SetName(name); err != nil {
		s.println("No name prompt is open. Use save first.")
	}
}

func (s *shellSession) confirm(ctx context.Context) {
	rec, err := s.form.Confirm(ctx)
	switch {
	case err == nil:
		s.println(savedMessage(rec))
	case errors.Is(err, types.ErrEmptyName):
		s.println("Enter a valid candle name.")
	case errors.Is(err, form.ErrNoPrompt):
		s.println("No name prompt is open. Use save first.")
	default:
		s.printf("Could not save: %v\n", err)
	}
}

func (s *shellSession) delete(ctx context.Context, id string) {
	if id == "" {
		s.println("Usage: delete <id>")
		return
	}
	_, found := s.store.Get(id)
	s.store.Delete(ctx, id)
	if found {
		s.printf("Deleted %s\n", id)
	} else {
		s.printf("No candle %s\n", id)
	}
}

func (s *shellSession) printState() {
	in := s.form.Inputs()
	s.printf("State: %s\n", s.form.State())
	s.printf("Water: %s\nFactor: %s\nFragrance: %s\n", in.Water, in.Factor, in.Fragrance)
	if s.form.State() == form.NamingPending {
		s.printf("Name: %s\n", s.form.Name())
	}
}

func (s *shellSession) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *shellSession) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
