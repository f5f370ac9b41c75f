// Package cli implements the candles command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/candles/internal/logging"
	"github.com/mesh-intelligence/candles/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// ExitCode maps a command error to a process exit code. Errors raised by
// cobra itself (bad flags, wrong arity) count as user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by one command tree.
type app struct {
	flags    rootFlags
	settings settings
	logger   zerolog.Logger
}

// NewRootCmd creates the top-level "candles" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "candles",
		Short: "Candle wax and fragrance calculator",
		Long: `Candles works out how much wax and fragrance oil a candle needs from the
water weight its container holds, a wax conversion factor and a fragrance
percentage. Results can be saved under a name and reviewed later.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/candles)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.candles-db)")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", fmt.Sprintf("storage backend %v (default from config: sqlite)", types.Backends()))
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(a.newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newCalcCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newDeleteCmd())
	root.AddCommand(a.newShellCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCode(err))
	}
}

// setup loads configuration and builds the logger before any subcommand
// runs. The version and help commands need neither.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "help":
		return nil
	}

	s, err := loadSettings(a.flags)
	if err != nil {
		return sysError("load config: %w", err)
	}
	a.settings = s
	a.logger = logging.New(s.logLevel, cmd.ErrOrStderr())
	a.logger.Debug().
		Str("config_dir", s.configDir).
		Str("data_dir", s.storage.DataDir).
		Str("backend", s.storage.Backend).
		Msg("configuration loaded")
	return nil
}
