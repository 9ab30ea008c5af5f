// Package cli is the clickmate command line: a thin driver over app.App.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"clickmate/internal/app"
	"clickmate/internal/config"
	"clickmate/internal/logger"
	"clickmate/internal/profiles"
)

// Exit codes, one per error kind a script may want to branch on.
const (
	ExitError           = 1
	ExitNotInitialized  = 2
	ExitEnvironment     = 3
	ExitWrongPassphrase = 4
	ExitNotFound        = 5
)

type cli struct {
	configPath      string
	debug           bool
	passphraseStdin bool

	app *app.App
}

func newRoot(version string) (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:           "clickmate",
		Short:         "Manage encrypted ClickHouse connection profiles",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			level, _ := logger.ParseLevel(cfg.Log.Level)
			if c.debug {
				level = slog.LevelDebug
			}
			logger.InitLogger(level, cfg.Log.File)

			c.app = app.NewApp(version, cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file path (default ~/.config/clickmate/config.yaml)")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.passphraseStdin, "passphrase-stdin", false, "read the passphrase from the first line of stdin")

	root.AddCommand(
		c.newStatusCmd(),
		c.newInitCmd(),
		c.newListCmd(),
		c.newGetCmd(),
		c.newAddCmd(),
		c.newUpdateCmd(),
		c.newDeleteCmd(),
		c.newImportCmd(),
	)
	return root, c
}

// close releases the store and the log file on every exit path.
func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Lock(); err != nil {
			logger.Warn("closing profile store", "error", err)
		}
	}
	logger.Close()
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(version string, args []string) int {
	return run(version, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(version string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd, c := newRoot(version)
	defer c.close()

	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		printError(stderr, err)
		return ExitCode(err)
	}
	return 0
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	kind := profiles.Classify(err)
	switch {
	case kind == profiles.KindFirstTime:
		return ExitNotInitialized
	case kind.Environmental():
		return ExitEnvironment
	case kind == profiles.KindWrongPassphrase:
		return ExitWrongPassphrase
	case kind == profiles.KindNotFound:
		return ExitNotFound
	default:
		return ExitError
	}
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	switch kind := profiles.Classify(err); {
	case kind == profiles.KindFirstTime:
		yellow.Fprintln(w, "No profile database yet. Run `clickmate init` to create one.")
	case kind.Environmental():
		red.Fprintf(w, "Environment problem: %v\n", err)
	case kind == profiles.KindWrongPassphrase:
		red.Fprintln(w, "The passphrase does not unlock this profile database.")
	case kind == profiles.KindNotFound:
		yellow.Fprintf(w, "Not found: %v\n", err)
	default:
		red.Fprintf(w, "Error: %v\n", err)
	}
}

// unlock opens the store, refusing to create it implicitly: only init does.
func (c *cli) unlock(cmd *cobra.Command) error {
	state, err := c.app.Status()
	if err != nil {
		return err
	}
	if state == app.StateOnboarding {
		return fmt.Errorf("open profile database: %w", profiles.ErrFirstTime)
	}
	pass, err := readPassphrase(cmd, c.passphraseStdin, false)
	if err != nil {
		return err
	}
	return c.app.Unlock(pass)
}

var errAlreadyInitialized = errors.New("profile database already exists")
