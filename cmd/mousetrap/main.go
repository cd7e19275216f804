package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yourusername/mousetrap/internal/config"
	"github.com/yourusername/mousetrap/internal/logging"
	"github.com/yourusername/mousetrap/internal/output"
	"github.com/yourusername/mousetrap/internal/trap"
)

const (
	version       = "1.0.0"
	versionBanner = "mousetrap v%s\nMIT License, see README for details\n"
)

var (
	configPath   string
	noNotify     bool
	offsetTop    int
	offsetBottom int
	offsetLeft   int
	offsetRight  int
	pollInterval time.Duration
	statusMode   bool
	showVersion  bool
	jsonOutput   bool
	noColor      bool
	debugMode    bool

	helpRequested bool

	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	keyColor     = color.New(color.FgYellow)
)

// usageError makes execute print usage and exit with failure.
// err is nil when usage was asked for rather than caused by bad input.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	if e.err == nil {
		return "usage requested"
	}
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// rootCmd is the only command
var rootCmd = &cobra.Command{
	Use:   "mousetrap",
	Short: "Trap the mouse pointer inside the window under it",
	Long: `Mousetrap confines the mouse pointer to the window currently under it.

Running it once traps the pointer. Running it again stops the first
instance and releases the pointer, so it is meant to be bound to a hotkey.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.NoArgs(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func run(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf(versionBanner, version)
		return &usageError{}
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	app := trap.New(settings, logging.Logger)
	if statusMode {
		return showStatus(app)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	outcome, err := app.Run(ctx)
	if err != nil {
		return err
	}
	logging.Info().Str("outcome", outcome.String()).Msg("exiting")
	return nil
}

// loadSettings layers changed flags over the config file over the defaults
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Settings{}, err
	}
	settings, err := cfg.Resolve()
	if err != nil {
		return settings, fmt.Errorf("invalid config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("top") {
		settings.Offsets.Top = offsetTop
	}
	if flags.Changed("bottom") {
		settings.Offsets.Bottom = offsetBottom
	}
	if flags.Changed("left") {
		settings.Offsets.Left = offsetLeft
	}
	if flags.Changed("right") {
		settings.Offsets.Right = offsetRight
	}
	if flags.Changed("interval") {
		settings.PollInterval = pollInterval
	}
	if noNotify {
		settings.Notify = false
	}

	if err := settings.Validate(); err != nil {
		return settings, &usageError{err: err}
	}

	logging.Debug().
		Str("offsets", fmt.Sprintf("%+v", settings.Offsets)).
		Bool("notify", settings.Notify).
		Dur("interval", settings.PollInterval).
		Str("marker", settings.MarkerPath).
		Msg("settings resolved")
	return settings, nil
}

func showStatus(app *trap.App) error {
	st, err := app.Status()
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(st)
	}

	if st.Active {
		successColor.Println("✓ Mousetrap is active")
	} else {
		keyColor.Println("Mousetrap is not running")
	}
	output.PrintStatusTable(os.Stdout, st)
	return nil
}

func init() {
	defaults := config.Defaults()

	flags := rootCmd.Flags()
	flags.BoolVarP(&noNotify, "no-notify", "n", false, "Turn off desktop notifications")
	flags.IntVarP(&offsetTop, "top", "t", defaults.Offsets.Top, "Offset from the top of the window")
	flags.IntVarP(&offsetBottom, "bottom", "b", defaults.Offsets.Bottom, "Offset from the bottom of the window")
	flags.IntVarP(&offsetLeft, "left", "l", defaults.Offsets.Left, "Offset from the left side of the window")
	flags.IntVarP(&offsetRight, "right", "r", defaults.Offsets.Right, "Offset from the right side of the window")
	flags.BoolVarP(&showVersion, "version", "v", false, "Print version and license")
	flags.DurationVar(&pollInterval, "interval", defaults.PollInterval, "Delay between pointer polls")
	flags.StringVar(&configPath, "config", "", "Config file (default ~/.config/mousetrap/config.yaml)")
	flags.BoolVarP(&statusMode, "status", "s", false, "Report whether an instance is running")
	flags.BoolVar(&jsonOutput, "json", false, "Output status in JSON format")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	// Help is a failure exit, like any other usage request
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpRequested = true
		fmt.Fprint(os.Stderr, cmd.UsageString())
	})

	// Disable color if requested, enable debug logging if requested
	cobra.OnInitialize(func() {
		if noColor {
			color.NoColor = true
		}
		if debugMode {
			logging.SetDebug(true)
		}
	})
}

// execute runs the root command and maps the result to an exit code
func execute() int {
	err := rootCmd.Execute()
	if helpRequested {
		return 1
	}
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		if uerr.err != nil {
			printError(uerr.err.Error())
		}
		fmt.Fprint(os.Stderr, rootCmd.UsageString())
		return 1
	}

	printError(err.Error())
	logging.Error().Err(err).Msg("run failed")
	return 1
}

func main() {
	// Initialize logging
	logging.Init()

	code := execute()
	logging.Close()
	os.Exit(code)
}

// Helper functions

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}
