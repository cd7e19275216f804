package logging

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultLogDir is the directory under $HOME for the log file
	DefaultLogDir = ".local/state/mousetrap"
	// DefaultLogFile is the log file name
	DefaultLogFile = "mousetrap.log"
)

var (
	Logger  = zerolog.Nop()
	logFile *os.File
)

// timestampHook adds timestamp at the end of each log event
type timestampHook struct{}

func (h timestampHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	e.Time("ts", time.Now())
}

// Init initializes the logging system with zerolog
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitAt(filepath.Join(home, DefaultLogDir, DefaultLogFile))
}

// InitAt opens (or creates) the log file at path and points Logger at it
func InitAt(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	logFile = f

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.MessageFieldName = "msg"

	// pid distinguishes the confining instance from the one toggling it off
	Logger = zerolog.New(logFile).Hook(timestampHook{}).With().Int("pid", os.Getpid()).Logger()

	return nil
}

// SetDebug toggles debug level logging
func SetDebug(on bool) {
	if on {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Close closes the log file
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	Logger = zerolog.Nop()
}

// Debug returns a debug level event
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info returns an info level event
func Info() *zerolog.Event {
	return Logger.Info()
}

// Error returns an error level event
func Error() *zerolog.Event {
	return Logger.Error()
}
