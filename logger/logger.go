package logger

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Logger is the process wide logger. Packages take a copy at construction
// time, so call Setup before building clients.
var Logger = zerolog.New(nil).Output(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.TimeOnly,
}).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Setup sets the global log level ("debug", "info", "warn", ...).
func Setup(level string) error {
	if level == "" {
		return nil
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
