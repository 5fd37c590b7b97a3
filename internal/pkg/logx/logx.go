/*
Package logx provides a structured logging wrapper based on zerolog.

It owns the process-wide logger used by the session service, the REST client and the
companion server, and offers key-value helpers for the Debug, Info, Warn, Error and
Fatal levels so call sites never touch zerolog events directly.
*/
package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment names recognised by Init.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvCLI         = "cli"
)

// Init configures the global zerolog instance for the given environment.
//
// development: Debug level, human-readable console output on stderr.
// cli: Warn level (Debug when verbose), console output on stderr so stdout stays clean for command output.
// anything else: Info level, JSON on stdout.
func Init(environment string, verbose bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var logger zerolog.Logger

	switch environment {
	case EnvDevelopment:
		logger = zerolog.New(consoleWriter(os.Stderr)).Level(zerolog.DebugLevel)
	case EnvCLI:
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(consoleWriter(os.Stderr)).Level(level)
	default:
		logger = zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Timestamp().Caller().Logger()
}

// SetOutput redirects the global logger, keeping its level. Tests use it to capture output.
func SetOutput(w io.Writer) {
	log.Logger = log.Logger.Output(w)
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
}

// Logger returns a pointer to the global zerolog.Logger instance.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// checkFields drops an odd-length field list instead of letting zerolog misalign keys.
func checkFields(level string, fields []any) []any {
	if len(fields)%2 != 0 {
		Logger().Warn().
			Int("fields_count", len(fields)).
			Str("log_level", level).
			Msg("logx call received odd number of fields, fields ignored")
		return nil
	}
	return fields
}

// Debug records a message at the Debug level with optional key-value fields.
func Debug(msg string, fields ...any) {
	fields = checkFields("Debug", fields)

	Logger().Debug().
		Fields(fields).
		CallerSkipFrame(1).
		Msg(msg)
}

// Info records a message at the Info level with optional key-value fields.
func Info(msg string, fields ...any) {
	fields = checkFields("Info", fields)

	Logger().Info().
		Fields(fields).
		CallerSkipFrame(1).
		Msg(msg)
}

// Warn records a message at the Warn level with optional key-value fields.
func Warn(msg string, fields ...any) {
	fields = checkFields("Warn", fields)

	Logger().Warn().
		Fields(fields).
		CallerSkipFrame(1).
		Msg(msg)
}

// Error records err and a message at the Error level with optional key-value fields.
func Error(err error, msg string, fields ...any) {
	fields = checkFields("Error", fields)

	Logger().Error().
		Err(err).
		Fields(fields).
		CallerSkipFrame(1).
		Msg(msg)
}

// Fatal records err at the Fatal level and then exits the process with status 1.
func Fatal(err error, msg string, fields ...any) {
	fields = checkFields("Fatal", fields)

	Logger().Fatal().
		Err(err).
		Fields(fields).
		CallerSkipFrame(1).
		Msg(msg)
}
