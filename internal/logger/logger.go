package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = New(os.Stdout, zerolog.InfoLevel)

// New builds a JSON logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	log = New(os.Stdout, level)
}

// SetOutput redirects the package logger, mostly for tests.
func SetOutput(w io.Writer, level zerolog.Level) {
	log = New(w, level)
}

// Info logs msg with optional key/value pairs: Info("booking created", "id", 7).
func Info(msg string, keyvals ...interface{}) {
	log.Info().Fields(keyvals).Msg(msg)
}

func Infof(format string, v ...interface{}) {
	log.Info().Msg(fmt.Sprintf(format, v...))
}

func Warn(msg string, keyvals ...interface{}) {
	log.Warn().Fields(keyvals).Msg(msg)
}

func Error(msg string, keyvals ...interface{}) {
	log.Error().Fields(keyvals).Msg(msg)
}

func Errorf(format string, v ...interface{}) {
	log.Error().Msg(fmt.Sprintf(format, v...))
}

func Debug(msg string, keyvals ...interface{}) {
	log.Debug().Fields(keyvals).Msg(msg)
}

func Debugf(format string, v ...interface{}) {
	log.Debug().Msg(fmt.Sprintf(format, v...))
}

func Fatal(msg string, keyvals ...interface{}) {
	log.Fatal().Fields(keyvals).Msg(msg)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatal().Msg(fmt.Sprintf(format, v...))
}

func WithError(err error) zerolog.Logger {
	return log.With().Err(err).Logger()
}

func WithFields(fields map[string]interface{}) zerolog.Logger {
	return log.With().Fields(fields).Logger()
}
