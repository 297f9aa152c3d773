package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a configured zerolog.Logger. In development, it uses a human-friendly console writer.
// When logFile is set, output is also written to that file with size-based rotation.
func New(appEnv, logFile string) zerolog.Logger {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	isDev := env == "development" || env == "dev"

	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if isDev {
		out = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stdout
			w.TimeFormat = "2006-01-02 15:04:05"
		})
		level = zerolog.DebugLevel
	}
	if logFile != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a disabled logger, useful for tests.
func Nop() zerolog.Logger {
	return zerolog.New(io.Discard)
}
