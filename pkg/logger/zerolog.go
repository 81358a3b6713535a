package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0o664
)

// LogBuild configures a zerolog-backed Logger.
type LogBuild struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// ZeroLogger adapts zerolog to Logger. LogFile is set when the builder was given a path.
type ZeroLogger struct {
	Logger  zerolog.Logger
	LogFile *os.File
}

func Build() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromWriter(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// Level accepts zerolog level names such as "debug" or "warn".
func (build *LogBuild) Level(name string) *LogBuild {
	if lvl, err := zerolog.ParseLevel(name); err == nil && lvl != zerolog.NoLevel {
		build.level = lvl
	}
	return build
}

func (build *LogBuild) Make() (*ZeroLogger, error) {
	zl := new(ZeroLogger)
	writer := build.writer
	if writer == nil {
		writer = os.Stdout
	}
	if build.path != "" {
		f, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		zl.LogFile = f
		writer = zerolog.SyncWriter(f)
	}
	zl.Logger = zerolog.New(writer).Level(build.level).With().Timestamp().Logger()
	return zl, nil
}

func (z *ZeroLogger) Error(msg string, args ...any) {
	z.Logger.Error().Fields(args).Msg(msg)
}

func (z *ZeroLogger) Warn(msg string, args ...any) {
	z.Logger.Warn().Fields(args).Msg(msg)
}

func (z *ZeroLogger) Info(msg string, args ...any) {
	z.Logger.Info().Fields(args).Msg(msg)
}

func (z *ZeroLogger) Debug(msg string, args ...any) {
	z.Logger.Debug().Fields(args).Msg(msg)
}

// Close releases the log file, if any.
func (z *ZeroLogger) Close() error {
	if z.LogFile == nil {
		return nil
	}
	return z.LogFile.Close()
}
