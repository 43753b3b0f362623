package config

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levels maps configured level names to the lowest enabled zap level
var levels = map[string]zapcore.Level{
	"normal": zapcore.InfoLevel,
	"debug":  zapcore.DebugLevel,
}

// LoggerConfig configures one logging destination
type LoggerConfig struct {
	Level       string `yaml:"level"`
	Destination string `yaml:"destination,omitempty"`
	Mode        string `yaml:"mode,omitempty"`
}

// LoggingConfig configures the console and file loggers
type LoggingConfig struct {
	File    LoggerConfig `yaml:"file"`
	Console LoggerConfig `yaml:"console"`
}

// Validate checks levels, modes and that a file logger has somewhere to go
func (c *LoggingConfig) Validate() error {
	var err error
	for _, l := range []struct {
		name string
		conf LoggerConfig
	}{{"console", c.Console}, {"file", c.File}} {
		switch l.conf.Level {
		case "", "none", "normal", "debug":
		default:
			err = multierr.Append(err, fmt.Errorf("logging.%s.level: unknown level %q (use none, normal or debug)", l.name, l.conf.Level))
		}
		switch l.conf.Mode {
		case "", "append", "overwrite":
		default:
			err = multierr.Append(err, fmt.Errorf("logging.%s.mode: unknown mode %q (use append or overwrite)", l.name, l.conf.Mode))
		}
	}
	if _, ok := levels[c.File.Level]; ok && c.File.Destination == "" {
		err = multierr.Append(err, fmt.Errorf("logging.file.destination: required when level is %s", c.File.Level))
	}
	return err
}

// Prepare builds the program logger. Console output goes to stdout below
// error level and to stderr from error level up. The file logger, when
// enabled, receives everything at its own level.
func (c *LoggingConfig) Prepare() (*zap.Logger, error) {
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	consoleLow, consoleHigh := zapcore.NewNopCore(), zapcore.NewNopCore()
	if lowest, ok := levels[c.Console.Level]; ok {
		consoleLow = zapcore.NewCore(consoleEncoder(os.Stdout), zapcore.Lock(os.Stdout),
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lowest <= lvl && lvl < zapcore.ErrorLevel
			}))
		consoleHigh = zapcore.NewCore(consoleEncoder(os.Stderr), zapcore.Lock(os.Stderr), highPriority)
	}

	fileCore := zapcore.NewNopCore()
	if level, ok := levels[c.File.Level]; ok {
		flags := os.O_CREATE | os.O_WRONLY
		if c.File.Mode == "append" {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(c.File.Destination, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("unable to access file log destination (%s): %w", c.File.Destination, err)
		}
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		fileCore = zapcore.NewCore(encoder, zapcore.Lock(f), zap.NewAtomicLevelAt(level))
	}

	return zap.New(zapcore.NewTee(consoleHigh, consoleLow, fileCore)).Named("classmin"), nil
}

// consoleEncoder colors levels and drops timestamps on terminals only
func consoleEncoder(stream *os.File) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if isatty.IsTerminal(stream.Fd()) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}
