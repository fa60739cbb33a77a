// Package logging configures the zap logger shared by the indexer and
// filter driver, grounded on the level-from-verbosity-flag setup in
// go/cli/mcap/cmd/root.go (which wires a similar -v flag through to its
// own logger construction).
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the three verbosities spec §6 assigns to -v/-vv.
type Level int

const (
	LevelInfo Level = iota
	LevelDebug
	LevelTrace
)

// EnvVar is the override spec §6 calls "a RUST_LOG-style verbosity
// override"; -v/-vv on the command line always takes precedence.
const EnvVar = "CSVINDEX_LOG_LEVEL"

// FromVerbosity maps a repeated -v count (0, 1, 2+) to a Level.
func FromVerbosity(count int) Level {
	switch {
	case count >= 2:
		return LevelTrace
	case count == 1:
		return LevelDebug
	default:
		return LevelInfo
	}
}

func parseEnvLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	default:
		return 0, false
	}
}

// New builds a zap.Logger for the given verbosity count. When count is 0
// (no -v on the command line), CSVINDEX_LOG_LEVEL is consulted instead;
// an explicit -v/-vv always wins. Trace is implemented as zap's debug
// level plus a "trace" field, since zap has no built-in level below
// Debug.
func New(verbosityCount int) (*zap.Logger, error) {
	level := FromVerbosity(verbosityCount)
	if verbosityCount == 0 {
		if envLevel, ok := parseEnvLevel(os.Getenv(EnvVar)); ok {
			level = envLevel
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	switch level {
	case LevelInfo:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case LevelDebug, LevelTrace:
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if level == LevelTrace {
		logger = logger.With(zap.Bool("trace", true))
	}
	return logger, nil
}
