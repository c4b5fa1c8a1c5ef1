package logx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/n7mf/soundmodem/internal/logx"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logx.Level{
		"debug":       logx.LevelDebug,
		"warn":        logx.LevelWarn,
		"error":       logx.LevelError,
		"info":        logx.LevelInfo,
		"":            logx.LevelInfo,
		"nonsense":    logx.LevelInfo,
	}
	for input, want := range cases {
		assert.Equal(t, want, logx.ParseLevel(input), "input %q", input)
	}
}

func TestNewAndSetLevelDoNotPanic(t *testing.T) {
	lg := logx.New(logx.LevelWarn)
	lg.SetLevel(logx.LevelDebug)
	child := lg.With("channel", "tx")
	child.Info("test message", "k", "v")
}
