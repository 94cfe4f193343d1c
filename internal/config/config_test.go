package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.LogPath)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
}

func TestResolveLogPath(t *testing.T) {
	debugPath := filepath.Join(os.TempDir(), "lidlock.log")

	tests := []struct {
		name  string
		debug bool
		args  []string
		want  string
	}{
		{"no arguments disables logging", false, nil, ""},
		{"debug uses temp dir", true, nil, debugPath},
		{"debug wins over positional", true, []string{`C:\logs\lid.log`}, debugPath},
		{"positional taken verbatim", false, []string{`C:\logs\lid.log`}, `C:\logs\lid.log`},
		{"only first positional counts", false, []string{"a.log", "b.log"}, "a.log"},
		{"literal debug token is not a path", false, []string{"--debug"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLogPath(tt.debug, tt.args))
		})
	}
}

func TestFromArgs_RoundTripsThroughAgentArgs(t *testing.T) {
	assert.Equal(t, []string{"--debug"}, FromArgs(true, nil).AgentArgs())
	assert.Equal(t, []string{"x.log"}, FromArgs(false, []string{"x.log"}).AgentArgs())
	assert.Nil(t, FromArgs(false, nil).AgentArgs())
}
