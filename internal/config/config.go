// Package config resolves agent settings from the command line.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName names the window class, the log file and the autostart entry.
	AppName = "lidlock"

	// DebugLogFile is created in the system temp directory when --debug is set.
	DebugLogFile = "lidlock.log"
)

// Config holds agent configuration.
type Config struct {
	LogPath      string        // Empty disables file logging
	Debug        bool          // Log to DebugLogPath() regardless of LogPath
	PollInterval time.Duration // How often the logind receiver samples the lid
}

// DefaultConfig returns default agent configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 2 * time.Second,
	}
}

// DebugLogPath returns the fixed debug log location.
func DebugLogPath() string {
	return filepath.Join(os.TempDir(), DebugLogFile)
}

// ResolveLogPath applies the argument rules: --debug wins, otherwise the
// first positional argument is taken verbatim, otherwise logging is off.
func ResolveLogPath(debug bool, args []string) string {
	if debug {
		return DebugLogPath()
	}
	if len(args) > 0 && args[0] != "--debug" {
		return args[0]
	}
	return ""
}

// FromArgs builds a Config from parsed flags and positional arguments.
func FromArgs(debug bool, args []string) Config {
	cfg := DefaultConfig()
	cfg.Debug = debug
	cfg.LogPath = ResolveLogPath(debug, args)
	return cfg
}

// AgentArgs renders cfg back into command-line arguments for a spawned agent.
func (c Config) AgentArgs() []string {
	if c.Debug {
		return []string{"--debug"}
	}
	if c.LogPath != "" {
		return []string{c.LogPath}
	}
	return nil
}
