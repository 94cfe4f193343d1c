//go:build windows

package infra

import (
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/eliteGoblin/lidlock/internal/config"
	"github.com/eliteGoblin/lidlock/internal/domain"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// RunKeyAutostart implements domain.AutostartManager with an HKCU Run value.
type RunKeyAutostart struct {
	keyPath string
	name    string
}

// NewAutostartManager returns the per-user Run key manager.
func NewAutostartManager() (domain.AutostartManager, error) {
	return &RunKeyAutostart{keyPath: runKeyPath, name: config.AppName}, nil
}

// Install sets the Run value to the quoted command line.
func (m *RunKeyAutostart) Install(execPath string, args []string) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, m.keyPath, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	return k.SetStringValue(m.name, commandLine(execPath, args))
}

// Uninstall deletes the Run value.
func (m *RunKeyAutostart) Uninstall() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, m.keyPath, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	return k.DeleteValue(m.name)
}

// IsInstalled checks whether the Run value exists.
func (m *RunKeyAutostart) IsInstalled() bool {
	k, err := registry.OpenKey(registry.CURRENT_USER, m.keyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	_, _, err = k.GetStringValue(m.name)
	return err == nil
}

// Location returns the registry value path.
func (m *RunKeyAutostart) Location() string {
	return `HKCU\` + m.keyPath + `\` + m.name
}

func commandLine(execPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, `"`+execPath+`"`)
	for _, a := range args {
		parts = append(parts, windows.EscapeArg(a))
	}
	return strings.Join(parts, " ")
}
