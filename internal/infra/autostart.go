package infra

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/eliteGoblin/lidlock/internal/config"
	"github.com/eliteGoblin/lidlock/internal/domain"
)

// ErrAutostartUnsupported is returned where no login hook is implemented.
var ErrAutostartUnsupported = errors.New("autostart is not supported on this platform")

// XDG autostart entry (runs on desktop login)
const desktopTemplate = `[Desktop Entry]
Type=Application
Name={{.Name}}
Comment=Lock the session when the lid closes
Exec={{.Exec}}
Terminal=false
NoDisplay=true
X-GNOME-Autostart-enabled=true
`

type desktopConfig struct {
	Name string
	Exec string
}

// XDGAutostart implements domain.AutostartManager with a .desktop file.
type XDGAutostart struct {
	dir  string
	path string
}

// NewXDGAutostart uses $XDG_CONFIG_HOME/autostart, falling back to ~/.config/autostart.
func NewXDGAutostart() *XDGAutostart {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return NewXDGAutostartWithDir(filepath.Join(base, "autostart"))
}

// NewXDGAutostartWithDir creates a manager rooted at dir (for testing).
func NewXDGAutostartWithDir(dir string) *XDGAutostart {
	return &XDGAutostart{
		dir:  dir,
		path: filepath.Join(dir, config.AppName+".desktop"),
	}
}

// generateContent renders the desktop entry for execPath and args.
func (m *XDGAutostart) generateContent(execPath string, args []string) ([]byte, error) {
	fields := make([]string, 0, len(args)+1)
	for _, a := range append([]string{execPath}, args...) {
		fields = append(fields, quoteDesktopArg(a))
	}

	tmpl, err := template.New("desktop").Parse(desktopTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse desktop template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, desktopConfig{
		Name: config.AppName,
		Exec: strings.Join(fields, " "),
	}); err != nil {
		return nil, fmt.Errorf("failed to execute desktop template: %w", err)
	}

	return buf.Bytes(), nil
}

// quoteDesktopArg quotes per the Desktop Entry Exec rules.
func quoteDesktopArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

// Install writes the desktop entry.
func (m *XDGAutostart) Install(execPath string, args []string) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return err
	}

	content, err := m.generateContent(execPath, args)
	if err != nil {
		return err
	}

	return os.WriteFile(m.path, content, 0644)
}

// Uninstall removes the desktop entry.
func (m *XDGAutostart) Uninstall() error {
	return os.Remove(m.path)
}

// IsInstalled checks if the desktop entry exists.
func (m *XDGAutostart) IsInstalled() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Location returns the desktop entry path.
func (m *XDGAutostart) Location() string {
	return m.path
}

// Ensure XDGAutostart implements domain.AutostartManager.
var _ domain.AutostartManager = (*XDGAutostart)(nil)
