package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var lineRe = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] (.*)$`)

func TestNew_EmptyPathHasNoSideEffects(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	logger := New("")
	logger.Info("Main started")
	require.NoError(t, logger.Sync())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNew_UnopenablePathFallsBackToNop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "lidlock.log")

	logger := New(path)
	assert.NotPanics(t, func() { logger.Info("Main started") })

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNew_WritesNLinesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lidlock.log")
	logger := New(path)

	const n = 25
	for i := 0; i < n; i++ {
		logger.Info(fmt.Sprintf("line %d", i))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"))

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, n)
	for i, line := range lines {
		m := lineRe.FindStringSubmatch(line)
		require.NotNil(t, m, "malformed line %q", line)
		assert.Equal(t, fmt.Sprintf("line %d", i), m[1])
	}
}

func TestNew_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lidlock.log")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0644))

	New(path).Info("Main started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "previous", lines[0])
	assert.Regexp(t, lineRe, lines[1])
}

func TestNewWithWriter_FieldsFollowMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	logger.Info("Power setting state", zap.Uint32("state", 0))

	m := lineRe.FindStringSubmatch(strings.TrimSuffix(buf.String(), "\n"))
	require.NotNil(t, m)
	assert.Equal(t, `Power setting state {"state": 0}`, m[1])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestNewWithWriter_WriteErrorsAreSwallowed(t *testing.T) {
	logger := NewWithWriter(failingWriter{})

	assert.NotPanics(t, func() {
		logger.Info("Attempting to lock workstation")
		logger.Warn("Failed to lock workstation")
	})
}
