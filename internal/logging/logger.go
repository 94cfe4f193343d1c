// Package logging builds the agent's diagnostic logger.
//
// Lines are appended to an optional file as "[2006-01-02 15:04:05] message".
// With no path the logger is a no-op and never touches the filesystem.
package logging

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimeLayout is the local-time prefix format of every line.
const TimeLayout = "2006-01-02 15:04:05"

// New returns a logger appending to path, or a no-op logger when path is empty.
// Failure to open the file also yields a no-op logger; logging is best-effort.
func New(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return zap.NewNop()
	}

	return NewWithWriter(f)
}

// NewWithWriter returns a logger writing lines to w.
// Each write holds an exclusive lock around write+flush.
func NewWithWriter(w io.Writer) *zap.Logger {
	ws := zapcore.Lock(&flushingSyncer{w: w})
	core := zapcore.NewCore(newLineEncoder(), ws, zap.DebugLevel)

	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(io.Discard)))
}

func newLineEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       encodeTime,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Local().Format(TimeLayout) + "]")
}

// flushingSyncer pushes every write to stable storage when the writer supports it.
type flushingSyncer struct {
	w io.Writer
}

func (s *flushingSyncer) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		return n, err
	}
	return n, s.Sync()
}

func (s *flushingSyncer) Sync() error {
	if f, ok := s.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}
