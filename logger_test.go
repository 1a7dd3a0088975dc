package cycles

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
)

func TestLoggerDefaultIsNop(t *testing.T) {
	SetLogger(nil)
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	if l.Enabled(nil, slog.LevelError) { //nolint:staticcheck // nil context accepted by nopHandler
		t.Error("default logger should report all levels disabled")
	}
}

func TestSetLoggerReplacesDefault(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, nil))
	SetLogger(custom)

	if Logger() != custom {
		t.Fatal("Logger() did not return the logger passed to SetLogger")
	}

	Logger().Info("build started")
	if buf.Len() == 0 {
		t.Error("expected custom logger to receive output")
	}
}

func TestSetLoggerNilRestoresNop(t *testing.T) {
	defer SetLogger(nil)

	SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	SetLogger(nil)

	if Logger().Enabled(nil, slog.LevelError) { //nolint:staticcheck
		t.Error("passing nil to SetLogger should restore the no-op logger")
	}
}

func TestSetLoggerConcurrentUse(t *testing.T) {
	defer SetLogger(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			_ = Logger()
		}()
	}
	wg.Wait()
}
