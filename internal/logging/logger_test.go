package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelflow/internal/config"
	"reelflow/internal/logging"
	"reelflow/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	logger.Info("daemon ready", logging.String("bind", "127.0.0.1:0"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "reelflow.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "daemon ready") {
		t.Fatalf("log file missing message: %q", string(data))
	}
	if !strings.Contains(string(data), "bind=127.0.0.1:0") {
		t.Fatalf("log file missing attribute: %q", string(data))
	}
}

func TestWithContextAddsBatchFields(t *testing.T) {
	ctx := services.WithBatchID(context.Background(), 42)
	ctx = services.WithRequestID(ctx, "req-1")

	fields := logging.ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 context fields, got %d", len(fields))
	}
	if fields[0].Key != logging.FieldBatchID {
		t.Fatalf("expected batch id field, got %q", fields[0].Key)
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "board")
	// Must not panic when the base logger is absent.
	logger.Info("noop")
}
