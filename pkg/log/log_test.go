package log

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
)

func TestTestLoggerCapture(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("staging input", DTypeKey, "float32", OrderKey, "row_major")
	logger.Info("fit completed", OperationKey, OperationFit, SamplesKey, 100)

	if buffer.String() == "" {
		t.Fatal("expected log output, got empty buffer")
	}
	if !logger.ContainsMessage("staging input") {
		t.Error("debug message not captured")
	}
	if !logger.ContainsField(OperationKey, OperationFit) {
		t.Error("expected operation field not found")
	}
	if !logger.ContainsField(DTypeKey, "float32") {
		t.Error("expected dtype field not found")
	}
}

func TestTestLoggerLevelFilter(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)

	logger.Debug("should be dropped")
	logger.Warn("should be kept")

	if logger.ContainsMessage("should be dropped") {
		t.Error("debug message should have been filtered at warn level")
	}
	if !logger.ContainsMessage("should be kept") {
		t.Error("warn message missing")
	}
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("Enabled(LevelDebug) should be false at warn level")
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)
	scoped := logger.With(ModelNameKey, "CD")

	scoped.Info("predict completed")

	tl := scoped.(*TestLogger)
	if !tl.ContainsField(ModelNameKey, "CD") {
		t.Error("With field not propagated to log entries")
	}
}

func TestSetLogger(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)

	GetLogger().Info("hello", "k", "v")
	if !testLogger.ContainsMessage("hello") {
		t.Error("default logger replacement not effective")
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    Level
		wantErr bool
	}{
		{"debug", "debug", LevelDebug, false},
		{"info", "info", LevelInfo, false},
		{"warn", "warn", LevelWarn, false},
		{"error", "error", LevelError, false},
		{"unknown falls back to info", "verbose", LevelInfo, true},
		{"empty falls back to info", "", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToLogLevel(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
			if got != slog.Level(tt.want) {
				t.Errorf("ToLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestErrAttr(t *testing.T) {
	err := fmt.Errorf("boom")
	attr := ErrAttr(err)
	if attr.Key != ErrAttrKey {
		t.Errorf("attr key = %q, want %q", attr.Key, ErrAttrKey)
	}
}
