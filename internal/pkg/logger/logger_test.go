package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLBeforeInitReturnsNop(t *testing.T) {
	// Must not panic even when Init was never called.
	L().Info("noop logging is safe")
	S().Debugw("sugared noop logging is safe")
}

func TestInitAndSetLevel(t *testing.T) {
	if err := Init("info", "json"); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if got := atomicLevel.Level(); got != zapcore.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}

	if err := SetLevel("not-a-level"); err == nil {
		t.Error("SetLevel should reject an invalid level")
	}
}
