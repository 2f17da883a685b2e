package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		wantDebug   bool
	}{
		{"development keeps debug", true, true},
		{"production drops debug", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.development)
			if err != nil {
				t.Fatalf("failed to build logger: %v", err)
			}
			if got := log.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			log.Info("probe line")
		})
	}
}

func TestMust_ReturnsUsableLogger(t *testing.T) {
	Must(true).Info("probe line")
}
