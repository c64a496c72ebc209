package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/luwen/surgelens/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name: "debug level",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "debug",
				LogFormat: "json",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "info level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "info",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "warn level",
			cfg: &config.Config{
				Env:       "staging",
				LogLevel:  "warn",
				LogFormat: "json",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "unknown falls back to info",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "whatever",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg)
			if logger == nil {
				t.Fatal("Expected logger to be created")
			}

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("Expected global level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	base := Nop()

	derived := base.WithFields(map[string]interface{}{
		"symbol": "600519",
		"stage":  "fetch",
	})
	if derived == nil {
		t.Fatal("Expected derived logger")
	}
	if derived == base {
		t.Error("WithFields should return a new logger")
	}
}

func TestWithError(t *testing.T) {
	base := Nop()
	if got := base.WithError(nil); got == nil {
		t.Fatal("Expected derived logger")
	}
}
