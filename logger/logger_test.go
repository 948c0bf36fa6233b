package logger

import (
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "json info",
			config: Config{Level: "info", OutputPaths: []string{"stdout"}},
		},
		{
			name:   "console debug",
			config: Config{Level: "debug", Encoding: "console", OutputPaths: []string{"stdout"}},
		},
		{
			name:   "invalid level falls back to info",
			config: Config{Level: "loud", OutputPaths: []string{"stderr"}},
		},
		{
			name:   "empty output paths",
			config: Config{Level: "warn"},
		},
		{
			name:    "unwritable output path",
			config:  Config{Level: "info", OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "dir", "bot.log")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && l == nil {
				t.Fatal("New() returned nil logger without error")
			}
		})
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	l, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.With("component", "test").InfoW("hello", "key", "value")
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	if l == nil {
		t.Fatal("NewNop() returned nil")
	}

	l.DebugW("test debug", "key", "value")
	l.InfoW("test message", "key", "value")
	l.WarnW("test warning", "key", "value")
	l.With("scope", "child").ErrorW("test error", "key", "value")

	if err := l.Sync(); err != nil {
		t.Errorf("Sync() should not error on nop logger: %v", err)
	}
}
