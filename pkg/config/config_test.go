package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultDBPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME behavior is Linux-specific")
	}

	t.Run("honors XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgtest")

		got, err := defaultDBPath()
		if err != nil {
			t.Fatalf("defaultDBPath: %v", err)
		}
		want := filepath.Join("/tmp/xdgtest", "ashd", "ashd.db")
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")

		got, err := defaultDBPath()
		if err != nil {
			t.Fatalf("defaultDBPath: %v", err)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			t.Fatalf("UserHomeDir: %v", err)
		}
		want := filepath.Join(home, ".config", "ashd", "ashd.db")
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})
}
