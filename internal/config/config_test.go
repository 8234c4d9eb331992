package config

import (
	"os"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefaultHasVimKeybindStyle(t *testing.T) {
	cfg := Default()
	if cfg.Keybind.Style != KeybindVim {
		t.Fatalf("expected default keybind style vim, got %v", cfg.Keybind.Style)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Query.CaseSensitive = true
	cfg.Columns.HideByDefault = []string{"internal_id"}

	dir := t.TempDir()
	path := dir + "/config.toml"
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var decoded Config
	if _, err := toml.DecodeFile(path, &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Query.CaseSensitive {
		t.Fatalf("expected case_sensitive true after round trip")
	}
	if len(decoded.Columns.HideByDefault) != 1 || decoded.Columns.HideByDefault[0] != "internal_id" {
		t.Fatalf("expected hide_by_default to round trip, got %v", decoded.Columns.HideByDefault)
	}
}
