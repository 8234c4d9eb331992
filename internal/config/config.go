// Package config reads and writes the TOML config file under the
// user's config directory (spec §6: "A TOML config file controls
// display glyphs, keybinding style (vim/emacs), default case
// sensitivity, max history entries, and default-column-hiding
// behavior"), resolved with xdg and decoded the way the teacher's toml
// parser decodes a struct-tagged document.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const appName = "sqlcli"

// Config is the on-disk schema (spec §6).
type Config struct {
	Display  DisplayConfig  `toml:"display"`
	Keybind  KeybindConfig  `toml:"keybind"`
	Query    QueryConfig    `toml:"query"`
	History  HistoryConfig  `toml:"history"`
	Columns  ColumnsConfig  `toml:"columns"`
}

type DisplayConfig struct {
	PinnedGlyph string `toml:"pinned_glyph"`
	SortAscGlyph string `toml:"sort_asc_glyph"`
	SortDescGlyph string `toml:"sort_desc_glyph"`
}

// KeybindStyle selects the key mapping flavor.
type KeybindStyle string

const (
	KeybindVim   KeybindStyle = "vim"
	KeybindEmacs KeybindStyle = "emacs"
)

type KeybindConfig struct {
	Style KeybindStyle `toml:"style"`
}

type QueryConfig struct {
	CaseSensitive bool `toml:"case_sensitive"`
}

type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`
}

type ColumnsConfig struct {
	HideByDefault []string `toml:"hide_by_default"`
}

// Default returns the built-in configuration, used when no file is
// present and as the base that GenerateFile writes out.
func Default() Config {
	return Config{
		Display: DisplayConfig{
			PinnedGlyph:   "\U0001F4CC",
			SortAscGlyph:  "^",
			SortDescGlyph: "v",
		},
		Keybind: KeybindConfig{Style: KeybindVim},
		Query:   QueryConfig{CaseSensitive: false},
		History: HistoryConfig{MaxEntries: 1000},
		Columns: ColumnsConfig{},
	}
}

// Dir resolves the user config directory for this app via xdg.
func Dir() (string, error) {
	return xdg.ConfigFile(appName)
}

// FilePath returns the path to the config TOML file.
func FilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryFilePath returns the path to the query history YAML file.
func HistoryFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.yaml"), nil
}

// Load reads the config file, overlaying it onto Default(); a missing
// file is not an error (spec treats absence as "use defaults").
func Load() (Config, error) {
	cfg := Default()
	path, err := FilePath()
	if err != nil {
		return cfg, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %q: %w", path, err)
	}
	return cfg, nil
}

// GenerateFile writes cfg to the config path, creating parent
// directories as needed (spec §6, "--generate-config": "write default
// config").
func GenerateFile(cfg Config) (string, error) {
	path, err := FilePath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return "", err
	}
	return path, nil
}
