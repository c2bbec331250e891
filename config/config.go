// Package config loads and saves the agr TOML configuration at
// ~/.config/agr/config.toml. A missing file yields defaults; a
// malformed file is an error rather than a silent fallback.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Recording controls how sessions are captured.
type Recording struct {
	// Directory recordings are written to. Empty means
	// ~/.local/share/agr/recordings (see Dir).
	Directory string `toml:"directory"`

	// Template for generated filenames, see the files package for
	// the tag syntax.
	Template string `toml:"template"`

	// DirectoryMaxLength caps the {directory} tag expansion.
	DirectoryMaxLength int `toml:"directory_max_length"`

	// CaptureInput records keystrokes as "i" events. Off by
	// default: recordings are meant to be shared.
	CaptureInput bool `toml:"capture_input"`
}

// Playback controls the player defaults.
type Playback struct {
	// Speed is the default playback speed multiplier.
	Speed float64 `toml:"speed"`

	// IdleLimit caps the silence between two events, in seconds.
	// Zero disables the cap.
	IdleLimit float64 `toml:"idle_limit"`
}

type Config struct {
	Recording Recording `toml:"recording"`
	Playback  Playback  `toml:"playback"`
}

func Default() Config {
	return Config{
		Recording: Recording{
			Template:           "{directory}_{date}_{time}",
			DirectoryMaxLength: 50,
		},
		Playback: Playback{
			Speed:     1.0,
			IdleLimit: 2.0,
		},
	}
}

// Path returns the config file location, honoring XDG via
// os.UserConfigDir.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(base, "agr", "config.toml"), nil
}

// Load reads the config file, layering it over the defaults so a
// partial file keeps default values for what it omits.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg.normalize(), nil
}

// Save writes the config, creating the directory when needed.
func (c Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// String renders the effective config as TOML, for `agr config show`.
func (c Config) String() string {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<unencodable config: %v>", err)
	}
	return string(data)
}

// Dir resolves the recordings directory, defaulting under the user's
// data dir and expanding a leading ~.
func (c Config) Dir() (string, error) {
	dir := c.Recording.Directory
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home dir: %w", err)
		}
		return filepath.Join(home, ".local", "share", "agr", "recordings"), nil
	}

	if len(dir) > 1 && dir[0] == '~' && dir[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %q: %w", dir, err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return dir, nil
}

// normalize pulls out-of-range values back to usable ones.
func (c Config) normalize() Config {
	if c.Recording.Template == "" {
		c.Recording.Template = Default().Recording.Template
	}
	if c.Recording.DirectoryMaxLength < 1 {
		c.Recording.DirectoryMaxLength = 1
	}
	if c.Playback.Speed <= 0 {
		c.Playback.Speed = 1.0
	}
	if c.Playback.IdleLimit < 0 {
		c.Playback.IdleLimit = 0
	}
	return c
}
