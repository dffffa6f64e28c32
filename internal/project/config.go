package project

import (
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors underware.toml.
type Config struct {
	Expand      ExpandConfig      `toml:"expand"`
	Macros      MacrosConfig      `toml:"macros"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
	// set records which keys the file defined, as "section.key".
	set map[string]bool
}

type ExpandConfig struct {
	Jobs       int      `toml:"jobs"`
	Cache      bool     `toml:"cache"`
	Extensions []string `toml:"extensions"`
}

type MacrosConfig struct {
	Aliases map[string]string `toml:"aliases"`
}

type DiagnosticsConfig struct {
	Format string `toml:"format"`
	Max    int    `toml:"max"`
	Color  string `toml:"color"`
}

// Defaults is what an absent underware.toml means.
func Defaults() Config {
	return Config{
		Expand: ExpandConfig{
			Jobs:       runtime.GOMAXPROCS(0),
			Cache:      true,
			Extensions: []string{".swift"},
		},
		Diagnostics: DiagnosticsConfig{
			Format: "pretty",
			Max:    100,
			Color:  "auto",
		},
	}
}

var (
	validFormats = []string{"pretty", "json", "yaml", "short", "sarif"}
	validColors  = []string{"auto", "on", "off"}
)

// LoadConfig decodes path over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	cfg.Path = path
	cfg.set = make(map[string]bool)
	for _, key := range meta.Keys() {
		cfg.set[key.String()] = true
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest underware.toml above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Defaults(), nil
	}
	return LoadConfig(path)
}

// IsSet reports whether the file defined key ("expand.jobs").
func (c Config) IsSet(key string) bool {
	return c.set[key]
}

// Root is the directory of the config file, empty for defaults.
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

func (c *Config) validate() error {
	if c.Expand.Jobs < 0 {
		return fmt.Errorf("[expand].jobs must not be negative, got %d", c.Expand.Jobs)
	}
	if c.Expand.Jobs == 0 {
		c.Expand.Jobs = runtime.GOMAXPROCS(0)
	}
	for i, ext := range c.Expand.Extensions {
		ext = strings.TrimSpace(ext)
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("[expand].extensions: %q must look like \".swift\"", ext)
		}
		c.Expand.Extensions[i] = ext
	}
	if len(c.Expand.Extensions) == 0 {
		return fmt.Errorf("[expand].extensions must not be empty")
	}
	for alias, target := range c.Macros.Aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(target) == "" {
			return fmt.Errorf("[macros].aliases: empty alias or target")
		}
		if strings.HasPrefix(alias, "#") || strings.HasPrefix(target, "#") {
			return fmt.Errorf("[macros].aliases: write names without '#' (%s = %q)", alias, target)
		}
	}
	if !slices.Contains(validFormats, c.Diagnostics.Format) {
		return fmt.Errorf("[diagnostics].format must be one of %s, got %q", strings.Join(validFormats, "|"), c.Diagnostics.Format)
	}
	if !slices.Contains(validColors, c.Diagnostics.Color) {
		return fmt.Errorf("[diagnostics].color must be one of %s, got %q", strings.Join(validColors, "|"), c.Diagnostics.Color)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must not be negative")
	}
	return nil
}
