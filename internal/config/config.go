package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (OPUSTHEMER_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: OPUSTHEMER_ACCENT -> accent, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Slices are decoded element-wise into existing values, so list defaults
	// are only applied when the key is absent.
	cfg.Include = nil
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if !k.Exists("include") {
		cfg.Include = DefaultConfig().Include
	}

	// OPUSTHEMER_FLAVORS=latte,mocha arrives as a single element.
	var flavors []string
	for _, f := range cfg.Flavors {
		flavors = append(flavors, splitAndTrim(f)...)
	}
	cfg.Flavors = flavors

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values. Flavor names
// are checked against the palette by the builder.
func (c *Config) Validate() error {
	if c.AssetsDir == "" && c.FragmentsDir == "" {
		return fmt.Errorf("assets_dir is required")
	}

	if c.BaseFile == "" {
		return fmt.Errorf("base_file is required")
	}
	if strings.ContainsAny(c.BaseFile, `/\`) {
		return fmt.Errorf("base_file %q must be a file name inside the fragments directory", c.BaseFile)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.XMLDir == "" {
		return fmt.Errorf("xml_dir is required")
	}

	if c.ArchiveExt == "" || !strings.HasPrefix(c.ArchiveExt, ".") {
		return fmt.Errorf("invalid archive_ext %q: must start with a dot", c.ArchiveExt)
	}

	if c.CompressionLevel < -2 || c.CompressionLevel > 9 {
		return fmt.Errorf("compression_level must be between -2 and 9, got %d", c.CompressionLevel)
	}

	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("include/exclude patterns must not be empty")
		}
	}

	return nil
}

// ThemeName returns the display name stamped into the theme and used for the
// archive file name, e.g. "Catppuccin Mocha".
func (c *Config) ThemeName(flavorName string) string {
	if c.ThemePrefix == "" {
		return flavorName
	}
	return c.ThemePrefix + " " + flavorName
}

// XMLPath returns where the rendered XML for a flavor is written.
func (c *Config) XMLPath(flavorKey string) string {
	return filepath.Join(c.XMLDir, fmt.Sprintf("theme_%s.xml", flavorKey))
}

// ArchivePath returns where the archive for a flavor is written.
func (c *Config) ArchivePath(flavorName string) string {
	return filepath.Join(c.OutputDir, c.ThemeName(flavorName)+c.ArchiveExt)
}

func joinAssets(assetsDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(assetsDir, p)
}
