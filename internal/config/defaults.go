package config

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".opusthemer.yml"

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "OPUSTHEMER_"

// SuggestedExcludes skip underscore-prefixed and hidden fragment files. They
// are offered by the init wizard but not applied by default: only the base
// file is excluded unless exclude patterns are configured.
var SuggestedExcludes = []string{
	"_*.yaml",
	"_*.yml",
	".*",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		AssetsDir:        "assets",
		BaseFile:         "theme.yaml",
		Include:          []string{"*.yaml", "*.yml"},
		XMLDir:           ".",
		OutputDir:        "dist",
		ThemePrefix:      "Catppuccin",
		ArchiveExt:       ".dlt",
		ImagesDir:        "Images",
		PreviewDir:       "preview",
		Accent:           "peach",
		CompressionLevel: 9,
		KeepXML:          true,
		KeepGoing:        false,
	}
}
