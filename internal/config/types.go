package config

// Config is the top-level opusthemer configuration, corresponding to .opusthemer.yml.
type Config struct {
	AssetsDir        string   `yaml:"assets_dir" koanf:"assets_dir"`
	FragmentsDir     string   `yaml:"fragments_dir" koanf:"fragments_dir"`
	BaseFile         string   `yaml:"base_file" koanf:"base_file"`
	Include          []string `yaml:"include" koanf:"include"`
	Exclude          []string `yaml:"exclude" koanf:"exclude"`
	XMLDir           string   `yaml:"xml_dir" koanf:"xml_dir"`
	OutputDir        string   `yaml:"output_dir" koanf:"output_dir"`
	ThemePrefix      string   `yaml:"theme_prefix" koanf:"theme_prefix"`
	ArchiveExt       string   `yaml:"archive_ext" koanf:"archive_ext"`
	ImagesDir        string   `yaml:"images_dir" koanf:"images_dir"`
	PreviewDir       string   `yaml:"preview_dir" koanf:"preview_dir"`
	Accent           string   `yaml:"accent" koanf:"accent"`
	Flavors          []string `yaml:"flavors" koanf:"flavors"`
	PaletteFile      string   `yaml:"palette_file" koanf:"palette_file"`
	CompressionLevel int      `yaml:"compression_level" koanf:"compression_level"`
	KeepXML          bool     `yaml:"keep_xml" koanf:"keep_xml"`
	KeepGoing        bool     `yaml:"keep_going" koanf:"keep_going"`
}

// ResolvedFragmentsDir returns the fragments directory, defaulting to
// <assets_dir>/fragments.
func (c *Config) ResolvedFragmentsDir() string {
	if c.FragmentsDir != "" {
		return c.FragmentsDir
	}
	return joinAssets(c.AssetsDir, "fragments")
}

// ResolvedImagesDir returns the images directory inside the assets directory.
func (c *Config) ResolvedImagesDir() string {
	return joinAssets(c.AssetsDir, c.ImagesDir)
}

// ResolvedPreviewDir returns the preview directory inside the assets directory.
func (c *Config) ResolvedPreviewDir() string {
	return joinAssets(c.AssetsDir, c.PreviewDir)
}
