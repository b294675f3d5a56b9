package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/opus-themer/internal/palette"
)

const allFlavors = "all flavors"

// detectAssetsDir checks the current directory for a likely assets layout.
func detectAssetsDir() string {
	for _, candidate := range []string{"assets", "src/assets", "theme"} {
		if info, err := os.Stat(joinAssets(candidate, "fragments")); err == nil && info.IsDir() {
			return candidate
		}
	}
	return "assets"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(pal palette.Palette, path string) (*Config, error) {
	fmt.Println("Welcome to opusthemer! Let's configure your theme build.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Assets directory.
	assetsPrompt := promptui.Prompt{
		Label:   "Assets directory (fragments/, Images/, preview/)",
		Default: detectAssetsDir(),
	}
	assetsDir, err := assetsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}
	cfg.AssetsDir = assetsDir

	if _, err := os.Stat(cfg.ResolvedFragmentsDir()); err != nil {
		fmt.Printf("Note: %s does not exist yet.\n\n", cfg.ResolvedFragmentsDir())
	}

	// 2. Accent color.
	if len(pal.Flavors) == 0 {
		return nil, fmt.Errorf("palette has no flavors")
	}
	flavor := pal.Flavors[0]
	accents := flavor.AccentNames()
	accentPrompt := promptui.Select{
		Label:     "Select accent color",
		Items:     accents,
		CursorPos: indexOf(accents, palette.DefaultAccent),
		Size:      len(accents),
	}
	_, accent, err := accentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("accent selection: %w", err)
	}
	cfg.Accent = accent

	// 3. Flavors.
	items := append([]string{allFlavors}, pal.Keys()...)
	flavorPrompt := promptui.Select{
		Label: "Build which flavor",
		Items: items,
	}
	_, choice, err := flavorPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("flavor selection: %w", err)
	}
	if choice != allFlavors {
		cfg.Flavors = []string{choice}
	}

	// 4. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for theme archives",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 5. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Fragment exclude patterns (comma-separated, blank keeps every fragment)",
		Default: strings.Join(SuggestedExcludes, ","),
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = splitAndTrim(excludeStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func indexOf(items []string, want string) int {
	for i, s := range items {
		if s == want {
			return i
		}
	}
	return 0
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
