// Package palette holds the flavor color tables used to resolve color
// placeholders in rendered themes.
package palette

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed catppuccin.yaml
var defaultPaletteYAML []byte

var (
	// ErrUnknownFlavor is returned when a requested flavor key is not in the palette.
	ErrUnknownFlavor = errors.New("unknown flavor")
	// ErrInvalidPalette is returned when palette data is malformed.
	ErrInvalidPalette = errors.New("invalid palette")
)

// Color is one named entry of a flavor's color table.
type Color struct {
	Name   string
	Hex    string
	Accent bool
}

// Flavor is a named palette variant.
type Flavor struct {
	Key    string
	Name   string
	Dark   bool
	Colors []Color
}

// ColorBank returns the theme's color set bank for this flavor.
func (f Flavor) ColorBank() string {
	if f.Dark {
		return "dark"
	}
	return "light"
}

// Lookup finds a color by name.
func (f Flavor) Lookup(name string) (Color, bool) {
	return lo.Find(f.Colors, func(c Color) bool { return c.Name == name })
}

// AccentNames returns the names of colors flagged as accents.
func (f Flavor) AccentNames() []string {
	accents := lo.Filter(f.Colors, func(c Color, _ int) bool { return c.Accent })
	return lo.Map(accents, func(c Color, _ int) string { return c.Name })
}

// Palette is an ordered set of flavors.
type Palette struct {
	Version string
	Flavors []Flavor
}

// Keys returns flavor keys in palette order.
func (p Palette) Keys() []string {
	return lo.Map(p.Flavors, func(f Flavor, _ int) string { return f.Key })
}

// Flavor returns the flavor with the given key.
func (p Palette) Flavor(key string) (Flavor, bool) {
	return lo.Find(p.Flavors, func(f Flavor) bool { return f.Key == key })
}

// Select returns the flavors named by keys, in palette order. An empty keys
// slice selects every flavor.
func (p Palette) Select(keys []string) ([]Flavor, error) {
	if len(keys) == 0 {
		return p.Flavors, nil
	}
	known := p.Keys()
	if unknown := lo.Without(lo.Uniq(keys), known...); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownFlavor,
			strings.Join(unknown, ", "), strings.Join(known, ", "))
	}
	return lo.Filter(p.Flavors, func(f Flavor, _ int) bool {
		return lo.Contains(keys, f.Key)
	}), nil
}

// Default returns the embedded Catppuccin palette.
func Default() Palette {
	return lo.Must(Parse(defaultPaletteYAML))
}

// Load reads a palette file. An empty path returns the embedded palette.
func Load(fsys afero.Fs, path string) (Palette, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Palette{}, fmt.Errorf("reading palette %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Palette{}, fmt.Errorf("palette %s: %w", path, err)
	}
	return p, nil
}

type rawPalette struct {
	Version string    `yaml:"version"`
	Flavors yaml.Node `yaml:"flavors"`
}

type rawFlavor struct {
	Name   string    `yaml:"name"`
	Dark   bool      `yaml:"dark"`
	Colors yaml.Node `yaml:"colors"`
}

type rawColor struct {
	Hex    string `yaml:"hex"`
	Accent bool   `yaml:"accent"`
}

// Parse decodes palette YAML. Flavor and color order follow the document.
//
//	version: "1.7.1"
//	flavors:
//	  mocha:
//	    name: Mocha
//	    dark: true
//	    colors:
//	      peach: {hex: "#fab387", accent: true}
func Parse(data []byte) (Palette, error) {
	var raw rawPalette
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Palette{}, fmt.Errorf("%w: %v", ErrInvalidPalette, err)
	}
	if raw.Flavors.Kind != yaml.MappingNode || len(raw.Flavors.Content) == 0 {
		return Palette{}, fmt.Errorf("%w: no flavors defined", ErrInvalidPalette)
	}

	p := Palette{Version: raw.Version}
	for i := 0; i+1 < len(raw.Flavors.Content); i += 2 {
		key := raw.Flavors.Content[i].Value
		flavor, err := parseFlavor(key, raw.Flavors.Content[i+1])
		if err != nil {
			return Palette{}, err
		}
		if _, dup := p.Flavor(key); dup {
			return Palette{}, fmt.Errorf("%w: duplicate flavor %q", ErrInvalidPalette, key)
		}
		p.Flavors = append(p.Flavors, flavor)
	}
	return p, nil
}

func parseFlavor(key string, n *yaml.Node) (Flavor, error) {
	var rf rawFlavor
	if err := n.Decode(&rf); err != nil {
		return Flavor{}, fmt.Errorf("%w: flavor %q: %v", ErrInvalidPalette, key, err)
	}
	if rf.Colors.Kind != yaml.MappingNode || len(rf.Colors.Content) == 0 {
		return Flavor{}, fmt.Errorf("%w: flavor %q has no colors", ErrInvalidPalette, key)
	}

	f := Flavor{Key: key, Name: rf.Name, Dark: rf.Dark}
	if f.Name == "" {
		f.Name = key
	}

	for i := 0; i+1 < len(rf.Colors.Content); i += 2 {
		name := rf.Colors.Content[i].Value
		var rc rawColor
		if err := rf.Colors.Content[i+1].Decode(&rc); err != nil {
			return Flavor{}, fmt.Errorf("%w: %s.%s: %v", ErrInvalidPalette, key, name, err)
		}
		if _, err := colorful.Hex(rc.Hex); err != nil {
			return Flavor{}, fmt.Errorf("%w: %s.%s: bad hex %q", ErrInvalidPalette, key, name, rc.Hex)
		}
		if _, dup := f.Lookup(name); dup {
			return Flavor{}, fmt.Errorf("%w: %s: duplicate color %q", ErrInvalidPalette, key, name)
		}
		f.Colors = append(f.Colors, Color{Name: name, Hex: rc.Hex, Accent: rc.Accent})
	}
	return f, nil
}
