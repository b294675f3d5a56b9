package builder

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/opus-themer/internal/doctree"
	"github.com/ziadkadry99/opus-themer/internal/fragments"
	"github.com/ziadkadry99/opus-themer/internal/palette"
	"github.com/ziadkadry99/opus-themer/internal/xmlgen"
)

// Render merges the base theme with every fragment and returns the XML for
// flavor with color placeholders resolved. Nothing is written.
func (b *Builder) Render(flavor palette.Flavor) (*Rendered, error) {
	base, rootKey, err := b.loadBase()
	if err != nil {
		return nil, err
	}
	b.stampRoot(base, rootKey, flavor)

	merged, used, err := b.mergeFragments(base, rootKey)
	if err != nil {
		return nil, err
	}

	xml := xmlgen.Serialize(merged, rootKey)

	sub := palette.NewSubstitutor(flavor, b.cfg.Accent)
	xml = sub.Replace(xml)
	if b.cfg.Accent != "" && !sub.AccentFound {
		b.log.Warn("Accent %q is not a %s color; accent placeholders left as is", b.cfg.Accent, flavor.Name)
	}

	unresolved := palette.Unresolved(xml)
	if len(unresolved) > 0 && b.log.Verbose() {
		b.log.Warn("Unresolved color placeholders: %s", strings.Join(unresolved, ", "))
	}

	return &Rendered{
		Flavor:      flavor.Key,
		RootName:    rootKey,
		XML:         xml,
		Fragments:   used,
		Unresolved:  unresolved,
		AccentFound: sub.AccentFound,
	}, nil
}

func (b *Builder) basePath() string {
	return filepath.Join(b.cfg.ResolvedFragmentsDir(), b.cfg.BaseFile)
}

// loadBase reads the base document and returns it with its root key. The
// base is decoded fresh on every call so stamping never leaks between
// flavors.
func (b *Builder) loadBase() (*doctree.Node, string, error) {
	path := b.basePath()
	b.log.Step("Reading base theme from %s", filepath.Base(path))

	tree, err := fragments.ReadDocument(b.fsys, path)
	if err != nil {
		return nil, "", fmt.Errorf("%w %s: %w", ErrInvalidBase, path, err)
	}
	rootKey, ok := tree.RootKey()
	if !ok {
		return nil, "", fmt.Errorf("%w %s: no root element", ErrInvalidBase, path)
	}
	return tree, rootKey, nil
}

// stampRoot sets the theme name and color bank on the root element, but only
// when the base already declares root attributes.
func (b *Builder) stampRoot(tree *doctree.Node, rootKey string, flavor palette.Flavor) {
	root, ok := tree.Get(rootKey)
	if !ok || !root.HasAttrs() {
		b.log.Debug("Root %q has no attributes; theme name not stamped", rootKey)
		return
	}
	root.SetAttr("name", b.cfg.ThemeName(flavor.Name))
	root.SetAttr("color_set_bank", flavor.ColorBank())
}

// mergeFragments folds every usable fragment's root value into the base root
// value, in discovery order.
func (b *Builder) mergeFragments(base *doctree.Node, rootKey string) (*doctree.Node, []string, error) {
	files, err := fragments.Discover(b.fsys, fragments.Options{
		Dir:      b.cfg.ResolvedFragmentsDir(),
		BaseFile: b.cfg.BaseFile,
		Include:  b.cfg.Include,
		Exclude:  b.cfg.Exclude,
	})
	if err != nil {
		return nil, nil, err
	}
	b.log.Debug("Found %d fragment file(s)", len(files))

	loaded, skipped := fragments.LoadAll(b.fsys, files)
	for _, s := range skipped {
		if fragments.IsEmpty(s.Err) {
			b.log.Warn("Empty YAML fragment: %s", s.RelPath)
			continue
		}
		b.log.Warn("Skipping invalid YAML fragment %s: %v", s.RelPath, s.Err)
	}

	root, _ := base.Get(rootKey)
	var used []string
	for _, frag := range loaded {
		part, ok := frag.Tree.Get(rootKey)
		if !ok || part.Kind == doctree.KindNull {
			b.log.Debug("Fragment %s has no %q root; skipped", frag.RelPath, rootKey)
			continue
		}
		b.log.Debug("Merging fragment %s", frag.RelPath)
		root = doctree.Merge(root, part)
		used = append(used, frag.RelPath)
	}

	merged := base.Clone()
	merged.Set(rootKey, root)
	return merged, used, nil
}
