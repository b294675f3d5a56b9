// Package builder turns the base theme, its fragments and a palette flavor
// into theme XML and a packaged theme archive.
package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/ziadkadry99/opus-themer/internal/archive"
	"github.com/ziadkadry99/opus-themer/internal/config"
	"github.com/ziadkadry99/opus-themer/internal/console"
	"github.com/ziadkadry99/opus-themer/internal/palette"
)

// Builder runs the per-flavor build.
type Builder struct {
	fsys       afero.Fs
	cfg        *config.Config
	log        *console.Logger
	xmlOnly    bool
	onProgress ProgressFunc
}

// New creates a Builder. A nil logger discards output.
func New(fsys afero.Fs, cfg *config.Config, log *console.Logger) *Builder {
	if log == nil {
		log = console.Discard()
	}
	return &Builder{fsys: fsys, cfg: cfg, log: log}
}

// SetProgressFunc sets the progress callback.
func (b *Builder) SetProgressFunc(fn ProgressFunc) {
	b.onProgress = fn
}

// SetXMLOnly skips archive packaging; the XML file is always written.
func (b *Builder) SetXMLOnly(v bool) {
	b.xmlOnly = v
}

// Run builds each flavor in order. Unless keep_going is set it stops at the
// first failure and returns that error. In keep-going mode every flavor is
// attempted and ErrFlavorsFailed is returned if any failed.
func (b *Builder) Run(ctx context.Context, flavors []palette.Flavor) (*Result, error) {
	start := time.Now()
	result := &Result{}
	total := len(flavors)

	for i, flavor := range flavors {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		out, err := b.BuildFlavor(flavor)
		if b.onProgress != nil {
			b.onProgress(i+1, total, flavor.Name)
		}
		if err != nil {
			b.log.Error("%s: %v", flavor.Name, err)
			result.Failures = append(result.Failures, Failure{Flavor: flavor.Key, Err: err})
			if !b.cfg.KeepGoing {
				result.Duration = time.Since(start)
				return result, fmt.Errorf("flavor %s: %w", flavor.Key, err)
			}
			continue
		}
		result.Outputs = append(result.Outputs, *out)
	}

	result.Duration = time.Since(start)
	if len(result.Failures) > 0 {
		return result, fmt.Errorf("%w: %d of %d flavor(s)", ErrFlavorsFailed, len(result.Failures), total)
	}
	return result, nil
}

// BuildFlavor renders flavor, writes its XML file and packages its archive.
func (b *Builder) BuildFlavor(flavor palette.Flavor) (*Output, error) {
	b.log.Section("%s", b.cfg.ThemeName(flavor.Name))

	rendered, err := b.Render(flavor)
	if err != nil {
		return nil, err
	}
	b.log.Success("Merged %d fragment(s) into <%s>", len(rendered.Fragments), rendered.RootName)

	out := &Output{Flavor: flavor.Key, Fragments: len(rendered.Fragments)}
	data := []byte(rendered.XML)

	if b.cfg.KeepXML || b.xmlOnly {
		out.XMLPath = b.cfg.XMLPath(flavor.Key)
		if err := b.writeXML(out.XMLPath, data); err != nil {
			return nil, err
		}
		b.log.Success("Wrote %s", out.XMLPath)
	}

	if b.xmlOnly {
		return out, nil
	}

	out.ArchivePath = b.cfg.ArchivePath(flavor.Name)
	size, entries, err := b.pack(flavor, out.ArchivePath, data)
	if err != nil {
		return nil, err
	}
	out.ArchiveSize = size
	out.Entries = entries
	b.log.Success("Created %s (%s, %d files)", filepath.Base(out.ArchivePath), humanize.Bytes(uint64(size)), entries)
	return out, nil
}

func (b *Builder) writeXML(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := b.fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(b.fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// pack writes the theme archive: theme.xml, the Images tree and the flavor's
// preview image. Missing images or preview are warnings.
func (b *Builder) pack(flavor palette.Flavor, path string, xml []byte) (int64, int, error) {
	if exists, _ := afero.Exists(b.fsys, path); exists {
		if err := b.fsys.Remove(path); err != nil {
			return 0, 0, fmt.Errorf("removing existing archive %s: %w", path, err)
		}
		b.log.Warn("Removed existing archive: %s", filepath.Base(path))
	}

	ar, err := archive.Create(b.fsys, path, b.cfg.CompressionLevel)
	if err != nil {
		return 0, 0, err
	}

	if err := ar.AddBytes(archive.ThemeEntry, xml); err != nil {
		ar.Abort()
		return 0, 0, err
	}

	imagesDir := b.cfg.ResolvedImagesDir()
	if ok, _ := afero.DirExists(b.fsys, imagesDir); ok {
		n, err := ar.AddDir(archive.ImagesEntry, imagesDir)
		if err != nil {
			ar.Abort()
			return 0, 0, err
		}
		b.log.Debug("Added %d image(s) from %s", n, imagesDir)
	} else {
		b.log.Warn("Images directory not found at %s", imagesDir)
	}

	if preview, ok := b.findPreview(flavor.Key); ok {
		if err := ar.AddFile(archive.PreviewEntry, preview); err != nil {
			ar.Abort()
			return 0, 0, err
		}
		b.log.Debug("Added preview %s", preview)
	} else {
		b.log.Warn("Preview file not found for %s in %s", flavor.Key, b.cfg.ResolvedPreviewDir())
	}

	entries := ar.Entries()
	size, err := ar.Close()
	if err != nil {
		ar.Abort()
		return 0, 0, err
	}
	return size, entries, nil
}

// findPreview looks for <key>.jpg, then preview-<key>.jpg, then
// preview-fallback.jpg in the preview directory.
func (b *Builder) findPreview(key string) (string, bool) {
	dir := b.cfg.ResolvedPreviewDir()
	for _, name := range []string{key + ".jpg", "preview-" + key + ".jpg", "preview-fallback.jpg"} {
		p := filepath.Join(dir, name)
		if ok, _ := afero.Exists(b.fsys, p); ok {
			return p, true
		}
	}
	return "", false
}
