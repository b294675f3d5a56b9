// Package archive writes the zip-based theme archives the file manager
// imports.
package archive

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

// DefaultLevel is the deflate level used when none is configured.
const DefaultLevel = flate.BestCompression

// Entry names the file manager expects inside a theme archive.
const (
	ThemeEntry   = "theme.xml"
	ImagesEntry  = "Images"
	PreviewEntry = "preview.jpg"
)

// Archive is a zip archive being written to a filesystem.
type Archive struct {
	fsys    afero.Fs
	path    string
	file    afero.File
	zw      *zip.Writer
	entries int
	closed  bool
}

// Create opens a new archive at p, replacing any existing file. Level is a
// deflate level from -2 to 9; out-of-range values fall back to DefaultLevel.
func Create(fsys afero.Fs, p string, level int) (*Archive, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = DefaultLevel
	}

	if dir := filepath.Dir(p); dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive: create dir %s: %w", dir, err)
		}
	}

	f, err := fsys.Create(p)
	if err != nil {
		return nil, fmt.Errorf("archive: create %s: %w", p, err)
	}

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	return &Archive{fsys: fsys, path: p, file: f, zw: zw}, nil
}

// Path returns the archive's location.
func (a *Archive) Path() string {
	return a.path
}

// Entries returns the number of files added so far.
func (a *Archive) Entries() int {
	return a.entries
}

// AddBytes stores data under name.
func (a *Archive) AddBytes(name string, data []byte) error {
	w, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("archive: add %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("archive: write %s: %w", name, err)
	}
	a.entries++
	return nil
}

// AddFile copies the file at src into the archive under name.
func (a *Archive) AddFile(name, src string) error {
	f, err := a.fsys.Open(src)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", src, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("archive: stat %s: %w", src, err)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("archive: header %s: %w", src, err)
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := a.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("archive: add %s: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("archive: copy %s: %w", src, err)
	}
	a.entries++
	return nil
}

// AddDir adds every regular file under srcDir, stored below prefix with
// slash-separated names. It returns the number of files added.
func (a *Archive) AddDir(prefix, srcDir string) (int, error) {
	added := 0
	err := afero.Walk(a.fsys, srcDir, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		if err := a.AddFile(path.Join(prefix, filepath.ToSlash(rel)), p); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("archive: add dir %s: %w", srcDir, err)
	}
	return added, nil
}

// Close finalizes the archive and returns its size in bytes.
func (a *Archive) Close() (int64, error) {
	if a.closed {
		return 0, fmt.Errorf("archive: %s already closed", a.path)
	}
	a.closed = true

	if err := a.zw.Close(); err != nil {
		a.file.Close()
		return 0, fmt.Errorf("archive: finalize %s: %w", a.path, err)
	}
	if err := a.file.Close(); err != nil {
		return 0, fmt.Errorf("archive: close %s: %w", a.path, err)
	}

	info, err := a.fsys.Stat(a.path)
	if err != nil {
		return 0, fmt.Errorf("archive: stat %s: %w", a.path, err)
	}
	return info.Size(), nil
}

// Abort closes the archive and removes the partial file.
func (a *Archive) Abort() {
	if !a.closed {
		a.closed = true
		a.zw.Close()
		a.file.Close()
	}
	a.fsys.Remove(a.path)
}
