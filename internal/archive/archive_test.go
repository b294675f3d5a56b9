package archive

import (
	"bytes"
	"io"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

func readArchive(t *testing.T, fsys afero.Fs, p string) map[string]string {
	t.Helper()
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = string(b)
	}
	return out
}

func TestArchiveContents(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/assets/Images/bg.png":        "png-bytes",
		"/assets/Images/Icons/dir.ico": "ico-bytes",
		"/assets/preview/mocha.jpg":    "jpg-bytes",
	}
	for p, c := range files {
		if err := afero.WriteFile(fsys, p, []byte(c), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	a, err := Create(fsys, "/dist/Theme.dlt", 9)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := a.AddBytes("theme.xml", []byte("<r />\n")); err != nil {
		t.Fatalf("AddBytes() error: %v", err)
	}
	n, err := a.AddDir("Images", "/assets/Images")
	if err != nil {
		t.Fatalf("AddDir() error: %v", err)
	}
	if n != 2 {
		t.Errorf("AddDir() added %d, want 2", n)
	}
	if err := a.AddFile("preview.jpg", "/assets/preview/mocha.jpg"); err != nil {
		t.Fatalf("AddFile() error: %v", err)
	}
	if a.Entries() != 4 {
		t.Errorf("Entries() = %d, want 4", a.Entries())
	}

	size, err := a.Close()
	if err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if size <= 0 {
		t.Errorf("Close() size = %d, want > 0", size)
	}

	got := readArchive(t, fsys, "/dist/Theme.dlt")
	want := map[string]string{
		"theme.xml":            "<r />\n",
		"Images/bg.png":        "png-bytes",
		"Images/Icons/dir.ico": "ico-bytes",
		"preview.jpg":          "jpg-bytes",
	}
	var names []string
	for name := range got {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(got) != len(want) {
		t.Fatalf("archive entries = %v, want %d entries", names, len(want))
	}
	for name, content := range want {
		if got[name] != content {
			t.Errorf("%s = %q, want %q", name, got[name], content)
		}
	}
}

func TestCreateReplacesExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/out.dlt", []byte("stale data that is not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := Create(fsys, "/out.dlt", 99)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := a.AddBytes("theme.xml", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Close(); err != nil {
		t.Fatal(err)
	}

	got := readArchive(t, fsys, "/out.dlt")
	if len(got) != 1 || got["theme.xml"] != "x" {
		t.Errorf("archive = %v, want only theme.xml", got)
	}
}

func TestCloseTwice(t *testing.T) {
	fsys := afero.NewMemMapFs()
	a, err := Create(fsys, "/x.dlt", DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Close(); err == nil {
		t.Error("second Close() should fail")
	}
}

func TestAbortRemovesFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	a, err := Create(fsys, "/x.dlt", DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	a.Abort()
	if ok, _ := afero.Exists(fsys, "/x.dlt"); ok {
		t.Error("Abort() should remove the partial archive")
	}
}

func TestAddFileMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	a, err := Create(fsys, "/x.dlt", DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Abort()
	if err := a.AddFile("preview.jpg", "/nope.jpg"); err == nil {
		t.Error("expected error for missing source")
	}
}
