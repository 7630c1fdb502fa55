package packman

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFiltering(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "b.json", []byte("{}"))
	writePack(t, dir, "a.JSON", []byte("{}"))
	writePack(t, dir, "notes.txt", []byte("skip"))
	writePack(t, dir, "excluded.json", []byte("{}"))
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := Discover(dir, ".json", map[string]struct{}{"excluded.json": {}})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a.JSON", "b.json"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestDiscoverSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zebra.json", "alpha.json", "Mid.json", "10.json"} {
		writePack(t, dir, name, []byte("{}"))
	}

	names, err := Discover(dir, ".json", nil)
	if err != nil {
		t.Fatal(err)
	}

	// Byte order: digits < uppercase < lowercase.
	want := []string{"10.json", "Mid.json", "alpha.json", "zebra.json"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestDiscoverSkipsBareDotfile(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, ".json", []byte("{}"))
	writePack(t, dir, ".JSON", []byte("{}"))
	writePack(t, dir, "a.json", []byte("{}"))

	names, err := Discover(dir, ".json", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "a.json" {
		t.Fatalf("got %v, want [a.json]", names)
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), ".json", nil)
	if !errors.Is(err, ErrDirNotFound) {
		t.Fatalf("got %v, want ErrDirNotFound", err)
	}
}

func TestDiscoverPathIsFile(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "plain.json", []byte("{}"))

	_, err := Discover(filepath.Join(dir, "plain.json"), ".json", nil)
	if !errors.Is(err, ErrDirNotFound) {
		t.Fatalf("got %v, want ErrDirNotFound", err)
	}
}

func TestDiscoverCaseCollision(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "Pack.json", []byte("{}"))
	writePack(t, dir, "pack.json", []byte("{}"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) < 2 {
		t.Skip("case-insensitive filesystem")
	}

	_, err = Discover(dir, ".json", nil)
	if !errors.Is(err, ErrNameCollision) {
		t.Fatalf("got %v, want ErrNameCollision", err)
	}
}

func TestDiscoverSymlinks(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "real.json", []byte("{}"))

	if err := os.Symlink(filepath.Join(dir, "real.json"), filepath.Join(dir, "link.json")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone.json.target"), filepath.Join(dir, "dangling.json")); err != nil {
		t.Fatal(err)
	}

	names, err := Discover(dir, ".json", nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"link.json", "real.json"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}
