package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func openTestStore(t *testing.T) *Local {
	t.Helper()
	s, err := Open(t.TempDir(), 8)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundtrip(t *testing.T) {
	s := openTestStore(t)

	cases := map[string][]byte{
		"tiny":         []byte("{}"), // below compressMin, stored raw
		"compressible": bytes.Repeat([]byte("quote quote quote "), 200),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			hash, err := s.Put(data)
			if err != nil {
				t.Fatal(err)
			}
			sum := sha256.Sum256(data)
			if want := hex.EncodeToString(sum[:]); hash != want {
				t.Fatalf("hash %s, want %s", hash, want)
			}

			got, err := s.Get(hash)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, data) {
				t.Fatal("roundtrip bytes differ")
			}
		})
	}
}

func TestGetBypassesCache(t *testing.T) {
	s := openTestStore(t)

	data := bytes.Repeat([]byte("compressed on disk "), 100)
	hash, err := s.Put(data)
	if err != nil {
		t.Fatal(err)
	}

	// Fresh store over the same directory: nothing cached, must decompress
	// from disk.
	cold, err := Open(s.basePath, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer cold.Close()

	got, err := cold.Get(hash)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("disk roundtrip bytes differ")
	}
}

func TestRawObjectThatLooksLikeZstd(t *testing.T) {
	s := openTestStore(t)

	// A pack whose raw bytes form a valid zstd frame must come back verbatim,
	// not decompressed.
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	frame := enc.EncodeAll([]byte("inner payload"), nil)
	enc.Close()
	if len(frame) >= compressMin {
		t.Fatalf("frame too large to be stored raw: %d bytes", len(frame))
	}

	hash, err := s.Put(frame)
	if err != nil {
		t.Fatal(err)
	}

	// Cold store over the same directory so the read comes from disk, not
	// the cache.
	cold, err := Open(s.basePath, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer cold.Close()

	got, err := cold.Get(hash)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, frame) {
		t.Fatalf("raw frame bytes were mangled: got %d bytes, want %d", len(got), len(frame))
	}
}

func TestPutIdempotent(t *testing.T) {
	s := openTestStore(t)

	first, err := s.Put([]byte("same content"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Put([]byte("same content"))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("hashes differ: %s vs %s", first, second)
	}
}

func TestHas(t *testing.T) {
	s := openTestStore(t)

	hash, err := s.Put([]byte("present"))
	if err != nil {
		t.Fatal(err)
	}
	if !s.Has(hash) {
		t.Fatal("Has = false for stored object")
	}
	if s.Has("0000000000000000000000000000000000000000000000000000000000000000") {
		t.Fatal("Has = true for missing object")
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("got %v, want ErrObjectNotFound", err)
	}
}

func TestRefs(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutRef("main", "abc123"); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetRef("main")
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc123" {
		t.Fatalf("ref = %q, want abc123", got)
	}

	_, err = s.GetRef("missing")
	if !errors.Is(err, ErrRefNotFound) {
		t.Fatalf("got %v, want ErrRefNotFound", err)
	}
}

func TestObjectSharding(t *testing.T) {
	s := openTestStore(t)

	hash, err := s.Put([]byte("sharded"))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(s.basePath, "objects", hash[:2], hash[2:])
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("object not at sharded path %s: %v", path, err)
	}
}
