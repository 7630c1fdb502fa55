// Package store implements the local pack archive: a content-addressed
// object store holding known-good pack bytes plus named manifest refs.
//
// Layout:
//
//	basePath/
//	  objects/
//	    ab/cdef...  (format byte + raw or zstd bytes, keyed by sha256 of raw bytes)
//	  refs/
//	    <name>      (plain text: 64-char hex manifest digest)
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

var (
	ErrObjectNotFound = errors.New("store: object not found")
	ErrRefNotFound    = errors.New("store: ref not found")
)

// compressMin is the size below which objects are stored raw; tiny packs
// don't shrink under zstd.
const compressMin = 128

// Stored objects start with a format byte so raw bytes that happen to form a
// valid zstd frame are never mis-decompressed.
const (
	formatRaw  byte = 0
	formatZstd byte = 1
)

// Local is a filesystem-backed archive with a small in-memory cache.
type Local struct {
	basePath string
	cache    *memCache
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// Open creates or opens the archive rooted at basePath.
func Open(basePath string, cacheSize int) (*Local, error) {
	for _, dir := range []string{
		filepath.Join(basePath, "objects"),
		filepath.Join(basePath, "refs"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive dir %s: %w", dir, err)
		}
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	return &Local{
		basePath: basePath,
		cache:    newMemCache(cacheSize),
		encoder:  encoder,
		decoder:  decoder,
	}, nil
}

// Put stores data under its sha256 and returns the hash. Storing content that
// already exists is a no-op.
func (s *Local) Put(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	path := s.objectPath(hash)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(path, s.compress(data), 0644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	s.cache.add(hash, data)
	return hash, nil
}

// Get retrieves an object's raw bytes by hash.
func (s *Local) Get(hash string) ([]byte, error) {
	if data, ok := s.cache.get(hash); ok {
		return data, nil
	}

	stored, err := os.ReadFile(s.objectPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, hash)
		}
		return nil, fmt.Errorf("read object: %w", err)
	}

	data, err := s.decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("decode object %s: %w", hash, err)
	}
	s.cache.add(hash, data)
	return data, nil
}

// Has reports whether an object exists.
func (s *Local) Has(hash string) bool {
	if s.cache.has(hash) {
		return true
	}
	_, err := os.Stat(s.objectPath(hash))
	return err == nil
}

// PutRef points a named ref at a manifest digest.
func (s *Local) PutRef(name, digest string) error {
	if err := os.WriteFile(s.refPath(name), []byte(digest+"\n"), 0644); err != nil {
		return fmt.Errorf("write ref %s: %w", name, err)
	}
	return nil
}

// GetRef returns the manifest digest a named ref points at.
func (s *Local) GetRef(name string) (string, error) {
	data, err := os.ReadFile(s.refPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrRefNotFound, name)
		}
		return "", fmt.Errorf("read ref %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Local) Close() error {
	if s.encoder != nil {
		s.encoder.Close()
	}
	if s.decoder != nil {
		s.decoder.Close()
	}
	return nil
}

// compress returns data prefixed with its format byte: zstd when that
// shrinks it, raw otherwise. decompress undoes either form.
func (s *Local) compress(data []byte) []byte {
	if len(data) >= compressMin {
		compressed := s.encoder.EncodeAll(data, append(make([]byte, 0, len(data)), formatZstd))
		if len(compressed) < len(data)+1 {
			return compressed
		}
	}
	return append([]byte{formatRaw}, data...)
}

func (s *Local) decompress(stored []byte) ([]byte, error) {
	if len(stored) == 0 {
		return nil, fmt.Errorf("empty stored object")
	}
	switch stored[0] {
	case formatRaw:
		return stored[1:], nil
	case formatZstd:
		return s.decoder.DecodeAll(stored[1:], nil)
	default:
		return nil, fmt.Errorf("unknown object format %#x", stored[0])
	}
}

// objectPath shards objects git-style: objects/ab/cdef...
func (s *Local) objectPath(hash string) string {
	if len(hash) < 4 {
		return filepath.Join(s.basePath, "objects", hash)
	}
	return filepath.Join(s.basePath, "objects", hash[:2], hash[2:])
}

func (s *Local) refPath(name string) string {
	return filepath.Join(s.basePath, "refs", name)
}
