package packman

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quotepacks/packman/internal/store"
)

// Archive keeps known-good pack bytes in a content-addressed local store so a
// verified pack set can be restored after corruption is detected. Objects are
// keyed by the same sha256 the manifest records, so the manifest doubles as
// the archive's table of contents.
type Archive struct {
	store *store.Local
}

// OpenArchive creates or opens the archive rooted at dir.
func OpenArchive(dir string) (*Archive, error) {
	s, err := store.Open(dir, 64)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Archive{store: s}, nil
}

func (a *Archive) Close() error {
	return a.store.Close()
}

// Save stores every record's bytes plus the manifest document itself, then
// points ref at the manifest digest. Content that is already archived is
// skipped, so saving an unchanged pack set only moves the ref.
func (a *Archive) Save(dir string, m *Manifest, ref string) error {
	for _, rec := range m.Packs {
		data, err := os.ReadFile(filepath.Join(dir, rec.FileName))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnreadable, rec.FileName, err)
		}
		hash, err := a.store.Put(data)
		if err != nil {
			return fmt.Errorf("archive %s: %w", rec.FileName, err)
		}
		if hash != rec.SHA256 {
			return fmt.Errorf("%w: %s changed since the manifest was built", ErrMismatch, rec.FileName)
		}
	}

	doc, err := m.Encode()
	if err != nil {
		return err
	}
	digest, err := a.store.Put(doc)
	if err != nil {
		return fmt.Errorf("archive manifest: %w", err)
	}
	if err := a.store.PutRef(ref, digest); err != nil {
		return fmt.Errorf("update ref %s: %w", ref, err)
	}
	return nil
}

// Restore materializes the pack set named by ref into dir, along with its
// manifest document, verifying every object against its recorded digest on
// the way out.
func (a *Archive) Restore(ref, dir string) (*Manifest, error) {
	digest, err := a.store.GetRef(ref)
	if err != nil {
		if errors.Is(err, store.ErrRefNotFound) {
			return nil, fmt.Errorf("%w: ref %s", ErrNotFound, ref)
		}
		return nil, err
	}

	doc, err := a.store.Get(digest)
	if err != nil {
		if errors.Is(err, store.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: manifest object %s", ErrNotFound, digest)
		}
		return nil, err
	}
	m, err := ParseManifest(doc)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create restore dir: %w", err)
	}
	for _, rec := range m.Packs {
		data, err := a.store.Get(rec.SHA256)
		if err != nil {
			if errors.Is(err, store.ErrObjectNotFound) {
				return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, rec.FileName, rec.SHA256)
			}
			return nil, err
		}
		if HashBytes(data) != rec.SHA256 {
			return nil, fmt.Errorf("%w: %s decayed in archive", ErrMismatch, rec.FileName)
		}
		if err := os.WriteFile(filepath.Join(dir, rec.FileName), data, 0644); err != nil {
			return nil, fmt.Errorf("restore %s: %w", rec.FileName, err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultOutputName), doc, 0644); err != nil {
		return nil, fmt.Errorf("restore manifest: %w", err)
	}
	return m, nil
}
