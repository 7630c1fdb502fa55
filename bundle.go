package packman

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quotepacks/packman/internal/remote"
)

// Authenticator provides credentials for registry operations.
// Re-exported from internal/remote for convenience.
type Authenticator = remote.Authenticator

// StaticAuth returns an Authenticator with fixed credentials. A nil
// Authenticator falls back to the Docker keychain.
func StaticAuth(username, password string) Authenticator {
	return remote.StaticAuthenticator{Username: username, Password: password}
}

// PublishBundle pushes the manifest document and every pack it names from dir
// to an OCI registry ref. Each pack is re-read and checked against its
// recorded digest first, so drifted content is never published.
func PublishBundle(ctx context.Context, imageRef, dir string, m *Manifest, auth Authenticator, concurrency int) error {
	r, err := remote.NewOCIRemote(imageRef, auth)
	if err != nil {
		return err
	}
	r.SetConcurrency(concurrency)

	doc, err := m.Encode()
	if err != nil {
		return err
	}

	packs := make(map[string][]byte, len(m.Packs))
	for _, rec := range m.Packs {
		data, err := os.ReadFile(filepath.Join(dir, rec.FileName))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnreadable, rec.FileName, err)
		}
		if HashBytes(data) != rec.SHA256 {
			return fmt.Errorf("%w: %s changed since the manifest was built", ErrMismatch, rec.FileName)
		}
		packs[rec.FileName] = data
	}

	return r.Publish(ctx, doc, packs)
}

// FetchBundle downloads the bundle at an OCI registry ref into dir, rejecting
// any pack whose bytes don't match the bundled manifest. The manifest
// document is written alongside the packs so the set is load-ready.
func FetchBundle(ctx context.Context, imageRef, dir string, auth Authenticator, concurrency int) (*Manifest, error) {
	r, err := remote.NewOCIRemote(imageRef, auth)
	if err != nil {
		return nil, err
	}
	r.SetConcurrency(concurrency)

	doc, packs, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(doc)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	for _, rec := range m.Packs {
		data, ok := packs[rec.FileName]
		if !ok {
			return nil, fmt.Errorf("%w: bundle missing %s", ErrNotFound, rec.FileName)
		}
		if HashBytes(data) != rec.SHA256 {
			return nil, fmt.Errorf("%w: %s corrupted in transit", ErrMismatch, rec.FileName)
		}
		if err := os.WriteFile(filepath.Join(dir, rec.FileName), data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", rec.FileName, err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultOutputName), doc, 0644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return m, nil
}
