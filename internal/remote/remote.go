// Package remote publishes pack bundles to OCI registries and fetches them
// back.
//
// A bundle is an OCI image: one zstd layer for the manifest document and one
// per pack, so unchanged pack content dedups across tags. Config labels carry
// the manifest layer digest and the fileName-to-layer mapping.
package remote

import "context"

// Remote handles registry operations for pack bundles.
type Remote interface {
	// Publish uploads the manifest document and the named pack contents.
	Publish(ctx context.Context, manifestDoc []byte, packs map[string][]byte) error

	// Fetch downloads the manifest document and every pack it names.
	Fetch(ctx context.Context) (manifestDoc []byte, packs map[string][]byte, err error)
}
