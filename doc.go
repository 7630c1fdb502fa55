// Package packman builds and verifies content-addressable manifests for quote
// pack assets.
//
// A pack is a single JSON content file in a flat assets directory. A build
// maps that directory to a canonical manifest document listing every pack's
// file name and sha256 digest, in lexicographic order, so downstream loaders
// can enumerate packs and verify their integrity at load time.
//
// Basic usage:
//
//	m, _ := packman.Build("app/assets", packman.WithOutput("app/assets/packs.json"))
//
//	// Write the canonical document (creates parent dirs, overwrites).
//	n, _ := m.WriteFile("app/assets/packs.json")
//	fmt.Printf("wrote %d pack(s)\n", n)
//
//	// Consumer side: reject any pack whose bytes no longer match.
//	m, _ = packman.LoadManifest("app/assets/packs.json")
//	err := packman.Verify(ctx, "app/assets", m, 4)
//
//	// Compare two manifests.
//	added, removed, changed := packman.Diff(old, m)
//
// Builds are deterministic: for a fixed directory snapshot, repeated builds
// produce byte-identical manifest bytes. The output file's own name is always
// excluded from discovery so the manifest never hashes itself.
//
// Beyond the build pipeline, an Archive keeps known-good pack bytes in a
// content-addressed local store for later restore, and internal/remote
// publishes a manifest plus its packs to an OCI registry as a pack bundle.
package packman
