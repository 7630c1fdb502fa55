package packman

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

const (
	// DefaultExt is the extension eligible pack files carry.
	DefaultExt = ".json"

	// DefaultOutputName is the conventional manifest file name. It is always
	// excluded from discovery: including the manifest in itself would make
	// its hash depend on its own prior content.
	DefaultOutputName = "packs.json"
)

// Record pairs a pack's file name with the sha256 of its content bytes.
type Record struct {
	FileName string `json:"fileName"`
	SHA256   string `json:"sha256"`
}

// Manifest is the ordered pack record set under a single "packs" key.
type Manifest struct {
	Packs []Record `json:"packs"`
}

// Build maps dir to a manifest: one discovery pass, then one streaming hash
// per file in discovery order. Exactly one file is open at a time, and the
// directory is never mutated. A file that disappears between discovery and
// hashing fails the whole build with ErrUnreadable.
func Build(dir string, opts ...BuildOption) (*Manifest, error) {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(o)
	}

	excludes := make(map[string]struct{}, len(o.Excludes)+2)
	excludes[DefaultOutputName] = struct{}{}
	if o.Output != "" {
		excludes[filepath.Base(o.Output)] = struct{}{}
	}
	for _, name := range o.Excludes {
		excludes[name] = struct{}{}
	}

	names, err := Discover(dir, o.Ext, excludes)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPacks, dir)
	}

	return buildRecords(dir, names)
}

// buildRecords hashes names strictly in the given order.
func buildRecords(dir string, names []string) (*Manifest, error) {
	m := &Manifest{Packs: make([]Record, 0, len(names))}
	for _, name := range names {
		digest, err := HashFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		m.Packs = append(m.Packs, Record{FileName: name, SHA256: digest})
	}
	return m, nil
}

// LoadManifest reads and parses the manifest document at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ParseManifest parses a manifest document and validates its record shape:
// non-empty unique file names and 64-char lowercase hex digests.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	seen := make(map[string]struct{}, len(m.Packs))
	for _, r := range m.Packs {
		if r.FileName == "" {
			return nil, fmt.Errorf("parse manifest: record with empty fileName")
		}
		if _, dup := seen[r.FileName]; dup {
			return nil, fmt.Errorf("parse manifest: duplicate record %q", r.FileName)
		}
		seen[r.FileName] = struct{}{}
		if !hexDigest.MatchString(r.SHA256) {
			return nil, fmt.Errorf("parse manifest: %q: malformed sha256 %q", r.FileName, r.SHA256)
		}
	}
	return &m, nil
}

// Diff compares two manifests by file name. Added holds names only in next,
// removed names only in prev, changed names present in both with different
// digests. All three are sorted.
func Diff(prev, next *Manifest) (added, removed, changed []string) {
	old := make(map[string]string, len(prev.Packs))
	for _, r := range prev.Packs {
		old[r.FileName] = r.SHA256
	}

	for _, r := range next.Packs {
		digest, ok := old[r.FileName]
		switch {
		case !ok:
			added = append(added, r.FileName)
		case digest != r.SHA256:
			changed = append(changed, r.FileName)
		}
		delete(old, r.FileName)
	}
	for name := range old {
		removed = append(removed, name)
	}

	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(changed)
	return added, removed, changed
}
