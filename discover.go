package packman

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists the eligible pack files in dir: regular files (a symlink
// resolving to a regular file counts) whose extension matches ext
// case-insensitively and whose name is not in excludes. The result is sorted
// in byte order, independent of how the filesystem iterates the directory.
func Discover(dir, ext string, excludes map[string]struct{}) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	names := make([]string, 0, len(entries))
	folded := make(map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		// A bare dotfile like ".json" is all extension and no stem, not a pack.
		if strings.EqualFold(name, ext) {
			continue
		}
		if _, skip := excludes[name]; skip {
			continue
		}
		// Stat follows symlinks, so a link to a regular file is eligible
		// while dangling links, directories, and special files are not.
		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		// Two names that fold to the same string would pick different
		// winners on case-insensitive filesystems.
		lower := strings.ToLower(name)
		if prev, ok := folded[lower]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrNameCollision, prev, name)
		}
		folded[lower] = name
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}
