package packman

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// Verify re-hashes every record's file under dir and fails on any mismatch or
// unreadable file. A manifest consumer must reject a failing pack set, not
// silently ignore it. Unlike a build, verification is order-independent, so
// records are checked on a bounded pool; the report still lists every failing
// record in name order.
func Verify(ctx context.Context, dir string, m *Manifest, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu       sync.Mutex
		failures []string
	)

	p := pool.New().WithMaxGoroutines(concurrency).WithContext(ctx)
	for _, rec := range m.Packs {
		rec := rec
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			digest, err := HashFile(filepath.Join(dir, rec.FileName))
			if err == nil && digest != rec.SHA256 {
				err = fmt.Errorf("%w: recorded %s, computed %s", ErrMismatch, rec.SHA256, digest)
			}
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", rec.FileName, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	if len(failures) > 0 {
		sort.Strings(failures)
		return fmt.Errorf("packman: verification failed for %d pack(s):\n  %s",
			len(failures), strings.Join(failures, "\n  "))
	}
	return nil
}
