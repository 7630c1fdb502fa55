package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/klauspost/compress/zstd"
	"github.com/sourcegraph/conc/pool"
)

const DefaultConcurrency = 4

// Bundle image config labels.
const (
	manifestLabel = "io.packman.manifest" // digest of the layer holding the manifest document
	packsLabel    = "io.packman.packs"    // JSON map: fileName -> layer digest
)

type OCIRemote struct {
	ref         name.Reference
	auth        Authenticator
	concurrency int
}

// NewOCIRemote creates a remote from a standard Docker ref
// (e.g., "ghcr.io/acme/quotepacks:main").
func NewOCIRemote(imageRef string, auth Authenticator) (*OCIRemote, error) {
	ref, err := name.ParseReference(imageRef, name.WithDefaultTag("latest"))
	if err != nil {
		return nil, fmt.Errorf("invalid image ref %q: %w", imageRef, err)
	}
	return &OCIRemote{ref: ref, auth: auth, concurrency: DefaultConcurrency}, nil
}

// SetConcurrency sets the number of parallel operations for push/pull.
func (r *OCIRemote) SetConcurrency(n int) {
	if n > 0 {
		r.concurrency = n
	}
}

func (r *OCIRemote) String() string   { return r.ref.String() }
func (r *OCIRemote) Registry() string { return r.ref.Context().RegistryStr() }
func (r *OCIRemote) Tag() string      { return r.ref.Identifier() }

// packLayer implements v1.Layer with zstd compression for remote transfer.
type packLayer struct {
	compressed   []byte
	uncompressed []byte
}

var zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))

func newPackLayer(data []byte) *packLayer {
	return &packLayer{
		compressed:   zstdEncoder.EncodeAll(data, nil),
		uncompressed: data,
	}
}

func (l *packLayer) Digest() (v1.Hash, error) {
	h, _, err := v1.SHA256(bytes.NewReader(l.compressed))
	return h, err
}

func (l *packLayer) DiffID() (v1.Hash, error) {
	h, _, err := v1.SHA256(bytes.NewReader(l.uncompressed))
	return h, err
}

func (l *packLayer) Compressed() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.compressed)), nil
}

func (l *packLayer) Uncompressed() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.uncompressed)), nil
}

func (l *packLayer) Size() (int64, error)                { return int64(len(l.compressed)), nil }
func (l *packLayer) MediaType() (types.MediaType, error) { return types.OCILayerZStd, nil }

// Publish uploads the manifest document plus one layer per pack and writes
// the image to the ref's tag. Layer order is name order so the image digest
// is deterministic for a given bundle.
func (r *OCIRemote) Publish(ctx context.Context, manifestDoc []byte, packs map[string][]byte) error {
	names := make([]string, 0, len(packs))
	for n := range packs {
		names = append(names, n)
	}
	sort.Strings(names)

	manifestLayer := newPackLayer(manifestDoc)
	manifestDigest, err := manifestLayer.Digest()
	if err != nil {
		return fmt.Errorf("digest manifest layer: %w", err)
	}

	layers := []v1.Layer{manifestLayer}
	layerByName := make(map[string]string, len(names))
	for _, n := range names {
		layer := newPackLayer(packs[n])
		digest, err := layer.Digest()
		if err != nil {
			return fmt.Errorf("digest layer for %s: %w", n, err)
		}
		layers = append(layers, layer)
		layerByName[n] = digest.String()
	}

	img, err := mutate.AppendLayers(empty.Image, layers...)
	if err != nil {
		return fmt.Errorf("build image: %w", err)
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return fmt.Errorf("get config: %w", err)
	}
	packsJSON, _ := json.Marshal(layerByName)
	cfg.Config.Labels = map[string]string{
		manifestLabel: manifestDigest.String(),
		packsLabel:    string(packsJSON),
	}
	img, err = mutate.ConfigFile(img, cfg)
	if err != nil {
		return fmt.Errorf("set config: %w", err)
	}

	fmt.Fprintf(os.Stderr, "[push] %d pack layer(s) to %s\n", len(names), r.ref)

	options := append(r.remoteOptions(), remote.WithJobs(r.concurrency))
	_, err = retry(ctx, 3, func() (struct{}, error) {
		return struct{}{}, remote.Write(r.ref, img, options...)
	})
	if err != nil {
		return fmt.Errorf("push to %s: %w", r.ref, err)
	}
	return nil
}

// Fetch downloads the bundle at the ref: the manifest document first, then
// every pack layer in parallel.
func (r *OCIRemote) Fetch(ctx context.Context) ([]byte, map[string][]byte, error) {
	img, err := retry(ctx, 3, func() (v1.Image, error) {
		return remote.Image(r.ref, r.remoteOptions()...)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch image: %w", err)
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return nil, nil, fmt.Errorf("get config: %w", err)
	}

	manifestDigest := cfg.Config.Labels[manifestLabel]
	if manifestDigest == "" {
		return nil, nil, fmt.Errorf("%s is not a pack bundle: missing %s label", r.ref, manifestLabel)
	}
	var layerByName map[string]string
	if packsJSON := cfg.Config.Labels[packsLabel]; packsJSON != "" {
		if err := json.Unmarshal([]byte(packsJSON), &layerByName); err != nil {
			return nil, nil, fmt.Errorf("parse %s label: %w", packsLabel, err)
		}
	}

	layers, err := img.Layers()
	if err != nil {
		return nil, nil, fmt.Errorf("get layers: %w", err)
	}
	byDigest := make(map[string]v1.Layer, len(layers))
	for _, layer := range layers {
		digest, err := layer.Digest()
		if err != nil {
			continue
		}
		byDigest[digest.String()] = layer
	}

	manifestLayer, ok := byDigest[manifestDigest]
	if !ok {
		return nil, nil, fmt.Errorf("bundle missing manifest layer %s", manifestDigest)
	}
	manifestDoc, err := readLayer(manifestLayer)
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest layer: %w", err)
	}

	fmt.Fprintf(os.Stderr, "[pull] downloading %d pack layer(s)\n", len(layerByName))

	var mu sync.Mutex
	packs := make(map[string][]byte, len(layerByName))

	p := pool.New().WithMaxGoroutines(r.concurrency).WithContext(ctx).WithCancelOnError()
	for fileName, digest := range layerByName {
		fileName, digest := fileName, digest
		p.Go(func(ctx context.Context) error {
			layer, ok := byDigest[digest]
			if !ok {
				return fmt.Errorf("bundle missing layer %s for %s", digest, fileName)
			}
			data, err := readLayer(layer)
			if err != nil {
				return fmt.Errorf("read layer for %s: %w", fileName, err)
			}
			mu.Lock()
			packs[fileName] = data
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	return manifestDoc, packs, nil
}

func readLayer(layer v1.Layer) ([]byte, error) {
	rc, err := layer.Uncompressed()
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return data, err
}

func (r *OCIRemote) remoteOptions() []remote.Option {
	if r.auth != nil {
		username, password, err := r.auth.Authenticate(r.Registry())
		if err == nil && username != "" {
			return []remote.Option{remote.WithAuth(&authn.Basic{
				Username: username,
				Password: password,
			})}
		}
	}
	return []remote.Option{remote.WithAuthFromKeychain(authn.DefaultKeychain)}
}

func retry[T any](ctx context.Context, maxAttempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < maxAttempts-1 {
			delay := time.Duration(1<<i) * 500 * time.Millisecond // 500ms, 1s, 2s...
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return zero, lastErr
}
