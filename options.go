package packman

import "strings"

// BuildOptions configures a manifest build.
type BuildOptions struct {
	Ext      string
	Output   string
	Excludes []string
}

// BuildOption is a functional option for Build.
type BuildOption func(*BuildOptions)

func defaultBuildOptions() *BuildOptions {
	return &BuildOptions{Ext: DefaultExt}
}

// WithExtension overrides the eligible pack extension (default ".json").
func WithExtension(ext string) BuildOption {
	return func(o *BuildOptions) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		o.Ext = ext
	}
}

// WithOutput names the output path. Its base name becomes an implicit
// exclusion so the manifest never hashes itself.
func WithOutput(path string) BuildOption {
	return func(o *BuildOptions) { o.Output = path }
}

// WithExcludes adds file names barred from the pack set.
func WithExcludes(names ...string) BuildOption {
	return func(o *BuildOptions) { o.Excludes = append(o.Excludes, names...) }
}
