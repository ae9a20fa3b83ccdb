package editorconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed property files kept in memory.
const DefaultCacheSize = 256

// Options configure a Resolver.
type Options struct {
	// DefaultFile is applied below the cascade. Optional.
	DefaultFile string
	// Overrides take precedence over every file.
	Overrides Overrides
	// Logger receives warnings about unreadable files and invalid values.
	Logger *slog.Logger
	// CacheSize bounds the parsed file cache. Zero means DefaultCacheSize.
	CacheSize int
}

// Resolver computes the Config of a file. It is safe for concurrent use by
// file workers.
type Resolver struct {
	defaultFile *File
	overrides   Overrides
	logger      *slog.Logger

	files  *lru.Cache[string, *File]
	chains sync.Map // directory -> []*File, nearest first
}

// NewResolver creates a resolver.
func NewResolver(opts Options) (*Resolver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *File](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create editorconfig cache: %w", err)
	}

	r := &Resolver{
		overrides: opts.Overrides.Normalize(),
		logger:    logger,
		files:     cache,
	}
	if opts.DefaultFile != "" {
		abs, err := filepath.Abs(opts.DefaultFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default editorconfig: %w", err)
		}
		f, err := ParseFile(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to load default editorconfig: %w", err)
		}
		for _, w := range f.Warnings {
			logger.Warn("skipping malformed editorconfig line", "file", abs, "line", w.Line, "error", w.Message)
		}
		r.defaultFile = f
	}
	return r, nil
}

// Resolve merges, lowest precedence first: the default file, the cascade
// from the farthest to the nearest file, then the overrides.
func (r *Resolver) Resolve(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	props := make(map[string]string)
	if r.defaultFile != nil {
		r.defaultFile.apply(abs, props)
	}
	chain := r.chain(filepath.Dir(abs))
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].apply(abs, props)
	}
	for k, v := range r.overrides {
		props[k] = v
	}
	for k, v := range props {
		if v == Unset {
			delete(props, k)
		}
	}

	return &Config{path: path, props: props, logger: r.logger}, nil
}

// Files returns the property files that apply to files in dir, nearest first.
func (r *Resolver) Files(dir string) []string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	chain := r.chain(abs)
	paths := make([]string, len(chain))
	for i, f := range chain {
		paths[i] = f.Path
	}
	return paths
}

// chain returns the property files from dir upward until a file declares
// root = true or the filesystem root is reached.
func (r *Resolver) chain(dir string) []*File {
	if v, ok := r.chains.Load(dir); ok {
		return v.([]*File)
	}

	var chain []*File
	f := r.load(filepath.Join(dir, FileName))
	if f != nil {
		chain = append(chain, f)
	}
	if f == nil || !f.Root {
		if parent := filepath.Dir(dir); parent != dir {
			chain = append(chain, r.chain(parent)...)
		}
	}

	actual, _ := r.chains.LoadOrStore(dir, chain)
	return actual.([]*File)
}

// load parses a property file through the cache. Missing files yield nil;
// unreadable or malformed files are reported and skipped.
func (r *Resolver) load(path string) *File {
	if f, ok := r.files.Get(path); ok {
		return f
	}
	f, err := ParseFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("ignoring editorconfig file", "file", path, "error", err)
		}
		f = nil
	}
	if f != nil {
		for _, w := range f.Warnings {
			r.logger.Warn("skipping malformed editorconfig line", "file", path, "line", w.Line, "error", w.Message)
		}
	}
	r.files.Add(path, f)
	return f
}
