package kiosk

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // register PNG decoder
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type assetEntry struct {
	image *ebiten.Image
	path  string
}

// AssetCache loads images by logical key from a filesystem and keeps them for
// the life of the process. Loading is idempotent per key: the first
// successful load wins and later loads of the same key return the cached
// image without touching the filesystem, even if they name another path.
//
// The cache is shared by every scene. It is safe for concurrent use so that
// Preload can decode in parallel.
type AssetCache struct {
	fsys   fs.FS
	logger *log.Logger

	mu      sync.RWMutex
	entries map[string]assetEntry
	group   singleflight.Group

	// decode turns a decoded image into a drawable handle. Overridable in tests.
	decode func(image.Image) *ebiten.Image
}

// AssetOption configures an AssetCache.
type AssetOption func(*AssetCache)

// WithAssetLogger sets the logger used for cache warnings.
func WithAssetLogger(l *log.Logger) AssetOption {
	return func(c *AssetCache) { c.logger = l }
}

// NewAssetCache creates a cache that reads asset paths from fsys.
func NewAssetCache(fsys fs.FS, opts ...AssetOption) *AssetCache {
	c := &AssetCache{
		fsys:    fsys,
		logger:  log.Default(),
		entries: make(map[string]assetEntry),
		decode:  ebiten.NewImageFromImage,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Load returns the image for key, reading and decoding path on the first
// call. Concurrent loads of the same key share one read.
func (c *AssetCache) Load(ctx context.Context, key, path string) (*ebiten.Image, error) {
	if e, ok := c.lookup(key); ok {
		if e.path != path {
			c.logger.Warn("asset already loaded from another path; keeping first", "key", key, "kept", e.path, "ignored", path)
		}
		return e.image, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load asset %q: %w", key, err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have finished while we waited.
		if e, ok := c.lookup(key); ok {
			return e.image, nil
		}
		img, err := c.read(path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if e, ok := c.entries[key]; ok {
			return e.image, nil
		}
		c.entries[key] = assetEntry{image: img, path: path}
		c.logger.Debug("asset loaded", "key", key, "path", path)
		return img, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load asset %q from %q: %w", key, path, err)
	}
	return v.(*ebiten.Image), nil
}

// Preload loads a batch of key → path pairs concurrently. The first failure
// cancels the remaining loads and is returned.
func (c *AssetCache) Preload(ctx context.Context, assets map[string]string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for key, path := range assets {
		g.Go(func() error {
			_, err := c.Load(ctx, key, path)
			return err
		})
	}
	return g.Wait()
}

// Get returns a previously loaded image. It fails with ErrAssetNotFound when
// key was never loaded or its load has not completed.
func (c *AssetCache) Get(key string) (*ebiten.Image, error) {
	e, ok := c.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, key)
	}
	return e.image, nil
}

// MustGet is like Get but panics when the asset is missing. Render code uses
// it for assets its scene's Init is guaranteed to have loaded.
func (c *AssetCache) MustGet(key string) *ebiten.Image {
	img, err := c.Get(key)
	if err != nil {
		panic(err)
	}
	return img
}

// Len returns the number of cached assets.
func (c *AssetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached keys in sorted order.
func (c *AssetCache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// FS returns the filesystem assets are read from.
func (c *AssetCache) FS() fs.FS {
	return c.fsys
}

func (c *AssetCache) lookup(key string) (assetEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *AssetCache) read(path string) (*ebiten.Image, error) {
	if c.fsys == nil {
		return nil, fs.ErrNotExist
	}
	// Asset paths are web-style ("/pictures/x.png"); fs.FS wants them unrooted.
	f, err := c.fsys.Open(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return c.decode(src), nil
}
