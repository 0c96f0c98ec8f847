package kiosk

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// countingFS counts Open calls per name.
type countingFS struct {
	fs.FS
	mu    sync.Mutex
	opens map[string]int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.mu.Lock()
	if c.opens == nil {
		c.opens = make(map[string]int)
	}
	c.opens[name]++
	c.mu.Unlock()
	return c.FS.Open(name)
}

func (c *countingFS) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[name]
}

func newTestCache(t *testing.T) (*AssetCache, *countingFS) {
	t.Helper()
	fsys := &countingFS{FS: fstest.MapFS{
		"pictures/a.png":   {Data: pngBytes(t, 4, 2)},
		"pictures/b.png":   {Data: pngBytes(t, 8, 8)},
		"pictures/bad.png": {Data: []byte("not a png")},
	}}
	return NewAssetCache(fsys, WithAssetLogger(log.New(io.Discard))), fsys
}

func TestAssetLoadAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	img, err := c.Load(context.Background(), "a", "/pictures/a.png")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}
	got, err := c.Get("a")
	if err != nil || got != img {
		t.Errorf("Get = %v, %v", got, err)
	}
	if c.MustGet("a") != img {
		t.Error("MustGet returned a different image")
	}
}

func TestAssetLoadIsIdempotent(t *testing.T) {
	c, fsys := newTestCache(t)
	ctx := context.Background()
	first, err := c.Load(ctx, "a", "/pictures/a.png")
	if err != nil {
		t.Fatal(err)
	}
	again, err := c.Load(ctx, "a", "/pictures/a.png")
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Error("second load should return the cached image")
	}
	if n := fsys.count("pictures/a.png"); n != 1 {
		t.Errorf("opens = %d, want 1", n)
	}
}

func TestAssetFirstPathWins(t *testing.T) {
	c, fsys := newTestCache(t)
	ctx := context.Background()
	first, _ := c.Load(ctx, "k", "/pictures/a.png")
	other, err := c.Load(ctx, "k", "/pictures/b.png")
	if err != nil {
		t.Fatal(err)
	}
	if other != first {
		t.Error("a different path for a loaded key must return the first image")
	}
	if fsys.count("pictures/b.png") != 0 {
		t.Error("second path should never be read")
	}
}

func TestAssetConcurrentLoadsShareRead(t *testing.T) {
	c, fsys := newTestCache(t)
	var wg sync.WaitGroup
	var failed atomic.Int32
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Load(context.Background(), "b", "/pictures/b.png"); err != nil {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()
	if failed.Load() != 0 {
		t.Fatal("concurrent loads failed")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d", c.Len())
	}
	if n := fsys.count("pictures/b.png"); n < 1 || n > 16 {
		t.Errorf("opens = %d", n)
	}
}

func TestAssetGetNotFound(t *testing.T) {
	c, _ := newTestCache(t)
	if _, err := c.Get("nope"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("err = %v, want ErrAssetNotFound", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustGet should panic for a missing key")
		}
	}()
	c.MustGet("nope")
}

func TestAssetLoadFailures(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	if _, err := c.Load(ctx, "x", "/pictures/missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
	if _, err := c.Load(ctx, "y", "/pictures/bad.png"); err == nil {
		t.Error("undecodable file should fail")
	}
	if c.Len() != 0 {
		t.Error("failed loads must not be cached")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.Load(cancelled, "a", "/pictures/a.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v", err)
	}

	nilFS := NewAssetCache(nil, WithAssetLogger(log.New(io.Discard)))
	if _, err := nilFS.Load(ctx, "a", "/pictures/a.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("nil fs err = %v", err)
	}
}

func TestAssetPreload(t *testing.T) {
	c, _ := newTestCache(t)
	err := c.Preload(context.Background(), map[string]string{
		"b": "/pictures/b.png",
		"a": "/pictures/a.png",
	})
	if err != nil {
		t.Fatal(err)
	}
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys = %v", keys)
	}

	err = c.Preload(context.Background(), map[string]string{"m": "/pictures/missing.png"})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Preload err = %v", err)
	}
}
