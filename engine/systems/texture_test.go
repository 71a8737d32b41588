package systems

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

func newTestTextureSystem(t *testing.T, config *TextureSystemConfig) (*TextureSystem, *fakeLoader, *fakeDevice) {
	t.Helper()
	loader := newFakeLoader()
	ts, err := NewTextureSystem(config, loader)
	if err != nil {
		t.Fatal(err)
	}
	if err := ts.Initialize(); err != nil {
		t.Fatal(err)
	}
	return ts, loader, newFakeDevice()
}

func TestTextureSystemAcquireCreatesOnce(t *testing.T) {
	ts, loader, device := newTestTextureSystem(t, nil)

	first, err := ts.Acquire("textures/stone.png", device)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ts.Acquire("textures/stone.png", device)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("expected the same handle for repeated acquires")
	}
	if loader.callCount("textures/stone.png") != 1 {
		t.Errorf("expected loader to run once, ran %d times", loader.callCount("textures/stone.png"))
	}
	if device.createdCount() != 1 {
		t.Errorf("expected one GPU texture, got %d", device.createdCount())
	}
	if ts.Count() != 1 {
		t.Errorf("expected 1 entry, got %d", ts.Count())
	}
	if first.RefCount() != 3 {
		t.Errorf("expected cache + 2 caller references, got %d", first.RefCount())
	}
	tex := first.Texture()
	if tex.ID == "" || tex.Name != "textures/stone.png" || tex.Width != 2 || tex.Generation != 1 {
		t.Errorf("unexpected texture metadata %+v", tex)
	}
}

func TestTextureSystemDistinctPathsAreDistinctEntries(t *testing.T) {
	ts, _, device := newTestTextureSystem(t, nil)

	a, _ := ts.Acquire("a.png", device)
	b, _ := ts.Acquire("./a.png", device)
	if a == b {
		t.Error("expected paths to be compared verbatim")
	}
	if a.Texture().ID == b.Texture().ID {
		t.Error("expected unique texture ids")
	}
	if ts.Count() != 2 {
		t.Errorf("expected 2 entries, got %d", ts.Count())
	}
}

func TestTextureSystemUnsupportedFormat(t *testing.T) {
	ts, loader, device := newTestTextureSystem(t, nil)

	for _, path := range []string{"sky.dds", "noext", "model.obj"} {
		h, err := ts.Acquire(path, device)
		if !errors.Is(err, core.ErrUnsupportedFormat) {
			t.Errorf("Acquire(%q): expected ErrUnsupportedFormat, got %v", path, err)
		}
		if h != nil {
			t.Errorf("Acquire(%q): expected no handle", path)
		}
		if ts.Contains(path) {
			t.Errorf("Acquire(%q): unsupported path must not be cached", path)
		}
	}
	if loader.totalCalls() != 0 {
		t.Errorf("expected loader never to run, ran %d times", loader.totalCalls())
	}
}

func TestTextureSystemLoadFailureIsNotCached(t *testing.T) {
	ts, loader, device := newTestTextureSystem(t, nil)
	loader.failOn["broken.png"] = true

	for i := 0; i < 2; i++ {
		_, err := ts.Acquire("broken.png", device)
		if !errors.Is(err, core.ErrResourceCreationFailed) {
			t.Fatalf("expected ErrResourceCreationFailed, got %v", err)
		}
	}
	if ts.Contains("broken.png") {
		t.Error("failed texture must not be cached")
	}
	if loader.callCount("broken.png") != 2 {
		t.Errorf("expected each acquire to retry the load, got %d calls", loader.callCount("broken.png"))
	}

	device.failOn["gpu.png"] = true
	if _, err := ts.Acquire("gpu.png", device); !errors.Is(err, core.ErrResourceCreationFailed) {
		t.Errorf("expected device failure to surface as ErrResourceCreationFailed, got %v", err)
	}
	if ts.Contains("gpu.png") {
		t.Error("texture whose upload failed must not be cached")
	}

	if _, err := ts.Acquire("nodevice.png", nil); !errors.Is(err, core.ErrResourceCreationFailed) {
		t.Errorf("expected missing device to fail creation, got %v", err)
	}
}

func TestTextureSystemReleaseAfterShutdown(t *testing.T) {
	ts, _, device := newTestTextureSystem(t, nil)

	held, _ := ts.Acquire("held.png", device)
	dropped, _ := ts.Acquire("dropped.png", device)
	if err := dropped.Release(); err != nil {
		t.Fatal(err)
	}
	if device.destroyedCount() != 0 {
		t.Fatal("cache reference must keep the texture alive")
	}

	if err := ts.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if ts.Count() != 0 {
		t.Errorf("expected empty cache after shutdown, got %d", ts.Count())
	}
	if device.destroyedCount() != 1 || device.destroyed[0] != "dropped.png" {
		t.Fatalf("expected only dropped.png destroyed, got %v", device.destroyed)
	}
	if held.Texture().InternalData == nil {
		t.Error("held texture must survive shutdown")
	}

	if err := held.Release(); err != nil {
		t.Fatal(err)
	}
	if device.destroyedCount() != 2 {
		t.Errorf("expected held.png destroyed on last release, got %v", device.destroyed)
	}
	if err := held.Release(); err == nil {
		t.Error("expected error on over-release")
	}
	if device.destroyedCount() != 2 {
		t.Error("over-release must not destroy twice")
	}
}

func TestTextureSystemOverReleaseKeepsCachedTexture(t *testing.T) {
	ts, _, device := newTestTextureSystem(t, nil)

	h, err := ts.Acquire("a.png", device)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Release(); err != nil {
		t.Fatal(err)
	}
	if err := h.Release(); err == nil {
		t.Error("expected error when releasing past the caller's references")
	}
	if device.destroyedCount() != 0 {
		t.Fatalf("cached texture must not be destroyed by callers, got %v", device.destroyed)
	}
	if h.RefCount() != 1 {
		t.Errorf("expected only the cache reference, got %d", h.RefCount())
	}

	again, err := ts.Acquire("a.png", device)
	if err != nil {
		t.Fatal(err)
	}
	if again != h || again.Texture().InternalData == nil {
		t.Error("expected the same live texture from the cache")
	}
	if device.createdCount() != 1 {
		t.Errorf("expected one upload, got %d", device.createdCount())
	}
	if err := again.Release(); err != nil {
		t.Fatal(err)
	}

	if err := ts.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if device.destroyedCount() != 1 {
		t.Errorf("expected a single destroy on shutdown, got %v", device.destroyed)
	}
}

func TestTextureSystemPreloadAfterJobShutdown(t *testing.T) {
	ts, _, device := newTestTextureSystem(t, nil)

	jobs, err := NewJobSystem(2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := jobs.Shutdown(); err != nil {
		t.Fatal(err)
	}

	if err := ts.Preload([]string{"a.png", "b.png"}, device, jobs, nil); err != nil {
		t.Fatalf("expected inline decoding, got %v", err)
	}
	if ts.Count() != 2 {
		t.Errorf("expected both textures cached, got %d", ts.Count())
	}
}

func TestTextureSystemLimit(t *testing.T) {
	ts, loader, device := newTestTextureSystem(t, &TextureSystemConfig{MaxTextureCount: 1})

	if _, err := ts.Acquire("one.png", device); err != nil {
		t.Fatal(err)
	}
	if _, err := ts.Acquire("two.png", device); !errors.Is(err, core.ErrTextureLimitReached) {
		t.Errorf("expected ErrTextureLimitReached, got %v", err)
	}
	if loader.callCount("two.png") != 0 {
		t.Error("loader must not run once the limit is reached")
	}
	if _, err := ts.Acquire("one.png", device); err != nil {
		t.Errorf("cached textures stay available at the limit: %v", err)
	}
}

func TestTextureSystemRequiresInitialize(t *testing.T) {
	ts, err := NewTextureSystem(nil, newFakeLoader())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ts.Acquire("a.png", newFakeDevice()); !errors.Is(err, core.ErrSystemNotInitialized) {
		t.Errorf("expected ErrSystemNotInitialized, got %v", err)
	}
	if _, err := NewTextureSystem(nil, nil); err == nil {
		t.Error("expected error without a loader")
	}
}

func TestTextureSystemPreload(t *testing.T) {
	ts, loader, device := newTestTextureSystem(t, nil)
	loader.failOn["bad.png"] = true

	cached, _ := ts.Acquire("cached.png", device)
	defer cached.Release()

	jobs, err := NewJobSystem(3, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer jobs.Shutdown()

	reported := map[string]error{}
	paths := []string{"a.png", "b.jpg", "a.png", "bad.png", "skip.dds", "cached.png"}
	err = ts.Preload(paths, device, jobs, func(path string, err error) {
		reported[path] = err
	})
	if err == nil {
		t.Fatal("expected joined error for failing paths")
	}
	if !errors.Is(err, core.ErrResourceCreationFailed) || !errors.Is(err, core.ErrUnsupportedFormat) {
		t.Errorf("expected both failure kinds in %v", err)
	}

	if len(reported) != 5 {
		t.Errorf("expected one report per distinct path, got %v", reported)
	}
	for _, path := range []string{"a.png", "b.jpg", "cached.png"} {
		if reported[path] != nil {
			t.Errorf("expected %s to preload, got %v", path, reported[path])
		}
		if !ts.Contains(path) {
			t.Errorf("expected %s cached", path)
		}
	}
	if ts.Contains("bad.png") || ts.Contains("skip.dds") {
		t.Error("failed paths must not be cached")
	}
	if loader.callCount("a.png") != 1 || loader.callCount("cached.png") != 1 {
		t.Error("expected each texture decoded once")
	}

	h, _ := ts.Acquire("a.png", device)
	if h.RefCount() != 2 {
		t.Errorf("expected cache and caller references only, got %d", h.RefCount())
	}
}

func TestImageTextureLoader(t *testing.T) {
	root := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 100})
	f, err := os.Create(filepath.Join(root, "wall.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	am, _ := assets.NewAssetManager()
	if err := am.Initialize(root, false); err != nil {
		t.Fatal(err)
	}
	defer am.Close()

	loader := NewImageTextureLoader(am, false)
	if loader.SupportsFile("wall.dds") {
		t.Error("expected .dds to be unsupported")
	}
	path, err := am.Resolve("wall")
	if err != nil {
		t.Fatal(err)
	}

	ts, _ := NewTextureSystem(nil, loader)
	ts.Initialize()
	device := newFakeDevice()
	h, err := ts.Acquire(path, device)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tex := h.Texture()
	if tex.Width != 3 || tex.Height != 2 || tex.ChannelCount != 4 {
		t.Errorf("unexpected dimensions %dx%dx%d", tex.Width, tex.Height, tex.ChannelCount)
	}
	if !tex.Flags.Has(metadata.TextureFlagHasTransparency) {
		t.Error("expected transparency flag")
	}
}
