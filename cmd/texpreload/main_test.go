package main

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
	"github.com/spaghettifunk/tessera/engine/systems"
)

type nullDevice struct {
	created   int
	destroyed int
}

func (d *nullDevice) TextureCreate(pixels []uint8, texture *metadata.Texture) error {
	d.created++
	texture.InternalData = struct{}{}
	return nil
}

func (d *nullDevice) TextureDestroy(texture *metadata.Texture) error {
	d.destroyed++
	return nil
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
}

func TestWarmReportsEveryEntry(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "textures", "stone.png"))
	writePNG(t, filepath.Join(root, "textures", "brick.png"))
	writeFile(t, filepath.Join(root, "textures", "broken.png"), []byte("not a png"))
	writeFile(t, filepath.Join(root, "materials", "brick.mat"), []byte("name = \"brick\"\n[maps]\ndiffuse = \"../textures/brick.png\"\n"))
	writeFile(t, filepath.Join(root, "materials", "bad.mat"), []byte("opacity = 4.0\n"))

	am, err := assets.NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(root, false); err != nil {
		t.Fatal(err)
	}
	defer am.Close()

	device := &nullDevice{}
	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{JobWorkers: 2}, am, device)
	if err != nil {
		t.Fatal(err)
	}
	if err := sm.Initialize(); err != nil {
		t.Fatal(err)
	}
	defer sm.Shutdown()

	manifest, err := assets.ParseManifest([]byte(`
scene: yard
textures:
  - textures/stone
  - textures/stone.png
  - textures/broken.png
  - textures/missing
materials:
  - materials/brick.mat
  - materials/bad.mat
`))
	if err != nil {
		t.Fatal(err)
	}

	steps := 0
	p := &preloader{am: am, sm: sm, device: device, step: func(string) { steps++ }}
	failures := p.warm(manifest)

	if steps != manifest.Count() {
		t.Errorf("expected %d progress steps, got %d", manifest.Count(), steps)
	}
	failed := map[string]error{}
	for _, f := range failures {
		failed[f.name] = f.err
	}
	if len(failed) != 3 {
		t.Errorf("expected 3 failures, got %v", failures)
	}
	if !errors.Is(failed["textures/missing"], assets.ErrAssetNotFound) {
		t.Errorf("expected missing texture to be reported, got %v", failed["textures/missing"])
	}
	if failed["textures/broken.png"] == nil {
		t.Errorf("expected the broken png to fail")
	}
	if failed["materials/bad.mat"] == nil {
		t.Errorf("expected the invalid material to fail")
	}

	// stone and brick, the latter pulled in by the material.
	if sm.TextureSystem.Count() != 2 {
		t.Errorf("expected 2 cached textures, got %d", sm.TextureSystem.Count())
	}
	if device.created != 2 || device.destroyed != 0 {
		t.Errorf("expected 2 uploads and no destroys, got %d/%d", device.created, device.destroyed)
	}
}
