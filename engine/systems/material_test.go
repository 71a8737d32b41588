package systems

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

const stoneMaterial = `
name = "stone"
diffuse = [0.8, 0.8, 0.8]
specular = [0.1, 0.1, 0.1]
shininess = 16.0
opacity = 0.5
shadow = true

[texture_transform]
scale = [2.0, 2.0]
offset = [0.5, 0.0]

[maps]
diffuse = "textures/stone.png"
normal = "textures/stone_n.png"
`

func writeMaterial(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestMaterialSystem(t *testing.T) (*MaterialSystem, *TextureSystem, *fakeDevice) {
	t.Helper()
	ts, _, device := newTestTextureSystem(t, nil)
	ms, err := NewMaterialSystem(nil, ts, device)
	if err != nil {
		t.Fatal(err)
	}
	if err := ms.Initialize(); err != nil {
		t.Fatal(err)
	}
	return ms, ts, device
}

func TestMaterialSystemAcquire(t *testing.T) {
	dir := t.TempDir()
	path := writeMaterial(t, dir, "stone.mat", stoneMaterial)
	ms, ts, _ := newTestMaterialSystem(t)

	m, err := ms.Acquire(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "stone" || m.Diffuse.X != 0.8 || m.Shininess != 16 || m.Opacity != 0.5 || !m.Shadow {
		t.Errorf("unexpected material %+v", m)
	}
	if m.Ambient.X != 0 || m.Emissive.Z != 0 {
		t.Error("expected unset colours to default to black")
	}
	if m.TextureTransform.Data[0] != 2 || m.TextureTransform.Data[3] != 0.5 || m.TextureTransform.Data[15] != 1 {
		t.Errorf("unexpected texture transform %v", m.TextureTransform.Data)
	}

	diffusePath := filepath.Join(dir, "textures", "stone.png")
	if !ts.Contains(diffusePath) || !ts.Contains(filepath.Join(dir, "textures", "stone_n.png")) {
		t.Error("expected texture maps resolved relative to the material file")
	}
	if m.Maps[metadata.TextureUseMapDiffuse] == nil || m.Maps[metadata.TextureUseMapDiffuse].Texture.Name != diffusePath {
		t.Errorf("unexpected diffuse map %+v", m.Maps[metadata.TextureUseMapDiffuse])
	}
	if _, ok := m.Maps[metadata.TextureUseMapSpecular]; ok {
		t.Error("expected no specular map")
	}

	again, err := ms.Acquire(path)
	if err != nil {
		t.Fatal(err)
	}
	if again != m {
		t.Error("expected the same material for repeated acquires")
	}
	if ms.Count() != 1 {
		t.Errorf("expected 1 material, got %d", ms.Count())
	}
}

func TestMaterialSystemReleasesTextures(t *testing.T) {
	dir := t.TempDir()
	path := writeMaterial(t, dir, "stone.mat", stoneMaterial)
	ms, ts, device := newTestMaterialSystem(t)

	if _, err := ms.Acquire(path); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Acquire(path); err != nil {
		t.Fatal(err)
	}
	if err := ts.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if device.destroyedCount() != 0 {
		t.Fatal("textures held by a material must outlive the texture cache")
	}

	if err := ms.Release(path); err != nil {
		t.Fatal(err)
	}
	if device.destroyedCount() != 0 {
		t.Error("material still referenced, textures must stay alive")
	}
	if err := ms.Release(path); err != nil {
		t.Fatal(err)
	}
	if device.destroyedCount() != 2 {
		t.Errorf("expected both maps destroyed, got %v", device.destroyed)
	}
	if ms.Count() != 0 {
		t.Error("expected material dropped after last release")
	}
	if err := ms.Release(path); err == nil {
		t.Error("expected error releasing an unloaded material")
	}
}

func TestMaterialSystemValidation(t *testing.T) {
	dir := t.TempDir()
	ms, ts, _ := newTestMaterialSystem(t)

	tests := map[string]string{
		"colour range": "diffuse = [1.5, 0.0, 0.0]",
		"colour arity": "ambient = [0.1, 0.1]",
		"shininess":    "shininess = -1.0",
		"opacity":      "opacity = 2.0",
		"transform":    "[texture_transform]\nscale = [1.0]",
		"invalid toml": "diffuse = [",
	}
	for name, content := range tests {
		path := writeMaterial(t, dir, strings.ReplaceAll(name, " ", "_")+".mat", content)
		if _, err := ms.Acquire(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if ms.Count() != 0 || ts.Count() != 0 {
		t.Error("invalid materials must not be cached")
	}
	if _, err := ms.Acquire(filepath.Join(dir, "missing.mat")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMaterialSystemTextureFailureReleasesAcquiredMaps(t *testing.T) {
	dir := t.TempDir()
	path := writeMaterial(t, dir, "broken.mat", `
[maps]
diffuse = "ok.png"
specular = "sky.dds"
`)
	ms, ts, device := newTestMaterialSystem(t)

	_, err := ms.Acquire(path)
	if !errors.Is(err, core.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	h, err := ts.Acquire(filepath.Join(dir, "ok.png"), device)
	if err != nil {
		t.Fatal(err)
	}
	if h.RefCount() != 2 {
		t.Errorf("expected the failed material to give back its reference, got %d", h.RefCount())
	}
}
