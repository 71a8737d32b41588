package systems

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

type MaterialSystemConfig struct {
	/** @brief The maximum number of loaded materials. Zero means no limit. */
	MaxMaterialCount uint32
}

type materialReference struct {
	material       *metadata.Material
	referenceCount uint32
	textures       []*TextureHandle
}

/**
 * @brief Loads material files once and reference counts them. Every texture map
 * of a material is acquired through the texture system and released together
 * with the material.
 */
type MaterialSystem struct {
	Config *MaterialSystemConfig

	textureSystem *TextureSystem
	device        renderer.Device
	mutex         sync.Mutex
	materials     map[string]*materialReference
}

func NewMaterialSystem(config *MaterialSystemConfig, ts *TextureSystem, device renderer.Device) (*MaterialSystem, error) {
	if ts == nil {
		err := fmt.Errorf("func NewMaterialSystem - a texture system is required")
		core.LogError(err.Error())
		return nil, err
	}
	if config == nil {
		config = &MaterialSystemConfig{}
	}
	return &MaterialSystem{
		Config:        config,
		textureSystem: ts,
		device:        device,
		materials:     make(map[string]*materialReference),
	}, nil
}

func (ms *MaterialSystem) Initialize() error {
	core.LogInfo("Material system initialized.")
	return nil
}

// Shutdown releases the textures of every loaded material regardless of
// outstanding references.
func (ms *MaterialSystem) Shutdown() error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	var errs []error
	for path, ref := range ms.materials {
		if err := releaseTextures(ref.textures); err != nil {
			errs = append(errs, err)
		}
		delete(ms.materials, path)
	}
	return errors.Join(errs...)
}

/**
 * @brief Returns the material at path, loading it on first use, and increments
 * its reference count.
 */
func (ms *MaterialSystem) Acquire(path string) (*metadata.Material, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if ref, ok := ms.materials[path]; ok {
		ref.referenceCount++
		return ref.material, nil
	}
	if limit := ms.Config.MaxMaterialCount; limit > 0 && uint32(len(ms.materials)) >= limit {
		err := fmt.Errorf("cannot load material '%s', limit of %d materials reached", path, limit)
		core.LogError(err.Error())
		return nil, err
	}

	config, err := LoadMaterialConfig(path)
	if err != nil {
		core.LogError("failed to load material '%s': %s", path, err)
		return nil, err
	}
	ref, err := ms.build(path, config)
	if err != nil {
		core.LogError("failed to create material '%s': %s", path, err)
		return nil, err
	}
	ref.referenceCount = 1
	ms.materials[path] = ref
	core.LogDebug("material '%s' loaded from '%s' with %d texture maps", ref.material.Name, path, len(ref.textures))
	return ref.material, nil
}

// Release drops one reference. The material's textures are released with the last one.
func (ms *MaterialSystem) Release(path string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ref, ok := ms.materials[path]
	if !ok {
		err := fmt.Errorf("material '%s' is not loaded", path)
		core.LogWarn(err.Error())
		return err
	}
	ref.referenceCount--
	if ref.referenceCount > 0 {
		return nil
	}
	delete(ms.materials, path)
	return releaseTextures(ref.textures)
}

func (ms *MaterialSystem) Count() int {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	return len(ms.materials)
}

func (ms *MaterialSystem) build(path string, config *metadata.MaterialConfig) (*materialReference, error) {
	if err := ValidateMaterialConfig(config); err != nil {
		return nil, err
	}

	material := &metadata.Material{
		Name:             config.Name,
		Ambient:          colourOr(config.Ambient, math.NewVec3(0, 0, 0)),
		Diffuse:          colourOr(config.Diffuse, math.NewVec3(1, 1, 1)),
		Specular:         colourOr(config.Specular, math.NewVec3(0, 0, 0)),
		Emissive:         colourOr(config.Emissive, math.NewVec3(0, 0, 0)),
		Shininess:        config.Shininess,
		Opacity:          1,
		Mirror:           config.Mirror,
		Shadow:           config.Shadow,
		TextureTransform: textureTransform(config.TextureTransform),
		Maps:             make(map[metadata.TextureUse]*metadata.TextureMap),
		Generation:       1,
	}
	if material.Name == "" {
		material.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if config.Opacity != nil {
		material.Opacity = *config.Opacity
	}

	ref := &materialReference{material: material}
	maps := []struct {
		file string
		use  metadata.TextureUse
	}{
		{config.Maps.Diffuse, metadata.TextureUseMapDiffuse},
		{config.Maps.Specular, metadata.TextureUseMapSpecular},
		{config.Maps.Normal, metadata.TextureUseMapNormal},
		{config.Maps.Emissive, metadata.TextureUseMapEmissive},
	}
	for _, m := range maps {
		if m.file == "" {
			continue
		}
		handle, err := ms.textureSystem.Acquire(resolveRelative(path, m.file), ms.device)
		if err != nil {
			if rerr := releaseTextures(ref.textures); rerr != nil {
				core.LogError(rerr.Error())
			}
			return nil, fmt.Errorf("%s map: %w", m.use, err)
		}
		ref.textures = append(ref.textures, handle)
		material.Maps[m.use] = &metadata.TextureMap{Texture: handle.Texture(), Use: m.use}
	}
	return ref, nil
}

// LoadMaterialConfig reads a TOML material file.
func LoadMaterialConfig(path string) (*metadata.MaterialConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := &metadata.MaterialConfig{}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid material file '%s': %w", path, err)
	}
	return config, nil
}

func ValidateMaterialConfig(config *metadata.MaterialConfig) error {
	colours := []struct {
		name  string
		value []float32
	}{
		{"ambient", config.Ambient},
		{"diffuse", config.Diffuse},
		{"specular", config.Specular},
		{"emissive", config.Emissive},
	}
	for _, c := range colours {
		if c.value == nil {
			continue
		}
		if len(c.value) != 3 {
			return fmt.Errorf("%s colour needs 3 components, got %d", c.name, len(c.value))
		}
		for _, v := range c.value {
			if !math.InRange(v, 0, 1) {
				return fmt.Errorf("%s colour component %v outside [0, 1]", c.name, v)
			}
		}
	}
	if config.Shininess < 0 {
		return fmt.Errorf("shininess must be >= 0, got %v", config.Shininess)
	}
	if config.Opacity != nil && !math.InRange(*config.Opacity, 0, 1) {
		return fmt.Errorf("opacity %v outside [0, 1]", *config.Opacity)
	}
	for name, v := range map[string][]float32{"scale": config.TextureTransform.Scale, "offset": config.TextureTransform.Offset} {
		if v != nil && len(v) != 2 {
			return fmt.Errorf("texture_transform %s needs 2 components, got %d", name, len(v))
		}
	}
	return nil
}

func colourOr(c []float32, fallback math.Vec3) math.Vec3 {
	if len(c) != 3 {
		return fallback
	}
	return math.NewVec3(c[0], c[1], c[2])
}

// textureTransform builds the row major uv transform: scale on the diagonal,
// offset in the last column.
func textureTransform(config metadata.TextureTransformConfig) math.Mat4 {
	m := math.NewMat4Identity()
	if len(config.Scale) == 2 {
		m.Data[0] = config.Scale[0]
		m.Data[5] = config.Scale[1]
	}
	if len(config.Offset) == 2 {
		m.Data[3] = config.Offset[0]
		m.Data[7] = config.Offset[1]
	}
	return m
}

func resolveRelative(owner, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(filepath.Dir(owner), file)
}

func releaseTextures(handles []*TextureHandle) error {
	var errs []error
	for _, h := range handles {
		if err := h.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
