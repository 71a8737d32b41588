package systems

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fzipp/bmfont"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

type FontSystemConfig struct {
	/** @brief The maximum number of loaded bitmap fonts. Zero means no limit. */
	MaxBitmapFontCount uint8
}

type bitmapFontReference struct {
	font           *metadata.BitmapFont
	referenceCount uint16
	pages          []*TextureHandle
}

/**
 * @brief Loads BMFont descriptors and acquires their page sheets through the
 * texture system.
 */
type FontSystem struct {
	Config *FontSystemConfig

	textureSystem *TextureSystem
	device        renderer.Device
	mutex         sync.Mutex
	fonts         map[string]*bitmapFontReference
}

func NewFontSystem(config *FontSystemConfig, ts *TextureSystem, device renderer.Device) (*FontSystem, error) {
	if ts == nil {
		err := fmt.Errorf("func NewFontSystem - a texture system is required")
		core.LogError(err.Error())
		return nil, err
	}
	if config == nil {
		config = &FontSystemConfig{}
	}
	return &FontSystem{
		Config:        config,
		textureSystem: ts,
		device:        device,
		fonts:         make(map[string]*bitmapFontReference),
	}, nil
}

func (fs *FontSystem) Initialize() error {
	core.LogInfo("Font system initialized.")
	return nil
}

func (fs *FontSystem) Shutdown() error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	var errs []error
	for path, ref := range fs.fonts {
		if err := releaseTextures(ref.pages); err != nil {
			errs = append(errs, err)
		}
		delete(fs.fonts, path)
	}
	return errors.Join(errs...)
}

// Acquire loads the .fnt file at path on first use and returns the font.
func (fs *FontSystem) Acquire(path string) (*metadata.BitmapFont, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	if ref, ok := fs.fonts[path]; ok {
		ref.referenceCount++
		return ref.font, nil
	}
	if limit := fs.Config.MaxBitmapFontCount; limit > 0 && len(fs.fonts) >= int(limit) {
		err := fmt.Errorf("no space left to load bitmap font '%s', increase the maximum number allowed in the font system config", path)
		core.LogError(err.Error())
		return nil, err
	}

	ref, err := fs.loadBitmapFont(path)
	if err != nil {
		core.LogError("failed to load bitmap font '%s': %s", path, err)
		return nil, err
	}
	ref.referenceCount = 1
	fs.fonts[path] = ref
	return ref.font, nil
}

func (fs *FontSystem) Release(path string) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	ref, ok := fs.fonts[path]
	if !ok {
		err := fmt.Errorf("bitmap font '%s' is not loaded", path)
		core.LogWarn(err.Error())
		return err
	}
	ref.referenceCount--
	if ref.referenceCount > 0 {
		return nil
	}
	delete(fs.fonts, path)
	return releaseTextures(ref.pages)
}

func (fs *FontSystem) Count() int {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	return len(fs.fonts)
}

func (fs *FontSystem) loadBitmapFont(path string) (*bitmapFontReference, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, err
	}
	desc := font.Descriptor

	out := &metadata.BitmapFont{
		Face:       desc.Info.Face,
		Size:       int(desc.Info.Size),
		LineHeight: int(desc.Common.LineHeight),
		Baseline:   int(desc.Common.Base),
		AtlasSizeX: int(desc.Common.ScaleW),
		AtlasSizeY: int(desc.Common.ScaleH),
		GlyphCount: len(desc.Chars),
	}
	for _, p := range desc.Pages {
		out.Pages = append(out.Pages, &metadata.BitmapFontPage{ID: int(p.ID), File: p.File})
	}
	sort.Slice(out.Pages, func(i, j int) bool { return out.Pages[i].ID < out.Pages[j].ID })

	ref := &bitmapFontReference{font: out}
	for _, page := range out.Pages {
		handle, err := fs.textureSystem.Acquire(filepath.Join(filepath.Dir(path), page.File), fs.device)
		if err != nil {
			if rerr := releaseTextures(ref.pages); rerr != nil {
				core.LogError(rerr.Error())
			}
			return nil, fmt.Errorf("page %d: %w", page.ID, err)
		}
		ref.pages = append(ref.pages, handle)
		page.Map = &metadata.TextureMap{Texture: handle.Texture(), Use: metadata.TextureUseMapFontPage}
	}
	return ref, nil
}
