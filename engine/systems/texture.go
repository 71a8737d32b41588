package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be cached at once. Zero means no limit. */
	MaxTextureCount uint32
}

/**
 * @brief Decodes texture files into CPU side pixel data. Load may be called
 * from worker goroutines.
 */
type TextureLoader interface {
	SupportsFile(path string) bool
	Load(path string) (*metadata.ImageResourceData, error)
}

// ImageTextureLoader decodes textures through the asset manager's image loader.
type ImageTextureLoader struct {
	assetManager *assets.AssetManager
	flipY        bool
}

func NewImageTextureLoader(am *assets.AssetManager, flipY bool) *ImageTextureLoader {
	return &ImageTextureLoader{assetManager: am, flipY: flipY}
}

func (l *ImageTextureLoader) SupportsFile(path string) bool {
	return l.assetManager.SupportsFile(path, metadata.ResourceTypeImage)
}

func (l *ImageTextureLoader) Load(path string) (*metadata.ImageResourceData, error) {
	res, err := l.assetManager.LoadAsset(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: l.flipY})
	if err != nil {
		return nil, err
	}
	data, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("unexpected resource data %T for '%s'", res.Data, path)
	}
	return data, nil
}

/**
 * @brief A reference counted GPU texture. The cache and its callers hold
 * separate references; the resource is destroyed through the device that
 * created it once the cache has dropped it and the last caller has released.
 */
type TextureHandle struct {
	path    string
	texture *metadata.Texture
	device  renderer.Device

	mutex     sync.Mutex
	refs      int32
	cached    bool
	destroyed bool
}

func (h *TextureHandle) Path() string {
	return h.path
}

func (h *TextureHandle) Texture() *metadata.Texture {
	return h.texture
}

// RefCount is the number of live references, the cache's own included.
func (h *TextureHandle) RefCount() int32 {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := h.refs
	if h.cached {
		n++
	}
	return n
}

func (h *TextureHandle) Retain() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.refs++
}

// Release drops one caller reference. It never drops the cache's reference.
func (h *TextureHandle) Release() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.refs == 0 {
		err := fmt.Errorf("texture '%s' released more times than it was acquired", h.path)
		core.LogError(err.Error())
		return err
	}
	h.refs--
	return h.destroyIfUnused()
}

// evict drops the cache's reference.
func (h *TextureHandle) evict() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.cached {
		return nil
	}
	h.cached = false
	return h.destroyIfUnused()
}

// destroyIfUnused destroys the texture once no reference is left. Caller holds the mutex.
func (h *TextureHandle) destroyIfUnused() error {
	if h.refs > 0 || h.cached || h.destroyed {
		return nil
	}
	h.destroyed = true
	core.LogDebug("destroying texture '%s' (%s)", h.path, h.texture.ID)
	if err := h.device.TextureDestroy(h.texture); err != nil {
		core.LogError("failed to destroy texture '%s': %s", h.path, err)
		return err
	}
	h.texture.InternalData = nil
	return nil
}

/**
 * @brief Creates each texture at most once per path and hands out references to it.
 * Entries live until Shutdown.
 */
type TextureSystem struct {
	Config *TextureSystemConfig

	loader      TextureLoader
	mutex       sync.Mutex
	textures    map[string]*TextureHandle
	initialized bool
}

func NewTextureSystem(config *TextureSystemConfig, loader TextureLoader) (*TextureSystem, error) {
	if config == nil {
		config = &TextureSystemConfig{}
	}
	if loader == nil {
		err := fmt.Errorf("func NewTextureSystem - a texture loader is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:   config,
		loader:   loader,
		textures: make(map[string]*TextureHandle),
	}, nil
}

func (ts *TextureSystem) Initialize() error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ts.initialized = true
	core.LogInfo("Texture system initialized (max textures: %d).", ts.Config.MaxTextureCount)
	return nil
}

// Shutdown drops the cache's reference on every entry. Textures still
// referenced elsewhere are destroyed when their last holder releases them.
func (ts *TextureSystem) Shutdown() error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	var errs []error
	for path, handle := range ts.textures {
		if err := handle.evict(); err != nil {
			errs = append(errs, err)
		}
		delete(ts.textures, path)
	}
	ts.initialized = false
	return errors.Join(errs...)
}

/**
 * @brief Returns the texture for path, creating it through device on first use.
 * The returned handle carries a reference owned by the caller.
 */
func (ts *TextureSystem) Acquire(path string, device renderer.Device) (*TextureHandle, error) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if !ts.initialized {
		return nil, core.ErrSystemNotInitialized
	}
	if handle, ok := ts.textures[path]; ok {
		handle.Retain()
		return handle, nil
	}
	if err := ts.admit(path); err != nil {
		return nil, err
	}

	data, err := ts.loader.Load(path)
	if err != nil {
		err = fmt.Errorf("%w: '%s': %w", core.ErrResourceCreationFailed, path, err)
		core.LogError(err.Error())
		return nil, err
	}
	handle, err := ts.create(path, data, device)
	if err != nil {
		return nil, err
	}
	handle.Retain()
	return handle, nil
}

func (ts *TextureSystem) Contains(path string) bool {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	_, ok := ts.textures[path]
	return ok
}

func (ts *TextureSystem) Count() int {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	return len(ts.textures)
}

/**
 * @brief Warms the cache with every path. Files are decoded on the job system's
 * workers (inline when jobs is nil) and uploaded on the calling goroutine. No caller references are
 * taken. progress, if set, is called once per distinct path.
 */
func (ts *TextureSystem) Preload(paths []string, device renderer.Device, jobs *JobSystem, progress func(path string, err error)) error {
	type decoded struct {
		path string
		data *metadata.ImageResourceData
		err  error
	}

	report := func(path string, err error) {
		if progress != nil {
			progress(path, err)
		}
	}

	var errs []error
	pending := []string{}
	seen := make(map[string]bool)
	for _, path := range paths {
		if seen[path] {
			continue
		}
		seen[path] = true

		ts.mutex.Lock()
		_, cached := ts.textures[path]
		err := ts.checkInitialized()
		if err == nil && !cached && !ts.loader.SupportsFile(path) {
			err = fmt.Errorf("%w: '%s'", core.ErrUnsupportedFormat, path)
		}
		ts.mutex.Unlock()

		switch {
		case err != nil:
			errs = append(errs, err)
			report(path, err)
		case cached:
			report(path, nil)
		default:
			pending = append(pending, path)
		}
	}

	results := make(chan decoded, len(pending))
	for _, path := range pending {
		path := path
		var data *metadata.ImageResourceData
		job := Job{
			Run: func() error {
				var err error
				data, err = ts.loader.Load(path)
				return err
			},
			OnComplete: func() { results <- decoded{path: path, data: data} },
			OnFailure:  func(err error) { results <- decoded{path: path, err: err} },
		}
		if jobs == nil {
			job.execute()
			continue
		}
		if err := jobs.Submit(job); err != nil {
			core.LogWarn("decoding '%s' inline: %s", path, err)
			job.execute()
		}
	}

	for range pending {
		r := <-results
		err := r.err
		if err != nil {
			err = fmt.Errorf("%w: '%s': %w", core.ErrResourceCreationFailed, r.path, err)
			core.LogError(err.Error())
		} else {
			ts.mutex.Lock()
			if _, ok := ts.textures[r.path]; !ok {
				if err = ts.admit(r.path); err == nil {
					_, err = ts.create(r.path, r.data, device)
				}
			}
			ts.mutex.Unlock()
		}
		if err != nil {
			errs = append(errs, err)
		}
		report(r.path, err)
	}
	return errors.Join(errs...)
}

func (ts *TextureSystem) checkInitialized() error {
	if !ts.initialized {
		return core.ErrSystemNotInitialized
	}
	return nil
}

// admit checks a new path against the format and capacity limits. Caller holds the mutex.
func (ts *TextureSystem) admit(path string) error {
	if !ts.loader.SupportsFile(path) {
		return fmt.Errorf("%w: '%s'", core.ErrUnsupportedFormat, path)
	}
	if limit := ts.Config.MaxTextureCount; limit > 0 && uint32(len(ts.textures)) >= limit {
		err := fmt.Errorf("%w: cannot cache '%s', limit is %d", core.ErrTextureLimitReached, path, limit)
		core.LogWarn(err.Error())
		return err
	}
	return nil
}

// create uploads data and inserts the handle holding only the cache's reference. Caller holds the mutex.
func (ts *TextureSystem) create(path string, data *metadata.ImageResourceData, device renderer.Device) (*TextureHandle, error) {
	if device == nil {
		err := fmt.Errorf("%w: '%s': no device", core.ErrResourceCreationFailed, path)
		core.LogError(err.Error())
		return nil, err
	}

	texture := &metadata.Texture{
		ID:           uuid.NewString(),
		Name:         path,
		Width:        data.Width,
		Height:       data.Height,
		ChannelCount: data.ChannelCount,
	}
	if data.HasTransparency {
		texture.Flags |= metadata.TextureFlagBits(metadata.TextureFlagHasTransparency)
	}
	if err := device.TextureCreate(data.Pixels, texture); err != nil {
		err = fmt.Errorf("%w: '%s': %w", core.ErrResourceCreationFailed, path, err)
		core.LogError(err.Error())
		return nil, err
	}
	texture.Generation++

	handle := &TextureHandle{path: path, texture: texture, device: device, cached: true}
	ts.textures[path] = handle
	core.LogDebug("texture '%s' created as %s (%dx%d)", path, texture.ID, texture.Width, texture.Height)
	return handle, nil
}
