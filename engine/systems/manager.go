package systems

import (
	"errors"
	"runtime"

	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/renderer"
)

type SystemManagerConfig struct {
	MaxTextureCount    uint32
	MaxMaterialCount   uint32
	MaxBitmapFontCount uint8
	FlipY              bool
	// Zero uses one worker per CPU.
	JobWorkers int
}

/**
 * @brief Owns the resource systems and shuts them down in dependency order.
 */
type SystemManager struct {
	JobSystem      *JobSystem
	TextureSystem  *TextureSystem
	MaterialSystem *MaterialSystem
	FontSystem     *FontSystem
}

func NewSystemManager(config SystemManagerConfig, am *assets.AssetManager, device renderer.Device) (*SystemManager, error) {
	workers := config.JobWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	js, err := NewJobSystem(workers, workers*2)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: config.MaxTextureCount,
	}, NewImageTextureLoader(am, config.FlipY))
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: config.MaxMaterialCount,
	}, ts, device)
	if err != nil {
		return nil, err
	}
	fs, err := NewFontSystem(&FontSystemConfig{
		MaxBitmapFontCount: config.MaxBitmapFontCount,
	}, ts, device)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		JobSystem:      js,
		TextureSystem:  ts,
		MaterialSystem: ms,
		FontSystem:     fs,
	}, nil
}

func (sm *SystemManager) Initialize() error {
	if err := sm.TextureSystem.Initialize(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Initialize(); err != nil {
		return err
	}
	return sm.FontSystem.Initialize()
}

// Shutdown runs every step even when an earlier one fails.
func (sm *SystemManager) Shutdown() error {
	return errors.Join(
		sm.FontSystem.Shutdown(),
		sm.MaterialSystem.Shutdown(),
		sm.TextureSystem.Shutdown(),
		sm.JobSystem.Shutdown(),
	)
}
