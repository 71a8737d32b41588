package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spaghettifunk/tessera/engine/assets"
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/platform"
	"github.com/spaghettifunk/tessera/engine/renderer"
	"github.com/spaghettifunk/tessera/engine/renderer/vulkan"
	"github.com/spaghettifunk/tessera/engine/systems"
)

type failure struct {
	name string
	err  error
}

type preloader struct {
	am     *assets.AssetManager
	sm     *systems.SystemManager
	device renderer.Device

	// Called once per manifest entry, failed or not.
	step func(name string)
}

func (p *preloader) advance(name string) {
	if p.step != nil {
		p.step(name)
	}
}

// warm uploads every texture of the manifest, then loads its materials and
// fonts so the textures they reference are cached too. It returns one
// failure per entry that could not be loaded.
func (p *preloader) warm(m *assets.Manifest) []failure {
	failures := []failure{}

	paths := make([]string, 0, len(m.Textures))
	names := make(map[string]string, len(m.Textures))
	for _, name := range m.Textures {
		path, err := p.am.Resolve(name)
		if err != nil {
			failures = append(failures, failure{name: name, err: err})
			p.advance(name)
			continue
		}
		if _, ok := names[path]; ok {
			// Two names for the same file are uploaded once.
			p.advance(name)
			continue
		}
		names[path] = name
		paths = append(paths, path)
	}

	// Every per-path error reaches the callback; the joined return value only repeats them.
	_ = p.sm.TextureSystem.Preload(paths, p.device, p.sm.JobSystem, func(path string, err error) {
		if err != nil {
			failures = append(failures, failure{name: names[path], err: err})
		}
		p.advance(names[path])
	})

	for _, name := range m.Materials {
		if err := acquireRelease(p.am, name, p.sm.MaterialSystem.Acquire, p.sm.MaterialSystem.Release); err != nil {
			failures = append(failures, failure{name: name, err: err})
		}
		p.advance(name)
	}
	for _, name := range m.Fonts {
		if err := acquireRelease(p.am, name, p.sm.FontSystem.Acquire, p.sm.FontSystem.Release); err != nil {
			failures = append(failures, failure{name: name, err: err})
		}
		p.advance(name)
	}
	return failures
}

// acquireRelease loads name through a reference counted system and lets it go
// again. Textures it pulled in stay in the cache.
func acquireRelease[T any](am *assets.AssetManager, name string, acquire func(string) (T, error), release func(string) error) error {
	path, err := am.Resolve(name)
	if err != nil {
		return err
	}
	if _, err := acquire(path); err != nil {
		return err
	}
	return release(path)
}

func run() error {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	configPath := flags.String("config", "engine.toml", "path to the engine configuration")
	manifestName := flags.String("manifest", "", "scene manifest to warm, relative to the asset root")
	workers := flags.Int("workers", 0, "decode workers, 0 uses one per CPU")
	debug := flags.Bool("debug", false, "enable the vulkan validation layer")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	if *manifestName == "" {
		return fmt.Errorf("-manifest is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	core.SetLogLevel(cfg.LogLevel())

	am, err := assets.NewAssetManager()
	if err != nil {
		return err
	}
	defer am.Close()
	if err := am.Initialize(cfg.Assets.Root, false); err != nil {
		return fmt.Errorf("failed to index assets: %w", err)
	}

	manifestPath, err := am.Resolve(*manifestName)
	if err != nil {
		manifestPath = *manifestName
	}
	manifest, err := assets.LoadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	if err := platform.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer platform.Terminate()

	device, err := vulkan.NewContext(vulkan.ContextConfig{
		ApplicationName: "texpreload",
		Debug:           *debug,
	})
	if err != nil {
		return fmt.Errorf("failed to create vulkan context: %w", err)
	}
	defer device.Destroy()

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		MaxTextureCount: cfg.Textures.MaxTextureCount,
		FlipY:           cfg.Assets.FlipY,
		JobWorkers:      *workers,
	}, am, device)
	if err != nil {
		return err
	}
	if err := sm.Initialize(); err != nil {
		return err
	}

	pb := progressbar.Default(int64(manifest.Count()), manifest.Scene)
	p := &preloader{
		am:     am,
		sm:     sm,
		device: device,
		step: func(name string) {
			pb.Describe(filepath.Base(name))
			pb.Add(1)
		},
	}
	failures := p.warm(manifest)
	pb.Close()

	cached := sm.TextureSystem.Count()
	if err := sm.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}

	fmt.Printf("scene '%s': %d textures cached, %d of %d entries failed\n", manifest.Scene, cached, len(failures), manifest.Count())
	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", f.name, f.err)
		}
		return fmt.Errorf("%d assets failed to load", len(failures))
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("configuration '%s' not found, using defaults", path)
		return config.Default(), nil
	}
	return cfg, err
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to preload textures: %v\n", err)
		os.Exit(1)
	}
}
