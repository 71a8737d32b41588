package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/tessera/engine/assets/loaders"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the files under an asset root, keeps the index in sync
// with the file system and dispatches loads to the loader registered for
// each resource type.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
	}
	// Register loaders
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	return am, nil
}

// Initialize indexes assetsDir. When watch is set, files created, written or
// removed afterwards are reflected in the index.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = root

	if watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = fsWatch
		am.done = make(chan struct{})
		am.stopped = make(chan struct{})
		go am.start()
	}

	if err := am.watchRecursive(root, false); err != nil {
		return err
	}
	core.LogInfo("asset manager indexed %d files under '%s'", am.Count(), root)
	return nil
}

// Close stops watching the asset root.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	if am.fsnotify != nil {
		close(am.done)
		<-am.stopped
	}
	return nil
}

func (am *AssetManager) Root() string {
	return am.root
}

func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Resolve maps a logical asset name, relative to the asset root, to the path
// on disk. Names without an extension are tried against every image
// extension in priority order. The same name always resolves to the same
// string, so resolved paths can be used as cache keys.
func (am *AssetManager) Resolve(name string) (string, error) {
	key := filepath.ToSlash(filepath.Clean(name))

	am.mutex.RLock()
	defer am.mutex.RUnlock()

	if asset, ok := am.assets[key]; ok {
		return asset.Path, nil
	}
	if filepath.Ext(key) == "" {
		for _, ext := range loaders.ImageExtensions() {
			if asset, ok := am.assets[key+ext]; ok {
				return asset.Path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrAssetNotFound, name)
}

// ResolveAll resolves every name, skipping the ones that are not indexed.
// The returned error joins one ErrAssetNotFound per missing name.
func (am *AssetManager) ResolveAll(names []string) ([]string, error) {
	paths := make([]string, 0, len(names))
	var errs []error
	for _, name := range names {
		path, err := am.Resolve(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

// List returns the indexed names of the given type, sorted.
func (am *AssetManager) List(resourceType metadata.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	names := []string{}
	for name, info := range am.assets {
		if info.Type == resourceType {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SupportsFile reports whether path has an extension the engine can load.
func (am *AssetManager) SupportsFile(path string, resourceType metadata.ResourceType) bool {
	return DetermineAssetType(path) == resourceType
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(path string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	loader, loaderExists := am.loaders[resourceType]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	resource, err := loader.Load(path, resourceType, params)
	if err != nil {
		return nil, err
	}

	key := am.key(path)
	am.mutex.Lock()
	if asset, exists := am.assets[key]; exists {
		asset.LastLoaded = time.Now()
		am.assets[key] = asset
	}
	am.mutex.Unlock()

	return resource, nil
}

func (am *AssetManager) UnloadAsset(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	loader, loaderExists := am.loaders[resource.Type]
	if !loaderExists {
		return nil
	}
	return loader.Unload(resource)
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogError(err.Error())
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// Can't stat a deleted path, so always try to drop it from the index.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive indexes every file under path and, when watching, adds all
// directories to the watch list.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify == nil {
				return nil
			}
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

func (am *AssetManager) key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(am.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType := DetermineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[am.key(abs)] = AssetInfo{
		Path: abs,
		Type: assetType,
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, am.key(path))
}

func DetermineAssetType(path string) metadata.ResourceType {
	ext := strings.ToLower(filepath.Ext(path))
	if loaders.IsImageExtension(ext) {
		return metadata.ResourceTypeImage
	}
	switch ext {
	case ".mat":
		return metadata.ResourceTypeMaterial
	case ".fnt":
		return metadata.ResourceTypeBitmapFont
	case ".yaml", ".yml":
		return metadata.ResourceTypeManifest
	default:
		return metadata.ResourceTypeNone
	}
}
