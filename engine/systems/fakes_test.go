package systems

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

type fakeDevice struct {
	mutex     sync.Mutex
	created   []string
	destroyed []string
	failOn    map[string]bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{failOn: make(map[string]bool)}
}

func (d *fakeDevice) TextureCreate(pixels []uint8, texture *metadata.Texture) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.failOn[texture.Name] {
		return errors.New("out of device memory")
	}
	if len(pixels) != int(texture.Width*texture.Height*uint32(texture.ChannelCount)) {
		return errors.New("pixel buffer does not match texture size")
	}
	texture.InternalData = texture.Name
	d.created = append(d.created, texture.Name)
	return nil
}

func (d *fakeDevice) TextureDestroy(texture *metadata.Texture) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.destroyed = append(d.destroyed, texture.Name)
	return nil
}

func (d *fakeDevice) createdCount() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.created)
}

func (d *fakeDevice) destroyedCount() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.destroyed)
}

// fakeLoader accepts .png and .jpg and hands out 2x2 RGBA images.
type fakeLoader struct {
	mutex  sync.Mutex
	calls  map[string]int
	failOn map[string]bool
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{calls: make(map[string]int), failOn: make(map[string]bool)}
}

func (l *fakeLoader) SupportsFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg":
		return true
	}
	return false
}

func (l *fakeLoader) Load(path string) (*metadata.ImageResourceData, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.calls[path]++
	if l.failOn[path] {
		return nil, errors.New("corrupt file")
	}
	return &metadata.ImageResourceData{
		ChannelCount: 4,
		Width:        2,
		Height:       2,
		Pixels:       make([]uint8, 16),
	}, nil
}

func (l *fakeLoader) callCount(path string) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.calls[path]
}

func (l *fakeLoader) totalCalls() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	n := 0
	for _, c := range l.calls {
		n += c
	}
	return n
}
