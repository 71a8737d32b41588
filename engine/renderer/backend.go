package renderer

import "github.com/spaghettifunk/tessera/engine/renderer/metadata"

// Device is the GPU side of texture creation. TextureCreate uploads tightly
// packed RGBA8 pixels sized texture.Width*texture.Height*4 and stores the
// backend resources in texture.InternalData; TextureDestroy frees them.
type Device interface {
	TextureCreate(pixels []uint8, texture *metadata.Texture) error
	TextureDestroy(texture *metadata.Texture) error
}
