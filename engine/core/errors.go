package core

import (
	"errors"
)

var (
	// The requested file has an extension no registered loader can decode.
	ErrUnsupportedFormat = errors.New("unsupported texture format")
	// The loader or the GPU device failed to produce the resource.
	ErrResourceCreationFailed = errors.New("resource creation failed")
	ErrTextureLimitReached    = errors.New("texture system cannot hold any more textures")
	ErrSystemNotInitialized   = errors.New("system not initialized")
)
