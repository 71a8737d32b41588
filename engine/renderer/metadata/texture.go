package metadata

type TextureFlag uint8

const (
	/** @brief Indicates if the texture has transparency. */
	TextureFlagHasTransparency TextureFlag = 0x1
	/** @brief Indicates if the texture can be written (rendered) to. */
	TextureFlagIsWriteable TextureFlag = 0x2
)

/** @brief Holds bit flags for textures.. */
type TextureFlagBits uint8

func (f TextureFlagBits) Has(flag TextureFlag) bool {
	return uint8(f)&uint8(flag) != 0
}

/**
 * @brief Represents a GPU resident texture.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID string
	/** @brief The file the texture was loaded from. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels in the texture. */
	ChannelCount uint8
	/** @brief Holds various Flags for this texture. */
	Flags TextureFlagBits
	/** @brief The texture Generation. Incremented every time the data is uploaded. */
	Generation uint32
	/** @brief Backend specific data (e.g. the Vulkan image, view and sampler). */
	InternalData interface{}
}

/** @brief A collection of texture uses */
type TextureUse int

const (
	TextureUseUnknown TextureUse = iota
	TextureUseMapDiffuse
	TextureUseMapSpecular
	TextureUseMapNormal
	TextureUseMapEmissive
	TextureUseMapFontPage
)

func (u TextureUse) String() string {
	switch u {
	case TextureUseMapDiffuse:
		return "diffuse"
	case TextureUseMapSpecular:
		return "specular"
	case TextureUseMapNormal:
		return "normal"
	case TextureUseMapEmissive:
		return "emissive"
	case TextureUseMapFontPage:
		return "font_page"
	}
	return "unknown"
}
