package metadata

import "github.com/spaghettifunk/tessera/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief Material configuration as written in a material file.
 */
type MaterialConfig struct {
	Name      string    `toml:"name"`
	Ambient   []float32 `toml:"ambient"`
	Diffuse   []float32 `toml:"diffuse"`
	Specular  []float32 `toml:"specular"`
	Emissive  []float32 `toml:"emissive"`
	Shininess float32   `toml:"shininess"`
	Opacity   *float32  `toml:"opacity"`
	// Experimental flags, carried through to the renderer untouched.
	Mirror bool `toml:"mirror"`
	Shadow bool `toml:"shadow"`

	TextureTransform TextureTransformConfig `toml:"texture_transform"`
	Maps             MaterialMapsConfig     `toml:"maps"`
}

type TextureTransformConfig struct {
	Scale  []float32 `toml:"scale"`
	Offset []float32 `toml:"offset"`
}

/** @brief Texture paths, relative to the material file. */
type MaterialMapsConfig struct {
	Diffuse  string `toml:"diffuse"`
	Specular string `toml:"specular"`
	Normal   string `toml:"normal"`
	Emissive string `toml:"emissive"`
}

/**
 * @brief A structure which maps a texture to its use.
 */
type TextureMap struct {
	/** @brief A pointer to a Texture. */
	Texture *Texture
	/** @brief The Use of the texture */
	Use TextureUse
}

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as texture, colour and shininess.
 */
type Material struct {
	Name      string
	Ambient   math.Vec3
	Diffuse   math.Vec3
	Specular  math.Vec3
	Emissive  math.Vec3
	Shininess float32
	Opacity   float32
	Mirror    bool
	Shadow    bool
	/** @brief Row major texture coordinate transform. */
	TextureTransform math.Mat4
	/** @brief Texture maps keyed by their use. */
	Maps map[TextureUse]*TextureMap
	/** @brief Incremented every time the material is (re)loaded. */
	Generation uint32
}
