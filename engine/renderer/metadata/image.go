package metadata

/**
 * @brief Decoded image data, always tightly packed 8-bit RGBA.
 */
type ImageResourceData struct {
	/** @brief The number of channels. Always 4 for decoded images. */
	ChannelCount uint8
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief Set when at least one pixel has alpha below 255. */
	HasTransparency bool
	/** @brief The pixel data of the image. */
	Pixels []uint8
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/** @brief Indicates if the image should be flipped on the y-axis when loaded. */
	FlipY bool
}
