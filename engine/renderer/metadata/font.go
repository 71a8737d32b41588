package metadata

/** @brief A page (texture sheet) of a bitmap font. */
type BitmapFontPage struct {
	ID   int
	File string
	Map  *TextureMap
}

/** @brief A loaded bitmap font. */
type BitmapFont struct {
	Face       string
	Size       int
	LineHeight int
	Baseline   int
	AtlasSizeX int
	AtlasSizeY int
	GlyphCount int
	Pages      []*BitmapFontPage
}
