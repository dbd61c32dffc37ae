package types

// Font is a font file found in the configured font directory.
type Font struct {
	// Path relative to the font directory.
	// example: custom/DoppioOne-Regular.ttf
	ID string `json:"id" example:"custom/DoppioOne-Regular.ttf"`
	// File name without extension.
	// example: DoppioOne-Regular
	Name string `json:"name" example:"DoppioOne-Regular"`
	// Absolute path to the font file on disk.
	// example: /usr/share/fonts/custom/DoppioOne-Regular.ttf
	Path string `json:"path" example:"/usr/share/fonts/custom/DoppioOne-Regular.ttf"`
	// Font container format: ttf, otf or ttc.
	// example: ttf
	Format string `json:"format" example:"ttf"`
	// File size in bytes.
	// example: 52340
	Size int64 `json:"size" example:"52340"`
}
