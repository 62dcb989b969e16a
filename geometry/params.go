package geometry

import "errors"

var (
	// ErrInvalidSheetParams is returned when the sheet parameters yield no
	// tiles along a row or a column.
	ErrInvalidSheetParams = errors.New("invalid sheet params")
	// ErrGeometryMismatch is returned when the tile grid disagrees with the
	// number of known convex hulls.
	ErrGeometryMismatch = errors.New("geometry mismatch")
)

// Params describes how a tile sheet image is sliced.
type Params struct {
	ImageWidth  int `yaml:"image_width"`
	ImageHeight int `yaml:"image_height"`
	TileWidth   int `yaml:"tile_width"`
	TileHeight  int `yaml:"tile_height"`
	Margin      int `yaml:"margin"`
	Spacing     int `yaml:"spacing"`
}

// TileCount returns how many whole tiles fit along one image axis. Every
// tile is preceded by spacing+margin pixels.
func TileCount(tileSize, imageSize, margin, spacing int) int {
	stride := tileSize + spacing + margin
	if tileSize <= 0 || imageSize <= 0 || stride <= 0 || margin < 0 || spacing < 0 {
		return 0
	}
	return imageSize / stride
}

// Grid returns tiles per row and tiles per column.
func (p Params) Grid() (perRow, perColumn int) {
	perRow = TileCount(p.TileWidth, p.ImageWidth, p.Margin, p.Spacing)
	perColumn = TileCount(p.TileHeight, p.ImageHeight, p.Margin, p.Spacing)
	return perRow, perColumn
}

// Count returns the total number of tiles, zero when the grid is degenerate.
func (p Params) Count() int {
	r, c := p.Grid()
	if r <= 0 || c <= 0 {
		return 0
	}
	return r * c
}
