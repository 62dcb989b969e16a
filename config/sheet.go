package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilesheet/assets"
	"github.com/milk9111/tilesheet/geometry"
	"github.com/milk9111/tilesheet/tileset"
	"gopkg.in/yaml.v3"
)

// SheetSpec is the on-disk description of a tile set. Image is resolved
// relative to the sheet file.
type SheetSpec struct {
	Image           string     `yaml:"image"`
	TileWidth       int        `yaml:"tile_width"`
	TileHeight      int        `yaml:"tile_height"`
	Margin          int        `yaml:"margin"`
	Spacing         int        `yaml:"spacing"`
	CollisionGroups []string   `yaml:"collision_groups"`
	Hulls           []HullSpec `yaml:"hulls"`
}

// HullSpec is one tile's hull. Points are tile-local pixels around the tile
// centre; no points means the tile has no custom hull.
type HullSpec struct {
	Group  string  `yaml:"group,omitempty"`
	Points []Point `yaml:"points,flow,omitempty"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func LoadSheet(path string) (SheetSpec, error) {
	return LoadSpec[SheetSpec](path)
}

// SaveSheet writes spec to path through a temporary file.
func SaveSheet(path string, spec SheetSpec) error {
	data, err := yaml.Marshal(&spec)
	if err != nil {
		return fmt.Errorf("config: marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ImagePath returns the sheet image path for a sheet stored at sheetPath.
func (s SheetSpec) ImagePath(sheetPath string) string {
	if s.Image == "" || filepath.IsAbs(s.Image) {
		return s.Image
	}
	return filepath.Join(filepath.Dir(sheetPath), filepath.FromSlash(s.Image))
}

// Params returns the slicing parameters; image dimensions are filled in
// from img when it is not nil.
func (s SheetSpec) Params(img image.Image) geometry.Params {
	p := geometry.Params{
		TileWidth:  s.TileWidth,
		TileHeight: s.TileHeight,
		Margin:     s.Margin,
		Spacing:    s.Spacing,
	}
	if img != nil {
		p.ImageWidth = img.Bounds().Dx()
		p.ImageHeight = img.Bounds().Dy()
	}
	return p
}

// ToDocument builds a model document, packing every hull's points into one
// shared buffer.
func (s SheetSpec) ToDocument(img image.Image) tileset.Document {
	doc := tileset.Document{
		Image:           img,
		Params:          s.Params(img),
		Hulls:           make([]tileset.ConvexHull, len(s.Hulls)),
		CollisionGroups: append([]string(nil), s.CollisionGroups...),
	}
	for i, h := range s.Hulls {
		doc.Hulls[i] = tileset.ConvexHull{
			Index:          len(doc.Points),
			Count:          len(h.Points),
			CollisionGroup: h.Group,
		}
		for _, pt := range h.Points {
			doc.Points = append(doc.Points, cp.Vector{X: pt.X, Y: pt.Y})
		}
	}
	return doc
}

// SheetFromDocument is the inverse of ToDocument. Hulls pointing outside the
// point buffer are written without points.
func SheetFromDocument(doc tileset.Document, imagePath string) SheetSpec {
	s := SheetSpec{
		Image:           filepath.ToSlash(imagePath),
		TileWidth:       doc.Params.TileWidth,
		TileHeight:      doc.Params.TileHeight,
		Margin:          doc.Params.Margin,
		Spacing:         doc.Params.Spacing,
		CollisionGroups: append([]string(nil), doc.CollisionGroups...),
		Hulls:           make([]HullSpec, len(doc.Hulls)),
	}
	for i, h := range doc.Hulls {
		s.Hulls[i].Group = h.CollisionGroup
		if h.Count == 0 || h.Index < 0 || h.Index+h.Count > len(doc.Points) {
			continue
		}
		for _, pt := range doc.Points[h.Index : h.Index+h.Count] {
			s.Hulls[i].Points = append(s.Hulls[i].Points, Point{X: pt.X, Y: pt.Y})
		}
	}
	return s
}

// LoadDocument reads the sheet at path and decodes its image.
func LoadDocument(path string) (tileset.Document, SheetSpec, error) {
	spec, err := LoadSheet(path)
	if err != nil {
		return tileset.Document{}, spec, err
	}
	img, err := assets.LoadImage(spec.ImagePath(path))
	if err != nil {
		return tileset.Document{}, spec, fmt.Errorf("config: sheet %s: %w", path, err)
	}
	return spec.ToDocument(img), spec, nil
}
