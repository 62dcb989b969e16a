// Package hull maps canvas positions to tiles by querying a static chipmunk
// space holding one shape per tile hull.
package hull

import (
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilesheet/geometry"
	"github.com/milk9111/tilesheet/tileset"
)

// Picker finds the tile under a canvas position.
type Picker struct {
	space  *cp.Space
	tiles  *geometry.Tiles
	shapes map[*cp.Shape]int
}

// NewPicker adds one static shape per tile. A convex hull with at least
// three points becomes a polygon centred on its packed cell; any other tile
// is covered by a box the size of its cell.
func NewPicker(tiles *geometry.Tiles, hulls []tileset.ConvexHull, points []cp.Vector) *Picker {
	pk := &Picker{
		space:  cp.NewSpace(),
		tiles:  tiles,
		shapes: make(map[*cp.Shape]int, tiles.Count()),
	}
	w, h := float64(tiles.Params.TileWidth), float64(tiles.Params.TileHeight)
	for tile := 0; tile < tiles.Count(); tile++ {
		cx, cy := tiles.CellCenter(tile)
		var shape *cp.Shape
		if verts, ok := hullVerts(hulls, points, tile); ok {
			for i := range verts {
				verts[i] = verts[i].Add(cp.Vector{X: cx, Y: cy})
			}
			shape = cp.NewPolyShapeRaw(pk.space.StaticBody, len(verts), verts, 0)
		} else {
			bb := cp.BB{L: cx - w/2, B: cy - h/2, R: cx + w/2, T: cy + h/2}
			shape = cp.NewBox2(pk.space.StaticBody, bb, 0)
		}
		pk.space.AddShape(shape)
		pk.shapes[shape] = tile
	}
	return pk
}

func hullVerts(hulls []tileset.ConvexHull, points []cp.Vector, tile int) ([]cp.Vector, bool) {
	if tile >= len(hulls) {
		return nil, false
	}
	h := hulls[tile]
	if h.Count < 3 || h.Index < 0 || h.Index+h.Count > len(points) {
		return nil, false
	}
	verts := slices.Clone(points[h.Index : h.Index+h.Count])
	if !IsConvex(verts) {
		return nil, false
	}
	if signedArea(verts) < 0 {
		slices.Reverse(verts)
	}
	return verts, true
}

// TileAt returns the tile whose shape contains the normalized canvas
// position (x, y), both in [0, 1].
func (pk *Picker) TileAt(x, y float64) (int, bool) {
	pt := cp.Vector{X: x * float64(pk.tiles.CanvasWidth), Y: y * float64(pk.tiles.CanvasHeight)}
	info := pk.space.PointQueryNearest(pt, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return -1, false
	}
	tile, ok := pk.shapes[info.Shape]
	return tile, ok
}

// TileAtPixel is TileAt for a position in canvas pixels.
func (pk *Picker) TileAtPixel(px, py float64) (int, bool) {
	return pk.TileAt(px/float64(pk.tiles.CanvasWidth), py/float64(pk.tiles.CanvasHeight))
}

// IsConvex reports whether points form a convex polygon in either winding.
// Collinear runs are allowed; fewer than three points are not a polygon.
func IsConvex(points []cp.Vector) bool {
	n := len(points)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a, b, c := points[i], points[(i+1)%n], points[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

func signedArea(points []cp.Vector) float64 {
	var area float64
	for i, a := range points {
		b := points[(i+1)%len(points)]
		area += a.Cross(b)
	}
	return area / 2
}
