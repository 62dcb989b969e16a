// Package geometry lays the tiles of a sheet out in a packed, padded atlas
// and tessellates them into a flat vertex buffer.
package geometry

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	// VertexStride is the number of floats per vertex: x, y, z, u, v.
	VertexStride = 5
	// VerticesPerTile is two triangles without an index buffer.
	VerticesPerTile = 6
	FloatsPerTile   = VertexStride * VerticesPerTile
)

type Vec3 struct {
	X, Y, Z float32
}

// Rect is an axis-aligned rectangle in normalized canvas space.
type Rect struct {
	X0, Y0, X1, Y1 float32
}

// Tiles is the result of a geometry build.
type Tiles struct {
	Params    Params
	PerRow    int
	PerColumn int
	// CanvasWidth and CanvasHeight are the packed canvas size in pixels; each
	// tile sits in a cell padded by one pixel.
	CanvasWidth  int
	CanvasHeight int
	Vertices     []float32
	HullOffsets  []Vec3
	HullScale    Vec3

	recipW, recipH       float32
	recipImgW, recipImgH float32
}

// Build computes the packed layout for params, which must describe exactly
// hullCount tiles.
func Build(p Params, hullCount int) (*Tiles, error) {
	t, err := newTiles(p, hullCount)
	if err != nil {
		return nil, err
	}
	for row := 0; row < t.PerColumn; row++ {
		t.fillRow(row)
	}
	return t, nil
}

// BuildParallel is Build with rows tessellated concurrently. workers <= 0
// means no limit. The output is identical to Build.
func BuildParallel(ctx context.Context, p Params, hullCount, workers int) (*Tiles, error) {
	t, err := newTiles(p, hullCount)
	if err != nil {
		return nil, err
	}
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for row := 0; row < t.PerColumn; row++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.fillRow(row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("geometry: build: %w", err)
	}
	return t, nil
}

func newTiles(p Params, hullCount int) (*Tiles, error) {
	perRow, perColumn := p.Grid()
	if perRow <= 0 || perColumn <= 0 {
		return nil, fmt.Errorf("geometry: %dx%d tiles from %dx%d image: %w", perRow, perColumn, p.ImageWidth, p.ImageHeight, ErrInvalidSheetParams)
	}
	count := perRow * perColumn
	if count != hullCount {
		return nil, fmt.Errorf("geometry: %d tiles for %d hulls: %w", count, hullCount, ErrGeometryMismatch)
	}

	canvasW := perRow*(1+p.TileWidth) + 1
	canvasH := perColumn*(1+p.TileHeight) + 1
	t := &Tiles{
		Params:       p,
		PerRow:       perRow,
		PerColumn:    perColumn,
		CanvasWidth:  canvasW,
		CanvasHeight: canvasH,
		Vertices:     make([]float32, FloatsPerTile*count),
		HullOffsets:  make([]Vec3, count),
		recipW:       1 / float32(canvasW),
		recipH:       1 / float32(canvasH),
		recipImgW:    1 / float32(p.ImageWidth),
		recipImgH:    1 / float32(p.ImageHeight),
	}
	t.HullScale = Vec3{X: t.recipW, Y: t.recipH, Z: 1}
	return t, nil
}

// Count returns the number of tiles.
func (t *Tiles) Count() int {
	return t.PerRow * t.PerColumn
}

// Quad returns the packed quad of a tile.
func (t *Tiles) Quad(tile int) Rect {
	row, col := tile/t.PerRow, tile%t.PerRow
	return t.quad(row, col)
}

// CellCenter returns the centre of a tile's cell in canvas pixels.
func (t *Tiles) CellCenter(tile int) (x, y float64) {
	row, col := tile/t.PerRow, tile%t.PerRow
	w, h := t.Params.TileWidth, t.Params.TileHeight
	x = float64(col*(1+w)+1) + float64(w)/2
	y = float64(row*(1+h)+1) + float64(h)/2
	return x, y
}

func (t *Tiles) quad(row, col int) Rect {
	w, h := t.Params.TileWidth, t.Params.TileHeight
	return Rect{
		X0: float32(col*(1+w)+1) * t.recipW,
		X1: float32((col+1)*(1+w)) * t.recipW,
		Y0: float32(row*(1+h)+1) * t.recipH,
		Y1: float32((row+1)*(1+h)) * t.recipH,
	}
}

func (t *Tiles) fillRow(row int) {
	for col := 0; col < t.PerRow; col++ {
		t.fillTile(row, col)
	}
}

// fillTile writes the six vertices of one tile. Only the tile's own slice of
// the buffer is touched.
func (t *Tiles) fillTile(row, col int) {
	p := t.Params
	pad := p.Spacing + p.Margin
	q := t.quad(row, col)

	// half-pixel inset keeps sampling off the neighbouring tiles
	u0 := (float32(col*(pad+p.TileWidth)+pad) + 0.5) * t.recipImgW
	u1 := (float32((col+1)*(pad+p.TileWidth)) - 0.5) * t.recipImgW
	v0 := (float32((row+1)*(pad+p.TileHeight)) - 0.5) * t.recipImgH
	v1 := (float32(row*(pad+p.TileHeight)+pad) + 0.5) * t.recipImgH

	tile := row*t.PerRow + col
	v := t.Vertices[tile*FloatsPerTile : (tile+1)*FloatsPerTile]
	putVertex(v[0:], q.X0, q.Y0, u0, v0)
	putVertex(v[5:], q.X0, q.Y1, u0, v1)
	putVertex(v[10:], q.X1, q.Y0, u1, v0)
	putVertex(v[15:], q.X1, q.Y0, u1, v0)
	putVertex(v[20:], q.X0, q.Y1, u0, v1)
	putVertex(v[25:], q.X1, q.Y1, u1, v1)

	t.HullOffsets[tile] = Vec3{X: q.X0 + 0.5, Y: q.Y0 + 0.5}
}

func putVertex(dst []float32, x, y, u, v float32) {
	dst[0] = x
	dst[1] = y
	dst[2] = 0
	dst[3] = u
	dst[4] = v
}
