package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilesheet/colors"
	"github.com/milk9111/tilesheet/geometry"
)

// maxBatchTiles keeps each DrawTriangles call within uint16 indices.
const maxBatchTiles = 65535 / geometry.VerticesPerTile

// sheetView renders presenter output with ebiten. Positions stay normalized
// to the packed canvas; the game scales them when drawing.
type sheetView struct {
	title string

	src    image.Image
	sheet  *ebiten.Image
	verts  []ebiten.Vertex
	scaled []ebiten.Vertex
	index  []uint16

	centers     [][2]float32
	hullIndices []int
	hullCounts  []int
	hullColors  []colors.Color
	hullScale   geometry.Vec3

	panel *groupPanel
	dirty bool
}

func newSheetView(title string) *sheetView {
	return &sheetView{title: title}
}

func (v *sheetView) RefreshProperties() {}

func (v *sheetView) SetTiles(img image.Image, vertices []float32, hullIndices, hullCounts []int, hullColors []colors.Color, hullScale geometry.Vec3) {
	if img != v.src {
		v.src = img
		v.sheet = ebiten.NewImageFromImage(img)
	}
	b := img.Bounds()
	imgW, imgH := float32(b.Dx()), float32(b.Dy())

	n := len(vertices) / geometry.FloatsPerTile
	v.verts = v.verts[:0]
	v.centers = v.centers[:0]
	for t := 0; t < n; t++ {
		tile := vertices[t*geometry.FloatsPerTile : (t+1)*geometry.FloatsPerTile]
		// The buffer has v0 at the bottom of each tile; the viewer draws
		// y-down, so V is mirrored within the tile.
		vBottom := tile[4]
		vTop := tile[geometry.VertexStride+4]
		for i := 0; i < geometry.VerticesPerTile; i++ {
			f := tile[i*geometry.VertexStride:]
			v.verts = append(v.verts, ebiten.Vertex{
				DstX:   f[0],
				DstY:   f[1],
				SrcX:   float32(b.Min.X) + f[3]*imgW,
				SrcY:   float32(b.Min.Y) + (vTop+vBottom-f[4])*imgH,
				ColorR: 1,
				ColorG: 1,
				ColorB: 1,
				ColorA: 1,
			})
		}
		last := tile[(geometry.VerticesPerTile-1)*geometry.VertexStride:]
		v.centers = append(v.centers, [2]float32{(tile[0] + last[0]) / 2, (tile[1] + last[1]) / 2})
	}
	v.scaled = make([]ebiten.Vertex, len(v.verts))

	v.hullIndices = hullIndices
	v.hullCounts = hullCounts
	v.hullColors = hullColors
	v.hullScale = hullScale
}

func (v *sheetView) ClearTiles() {
	v.verts = nil
	v.scaled = nil
	v.centers = nil
	v.hullColors = nil
}

func (v *sheetView) SetCollisionGroups(names []string, groupColors []colors.Color, selected []string) {
	v.panel.SetGroups(names, groupColors, selected)
}

func (v *sheetView) SetTileHullColor(tile int, c colors.Color) {
	if tile >= 0 && tile < len(v.hullColors) {
		v.hullColors[tile] = c
	}
}

func (v *sheetView) SetDirty(dirty bool) {
	v.dirty = dirty
	if dirty {
		ebiten.SetWindowTitle(v.title + " *")
		return
	}
	ebiten.SetWindowTitle(v.title)
}

// drawTiles draws the atlas with its top-left corner at (x, y), w by h
// pixels on screen.
func (v *sheetView) drawTiles(dst *ebiten.Image, x, y, w, h float32) {
	if len(v.verts) == 0 || v.sheet == nil {
		return
	}
	for i, vert := range v.verts {
		vert.DstX = x + vert.DstX*w
		vert.DstY = y + vert.DstY*h
		v.scaled[i] = vert
	}
	perBatch := maxBatchTiles * geometry.VerticesPerTile
	if len(v.index) == 0 {
		v.index = make([]uint16, perBatch)
		for i := range v.index {
			v.index[i] = uint16(i)
		}
	}
	for start := 0; start < len(v.scaled); start += perBatch {
		end := min(start+perBatch, len(v.scaled))
		dst.DrawTriangles(v.scaled[start:end], v.index[:end-start], v.sheet, nil)
	}
}
