package presenter

import (
	"image"

	"github.com/milk9111/tilesheet/colors"
	"github.com/milk9111/tilesheet/geometry"
)

// View is the display the presenter pushes state into. Calls arrive on the
// goroutine that changed the model.
type View interface {
	// RefreshProperties tells the view the sheet parameters changed.
	RefreshProperties()
	// SetTiles replaces the whole tile display. hullIndices and hullCounts
	// address the model's hull point buffer, one entry per tile.
	SetTiles(img image.Image, vertices []float32, hullIndices, hullCounts []int, hullColors []colors.Color, hullScale geometry.Vec3)
	ClearTiles()
	SetCollisionGroups(names []string, groupColors []colors.Color, selected []string)
	SetTileHullColor(tile int, c colors.Color)
	SetDirty(dirty bool)
}
