package presenter

import (
	"slices"

	"github.com/milk9111/tilesheet/colors"
	"github.com/milk9111/tilesheet/tileset"
)

// ResolveHullColor returns the overlay colour of a hull. Hulls without
// points, without a known group, or in the group at position 0 are drawn
// with colors.NoHull.
func ResolveHullColor(h tileset.ConvexHull, groups []string, table *colors.Table) colors.Color {
	if h.Count == 0 {
		return colors.NoHull
	}
	idx := slices.Index(groups, h.CollisionGroup)
	if idx <= 0 {
		return colors.NoHull
	}
	return table.At(idx)
}
