// Package tileset holds the tile set document: sheet parameters, one convex
// hull per tile and the named collision groups the hulls are assigned to.
package tileset

import (
	"image"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilesheet/geometry"
)

// ConvexHull is the collision hull of one tile. Index and Count address the
// model's shared point buffer; Count == 0 means the tile has no custom hull.
// An empty CollisionGroup means no group is assigned.
type ConvexHull struct {
	Index          int
	Count          int
	CollisionGroup string
}

// Document is a full snapshot of the model.
type Document struct {
	Image           image.Image
	Params          geometry.Params
	Hulls           []ConvexHull
	Points          []cp.Vector
	CollisionGroups []string
}

type subscriber struct {
	id int
	fn func(Change)
}

// Model is the tile set being edited. Mutators notify subscribers
// synchronously and stay silent when nothing changed.
type Model struct {
	image    image.Image
	params   geometry.Params
	hulls    []ConvexHull
	points   []cp.Vector
	groups   []string
	selected []string

	subscribers []subscriber
	nextID      int
}

func NewModel() *Model {
	return &Model{}
}

// Subscribe registers fn for every change and returns a function removing it.
func (m *Model) Subscribe(fn func(Change)) func() {
	m.nextID++
	id := m.nextID
	m.subscribers = append(m.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subscribers {
			if s.id == id {
				m.subscribers = append(m.subscribers[:i:i], m.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (m *Model) emit(c Change) {
	for _, s := range append([]subscriber(nil), m.subscribers...) {
		s.fn(c)
	}
}

// Load replaces the whole document and clears the selection.
func (m *Model) Load(doc Document) {
	m.image = doc.Image
	m.params = paramsForImage(doc.Params, doc.Image)
	m.hulls = slices.Clone(doc.Hulls)
	m.points = slices.Clone(doc.Points)
	m.groups = slices.Clone(doc.CollisionGroups)
	m.selected = nil

	m.emit(SheetParamsChanged{})
	m.emit(GroupsChanged{})
	m.emit(SelectionChanged{})
	m.emit(HullsChanged{})
}

// Document returns a deep copy of the current state.
func (m *Model) Document() Document {
	return Document{
		Image:           m.image,
		Params:          m.params,
		Hulls:           slices.Clone(m.hulls),
		Points:          slices.Clone(m.points),
		CollisionGroups: slices.Clone(m.groups),
	}
}

func paramsForImage(p geometry.Params, img image.Image) geometry.Params {
	if img != nil {
		b := img.Bounds()
		p.ImageWidth = b.Dx()
		p.ImageHeight = b.Dy()
	}
	return p
}

func (m *Model) Params() geometry.Params { return m.params }
func (m *Model) Image() image.Image       { return m.image }

// SetParams updates the slicing parameters. Image dimensions follow the
// image when one is set.
func (m *Model) SetParams(p geometry.Params) {
	p = paramsForImage(p, m.image)
	if p == m.params {
		return
	}
	m.params = p
	m.emit(SheetParamsChanged{})
}

// SetImage swaps the sheet image, for example after it was edited on disk.
func (m *Model) SetImage(img image.Image) {
	m.image = img
	m.params = paramsForImage(m.params, img)
	m.emit(SheetParamsChanged{})
}

func (m *Model) HullCount() int { return len(m.hulls) }

// Hulls returns a copy of the hull list.
func (m *Model) Hulls() []ConvexHull { return slices.Clone(m.hulls) }

func (m *Model) Hull(i int) (ConvexHull, bool) {
	if i < 0 || i >= len(m.hulls) {
		return ConvexHull{}, false
	}
	return m.hulls[i], true
}

// HullPoints returns a copy of the shared point buffer.
func (m *Model) HullPoints() []cp.Vector { return slices.Clone(m.points) }

// SetHulls replaces every hull and the point buffer.
func (m *Model) SetHulls(hulls []ConvexHull, points []cp.Vector) {
	m.hulls = slices.Clone(hulls)
	m.points = slices.Clone(points)
	m.emit(HullsChanged{})
}

// SetHullGroup assigns a group to one hull. It reports false for an unknown
// hull.
func (m *Model) SetHullGroup(i int, group string) bool {
	if i < 0 || i >= len(m.hulls) {
		return false
	}
	if m.hulls[i].CollisionGroup != group {
		m.hulls[i].CollisionGroup = group
		m.emit(HullsChanged{Indices: []int{i}})
	}
	return true
}

// SetHullGroups assigns groups to several hulls with a single notification.
func (m *Model) SetHullGroups(groups map[int]string) {
	var changed []int
	for i, g := range groups {
		if i < 0 || i >= len(m.hulls) || m.hulls[i].CollisionGroup == g {
			continue
		}
		m.hulls[i].CollisionGroup = g
		changed = append(changed, i)
	}
	if len(changed) == 0 {
		return
	}
	slices.Sort(changed)
	m.emit(HullsChanged{Indices: changed})
}

// CollisionGroups returns a copy of the ordered group names.
func (m *Model) CollisionGroups() []string { return slices.Clone(m.groups) }

// GroupIndex returns the position of name, or -1.
func (m *Model) GroupIndex(name string) int {
	return slices.Index(m.groups, name)
}

func (m *Model) SetCollisionGroups(groups []string) {
	if slices.Equal(groups, m.groups) {
		return
	}
	m.groups = slices.Clone(groups)
	m.emit(GroupsChanged{})
}

func (m *Model) SelectedCollisionGroups() []string { return slices.Clone(m.selected) }

func (m *Model) SetSelectedCollisionGroups(selected []string) {
	if slices.Equal(selected, m.selected) {
		return
	}
	m.selected = slices.Clone(selected)
	m.emit(SelectionChanged{})
}
