// Package presenter keeps a View in step with a tileset.Model: it rebuilds
// the tile geometry, resolves hull colours from the collision group table,
// turns user gestures into undoable edits and tracks unsaved changes.
package presenter

import (
	"context"
	"fmt"

	"github.com/milk9111/tilesheet/colors"
	"github.com/milk9111/tilesheet/geometry"
	"github.com/milk9111/tilesheet/history"
	"github.com/milk9111/tilesheet/tileset"
)

// History is the undo stack the presenter executes edits through.
type History interface {
	Execute(e history.Edit)
	Undo() bool
	Redo() bool
	Clear()
	Subscribe(fn func(history.Event)) func()
}

type Presenter struct {
	model   *tileset.Model
	history History
	view    View

	table   colors.Table
	dirty   *DirtyTracker
	tiles   *geometry.Tiles
	workers int

	gesture     *AssignGroupGesture
	unsubscribe []func()
}

// New wires a presenter to model, history and view and pushes the current
// state to the view.
func New(model *tileset.Model, h History, view View) *Presenter {
	p := &Presenter{model: model, history: h, view: view}
	p.dirty = NewDirtyTracker(view.SetDirty)
	p.unsubscribe = append(p.unsubscribe,
		model.Subscribe(p.onModelChange),
		h.Subscribe(p.onHistoryEvent),
	)
	p.Refresh()
	return p
}

// Close detaches the presenter from the model and the history.
func (p *Presenter) Close() {
	for _, fn := range p.unsubscribe {
		fn()
	}
	p.unsubscribe = nil
}

// SetBuildWorkers makes tile rebuilds tessellate rows on n goroutines. n <= 1
// builds serially.
func (p *Presenter) SetBuildWorkers(n int) {
	p.workers = n
}

func (p *Presenter) Model() *tileset.Model { return p.model }

// Tiles returns the current geometry, or nil while the sheet parameters do
// not describe the hulls.
func (p *Presenter) Tiles() *geometry.Tiles { return p.tiles }

func (p *Presenter) Dirty() bool { return p.dirty.Dirty() }

// GroupColors returns the colour table for the current collision groups.
func (p *Presenter) GroupColors() []colors.Color { return p.table.Colors() }

// Refresh pushes properties, groups and tiles to the view. The dirty flag
// is pushed only when it flips; hosts poll Dirty for the current value.
func (p *Presenter) Refresh() {
	p.table.Resize(len(p.model.CollisionGroups()))
	p.view.RefreshProperties()
	p.pushGroups()
	p.rebuildTiles()
}

// Load replaces the document, drops the undo history and marks it clean.
func (p *Presenter) Load(doc tileset.Document) {
	p.endGesture()
	p.history.Clear()
	p.model.Load(doc)
	p.dirty.Reset()
}

// Save hands a snapshot of the document to write. The document is marked
// clean only when write succeeds.
func (p *Presenter) Save(write func(tileset.Document) error) error {
	p.endGesture()
	if err := write(p.model.Document()); err != nil {
		return fmt.Errorf("presenter: save: %w", err)
	}
	p.dirty.Reset()
	return nil
}

func (p *Presenter) AddCollisionGroup(name string) error {
	e, err := tileset.NewAddCollisionGroupEdit(p.model, name)
	if err != nil {
		Logger().Warn("add collision group rejected", "name", name, "err", err)
		return err
	}
	p.history.Execute(e)
	return nil
}

// RemoveSelectedCollisionGroups removes every selected group. It does
// nothing when the selection is empty.
func (p *Presenter) RemoveSelectedCollisionGroups() {
	if len(p.model.SelectedCollisionGroups()) == 0 {
		return
	}
	p.history.Execute(tileset.NewRemoveCollisionGroupsEdit(p.model))
}

// RenameSelectedCollisionGroups renames the selected groups, in selection
// order, to names.
func (p *Presenter) RenameSelectedCollisionGroups(names []string) error {
	e, err := tileset.NewRenameCollisionGroupsEdit(p.model, names)
	if err != nil {
		Logger().Warn("rename collision groups rejected", "names", names, "err", err)
		return err
	}
	p.history.Execute(e)
	return nil
}

// SelectCollisionGroups sets the selected group names. Selection is not
// undoable.
func (p *Presenter) SelectCollisionGroups(names []string) {
	p.model.SetSelectedCollisionGroups(names)
}

func (p *Presenter) Undo() bool {
	p.endGesture()
	return p.history.Undo()
}

func (p *Presenter) Redo() bool {
	p.endGesture()
	return p.history.Redo()
}

func (p *Presenter) onHistoryEvent(e history.Event) {
	switch e {
	case history.Done, history.Redone:
		p.dirty.Executed()
	case history.Undone:
		p.dirty.Undone()
	}
}

func (p *Presenter) onModelChange(c tileset.Change) {
	switch c := c.(type) {
	case tileset.SheetParamsChanged:
		p.view.RefreshProperties()
		p.rebuildTiles()
	case tileset.HullsChanged:
		if c.Indices == nil {
			p.rebuildTiles()
			return
		}
		p.updateHullColors(c.Indices)
	case tileset.GroupsChanged:
		p.table.Resize(len(p.model.CollisionGroups()))
		p.pushGroups()
		p.rebuildTiles()
	case tileset.SelectionChanged:
		p.pushGroups()
	}
}

func (p *Presenter) pushGroups() {
	p.view.SetCollisionGroups(p.model.CollisionGroups(), p.table.Colors(), p.model.SelectedCollisionGroups())
}

func (p *Presenter) build(params geometry.Params, hullCount int) (*geometry.Tiles, error) {
	if p.workers > 1 {
		return geometry.BuildParallel(context.Background(), params, hullCount, p.workers)
	}
	return geometry.Build(params, hullCount)
}

func (p *Presenter) rebuildTiles() {
	hulls := p.model.Hulls()
	tiles, err := p.build(p.model.Params(), len(hulls))
	if err != nil {
		Logger().Debug("clearing tiles", "err", err)
		p.tiles = nil
		p.view.ClearTiles()
		return
	}
	p.tiles = tiles

	groups := p.model.CollisionGroups()
	indices := make([]int, len(hulls))
	counts := make([]int, len(hulls))
	hullColors := make([]colors.Color, len(hulls))
	for i, h := range hulls {
		indices[i] = h.Index
		counts[i] = h.Count
		hullColors[i] = ResolveHullColor(h, groups, &p.table)
	}
	p.view.SetTiles(p.model.Image(), tiles.Vertices, indices, counts, hullColors, tiles.HullScale)
}

func (p *Presenter) updateHullColors(indices []int) {
	if p.tiles == nil {
		return
	}
	groups := p.model.CollisionGroups()
	for _, i := range indices {
		h, ok := p.model.Hull(i)
		if !ok || i >= p.tiles.Count() {
			Logger().Debug("ignoring stale hull", "tile", i)
			continue
		}
		p.view.SetTileHullColor(i, ResolveHullColor(h, groups, &p.table))
	}
}
