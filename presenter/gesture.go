package presenter

import (
	"errors"

	"github.com/milk9111/tilesheet/tileset"
)

var ErrGestureEnded = errors.New("presenter: gesture already ended")

// AssignGroupGesture paints one collision group onto hulls. Every Paint is
// visible immediately; End records the whole stroke as a single edit.
type AssignGroupGesture struct {
	p      *Presenter
	group  string
	before map[int]string
	ended  bool
}

// BeginAssignGroup starts a paint stroke. A stroke still open is ended
// first.
func (p *Presenter) BeginAssignGroup(group string) *AssignGroupGesture {
	p.endGesture()
	g := &AssignGroupGesture{p: p, group: group, before: make(map[int]string)}
	p.gesture = g
	return g
}

func (p *Presenter) endGesture() {
	if p.gesture != nil {
		_ = p.gesture.End()
	}
}

func (g *AssignGroupGesture) Group() string { return g.group }

// Paint assigns the group to tile's hull. It reports false for an unknown
// tile or an ended gesture.
func (g *AssignGroupGesture) Paint(tile int) bool {
	if g.ended {
		return false
	}
	h, ok := g.p.model.Hull(tile)
	if !ok {
		return false
	}
	if _, seen := g.before[tile]; !seen {
		g.before[tile] = h.CollisionGroup
	}
	g.p.model.SetHullGroup(tile, g.group)
	return true
}

// Touched returns how many hulls the stroke has painted.
func (g *AssignGroupGesture) Touched() int { return len(g.before) }

// End commits the stroke as one edit holding every touched hull's group
// from before its first paint. A stroke that touched no hull records
// nothing.
func (g *AssignGroupGesture) End() error {
	if g.ended {
		return ErrGestureEnded
	}
	g.ended = true
	if g.p.gesture == g {
		g.p.gesture = nil
	}
	if len(g.before) == 0 {
		return nil
	}
	g.p.history.Execute(tileset.NewSetHullGroupsEdit(g.p.model, g.before, g.group))
	return nil
}
