package tileset

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	ErrEmptyGroupName = errors.New("empty collision group name")
	ErrDuplicateGroup = errors.New("duplicate collision group")
	ErrRenameMismatch = errors.New("rename needs one new name per selected group")
)

// SetHullGroupsEdit assigns Group to every hull in Before. Before holds each
// hull's group prior to the edit.
type SetHullGroupsEdit struct {
	model  *Model
	Before map[int]string
	Group  string
}

func NewSetHullGroupsEdit(m *Model, before map[int]string, group string) *SetHullGroupsEdit {
	return &SetHullGroupsEdit{model: m, Before: maps.Clone(before), Group: group}
}

func (e *SetHullGroupsEdit) Label() string { return "Set Collision Group" }

func (e *SetHullGroupsEdit) Apply() {
	after := make(map[int]string, len(e.Before))
	for i := range e.Before {
		after[i] = e.Group
	}
	e.model.SetHullGroups(after)
}

func (e *SetHullGroupsEdit) Revert() {
	e.model.SetHullGroups(e.Before)
}

// Indices returns the touched hulls in ascending order.
func (e *SetHullGroupsEdit) Indices() []int {
	return slices.Sorted(maps.Keys(e.Before))
}

// AddCollisionGroupEdit appends a group.
type AddCollisionGroupEdit struct {
	model  *Model
	Name   string
	before []string
}

func NewAddCollisionGroupEdit(m *Model, name string) (*AddCollisionGroupEdit, error) {
	if name == "" {
		return nil, ErrEmptyGroupName
	}
	if m.GroupIndex(name) >= 0 {
		return nil, fmt.Errorf("tileset: add %q: %w", name, ErrDuplicateGroup)
	}
	return &AddCollisionGroupEdit{model: m, Name: name, before: m.CollisionGroups()}, nil
}

func (e *AddCollisionGroupEdit) Label() string { return "Add Collision Group" }

func (e *AddCollisionGroupEdit) Apply() {
	e.model.SetCollisionGroups(append(slices.Clone(e.before), e.Name))
}

func (e *AddCollisionGroupEdit) Revert() {
	e.model.SetCollisionGroups(e.before)
}

// RemoveCollisionGroupsEdit removes the selected groups. Hulls assigned to a
// removed group lose their assignment and the selection is cleared.
type RemoveCollisionGroupsEdit struct {
	model          *Model
	Removed        []string
	groupsBefore   []string
	groupsAfter    []string
	selectedBefore []string
	hullsBefore    map[int]string
}

func NewRemoveCollisionGroupsEdit(m *Model) *RemoveCollisionGroupsEdit {
	e := &RemoveCollisionGroupsEdit{
		model:          m,
		groupsBefore:   m.CollisionGroups(),
		selectedBefore: m.SelectedCollisionGroups(),
		hullsBefore:    make(map[int]string),
	}
	for _, g := range e.groupsBefore {
		if slices.Contains(e.selectedBefore, g) {
			e.Removed = append(e.Removed, g)
		} else {
			e.groupsAfter = append(e.groupsAfter, g)
		}
	}
	for i, h := range m.hulls {
		if h.CollisionGroup != "" && slices.Contains(e.Removed, h.CollisionGroup) {
			e.hullsBefore[i] = h.CollisionGroup
		}
	}
	return e
}

func (e *RemoveCollisionGroupsEdit) Label() string { return "Remove Collision Groups" }

func (e *RemoveCollisionGroupsEdit) Apply() {
	cleared := make(map[int]string, len(e.hullsBefore))
	for i := range e.hullsBefore {
		cleared[i] = ""
	}
	e.model.SetCollisionGroups(e.groupsAfter)
	e.model.SetHullGroups(cleared)
	e.model.SetSelectedCollisionGroups(nil)
}

func (e *RemoveCollisionGroupsEdit) Revert() {
	e.model.SetCollisionGroups(e.groupsBefore)
	e.model.SetHullGroups(e.hullsBefore)
	e.model.SetSelectedCollisionGroups(e.selectedBefore)
}

// RenameCollisionGroupsEdit renames the selected groups in selection order.
// Hulls follow the new names.
type RenameCollisionGroupsEdit struct {
	model        *Model
	Old          []string
	New          []string
	groupsBefore []string
	groupsAfter  []string
	hullsBefore  map[int]string
	hullsAfter   map[int]string
}

func NewRenameCollisionGroupsEdit(m *Model, names []string) (*RenameCollisionGroupsEdit, error) {
	old := m.SelectedCollisionGroups()
	if len(old) != len(names) {
		return nil, fmt.Errorf("tileset: rename %d groups to %d names: %w", len(old), len(names), ErrRenameMismatch)
	}
	rename := make(map[string]string, len(old))
	for i, o := range old {
		if names[i] == "" {
			return nil, ErrEmptyGroupName
		}
		rename[o] = names[i]
	}

	e := &RenameCollisionGroupsEdit{
		model:        m,
		Old:          old,
		New:          slices.Clone(names),
		groupsBefore: m.CollisionGroups(),
		hullsBefore:  make(map[int]string),
		hullsAfter:   make(map[int]string),
	}
	for _, g := range e.groupsBefore {
		if n, ok := rename[g]; ok {
			g = n
		}
		if slices.Contains(e.groupsAfter, g) {
			return nil, fmt.Errorf("tileset: rename to %q: %w", g, ErrDuplicateGroup)
		}
		e.groupsAfter = append(e.groupsAfter, g)
	}
	for i, h := range m.hulls {
		if n, ok := rename[h.CollisionGroup]; ok && h.CollisionGroup != "" {
			e.hullsBefore[i] = h.CollisionGroup
			e.hullsAfter[i] = n
		}
	}
	return e, nil
}

func (e *RenameCollisionGroupsEdit) Label() string { return "Rename Collision Groups" }

func (e *RenameCollisionGroupsEdit) Apply() {
	e.model.SetCollisionGroups(e.groupsAfter)
	e.model.SetHullGroups(e.hullsAfter)
	e.model.SetSelectedCollisionGroups(e.New)
}

func (e *RenameCollisionGroupsEdit) Revert() {
	e.model.SetCollisionGroups(e.groupsBefore)
	e.model.SetHullGroups(e.hullsBefore)
	e.model.SetSelectedCollisionGroups(e.Old)
}
