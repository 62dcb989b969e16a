package tileset

// Change is a model change notification. The set of variants is closed.
type Change interface {
	isChange()
}

// SheetParamsChanged is sent when the slicing parameters or the image change.
type SheetParamsChanged struct{}

// HullsChanged is sent when hulls change. Nil Indices means the whole hull
// list was replaced; otherwise only the listed hulls changed group.
type HullsChanged struct {
	Indices []int
}

// GroupsChanged is sent when the collision group list changes.
type GroupsChanged struct{}

// SelectionChanged is sent when the selected group names change.
type SelectionChanged struct{}

func (SheetParamsChanged) isChange() {}
func (HullsChanged) isChange()       {}
func (GroupsChanged) isChange()      {}
func (SelectionChanged) isChange()   {}
