package presenter

// DirtyTracker counts executed minus undone edits since the last load or
// save. onChange fires only when the tracker crosses between clean and dirty.
type DirtyTracker struct {
	count    int
	onChange func(dirty bool)
}

func NewDirtyTracker(onChange func(dirty bool)) *DirtyTracker {
	return &DirtyTracker{onChange: onChange}
}

// Executed records an executed or redone edit.
func (d *DirtyTracker) Executed() { d.set(d.count + 1) }

// Undone records an undone edit.
func (d *DirtyTracker) Undone() { d.set(d.count - 1) }

// Reset marks the document clean.
func (d *DirtyTracker) Reset() { d.set(0) }

func (d *DirtyTracker) Dirty() bool { return d.count != 0 }
func (d *DirtyTracker) Count() int  { return d.count }

func (d *DirtyTracker) set(n int) {
	was := d.count != 0
	d.count = n
	if now := n != 0; now != was && d.onChange != nil {
		d.onChange(now)
	}
}
