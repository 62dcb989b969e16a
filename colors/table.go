package colors

// Table holds one colour per collision group position. It is rebuilt in full
// whenever its size changes, so colours are stable per position only.
type Table struct {
	colors []Color
}

// Resize rebuilds the table for n groups. It reports whether a rebuild
// happened.
func (t *Table) Resize(n int) bool {
	if n < 0 {
		n = 0
	}
	if t.colors != nil && len(t.colors) == n {
		return false
	}
	colors := make([]Color, n)
	for i := range colors {
		colors[i] = ForIndex(i, n)
	}
	t.colors = colors
	return true
}

func (t *Table) Len() int {
	return len(t.colors)
}

// At returns the colour at position i, or NoHull when i is out of range.
func (t *Table) At(i int) Color {
	if i < 0 || i >= len(t.colors) {
		return NoHull
	}
	return t.colors[i]
}

// Colors returns a copy of the table.
func (t *Table) Colors() []Color {
	out := make([]Color, len(t.colors))
	copy(out, t.colors)
	return out
}

// Accent returns the colour at position 1 of a table sized for n groups,
// the first position drawn with a tint. n below 2 is treated as 2.
func Accent(n int) Color {
	var t Table
	t.Resize(max(n, 2))
	c := t.At(1)
	c.A = 1
	return c
}
