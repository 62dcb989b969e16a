package script

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilesheet/colors"
	"github.com/milk9111/tilesheet/geometry"
	"github.com/milk9111/tilesheet/history"
	"github.com/milk9111/tilesheet/presenter"
	"github.com/milk9111/tilesheet/tileset"
)

type nopView struct{}

func (nopView) RefreshProperties() {}

func (nopView) SetTiles(image.Image, []float32, []int, []int, []colors.Color, geometry.Vec3) {}

func (nopView) ClearTiles() {}

func (nopView) SetCollisionGroups([]string, []colors.Color, []string) {}

func (nopView) SetTileHullColor(int, colors.Color) {}

func (nopView) SetDirty(bool) {}

func newTestRunner(t *testing.T) (*Runner, *presenter.Presenter) {
	t.Helper()
	p := presenter.New(tileset.NewModel(), history.New(0), nopView{})
	t.Cleanup(p.Close)
	p.Load(tileset.Document{
		Image:  image.NewNRGBA(image.Rect(0, 0, 68, 68)),
		Params: geometry.Params{TileWidth: 32, TileHeight: 32, Spacing: 2},
		Hulls: []tileset.ConvexHull{
			{Count: 3}, {Count: 3}, {Count: 3}, {Count: 3, CollisionGroup: "solid"},
		},
		Points:          []cp.Vector{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}},
		CollisionGroups: []string{"default", "solid", "water"},
	})
	return NewRunner(p), p
}

func hullGroups(p *presenter.Presenter) []string {
	var out []string
	for _, h := range p.Model().Hulls() {
		out = append(out, h.CollisionGroup)
	}
	return out
}

func TestRunPaintsAsOneEdit(t *testing.T) {
	r, p := newTestRunner(t)
	src := `
begin("water")
n := paint(0, 1, 42)
end()
if n != 2 { abort("expected two painted tiles") }
if hull_group(1) != "water" { abort("hull 1 not painted") }
`
	if err := r.Run(context.Background(), "paint", []byte(src)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := hullGroups(p); got[0] != "water" || got[1] != "water" || got[2] != "" {
		t.Fatalf("unexpected hull groups %v", got)
	}
	if !p.Undo() {
		t.Fatalf("undo failed")
	}
	if got := hullGroups(p); got[0] != "" || got[1] != "" {
		t.Fatalf("stroke should undo as one edit, got %v", got)
	}
	if p.Undo() {
		t.Fatalf("expected a single edit")
	}
}

func TestRunEndsOpenStroke(t *testing.T) {
	r, p := newTestRunner(t)
	if err := r.Run(context.Background(), "open", []byte(`begin("solid"); paint(2)`)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !p.Dirty() {
		t.Fatalf("an open stroke should be committed when the macro returns")
	}
}

func TestRunGroupEdits(t *testing.T) {
	r, p := newTestRunner(t)
	src := `
add_group("lava")
if !is_error(add_group("lava")) { abort("duplicate group accepted") }
select("solid")
rename_selected(["rock"])
select("water")
remove_selected()
gs := groups()
if len(gs) != 3 || gs[1] != "rock" || gs[2] != "lava" { abort("unexpected groups") }
if tile_count() != 4 { abort("unexpected tile count") }
if !dirty() { abort("expected dirty") }
undo()
redo()
`
	if err := r.Run(context.Background(), "groups", []byte(src)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := hullGroups(p); got[3] != "rock" {
		t.Fatalf("hull should follow rename, got %v", got)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"compile", `begin(`},
		{"wrong type", `begin(3)`},
		{"wrong arg count", `add_group()`},
		{"abort", `abort("stop")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRunner(t)
			if err := r.Run(context.Background(), tt.name, []byte(tt.src)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestPaintOutsideStroke(t *testing.T) {
	r, p := newTestRunner(t)
	src := `if !is_error(paint(0)) { abort("paint without begin accepted") }`
	if err := r.Run(context.Background(), "stray", []byte(src)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.Dirty() {
		t.Fatalf("nothing should have changed")
	}
}

func TestRunFile(t *testing.T) {
	r, p := newTestRunner(t)
	path := filepath.Join(t.TempDir(), "macro.tengo")
	if err := os.WriteFile(path, []byte(`fmt := import("fmt"); fmt.println(tile_count()); add_group("ice")`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if p.Model().GroupIndex("ice") < 0 {
		t.Fatalf("macro did not run")
	}
	if err := r.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.tengo")); err == nil {
		t.Fatalf("expected error for missing macro")
	}
}
