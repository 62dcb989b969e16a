package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/tilesheet/assets"
	"github.com/milk9111/tilesheet/config"
	"github.com/milk9111/tilesheet/geometry"
	"github.com/milk9111/tilesheet/hull"
	"github.com/milk9111/tilesheet/presenter"
	"github.com/milk9111/tilesheet/tileset"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

type viewerGame struct {
	cfg        config.Config
	p          *presenter.Presenter
	view       *sheetView
	ui         *ebitenui.UI
	watcher    *config.Watcher
	writes     *config.WriteTracker
	sheetPath  string
	imagePath  string
	clipboard  bool
	sample     bool
	zoom       float64
	panelWidth int

	picker      *hull.Picker
	pickerTiles *geometry.Tiles
	gesture     *presenter.AssignGroupGesture
	hover       int
	status      string
}

func (g *viewerGame) Update() error {
	g.ui.Update()
	g.drainWatcher()
	g.handleKeys()
	g.handleMouse()
	return nil
}

func (g *viewerGame) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("Watch error: %v", err)
			}
		default:
			return
		}
	}
}

func (g *viewerGame) reload(name string) {
	if !g.writes.Changed(name) {
		return
	}
	switch name {
	case g.imagePath:
		img, err := assets.LoadImage(g.imagePath)
		if err != nil {
			log.Printf("Failed to reload image: %v", err)
			return
		}
		g.p.Model().SetImage(img)
		g.status = "reloaded image"
	case g.sheetPath:
		if g.p.Dirty() {
			g.status = "sheet changed on disk; keeping unsaved edits"
			return
		}
		doc, _, err := config.LoadDocument(g.sheetPath)
		if err != nil {
			log.Printf("Failed to reload sheet: %v", err)
			return
		}
		g.p.Load(doc)
		g.status = "reloaded sheet"
	}
}

func (g *viewerGame) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if !ctrl {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.undo()
	case inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.redo()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.save()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyHover()
	}
}

func (g *viewerGame) handleMouse() {
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.zoom = max(0.25, min(32, g.zoom*(1+wy*0.1)))
	}

	g.hover = -1
	g.refreshPicker()
	mx, my := ebiten.CursorPosition()
	if g.picker != nil && mx >= g.panelWidth {
		nx, ny := g.toCanvas(mx, my)
		if tile, ok := g.picker.TileAt(nx, ny); ok {
			g.hover = tile
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && mx >= g.panelWidth {
		if selected := g.p.Model().SelectedCollisionGroups(); len(selected) > 0 {
			g.gesture = g.p.BeginAssignGroup(selected[0])
		}
	}
	if g.gesture != nil && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && g.hover >= 0 {
		g.gesture.Paint(g.hover)
	}
	if g.gesture != nil && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if err := g.gesture.End(); err != nil {
			log.Printf("Paint stroke: %v", err)
		}
		g.gesture = nil
	}
}

func (g *viewerGame) refreshPicker() {
	tiles := g.p.Tiles()
	if tiles == g.pickerTiles {
		return
	}
	g.pickerTiles = tiles
	g.picker = nil
	if tiles != nil {
		m := g.p.Model()
		g.picker = hull.NewPicker(tiles, m.Hulls(), m.HullPoints())
	}
}

func (g *viewerGame) canvasSize() (w, h float64) {
	if g.pickerTiles == nil {
		return 0, 0
	}
	return float64(g.pickerTiles.CanvasWidth) * g.zoom, float64(g.pickerTiles.CanvasHeight) * g.zoom
}

func (g *viewerGame) origin() (x, y float64) {
	return float64(g.panelWidth) + 16, 16
}

func (g *viewerGame) toCanvas(mx, my int) (nx, ny float64) {
	ox, oy := g.origin()
	w, h := g.canvasSize()
	return (float64(mx) - ox) / w, (float64(my) - oy) / h
}

func (g *viewerGame) undo() {
	g.gesture = nil
	if !g.p.Undo() {
		g.status = "nothing to undo"
	}
}

func (g *viewerGame) redo() {
	g.gesture = nil
	if !g.p.Redo() {
		g.status = "nothing to redo"
	}
}

func (g *viewerGame) save() {
	if g.sample {
		if err := writeSampleImage(g.imagePath); err != nil {
			log.Printf("Save failed: %v", err)
			g.status = "save failed"
			return
		}
		if err := g.writes.Wrote(g.imagePath); err != nil {
			log.Printf("Failed to stat %s: %v", g.imagePath, err)
		}
	}
	err := g.p.Save(func(doc tileset.Document) error {
		return config.SaveSheet(g.sheetPath, config.SheetFromDocument(doc, g.relativeImagePath()))
	})
	if err != nil {
		log.Printf("Save failed: %v", err)
		g.status = "save failed"
		return
	}
	if err := g.writes.Wrote(g.sheetPath); err != nil {
		log.Printf("Failed to stat %s: %v", g.sheetPath, err)
	}
	log.Printf("Saved sheet: %s", g.sheetPath)
	g.status = "saved"
}

func (g *viewerGame) copyHover() {
	if g.hover < 0 {
		return
	}
	h, ok := g.p.Model().Hull(g.hover)
	if !ok {
		return
	}
	info := fmt.Sprintf("tile %d group=%q points=%d", g.hover, h.CollisionGroup, h.Count)
	if g.clipboard {
		clipboard.Write(clipboard.FmtText, []byte(info))
	}
	g.status = "copied " + info
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	ox, oy := g.origin()
	w, h := g.canvasSize()
	if w > 0 {
		vector.DrawFilledRect(screen, float32(ox), float32(oy), float32(w), float32(h), color.Black, false)
		g.view.drawTiles(screen, float32(ox), float32(oy), float32(w), float32(h))
		g.drawHulls(screen, float32(ox), float32(oy), float32(w), float32(h))
	} else {
		ebitenutil.DebugPrintAt(screen, "sheet parameters do not match the hull list", int(ox), int(oy))
	}

	line := fmt.Sprintf("zoom %.2fx", g.zoom)
	if g.hover >= 0 {
		if hl, ok := g.p.Model().Hull(g.hover); ok {
			line += fmt.Sprintf("  tile %d [%s]", g.hover, hl.CollisionGroup)
		}
	}
	if g.status != "" {
		line += "  " + g.status
	}
	ebitenutil.DebugPrintAt(screen, line, int(ox), screen.Bounds().Dy()-20)

	g.ui.Draw(screen)
}

func (g *viewerGame) drawHulls(screen *ebiten.Image, ox, oy, w, h float32) {
	v := g.view
	points := g.p.Model().HullPoints()
	for tile, c := range v.hullColors {
		if tile >= len(v.centers) || tile >= len(v.hullCounts) {
			break
		}
		cx, cy := v.centers[tile][0], v.centers[tile][1]
		clr := c.NRGBA()
		start, count := v.hullIndices[tile], v.hullCounts[tile]
		if count < 2 || start < 0 || start+count > len(points) {
			continue
		}
		for i := 0; i < count; i++ {
			a, b := points[start+i], points[start+(i+1)%count]
			x0 := ox + (cx+float32(a.X)*v.hullScale.X)*w
			y0 := oy + (cy+float32(a.Y)*v.hullScale.Y)*h
			x1 := ox + (cx+float32(b.X)*v.hullScale.X)*w
			y1 := oy + (cy+float32(b.Y)*v.hullScale.Y)*h
			vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, clr, true)
		}
	}
	if g.hover >= 0 && g.pickerTiles != nil {
		q := g.pickerTiles.Quad(g.hover)
		vector.StrokeRect(screen, ox+q.X0*w, oy+q.Y0*h, (q.X1-q.X0)*w, (q.Y1-q.Y0)*h, 1, colornames.Yellow, false)
	}
}

func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
