package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilesheet/assets"
	"github.com/milk9111/tilesheet/config"
	"github.com/milk9111/tilesheet/history"
	"github.com/milk9111/tilesheet/presenter"
	"github.com/milk9111/tilesheet/tileset"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

// loadSample returns the embedded sample sheet.
func loadSample() (tileset.Document, config.SheetSpec, error) {
	var spec config.SheetSpec
	data, err := assets.LoadFile(assets.SampleSheet)
	if err != nil {
		return tileset.Document{}, spec, err
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return tileset.Document{}, spec, err
	}
	img, err := assets.LoadEmbeddedImage(spec.Image)
	if err != nil {
		return tileset.Document{}, spec, err
	}
	return spec.ToDocument(img), spec, nil
}

// writeSampleImage puts the sample image next to a saved sample sheet.
func writeSampleImage(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := assets.LoadFile(assets.SamplePNG)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (g *viewerGame) relativeImagePath() string {
	rel, err := filepath.Rel(filepath.Dir(g.sheetPath), g.imagePath)
	if err != nil {
		return g.imagePath
	}
	return rel
}

func main() {
	sheetPath := flag.String("sheet", "", "Sheet description (yaml); empty opens the built-in sample")
	configPath := flag.String("config", "", "Optional config file overriding the defaults")
	flag.Parse()

	log.Println("Viewer starting...")
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	presenter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})))

	var (
		doc  tileset.Document
		spec config.SheetSpec
	)
	sample := *sheetPath == ""
	if sample {
		doc, spec, err = loadSample()
		*sheetPath = "sample.yaml"
		log.Printf("No -sheet given, opened the sample; Ctrl+S writes %s", *sheetPath)
	} else {
		doc, spec, err = config.LoadDocument(*sheetPath)
	}
	if err != nil {
		log.Fatalf("Failed to load sheet: %v", err)
	}
	imagePath, _ := filepath.Abs(spec.ImagePath(*sheetPath))
	absSheet, _ := filepath.Abs(*sheetPath)

	clipboardOK := true
	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable: %v", err)
		clipboardOK = false
	}

	title := "tilesheet - " + filepath.Base(*sheetPath)
	view := newSheetView(title)
	g := &viewerGame{
		cfg:        cfg,
		view:       view,
		sheetPath:  absSheet,
		imagePath:  imagePath,
		clipboard:  clipboardOK,
		sample:     sample,
		writes:     config.NewWriteTracker(),
		zoom:       cfg.Viewer.Zoom,
		panelWidth: cfg.Viewer.PanelWidth,
		hover:      -1,
	}

	g.ui, view.panel = buildViewerUI(cfg.Viewer.PanelWidth, len(doc.CollisionGroups), panelActions{
		onSelect: func(name string) { g.p.SelectCollisionGroups([]string{name}) },
		onAdd: func(name string) {
			if err := g.p.AddCollisionGroup(name); err != nil {
				g.status = err.Error()
			}
		},
		onRename: func(name string) {
			if err := g.p.RenameSelectedCollisionGroups([]string{name}); err != nil {
				g.status = err.Error()
			}
		},
		onRemove: func() { g.p.RemoveSelectedCollisionGroups() },
		onUndo:   g.undo,
		onRedo:   g.redo,
		onSave:   g.save,
	})

	g.p = presenter.New(tileset.NewModel(), history.New(cfg.History.Limit), view)
	defer g.p.Close()
	workers := cfg.Build.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	g.p.SetBuildWorkers(workers)
	g.p.Load(doc)

	if _, err := os.Stat(imagePath); err == nil {
		w, err := config.NewWatcher(cfg.Watch.Debounce(), imagePath, absSheet)
		if err != nil {
			log.Printf("Failed to watch files: %v", err)
		} else {
			g.watcher = w
			defer w.Close()
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle(title)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Viewer exited: %v", err)
	}
}
