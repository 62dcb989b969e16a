package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/milk9111/tilesheet/config"
	"github.com/milk9111/tilesheet/history"
	"github.com/milk9111/tilesheet/presenter"
	"github.com/milk9111/tilesheet/remote"
	"github.com/milk9111/tilesheet/script"
	"github.com/milk9111/tilesheet/tileset"
)

func main() {
	sheetPath := flag.String("sheet", "", "Sheet description (yaml)")
	scriptPath := flag.String("script", "", "Optional tengo macro to run against the sheet")
	write := flag.Bool("write", false, "Write the sheet back when the macro changed it")
	serve := flag.Bool("serve", false, "Serve the remote view until interrupted")
	configPath := flag.String("config", "", "Optional config file overriding the defaults")
	flag.Parse()

	if *sheetPath == "" {
		log.Fatalf("-sheet is required")
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	presenter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})))

	doc, spec, err := config.LoadDocument(*sheetPath)
	if err != nil {
		log.Fatalf("Failed to load sheet: %v", err)
	}

	hub := remote.NewHub()
	view := remote.NewView(hub)
	p := presenter.New(tileset.NewModel(), history.New(cfg.History.Limit), view)
	defer p.Close()
	p.SetBuildWorkers(cfg.Build.Workers)
	p.Load(doc)

	save := func() error {
		return p.Save(func(doc tileset.Document) error {
			return config.SaveSheet(*sheetPath, config.SheetFromDocument(doc, spec.Image))
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *scriptPath != "" {
		if err := script.NewRunner(p).RunFile(ctx, *scriptPath); err != nil {
			log.Fatalf("Macro failed: %v", err)
		}
		log.Printf("Ran %s", filepath.Base(*scriptPath))
	}

	printSummary(os.Stdout, p)

	if *write && p.Dirty() {
		if err := save(); err != nil {
			log.Fatalf("Save failed: %v", err)
		}
		log.Printf("Saved sheet: %s", *sheetPath)
	}

	if !*serve {
		return
	}
	if err := serveRemote(ctx, cfg.Remote.Addr, hub, view, p, save); err != nil {
		log.Fatalf("Remote view: %v", err)
	}
}

// serveRemote serves the remote view and applies client intents on this
// goroutine until ctx is done.
func serveRemote(ctx context.Context, addr string, hub *remote.Hub, view *remote.View, p *presenter.Presenter, save func() error) error {
	srv := remote.NewServer(hub, view)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Serving remote view on ws://%s/stream", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	for {
		select {
		case in := <-srv.Intents:
			if err := remote.Apply(p, in, save); err != nil {
				log.Printf("Intent %s: %v", in.Type, err)
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		}
	}
}

func printSummary(w io.Writer, p *presenter.Presenter) {
	m := p.Model()
	params := m.Params()
	perGroup := make(map[string]int)
	for _, h := range m.Hulls() {
		perGroup[h.CollisionGroup]++
	}

	fmt.Fprintf(w, "image     %dx%d\n", params.ImageWidth, params.ImageHeight)
	fmt.Fprintf(w, "tiles     %d (%dx%d px, margin %d, spacing %d)\n", m.HullCount(), params.TileWidth, params.TileHeight, params.Margin, params.Spacing)
	if tiles := p.Tiles(); tiles != nil {
		fmt.Fprintf(w, "atlas     %dx%d px\n", tiles.CanvasWidth, tiles.CanvasHeight)
	} else {
		fmt.Fprintf(w, "atlas     none: grid does not match the hull list\n")
	}
	groupColors := p.GroupColors()
	for i, g := range m.CollisionGroups() {
		c := ""
		if i < len(groupColors) {
			c = groupColors[i].Hex()
		}
		fmt.Fprintf(w, "group %-3d %-16s %s %d hulls\n", i, g, c, perGroup[g])
	}
	if n := perGroup[""]; n > 0 {
		fmt.Fprintf(w, "ungrouped %d hulls\n", n)
	}
	fmt.Fprintf(w, "dirty     %v\n", p.Dirty())
}
