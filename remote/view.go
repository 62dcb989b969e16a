package remote

import (
	"encoding/json"
	"image"
	"log"
	"sync"

	"github.com/milk9111/tilesheet/colors"
	"github.com/milk9111/tilesheet/geometry"
)

// Broadcaster sends one message to every client.
type Broadcaster interface {
	Broadcast(message []byte)
}

// View implements presenter.View by broadcasting envelopes. It keeps the
// latest tiles, groups and dirty state so new clients can catch up. State
// updates and their broadcast happen under one lock, so Attach sees each
// message either in the snapshot or as a live message, never neither.
type View struct {
	out Broadcaster

	mu       sync.Mutex
	seq      uint64
	tiles    *TilesSet
	groups   CollisionGroupsSet
	dirty    bool
	hullOver map[int]string
}

func NewView(out Broadcaster) *View {
	return &View{out: out, hullOver: make(map[int]string)}
}

// send broadcasts one envelope; v.mu must be held. A payload that cannot
// be encoded is logged and skipped without using up a sequence number.
func (v *View) send(typ string, payload any) {
	b, ok := encode(v.seq+1, typ, payload)
	if !ok {
		return
	}
	v.seq++
	v.out.Broadcast(b)
}

func encode(seq uint64, typ string, payload any) ([]byte, bool) {
	b, err := json.Marshal(Envelope{Sequence: seq, Type: typ, Payload: payload})
	if err != nil {
		log.Printf("remote: encode %s: %v", typ, err)
		return nil, false
	}
	return b, true
}

func (v *View) RefreshProperties() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.send(TypePropertiesRefreshed, struct{}{})
}

func (v *View) SetTiles(img image.Image, vertices []float32, hullIndices, hullCounts []int, hullColors []colors.Color, hullScale geometry.Vec3) {
	msg := &TilesSet{
		Vertices:    vertices,
		HullIndices: hullIndices,
		HullCounts:  hullCounts,
		HullColors:  hexColors(hullColors),
		HullScale:   [3]float32{hullScale.X, hullScale.Y, hullScale.Z},
	}
	if img != nil {
		msg.ImageWidth = img.Bounds().Dx()
		msg.ImageHeight = img.Bounds().Dy()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tiles = msg
	clear(v.hullOver)
	v.send(TypeTilesSet, msg)
}

func (v *View) ClearTiles() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tiles = nil
	clear(v.hullOver)
	v.send(TypeTilesCleared, struct{}{})
}

func (v *View) SetCollisionGroups(names []string, groupColors []colors.Color, selected []string) {
	msg := CollisionGroupsSet{Names: names, Colors: hexColors(groupColors), Selected: selected}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.groups = msg
	v.send(TypeCollisionGroups, msg)
}

func (v *View) SetTileHullColor(tile int, c colors.Color) {
	msg := TileHullColorSet{Tile: tile, Color: c.Hex()}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hullOver[tile] = msg.Color
	v.send(TypeTileHullColor, msg)
}

func (v *View) SetDirty(dirty bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dirty = dirty
	v.send(TypeDirty, DirtyChanged{Dirty: dirty})
}

// Snapshot returns the messages that bring a new client up to date: groups,
// tiles with per-tile updates folded in, then the dirty flag. They carry
// the sequence number of the last live message.
func (v *View) Snapshot() [][]byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Attach hands the snapshot to register while no message can be sent, so a
// client registered there receives every later message exactly once.
func (v *View) Attach(register func(snapshot [][]byte)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	register(v.snapshotLocked())
}

func (v *View) snapshotLocked() [][]byte {
	var out [][]byte
	add := func(typ string, payload any) {
		if b, ok := encode(v.seq, typ, payload); ok {
			out = append(out, b)
		}
	}

	add(TypeCollisionGroups, v.groups)
	if v.tiles == nil {
		add(TypeTilesCleared, struct{}{})
	} else {
		tiles := *v.tiles
		tiles.HullColors = append([]string(nil), tiles.HullColors...)
		for i, c := range v.hullOver {
			if i < len(tiles.HullColors) {
				tiles.HullColors[i] = c
			}
		}
		add(TypeTilesSet, &tiles)
	}
	add(TypeDirty, DirtyChanged{Dirty: v.dirty})
	return out
}

func hexColors(cs []colors.Color) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Hex()
	}
	return out
}
