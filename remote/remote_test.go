package remote

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tilesheet/colors"
	"github.com/milk9111/tilesheet/geometry"
	"github.com/milk9111/tilesheet/history"
	"github.com/milk9111/tilesheet/presenter"
	"github.com/milk9111/tilesheet/tileset"
)

type capture struct {
	messages [][]byte
}

func (c *capture) Broadcast(message []byte) { c.messages = append(c.messages, message) }

type decoded struct {
	Sequence uint64          `json:"seq"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

func decode(t *testing.T, b []byte) decoded {
	t.Helper()
	var d decoded
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	return d
}

func TestViewBroadcasts(t *testing.T) {
	out := &capture{}
	v := NewView(out)
	img := image.NewNRGBA(image.Rect(0, 0, 68, 68))

	v.RefreshProperties()
	v.SetCollisionGroups([]string{"default", "solid"}, []colors.Color{colors.ForIndex(0, 2), colors.ForIndex(1, 2)}, []string{"solid"})
	v.SetTiles(img, []float32{1, 2, 3}, []int{0, 0}, []int{3, 0}, []colors.Color{colors.NoHull, colors.NoHull}, geometry.Vec3{X: 0.5, Y: 0.25, Z: 1})
	v.SetTileHullColor(1, colors.ForIndex(1, 2))
	v.SetDirty(true)

	wantTypes := []string{TypePropertiesRefreshed, TypeCollisionGroups, TypeTilesSet, TypeTileHullColor, TypeDirty}
	if len(out.messages) != len(wantTypes) {
		t.Fatalf("expected %d messages, got %d", len(wantTypes), len(out.messages))
	}
	for i, m := range out.messages {
		d := decode(t, m)
		if d.Sequence != uint64(i+1) || d.Type != wantTypes[i] {
			t.Fatalf("message %d: got seq=%d type=%s", i, d.Sequence, d.Type)
		}
	}

	var tiles TilesSet
	if err := json.Unmarshal(decode(t, out.messages[2]).Payload, &tiles); err != nil {
		t.Fatalf("unmarshal tiles: %v", err)
	}
	if tiles.ImageWidth != 68 || tiles.HullColors[0] != "#ffffffff" || tiles.HullScale != [3]float32{0.5, 0.25, 1} {
		t.Fatalf("unexpected tiles payload %+v", tiles)
	}
}

func TestViewSnapshot(t *testing.T) {
	v := NewView(&capture{})
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	v.SetTiles(img, nil, []int{0, 0}, []int{3, 3}, []colors.Color{colors.NoHull, colors.NoHull}, geometry.Vec3{})
	v.SetTileHullColor(1, colors.ForIndex(1, 2))
	v.SetDirty(true)

	snap := v.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 snapshot messages, got %d", len(snap))
	}
	d := decode(t, snap[1])
	if d.Type != TypeTilesSet {
		t.Fatalf("expected tiles, got %s", d.Type)
	}
	var tiles TilesSet
	if err := json.Unmarshal(d.Payload, &tiles); err != nil {
		t.Fatalf("unmarshal tiles: %v", err)
	}
	if tiles.HullColors[1] != colors.ForIndex(1, 2).Hex() || tiles.HullColors[0] != colors.NoHull.Hex() {
		t.Fatalf("hull updates not folded in: %v", tiles.HullColors)
	}

	v.ClearTiles()
	if d := decode(t, v.Snapshot()[1]); d.Type != TypeTilesCleared {
		t.Fatalf("expected cleared tiles, got %s", d.Type)
	}
}

func TestServerStream(t *testing.T) {
	hub := NewHub()
	view := NewView(hub)
	view.SetDirty(false)
	s := NewServer(hub, view)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/stream", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	for i := 0; i < 3; i++ {
		if _, _, err := conn.Read(ctx); err != nil {
			t.Fatalf("read snapshot: %v", err)
		}
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"type":"Undo"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case in := <-s.Intents:
		if in.Type != IntentUndo {
			t.Fatalf("expected Undo, got %s", in.Type)
		}
	case <-ctx.Done():
		t.Fatalf("intent not received")
	}

	view.SetDirty(true)
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if d := decode(t, data); d.Type != TypeDirty {
		t.Fatalf("expected dirty broadcast, got %s", d.Type)
	}
}

func TestApply(t *testing.T) {
	p := presenter.New(tileset.NewModel(), history.New(0), NewView(&capture{}))
	defer p.Close()
	p.Load(tileset.Document{
		Image:           image.NewNRGBA(image.Rect(0, 0, 68, 68)),
		Params:          geometry.Params{TileWidth: 32, TileHeight: 32, Spacing: 2},
		Hulls:           make([]tileset.ConvexHull, 4),
		Points:          []cp.Vector{},
		CollisionGroups: []string{"default", "solid"},
	})

	saved := 0
	save := func() error { saved++; return nil }
	steps := []Intent{
		{Type: IntentAddGroup, Payload: json.RawMessage(`{"name":"water"}`)},
		{Type: IntentAssignGroup, Payload: json.RawMessage(`{"group":"water","tiles":[0,2]}`)},
		{Type: IntentSelectGroups, Payload: json.RawMessage(`{"names":["water"]}`)},
		{Type: IntentUndo},
		{Type: IntentRedo},
		{Type: IntentSave},
	}
	for _, in := range steps {
		if err := Apply(p, in, save); err != nil {
			t.Fatalf("Apply(%s): %v", in.Type, err)
		}
	}
	if h, _ := p.Model().Hull(2); h.CollisionGroup != "water" {
		t.Fatalf("assign not applied, got %q", h.CollisionGroup)
	}
	if saved != 1 {
		t.Fatalf("expected one save, got %d", saved)
	}
	if got := p.Model().SelectedCollisionGroups(); len(got) != 1 || got[0] != "water" {
		t.Fatalf("unexpected selection %v", got)
	}

	if err := Apply(p, Intent{Type: "Explode"}, save); !errors.Is(err, ErrUnknownIntent) {
		t.Fatalf("expected ErrUnknownIntent, got %v", err)
	}
	if err := Apply(p, Intent{Type: IntentAddGroup, Payload: json.RawMessage(`{`)}, save); err == nil {
		t.Fatalf("expected payload error")
	}
}

// fanout delivers broadcasts to clients registered with add.
type fanout struct {
	mu      sync.Mutex
	clients []*[][]byte
}

func (f *fanout) Broadcast(message []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		*c = append(*c, message)
	}
}

func (f *fanout) add(initial [][]byte) *[][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := append([][]byte(nil), initial...)
	f.clients = append(f.clients, &c)
	return &c
}

func TestViewAttachMissesNothing(t *testing.T) {
	out := &fanout{}
	v := NewView(out)
	v.SetDirty(false)

	const toggles = 500
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < toggles; i++ {
			v.SetDirty(i%2 == 0)
		}
	}()
	var client *[][]byte
	v.Attach(func(snapshot [][]byte) { client = out.add(snapshot) })
	<-done

	out.mu.Lock()
	msgs := append([][]byte(nil), (*client)...)
	out.mu.Unlock()

	if len(msgs) < 3 {
		t.Fatalf("expected a 3 message snapshot, got %d messages", len(msgs))
	}
	base := decode(t, msgs[0]).Sequence
	for i, m := range msgs {
		d := decode(t, m)
		want := base
		if i >= 3 {
			want = base + uint64(i-2)
		}
		if d.Sequence != want {
			t.Fatalf("message %d: seq %d, want %d", i, d.Sequence, want)
		}
	}
	if last := decode(t, msgs[len(msgs)-1]).Sequence; last != toggles+1 {
		t.Fatalf("client stopped at seq %d, want %d", last, toggles+1)
	}

	var state DirtyChanged
	if err := json.Unmarshal(decode(t, msgs[len(msgs)-1]).Payload, &state); err != nil {
		t.Fatalf("unmarshal dirty: %v", err)
	}
	if state.Dirty != ((toggles-1)%2 == 0) {
		t.Fatalf("client mirror ended with dirty=%v", state.Dirty)
	}
}

func TestViewSkipsUnencodablePayload(t *testing.T) {
	out := &capture{}
	v := NewView(out)
	v.SetTiles(nil, []float32{float32(math.NaN())}, nil, nil, nil, geometry.Vec3{})
	v.SetDirty(true)

	if len(out.messages) != 1 {
		t.Fatalf("expected only the dirty message, got %d", len(out.messages))
	}
	if d := decode(t, out.messages[0]); d.Sequence != 1 || d.Type != TypeDirty {
		t.Fatalf("unexpected message seq=%d type=%s", d.Sequence, d.Type)
	}
	for _, m := range v.Snapshot() {
		if m == nil {
			t.Fatalf("snapshot holds an empty message")
		}
	}
	if n := len(v.Snapshot()); n != 2 {
		t.Fatalf("expected the tiles message to be left out of the snapshot, got %d messages", n)
	}
}

func TestHubDropsStalledClient(t *testing.T) {
	hub := NewHub()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		hub.Add(conn, nil)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	for hub.Len() == 0 {
		select {
		case <-ctx.Done():
			t.Fatalf("client never registered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// the client never reads, so its queue fills once the socket buffers do
	big := make([]byte, 1<<20)
	start := time.Now()
	for i := 0; i < 256 && hub.Len() > 0; i++ {
		hub.Broadcast(big)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("broadcast waited on a stalled client for %v", elapsed)
	}
	if hub.Len() != 0 {
		t.Fatalf("stalled client should have been dropped")
	}
}
