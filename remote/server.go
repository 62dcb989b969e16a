package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/milk9111/tilesheet/presenter"
)

var ErrUnknownIntent = errors.New("remote: unknown intent")

// Server accepts websocket clients on /stream. Client intents are queued
// on Intents for the goroutine that owns the presenter.
type Server struct {
	hub     *Hub
	view    *View
	Intents chan Intent
}

func NewServer(hub *Hub, view *View) *Server {
	return &Server{hub: hub, view: view, Intents: make(chan Intent, 32)}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", s.serveStream)
	return mux
}

func (s *Server) serveStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	s.view.Attach(func(snapshot [][]byte) {
		s.hub.Add(conn, snapshot)
	})
	defer conn.Close(websocket.StatusNormalClosure, "")
	defer s.hub.Remove(conn)

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var in Intent
		if err := json.Unmarshal(data, &in); err != nil {
			log.Printf("remote: bad intent: %v", err)
			continue
		}
		select {
		case s.Intents <- in:
		case <-ctx.Done():
			return
		default:
			log.Printf("remote: intent queue full, dropping %s", in.Type)
		}
	}
}

// Apply performs in on p. save is called for IntentSave.
func Apply(p *presenter.Presenter, in Intent, save func() error) error {
	switch in.Type {
	case IntentUndo:
		p.Undo()
	case IntentRedo:
		p.Redo()
	case IntentSelectGroups:
		var req SelectGroups
		if err := json.Unmarshal(in.Payload, &req); err != nil {
			return fmt.Errorf("remote: %s: %w", in.Type, err)
		}
		p.SelectCollisionGroups(req.Names)
	case IntentAddGroup:
		var req AddGroup
		if err := json.Unmarshal(in.Payload, &req); err != nil {
			return fmt.Errorf("remote: %s: %w", in.Type, err)
		}
		return p.AddCollisionGroup(req.Name)
	case IntentAssignGroup:
		var req AssignGroup
		if err := json.Unmarshal(in.Payload, &req); err != nil {
			return fmt.Errorf("remote: %s: %w", in.Type, err)
		}
		g := p.BeginAssignGroup(req.Group)
		for _, tile := range req.Tiles {
			g.Paint(tile)
		}
		return g.End()
	case IntentSave:
		if save == nil {
			return nil
		}
		return save()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, in.Type)
	}
	return nil
}
