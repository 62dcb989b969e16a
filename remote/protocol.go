// Package remote mirrors a presenter's view to websocket clients as JSON
// envelopes and turns client intents into presenter calls.
package remote

import "encoding/json"

// Envelope wraps every message sent to clients. Seq increases by one per
// live message; snapshot messages repeat the seq of the last live one.
type Envelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

const (
	TypePropertiesRefreshed = "PropertiesRefreshed"
	TypeTilesSet            = "TilesSet"
	TypeTilesCleared        = "TilesCleared"
	TypeCollisionGroups     = "CollisionGroupsSet"
	TypeTileHullColor       = "TileHullColorSet"
	TypeDirty               = "DirtyChanged"
)

type TilesSet struct {
	ImageWidth  int        `json:"imageWidth"`
	ImageHeight int        `json:"imageHeight"`
	Vertices    []float32  `json:"vertices"`
	HullIndices []int      `json:"hullIndices"`
	HullCounts  []int      `json:"hullCounts"`
	HullColors  []string   `json:"hullColors"`
	HullScale   [3]float32 `json:"hullScale"`
}

type CollisionGroupsSet struct {
	Names    []string `json:"names"`
	Colors   []string `json:"colors"`
	Selected []string `json:"selected"`
}

type TileHullColorSet struct {
	Tile  int    `json:"tile"`
	Color string `json:"color"`
}

type DirtyChanged struct {
	Dirty bool `json:"dirty"`
}

// Intent is a request from a client.
type Intent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	IntentUndo         = "Undo"
	IntentRedo         = "Redo"
	IntentSelectGroups = "SelectGroups"
	IntentAddGroup     = "AddGroup"
	IntentAssignGroup  = "AssignGroup"
	IntentSave         = "Save"
)

type SelectGroups struct {
	Names []string `json:"names"`
}

type AddGroup struct {
	Name string `json:"name"`
}

// AssignGroup paints Group onto Tiles as one undoable edit.
type AssignGroup struct {
	Group string `json:"group"`
	Tiles []int  `json:"tiles"`
}
