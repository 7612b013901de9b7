package documents

import (
	"encoding/json"
	"maps"
)

// Kind identifies the type of document holding bonuses
type Kind string

const (
	KindActor    Kind = "Actor"
	KindItem     Kind = "Item"
	KindEffect   Kind = "ActiveEffect"
	KindTemplate Kind = "MeasuredTemplate"
)

// Flags is the bonus flag bag of a document, keyed by bonus id
type Flags = map[string]json.RawMessage

// RollData is the nested stat snapshot used to resolve @path placeholders
type RollData = map[string]any

// Holder is any document that can store bonuses
type Holder interface {
	UUID() string
	Kind() Kind
	Label() string
	BonusFlags() Flags
	RollData() RollData
}

// Ownership levels
const (
	OwnershipNone     = 0
	OwnershipLimited  = 1
	OwnershipObserver = 2
	OwnershipOwner    = 3
)

// User is the person at the table triggering rolls
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	GM   bool   `json:"gm"`
}

// cloneData copies roll data deeply enough that nested maps can be written safely
func cloneData(data RollData) RollData {
	out := maps.Clone(data)
	if out == nil {
		out = RollData{}
	}
	for k, v := range out {
		if m, ok := v.(map[string]any); ok {
			out[k] = cloneData(m)
		}
	}
	return out
}

// CloneRollData returns a deep copy of data
func CloneRollData(data RollData) RollData {
	return cloneData(data)
}
