package domain

import (
	"encoding/json"
	"fmt"
)

// Action identifies the side effect a selected suggestion asks for.
type Action struct {
	ID      string     `json:"id"`
	Type    EntityType `json:"type"`
	Command string     `json:"command"`
	Params  []string   `json:"params,omitempty"`
}

// Encode renders the action as a compact token.
func (a Action) Encode() string {
	data, err := json.Marshal(a)
	if err != nil {
		// Only strings are marshalled; this cannot fail.
		return ""
	}
	return string(data)
}

// ParseAction decodes a token produced by Action.Encode.
func ParseAction(token string) (Action, error) {
	var a Action
	if err := json.Unmarshal([]byte(token), &a); err != nil {
		return Action{}, fmt.Errorf("parse action: %w", err)
	}
	if !a.Type.Valid() {
		return Action{}, fmt.Errorf("parse action: unknown entity type %q", a.Type)
	}
	return a, nil
}
