// Package session implements the upload/generate and recipe session
// orchestrators: the multi-step photo → recipe → simplify/remix/save flow.
// Each session's state lives in a SessionStore; one HTTP client owns one
// session at a time.
package session

import (
	"time"

	"github.com/photodish/v1/internal/domain/recipe"
)

// Phase is the upload/generate state machine position.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePreviewing Phase = "previewing"
	PhaseGenerating Phase = "generating"
	PhaseGenerated  Phase = "generated"
	PhaseFailed     Phase = "failed"
)

// Busy tracks which operations are in flight. The flags are independent
// so a slow pairing fetch cannot block a save and vice versa.
type Busy struct {
	Generating  bool `json:"generating"`
	Simplifying bool `json:"simplifying"`
	Remixing    bool `json:"remixing"`
	Saving      bool `json:"saving"`
	Pairing     bool `json:"pairing"`
}

// State is the full session snapshot. Rev counts recipe identity changes
// (initial generation and every successful remix); background pairing
// results are applied only when the Rev they were fetched for is still
// current.
type State struct {
	ID           string             `json:"id"`
	Phase        Phase              `json:"phase"`
	PhotoDataURI string             `json:"photoDataUri,omitempty"`
	Recipe       *recipe.Recipe     `json:"recipe,omitempty"`
	Pairings     *recipe.PairingSet `json:"pairings,omitempty"`
	Rev          int                `json:"rev"`
	Busy         Busy               `json:"busy"`
	FailureNote  string             `json:"failureNote,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// clone returns a deep copy safe to hand to callers after the session
// lock is released.
func (s *State) clone() *State {
	c := *s
	c.Recipe = s.Recipe.Clone()
	if s.Pairings != nil {
		p := *s.Pairings
		c.Pairings = &p
	}
	return &c
}
