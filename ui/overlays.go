package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayGlow       OverlayID = "glow"
	OverlayHeadings   OverlayID = "headings"
	OverlayCorpses    OverlayID = "corpses"
	OverlayEffects    OverlayID = "effects"
	OverlayBoostRange OverlayID = "boost_range"
	OverlayEatRange   OverlayID = "eat_range"
	OverlayVelocity   OverlayID = "velocity"
	OverlayPerf       OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "S", "V")
	Category    string      // Grouping (e.g., "visual", "debug")
	Default     bool        // Enabled at startup
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays.
func (r *OverlayRegistry) registerDefaults() {
	// Visual overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayGlow,
		Name:        "Glow",
		Description: "Halo whose strength follows brightness pulses",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "visual",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayHeadings,
		Name:        "Headings",
		Description: "Accumulated heading of each microbe",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "visual",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayCorpses,
		Name:        "Corpses",
		Description: "Fade starved microbes out after removal",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "visual",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayEffects,
		Name:        "Effects",
		Description: "Particles on meals, splits and deaths",
		Key:         rl.KeyE,
		KeyLabel:    "E",
		Category:    "visual",
		Default:     true,
	})

	// Debug overlays
	r.Register(OverlayDescriptor{
		ID:          OverlayBoostRange,
		Name:        "Boost Range",
		Description: "Distance at which a hungry microbe boosts toward food",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayEatRange,
		Name:        "Eat Range",
		Description: "Body radius used for the eat check",
		Key:         rl.KeyR,
		KeyLabel:    "R",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayVelocity,
		Name:        "Velocity",
		Description: "Velocity vectors, scaled for visibility",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "debug",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Perf Panel",
		Description: "Per-phase tick timing",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// Keys returns every key bound to an overlay, in registration order.
func (r *OverlayRegistry) Keys() []int32 {
	keys := make([]int32, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		if desc.Key != 0 {
			keys = append(keys, desc.Key)
		}
	}
	return keys
}
