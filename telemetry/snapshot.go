package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 2

// Snapshot holds the observable simulation state at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Bounds BoundsState `json:"bounds"`

	Tick int32 `json:"tick"`

	Microbes  []MicrobeState  `json:"microbes"`
	Nutrients []NutrientState `json:"nutrients"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BoundsState is the arena rectangle.
type BoundsState struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// MicrobeState holds one microbe's state, including its wander seeds and
// starvation phase so a resumed run continues where it left off.
type MicrobeState struct {
	ID uint32 `json:"id"`

	// Position and movement
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VelX    float64 `json:"vel_x"`
	VelY    float64 `json:"vel_y"`
	Heading float64 `json:"heading"`
	SeedX   float64 `json:"seed_x"`
	SeedY   float64 `json:"seed_y"`

	// Body state
	Health     float64    `json:"health"`
	Size       float64    `json:"size"`
	StepSize   float64    `json:"step_size"`
	Hungry     bool       `json:"hungry"`
	Mature     bool       `json:"mature"`
	Boosted    bool       `json:"boosted"`
	Brightness float64    `json:"brightness"`
	Color      [4]float32 `json:"color"`

	// Ticks until the next starvation dose
	StarveIn int32 `json:"starve_in"`

	// Lifetime stats
	Lifetime *LifetimeJSON `json:"lifetime,omitempty"`
}

// NutrientState holds one nutrient's state.
type NutrientState struct {
	ID       uint32  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VelX     float64 `json:"vel_x"`
	VelY     float64 `json:"vel_y"`
	SeedX    float64 `json:"seed_x"`
	SeedY    float64 `json:"seed_y"`
	Calories float64 `json:"calories"`
	Radius   float64 `json:"radius"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		// Sanitize bookmark type for filename
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
