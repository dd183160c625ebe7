package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/microbes/components"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: 42,
		Bounds:  BoundsState{Top: 46, Bottom: -46, Left: -82, Right: 82},
		Tick:    1000,
		Microbes: []MicrobeState{
			{
				ID:         1,
				X:          15,
				Y:          -25,
				VelX:       0.05,
				VelY:       -0.03,
				Heading:    1.2,
				SeedX:      120.5,
				SeedY:      33.25,
				Health:     70,
				Size:       4.5,
				StepSize:   0.375,
				Mature:     true,
				Brightness: 0.5,
				Color:      [4]float32{0.5, 0, 0, 0},
				StarveIn:   17,
				Lifetime: LifetimeToJSON(&components.Lifetime{
					BirthTick:     100,
					MaturedTick:   800,
					Generation:    2,
					ParentID:      7,
					Meals:         6,
					CaloriesEaten: 40,
				}),
			},
		},
		Nutrients: []NutrientState{
			{ID: 9, X: 1, Y: 2, VelX: 0.01, VelY: -0.02, SeedX: 4, SeedY: 9, Calories: 3.5, Radius: 0.4},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.RNGSeed != snapshot.RNGSeed || loaded.Tick != snapshot.Tick {
		t.Errorf("header mismatch: got seed %d tick %d", loaded.RNGSeed, loaded.Tick)
	}
	if loaded.Bounds != snapshot.Bounds {
		t.Errorf("Bounds mismatch: got %+v, want %+v", loaded.Bounds, snapshot.Bounds)
	}
	if len(loaded.Microbes) != 1 || len(loaded.Nutrients) != 1 {
		t.Fatalf("entity counts: got %d microbes %d nutrients", len(loaded.Microbes), len(loaded.Nutrients))
	}

	m := loaded.Microbes[0]
	if m.Health != 70 || !m.Mature || m.Color != snapshot.Microbes[0].Color {
		t.Errorf("microbe mismatch: %+v", m)
	}
	if m.StarveIn != 17 || m.SeedX != 120.5 || m.SeedY != 33.25 {
		t.Errorf("microbe phase mismatch: starve_in %d seeds (%v, %v)", m.StarveIn, m.SeedX, m.SeedY)
	}
	if n := loaded.Nutrients[0]; n != snapshot.Nutrients[0] {
		t.Errorf("nutrient mismatch: got %+v, want %+v", n, snapshot.Nutrients[0])
	}
	lt := m.Lifetime.FromJSON()
	if lt == nil || lt.Generation != 2 || lt.ParentID != 7 || lt.MaturedTick != 800 {
		t.Errorf("lifetime mismatch: %+v", lt)
	}

	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Bookmark: &Bookmark{
			Type: BookmarkPopulationCrash,
			Tick: 5000,
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000_population_crash.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for unknown snapshot version")
	}
}

func TestLifetimeRecord(t *testing.T) {
	lt := components.Lifetime{BirthTick: 64, MaturedTick: -1, Generation: 1, ParentID: 3, Meals: 2}
	rec := NewLifetimeRecord(10, lt, 128, 1.0/64, ExitDied)

	if rec.SurvivalTimeSec != 1 || rec.Exit != ExitDied || rec.ParentID != 3 || rec.MaturedTick != -1 {
		t.Errorf("unexpected record: %+v", rec)
	}
}
