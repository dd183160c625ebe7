package telemetry

import "github.com/pthm-cable/microbes/components"

// Exit causes for a microbe leaving the simulation.
const (
	ExitDied       = "died"
	ExitReproduced = "reproduced"
)

// LifetimeRecord summarizes one microbe's life, written when it leaves the arena.
type LifetimeRecord struct {
	ID              uint32  `csv:"id"`
	ParentID        uint32  `csv:"parent_id"`
	Generation      int     `csv:"generation"`
	BirthTick       int32   `csv:"birth_tick"`
	EndTick         int32   `csv:"end_tick"`
	SurvivalTimeSec float64 `csv:"survival_time_sec"`
	MaturedTick     int32   `csv:"matured_tick"` // -1 if never mature
	Meals           int     `csv:"meals"`
	CaloriesEaten   float64 `csv:"calories_eaten"`
	Boosts          int     `csv:"boosts"`
	Exit            string  `csv:"exit"`
}

// NewLifetimeRecord builds a record from a microbe's Lifetime component.
func NewLifetimeRecord(id uint32, lt components.Lifetime, endTick int32, dt float64, exit string) LifetimeRecord {
	return LifetimeRecord{
		ID:              id,
		ParentID:        lt.ParentID,
		Generation:      lt.Generation,
		BirthTick:       lt.BirthTick,
		EndTick:         endTick,
		SurvivalTimeSec: float64(endTick-lt.BirthTick) * dt,
		MaturedTick:     lt.MaturedTick,
		Meals:           lt.Meals,
		CaloriesEaten:   lt.CaloriesEaten,
		Boosts:          lt.Boosts,
		Exit:            exit,
	}
}

// LifetimeJSON is the JSON-serializable form of a Lifetime component.
type LifetimeJSON struct {
	BirthTick     int32   `json:"birth_tick"`
	MaturedTick   int32   `json:"matured_tick"`
	Generation    int     `json:"generation"`
	ParentID      uint32  `json:"parent_id"`
	Meals         int     `json:"meals"`
	CaloriesEaten float64 `json:"calories_eaten"`
	Boosts        int     `json:"boosts"`
}

// LifetimeToJSON converts a Lifetime component to its JSON form.
func LifetimeToJSON(lt *components.Lifetime) *LifetimeJSON {
	if lt == nil {
		return nil
	}
	return &LifetimeJSON{
		BirthTick:     lt.BirthTick,
		MaturedTick:   lt.MaturedTick,
		Generation:    lt.Generation,
		ParentID:      lt.ParentID,
		Meals:         lt.Meals,
		CaloriesEaten: lt.CaloriesEaten,
		Boosts:        lt.Boosts,
	}
}

// FromJSON converts the JSON form back to a Lifetime component.
func (lj *LifetimeJSON) FromJSON() *components.Lifetime {
	if lj == nil {
		return nil
	}
	return &components.Lifetime{
		BirthTick:     lj.BirthTick,
		MaturedTick:   lj.MaturedTick,
		Generation:    lj.Generation,
		ParentID:      lj.ParentID,
		Meals:         lj.Meals,
		CaloriesEaten: lj.CaloriesEaten,
		Boosts:        lj.Boosts,
	}
}
