// Package telemetry provides population tracking, bookmarking, and snapshots.
package telemetry

import "github.com/pthm-cable/microbes/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawned EventType = iota
	EventRemoved
	EventMatured
	EventReproduced
	EventDied
	EventAte
	EventBoosted
	EventStarved
)

var eventNames = [...]string{
	EventSpawned:    "spawned",
	EventRemoved:    "removed",
	EventMatured:    "matured",
	EventReproduced: "reproduced",
	EventDied:       "died",
	EventAte:        "ate",
	EventBoosted:    "boosted",
	EventStarved:    "starved",
}

// String returns the event name.
func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single lifecycle event.
// The presentation layer creates, destroys and rescales its visuals from these.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32
	Kind     components.Kind

	// Optional fields depending on event type
	TargetID uint32  // parent (spawned), nutrient (ate)
	Amount   float64 // calories (ate), new size (matured), health (starved)
}

// NewSpawnedEvent creates a spawn event. parentID is 0 for seeded entities.
func NewSpawnedEvent(tick int32, id uint32, kind components.Kind, parentID uint32) Event {
	return Event{
		Type:     EventSpawned,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
		TargetID: parentID,
	}
}

// NewRemovedEvent creates a removal event.
func NewRemovedEvent(tick int32, id uint32, kind components.Kind) Event {
	return Event{
		Type:     EventRemoved,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
	}
}

// NewMaturedEvent creates a maturity event carrying the grown size.
func NewMaturedEvent(tick int32, id uint32, size float64) Event {
	return Event{
		Type:     EventMatured,
		Tick:     tick,
		EntityID: id,
		Kind:     components.KindMicrobe,
		Amount:   size,
	}
}

// NewReproducedEvent creates a reproduction event for the splitting parent.
func NewReproducedEvent(tick int32, parentID uint32) Event {
	return Event{
		Type:     EventReproduced,
		Tick:     tick,
		EntityID: parentID,
		Kind:     components.KindMicrobe,
	}
}

// NewDiedEvent creates a death event.
func NewDiedEvent(tick int32, id uint32) Event {
	return Event{
		Type:     EventDied,
		Tick:     tick,
		EntityID: id,
		Kind:     components.KindMicrobe,
	}
}

// NewAteEvent creates a feeding event.
func NewAteEvent(tick int32, microbeID, nutrientID uint32, calories float64) Event {
	return Event{
		Type:     EventAte,
		Tick:     tick,
		EntityID: microbeID,
		Kind:     components.KindMicrobe,
		TargetID: nutrientID,
		Amount:   calories,
	}
}

// NewBoostedEvent creates a boost event.
func NewBoostedEvent(tick int32, id uint32) Event {
	return Event{
		Type:     EventBoosted,
		Tick:     tick,
		EntityID: id,
		Kind:     components.KindMicrobe,
	}
}

// NewStarvedEvent creates a starvation event carrying the remaining health.
func NewStarvedEvent(tick int32, id uint32, health float64) Event {
	return Event{
		Type:     EventStarved,
		Tick:     tick,
		EntityID: id,
		Kind:     components.KindMicrobe,
		Amount:   health,
	}
}
