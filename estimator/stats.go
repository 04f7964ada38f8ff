package estimator

import (
	"github.com/swdee/go-courtspeed/tracker"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the movement of a single entity
type Stats struct {
	// TotalDistance is the accumulated distance in meters
	TotalDistance float64
	// AvgSpeed is the mean of the speed history in km/h
	AvgSpeed float64
	// MaxSpeed is the highest value in the speed history in km/h
	MaxSpeed float64
	// CurrentSpeed is the most recent raw speed in km/h
	CurrentSpeed float64
	// Samples is the number of values in the speed history
	Samples int
}

// statsOf aggregates the entity's current speed history and distance
func statsOf(ent *entity) Stats {

	speeds := ent.speeds.Values()

	s := Stats{
		TotalDistance: ent.distance,
		Samples:       len(speeds),
	}

	if len(speeds) == 0 {
		return s
	}

	s.AvgSpeed = stat.Mean(speeds, nil)
	s.MaxSpeed = floats.Max(speeds)
	s.CurrentSpeed = speeds[len(speeds)-1]

	return s
}

// Stats returns the statistics of every entity with state
func (e *Estimator) Stats() map[tracker.EntityKey]Stats {
	e.Lock()
	defer e.Unlock()

	out := make(map[tracker.EntityKey]Stats, len(e.entities))

	for key, ent := range e.entities {
		out[key] = statsOf(ent)
	}

	return out
}

// StatsFor returns the statistics of a single entity, or zero values if the
// entity has no state
func (e *Estimator) StatsFor(key tracker.EntityKey) Stats {
	e.Lock()
	defer e.Unlock()

	if ent, exists := e.entities[key]; exists {
		return statsOf(ent)
	}

	return Stats{}
}
