package estimator

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/swdee/go-courtspeed/tracker"
)

// kmphPerMps converts meters per second to kilometers per hour
const kmphPerMps = 3.6

// CoordMode indicates the coordinate system a position sample is in
type CoordMode int

const (
	// ModeWorld is real world pitch coordinates in meters
	ModeWorld CoordMode = iota
	// ModePixel is image pixel coordinates converted approximately
	ModePixel
)

func (m CoordMode) String() string {
	if m == ModePixel {
		return "pixel"
	}
	return "world"
}

// PositionSample is a position observed for an entity on a frame
type PositionSample struct {
	Pos   tracker.Point
	Frame int
	Mode  CoordMode
}

// Outcome describes which path an entity took on a frame during Update
type Outcome int

const (
	// Skipped means no value was written to the record
	Skipped Outcome = iota
	// Seeded means the entity was seen for the first time and zero speed
	// and distance were written
	Seeded
	// Computed means a fresh speed and distance were calculated
	Computed
	// UsedCache means the last good values were written to the record
	UsedCache
)

func (o Outcome) String() string {
	switch o {
	case Seeded:
		return "seeded"
	case Computed:
		return "computed"
	case UsedCache:
		return "used-cache"
	default:
		return "skipped"
	}
}

// Result records the outcome of one entity on one frame
type Result struct {
	Key     tracker.EntityKey
	Frame   int
	Outcome Outcome
}

// cached is the last good speed and distance shown for an entity
type cached struct {
	speed    float64
	distance float64
}

// entity holds the rolling state of a single tracked entity
type entity struct {
	positions *history[PositionSample]
	speeds    *history[float64]
	distance  float64
	// display is nil until the entity has produced a valid value
	display *cached
}

// Estimator calculates per entity speed and cumulative distance from the
// positions found in tracker results
type Estimator struct {
	params   Params
	entities map[tracker.EntityKey]*entity
	sync.Mutex
}

// New returns an Estimator configured with the given parameters
func New(p Params) (*Estimator, error) {

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	return &Estimator{
		params:   p,
		entities: make(map[tracker.EntityKey]*entity),
	}, nil
}

// Params returns the configuration the Estimator was created with
func (e *Estimator) Params() Params {
	return e.params
}

// getOrCreate returns the state for the entity, creating empty state on
// first sighting
func (e *Estimator) getOrCreate(key tracker.EntityKey) *entity {

	if ent, exists := e.entities[key]; exists {
		return ent
	}

	ent := &entity{
		positions: newHistory[PositionSample](e.params.PositionHistory),
		speeds:    newHistory[float64](e.params.SpeedHistory),
	}
	e.entities[key] = ent

	return ent
}

// Update processes every frame of the tracks in order, writing speed and
// distance onto each record of the non excluded classes.  Returns the
// outcome of each record visited
func (e *Estimator) Update(tracks tracker.Tracks) []Result {
	e.Lock()
	defer e.Unlock()

	results := make([]Result, 0)

	for _, class := range tracks.Classes() {

		if e.params.excluded(class) {
			continue
		}

		for frameIdx, frame := range tracks[class] {
			for _, id := range frame.IDs() {
				rec := frame[id]

				if rec == nil {
					continue
				}

				key := tracker.NewEntityKey(class, id)

				results = append(results, Result{
					Key:     key,
					Frame:   frameIdx,
					Outcome: e.updateRecord(key, frameIdx, rec),
				})
			}
		}
	}

	return results
}

// selectPosition returns the real world position if available, otherwise
// falls back to the adjusted or raw pixel position
func selectPosition(rec *tracker.Record) (tracker.Point, CoordMode, bool) {

	if rec.PositionTransformed != nil {
		return *rec.PositionTransformed, ModeWorld, true
	}

	if p, ok := rec.PixelPosition(); ok {
		return p, ModePixel, true
	}

	return tracker.Point{}, ModeWorld, false
}

// updateRecord advances the state of one entity with the record observed on
// the given frame
func (e *Estimator) updateRecord(key tracker.EntityKey, frameIdx int, rec *tracker.Record) Outcome {

	pos, mode, ok := selectPosition(rec)

	if !ok {
		// keep showing the last values through the gap
		if ent, exists := e.entities[key]; exists {
			return applyCache(ent, rec)
		}
		return Skipped
	}

	ent := e.getOrCreate(key)
	ent.positions.Add(PositionSample{Pos: pos, Frame: frameIdx, Mode: mode})

	if ent.positions.Len() < 2 {
		if ent.display != nil {
			return Skipped
		}

		ent.display = &cached{}
		rec.SetSpeedDistance(0, 0)
		return Seeded
	}

	window := ent.positions.Last(e.params.Window())

	for _, s := range window {
		if s.Mode != mode {
			return applyCache(ent, rec)
		}
	}

	raw, speedOK := e.instantaneousSpeed(window, mode)

	var smoothed float64
	if speedOK {
		smoothed = e.smoothSpeed(ent, raw)
	}

	// the window covers at least the last two samples so both share mode
	last := ent.positions.Last(2)

	if inc, ok := e.distanceIncrement(last[0], last[1], mode); ok {
		ent.distance += inc
	}

	if !speedOK {
		return applyCache(ent, rec)
	}

	ent.display = &cached{speed: smoothed, distance: ent.distance}
	rec.SetSpeedDistance(smoothed, ent.distance)

	return Computed
}

// applyCache writes the last good values onto the record if there are any
func applyCache(ent *entity, rec *tracker.Record) Outcome {

	if ent.display == nil {
		return Skipped
	}

	rec.SetSpeedDistance(ent.display.speed, ent.display.distance)
	return UsedCache
}

// meters returns the distance between two positions in meters for the given
// coordinate mode
func (e *Estimator) meters(a, b tracker.Point, mode CoordMode) float64 {

	d := tracker.Distance(a, b)

	if mode == ModePixel {
		return d / e.params.PixelsPerMeter
	}

	return d
}

// instantaneousSpeed returns the speed in km/h over the window of samples.
// Returns false if no time elapsed across the window or the speed is above
// the ceiling
func (e *Estimator) instantaneousSpeed(window []PositionSample, mode CoordMode) (float64, bool) {

	if len(window) < 2 {
		return 0, false
	}

	total := 0.0

	for i := 1; i < len(window); i++ {
		total += e.meters(window[i-1].Pos, window[i].Pos, mode)
	}

	elapsed := float64(window[len(window)-1].Frame-window[0].Frame) / e.params.FrameRate

	if elapsed <= 0 {
		return 0, false
	}

	speed := total / elapsed * kmphPerMps

	if speed > e.params.MaxSpeed || math.IsNaN(speed) {
		return 0, false
	}

	return speed, true
}

// distanceIncrement returns the distance moved between two consecutive
// samples.  Returns false if the jump is above the per frame threshold
// multiplied by the number of frames between the samples
func (e *Estimator) distanceIncrement(prev, curr PositionSample, mode CoordMode) (float64, bool) {

	d := e.meters(prev.Pos, curr.Pos, mode)

	limit := e.params.MaxStepWorld
	if mode == ModePixel {
		limit = e.params.MaxStepPixel
	}

	if gap := curr.Frame - prev.Frame; gap > 1 {
		limit *= float64(gap)
	}

	if d > limit || math.IsNaN(d) {
		return 0, false
	}

	return d, true
}

// smoothSpeed records the raw speed and returns the median of the speed
// history once enough values exist, otherwise the raw speed
func (e *Estimator) smoothSpeed(ent *entity, raw float64) float64 {

	ent.speeds.Add(raw)

	if ent.speeds.Len() < e.params.MedianMinSamples {
		return raw
	}

	return median(ent.speeds.Values())
}

// median returns the middle value of vals, averaging the two middle values
// for an even count.  vals is sorted in place
func median(vals []float64) float64 {

	if len(vals) == 0 {
		return 0
	}

	sort.Float64s(vals)
	mid := len(vals) / 2

	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}

	return vals[mid]
}

// Reset clears all state held for the entity
func (e *Estimator) Reset(key tracker.EntityKey) {
	e.Lock()
	defer e.Unlock()

	delete(e.entities, key)
}

// ResetAll clears the state of every entity
func (e *Estimator) ResetAll() {
	e.Lock()
	defer e.Unlock()

	e.entities = make(map[tracker.EntityKey]*entity)
}

// History returns a copy of the position samples held for the entity
func (e *Estimator) History(key tracker.EntityKey) []PositionSample {
	e.Lock()
	defer e.Unlock()

	if ent, exists := e.entities[key]; exists {
		return ent.positions.Values()
	}

	// no history yet
	return nil
}

// cachedValues returns the last good values of the entity
func (e *Estimator) cachedValues(key tracker.EntityKey) (speed, distance float64, ok bool) {

	if ent, exists := e.entities[key]; exists && ent.display != nil {
		return ent.display.speed, ent.display.distance, true
	}

	return 0, 0, false
}
