package tracker

import (
	"fmt"
	"sort"
)

// EntityKey identifies a tracked subject by its class name and the track
// identity the tracker assigned to it
type EntityKey struct {
	Class   string
	TrackID int
}

// NewEntityKey is a constructor function for the EntityKey struct
func NewEntityKey(class string, trackID int) EntityKey {
	return EntityKey{Class: class, TrackID: trackID}
}

// String formats the key for display, eg: "players_7"
func (k EntityKey) String() string {
	return fmt.Sprintf("%s_%d", k.Class, k.TrackID)
}

// Record holds the attributes of one tracked entity on one frame.  Only the
// bounding box comes from the tracker as a matter of course, all other
// fields are optional and are filled in by the processing stages
type Record struct {
	// BBox is the bounding box of the entity
	BBox *Rect
	// Position is the raw pixel position reported by the tracker
	Position *Point
	// PositionAdjusted is the pixel position after camera movement
	// compensation
	PositionAdjusted *Point
	// PositionTransformed is the position in real world pitch coordinates
	// (meters)
	PositionTransformed *Point
	// Speed is the smoothed speed in km/h
	Speed *float64
	// Distance is the cumulative distance covered in meters
	Distance *float64
}

// NewRecord returns a record holding the given bounding box
func NewRecord(bbox Rect) *Record {
	return &Record{BBox: &bbox}
}

// SetPosition sets the raw pixel position
func (r *Record) SetPosition(p Point) {
	r.Position = &p
}

// SetAdjusted sets the adjusted pixel position
func (r *Record) SetAdjusted(p Point) {
	r.PositionAdjusted = &p
}

// SetTransformed sets the real world position
func (r *Record) SetTransformed(p Point) {
	r.PositionTransformed = &p
}

// SetSpeedDistance sets the speed (km/h) and cumulative distance (m)
func (r *Record) SetSpeedDistance(speed, distance float64) {
	r.Speed = &speed
	r.Distance = &distance
}

// PixelPosition returns the adjusted pixel position if set, otherwise the
// raw pixel position
func (r *Record) PixelPosition() (Point, bool) {
	if r.PositionAdjusted != nil {
		return *r.PositionAdjusted, true
	}

	if r.Position != nil {
		return *r.Position, true
	}

	return Point{}, false
}

// SpeedDistance returns the speed and distance values, ok is false unless
// both are set
func (r *Record) SpeedDistance() (speed, distance float64, ok bool) {
	if r.Speed == nil || r.Distance == nil {
		return 0, 0, false
	}

	return *r.Speed, *r.Distance, true
}

// Frame maps track identity to the record of that entity on a single frame
type Frame map[int]*Record

// IDs returns the track identities on the frame in ascending order
func (f Frame) IDs() []int {
	ids := make([]int, 0, len(f))

	for id := range f {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// Tracks is the tracker output, a mapping of entity class name to the
// ordered sequence of frames
type Tracks map[string][]Frame

// Classes returns the class names in sorted order
func (t Tracks) Classes() []string {
	classes := make([]string, 0, len(t))

	for class := range t {
		classes = append(classes, class)
	}

	sort.Strings(classes)

	return classes
}

// NumFrames returns the length of the longest class frame sequence
func (t Tracks) NumFrames() int {
	n := 0

	for _, frames := range t {
		if len(frames) > n {
			n = len(frames)
		}
	}

	return n
}

// Add places a record for the given class, frame and track id, growing the
// class frame sequence as needed
func (t Tracks) Add(class string, frameIdx, trackID int, rec *Record) {
	frames := t[class]

	for len(frames) <= frameIdx {
		frames = append(frames, make(Frame))
	}

	frames[frameIdx][trackID] = rec
	t[class] = frames
}
