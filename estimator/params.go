package estimator

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Params defines the configuration of the Estimator
type Params struct {
	// FrameRate is the video frame rate in frames per second
	FrameRate float64
	// SmoothingWindow is the number of most recent position samples used to
	// calculate instantaneous speed
	SmoothingWindow int
	// FrameWindow is the legacy name of SmoothingWindow, when set greater
	// than zero it takes precedence
	FrameWindow int
	// MaxSpeed is the ceiling in km/h above which a calculated speed is
	// treated as a tracking artifact and discarded
	MaxSpeed float64
	// PixelsPerMeter is the approximate conversion used when only pixel
	// positions are available
	PixelsPerMeter float64
	// MaxStepWorld is the largest distance in meters a player may move
	// between two frames using real world coordinates
	MaxStepWorld float64
	// MaxStepPixel is the largest distance in meters a player may move
	// between two frames using pixel coordinates
	MaxStepPixel float64
	// PositionHistory is the number of position samples kept per entity
	PositionHistory int
	// SpeedHistory is the number of raw speed values kept per entity for
	// median smoothing and stats
	SpeedHistory int
	// MedianMinSamples is the number of speed values required before the
	// median is reported instead of the raw value
	MedianMinSamples int
	// ExcludedClasses are the entity classes never estimated or drawn
	ExcludedClasses []string
}

// DefaultParams returns an instance of Params configured with default values
// for football broadcast footage:
// - Frame Rate: 30
// - Smoothing Window: 5
// - Max Speed: 40 km/h
// - Pixels Per Meter: 10
// - Max Step: 5m per frame (real world), 2m per frame (pixel)
// - History: 20 positions, 10 speeds, median from 3 speeds
// - Excluded Classes: ball, referee, referees
func DefaultParams() Params {
	return Params{
		FrameRate:        30,
		SmoothingWindow:  5,
		MaxSpeed:         40.0,
		PixelsPerMeter:   10.0,
		MaxStepWorld:     5.0,
		MaxStepPixel:     2.0,
		PositionHistory:  20,
		SpeedHistory:     10,
		MedianMinSamples: 3,
		ExcludedClasses:  []string{"ball", "referee", "referees"},
	}
}

// Window returns the smoothing window size, resolving the legacy FrameWindow
// alias
func (p Params) Window() int {
	if p.FrameWindow > 0 {
		return p.FrameWindow
	}
	return p.SmoothingWindow
}

// Validate checks the parameters are usable
func (p Params) Validate() error {

	switch {
	case p.FrameRate <= 0:
		return fmt.Errorf("frame rate must be positive, got %v", p.FrameRate)
	case p.Window() < 2:
		return fmt.Errorf("smoothing window must be at least 2, got %d", p.Window())
	case p.MaxSpeed <= 0:
		return fmt.Errorf("max speed must be positive, got %v", p.MaxSpeed)
	case p.PixelsPerMeter <= 0:
		return fmt.Errorf("pixels per meter must be positive, got %v", p.PixelsPerMeter)
	case p.MaxStepWorld <= 0 || p.MaxStepPixel <= 0:
		return fmt.Errorf("max step thresholds must be positive")
	case p.PositionHistory < p.Window():
		return fmt.Errorf("position history %d is smaller than smoothing window %d",
			p.PositionHistory, p.Window())
	case p.SpeedHistory < 1:
		return fmt.Errorf("speed history must be at least 1, got %d", p.SpeedHistory)
	case p.MedianMinSamples < 1:
		return fmt.Errorf("median min samples must be at least 1, got %d", p.MedianMinSamples)
	}

	return nil
}

// excluded returns true if the class is never estimated
func (p Params) excluded(class string) bool {
	for _, c := range p.ExcludedClasses {
		if c == class {
			return true
		}
	}
	return false
}

// ParamsFromJSON returns DefaultParams overridden by any fields present in
// the JSON object.  Fields absent from the JSON keep their default value
func ParamsFromJSON(data []byte) (Params, error) {

	p := DefaultParams()

	if !gjson.ValidBytes(data) {
		return p, fmt.Errorf("invalid params JSON")
	}

	root := gjson.ParseBytes(data)

	if !root.IsObject() {
		return p, fmt.Errorf("params JSON must be an object")
	}

	floatFields := map[string]*float64{
		"frame_rate":       &p.FrameRate,
		"max_speed":        &p.MaxSpeed,
		"pixels_per_meter": &p.PixelsPerMeter,
		"max_step_world":   &p.MaxStepWorld,
		"max_step_pixel":   &p.MaxStepPixel,
	}

	for name, dst := range floatFields {
		if v := root.Get(name); v.Exists() {
			if v.Type != gjson.Number {
				return p, fmt.Errorf("%s must be a number", name)
			}
			*dst = v.Float()
		}
	}

	intFields := map[string]*int{
		"smoothing_window":   &p.SmoothingWindow,
		"frame_window":       &p.FrameWindow,
		"position_history":   &p.PositionHistory,
		"speed_history":      &p.SpeedHistory,
		"median_min_samples": &p.MedianMinSamples,
	}

	for name, dst := range intFields {
		if v := root.Get(name); v.Exists() {
			if v.Type != gjson.Number {
				return p, fmt.Errorf("%s must be a number", name)
			}
			*dst = int(v.Int())
		}
	}

	if v := root.Get("excluded_classes"); v.Exists() {
		if !v.IsArray() {
			return p, fmt.Errorf("excluded_classes must be an array")
		}

		p.ExcludedClasses = make([]string, 0)

		for _, c := range v.Array() {
			p.ExcludedClasses = append(p.ExcludedClasses, c.String())
		}
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid params: %w", err)
	}

	return p, nil
}
