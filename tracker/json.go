package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// field names used in the tracker JSON export
const (
	fieldBBox        = "bbox"
	fieldPosition    = "position"
	fieldAdjusted    = "position_adjusted"
	fieldTransformed = "position_transformed"
	fieldSpeed       = "speed"
	fieldDistance    = "distance"
)

// ParseTracks decodes the tracker JSON export which has the shape
//
//	{"players": [ {"7": {"bbox": [x1,y1,x2,y2], "position": [x,y]}}, ... ]}
//
// where each array element is one frame keyed by track id
func ParseTracks(data []byte) (Tracks, error) {

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid tracks JSON")
	}

	root := gjson.ParseBytes(data)

	if !root.IsObject() {
		return nil, fmt.Errorf("tracks JSON must be an object keyed by class")
	}

	tracks := make(Tracks)
	var err error

	root.ForEach(func(classKey, classVal gjson.Result) bool {
		class := classKey.String()

		if !classVal.IsArray() {
			err = fmt.Errorf("class %q: frames must be an array", class)
			return false
		}

		frames := make([]Frame, 0)

		for frameIdx, frameVal := range classVal.Array() {
			var frame Frame
			frame, err = parseFrame(frameVal)

			if err != nil {
				err = fmt.Errorf("class %q frame %d: %w", class, frameIdx, err)
				return false
			}

			frames = append(frames, frame)
		}

		tracks[class] = frames
		return true
	})

	if err != nil {
		return nil, err
	}

	return tracks, nil
}

// parseFrame decodes a single frame object of track id to record
func parseFrame(val gjson.Result) (Frame, error) {

	frame := make(Frame)

	// empty frames may be exported as null
	if val.Type == gjson.Null {
		return frame, nil
	}

	if !val.IsObject() {
		return nil, fmt.Errorf("frame must be an object keyed by track id")
	}

	var err error

	val.ForEach(func(idKey, recVal gjson.Result) bool {
		var id int
		id, err = strconv.Atoi(idKey.String())

		if err != nil {
			err = fmt.Errorf("track id %q: %w", idKey.String(), err)
			return false
		}

		var rec *Record
		rec, err = parseRecord(recVal)

		if err != nil {
			err = fmt.Errorf("track id %d: %w", id, err)
			return false
		}

		frame[id] = rec
		return true
	})

	if err != nil {
		return nil, err
	}

	return frame, nil
}

// parseRecord decodes the attribute record of one entity
func parseRecord(val gjson.Result) (*Record, error) {

	if !val.IsObject() {
		return nil, fmt.Errorf("record must be an object")
	}

	rec := &Record{}

	if bbox := val.Get(fieldBBox); bbox.Exists() {
		nums, err := numbers(bbox, 4)

		if err != nil {
			return nil, fmt.Errorf("%s: %w", fieldBBox, err)
		}

		r := NewRect(nums[0], nums[1], nums[2], nums[3])
		rec.BBox = &r
	}

	points := []struct {
		name string
		dst  **Point
	}{
		{fieldPosition, &rec.Position},
		{fieldAdjusted, &rec.PositionAdjusted},
		{fieldTransformed, &rec.PositionTransformed},
	}

	for _, p := range points {
		v := val.Get(p.name)

		if !v.Exists() || v.Type == gjson.Null {
			continue
		}

		nums, err := numbers(v, 2)

		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}

		*p.dst = &Point{X: nums[0], Y: nums[1]}
	}

	speed := val.Get(fieldSpeed)
	dist := val.Get(fieldDistance)

	if speed.Type == gjson.Number && dist.Type == gjson.Number {
		rec.SetSpeedDistance(speed.Float(), dist.Float())
	}

	return rec, nil
}

// numbers reads a JSON array of exactly n numbers
func numbers(val gjson.Result, n int) ([]float64, error) {

	if !val.IsArray() {
		return nil, fmt.Errorf("expected array of %d numbers", n)
	}

	arr := val.Array()

	if len(arr) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(arr))
	}

	nums := make([]float64, n)

	for i, v := range arr {
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("element %d is not a number", i)
		}

		nums[i] = v.Float()
	}

	return nums, nil
}

// MarshalTracks encodes tracks back into the tracker JSON export shape,
// including any fields added by the processing stages
func MarshalTracks(t Tracks) ([]byte, error) {

	out := []byte("{}")

	for _, class := range t.Classes() {

		frameStrs := make([]string, 0, len(t[class]))

		for frameIdx, frame := range t[class] {
			recStrs := make([]string, 0, len(frame))

			for _, id := range frame.IDs() {
				rec, err := marshalRecord(frame[id])

				if err != nil {
					return nil, fmt.Errorf("class %q frame %d track id %d: %w",
						class, frameIdx, id, err)
				}

				recStrs = append(recStrs, fmt.Sprintf("%q:%s", strconv.Itoa(id), rec))
			}

			frameStrs = append(frameStrs, fmt.Sprintf("{%s}", strings.Join(recStrs, ",")))
		}

		var err error
		out, err = sjson.SetRawBytes(out, escapePath(class),
			[]byte(fmt.Sprintf("[%s]", strings.Join(frameStrs, ","))))

		if err != nil {
			return nil, fmt.Errorf("class %q: %w", class, err)
		}
	}

	return out, nil
}

// marshalRecord encodes a single record as a JSON object
func marshalRecord(rec *Record) ([]byte, error) {

	out := []byte("{}")

	if rec == nil {
		return out, nil
	}

	var err error

	set := func(path string, value interface{}) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	if rec.BBox != nil {
		set(fieldBBox, []float64{rec.BBox.X1, rec.BBox.Y1, rec.BBox.X2, rec.BBox.Y2})
	}

	if rec.Position != nil {
		set(fieldPosition, []float64{rec.Position.X, rec.Position.Y})
	}

	if rec.PositionAdjusted != nil {
		set(fieldAdjusted, []float64{rec.PositionAdjusted.X, rec.PositionAdjusted.Y})
	}

	if rec.PositionTransformed != nil {
		set(fieldTransformed, []float64{rec.PositionTransformed.X, rec.PositionTransformed.Y})
	}

	if speed, dist, ok := rec.SpeedDistance(); ok {
		set(fieldSpeed, speed)
		set(fieldDistance, dist)
	}

	return out, err
}

// pathEscaper escapes the characters sjson and gjson treat as path syntax
var pathEscaper = strings.NewReplacer(
	`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`,
	"@", `\@`, ":", `\:`, "!", `\!`, "=", `\=`, "<", `\<`, ">", `\>`, "%", `\%`,
)

// escapePath escapes a class name so it is always used as a literal object
// key
func escapePath(key string) string {
	return pathEscaper.Replace(key)
}
