package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-courtspeed/tracker"
)

func newDefaultTransformer(t *testing.T) *ViewTransformer {
	vt, err := NewViewTransformer(DefaultCalibration())
	require.NoError(t, err)
	t.Cleanup(vt.Close)
	return vt
}

func TestTransformCorners(t *testing.T) {
	vt := newDefaultTransformer(t)
	cal := DefaultCalibration()

	for i := 0; i < 4; i++ {
		p, ok := vt.Transform(cal.Pixel[i])
		require.True(t, ok, "corner %d should be inside region", i)
		assert.InDelta(t, cal.World[i].X, p.X, 1e-2, "corner %d x", i)
		assert.InDelta(t, cal.World[i].Y, p.Y, 1e-2, "corner %d y", i)
	}
}

func TestTransformOutOfBounds(t *testing.T) {
	vt := newDefaultTransformer(t)

	tests := []struct {
		name string
		p    tracker.Point
	}{
		{"origin", tracker.Point{X: 0, Y: 0}},
		{"above top edge", tracker.Point{X: 600, Y: 100}},
		{"right of region", tracker.Point{X: 1900, Y: 900}},
		{"below bottom", tracker.Point{X: 800, Y: 1075}},
		{"nan", tracker.Point{X: math.NaN(), Y: 500}},
		{"inf", tracker.Point{X: 500, Y: math.Inf(1)}},
		{"wraps to interior x", tracker.Point{X: 1<<32 + 800, Y: 600}},
		{"wraps to interior y", tracker.Point{X: 800, Y: 1<<32 + 600}},
		{"large negative", tracker.Point{X: -(1<<32 - 800), Y: 600}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := vt.Transform(tc.p)
			assert.False(t, ok)
		})
	}
}

func TestTransformInterior(t *testing.T) {
	vt := newDefaultTransformer(t)

	p, ok := vt.Transform(tracker.Point{X: 800, Y: 600})
	require.True(t, ok)

	assert.True(t, p.X > 0 && p.X < PitchLength, "x %f within pitch", p.X)
	assert.True(t, p.Y > 0 && p.Y < PitchWidth, "y %f within pitch", p.Y)
}

func TestAnnotate(t *testing.T) {
	vt := newDefaultTransformer(t)

	inside := tracker.NewRecord(tracker.NewRect(780, 500, 820, 600))
	inside.SetAdjusted(tracker.Point{X: 800, Y: 600})

	outside := tracker.NewRecord(tracker.NewRect(0, 0, 10, 10))
	outside.SetAdjusted(tracker.Point{X: 5, Y: 10})

	noAdjusted := tracker.NewRecord(tracker.NewRect(780, 500, 820, 600))
	noAdjusted.SetPosition(tracker.Point{X: 800, Y: 600})

	tracks := make(tracker.Tracks)
	tracks.Add("players", 0, 1, inside)
	tracks.Add("players", 0, 2, outside)
	tracks.Add("players", 1, 3, noAdjusted)

	n := vt.Annotate(tracks)

	assert.Equal(t, 1, n)
	assert.NotNil(t, inside.PositionTransformed)
	assert.Nil(t, outside.PositionTransformed)
	assert.Nil(t, noAdjusted.PositionTransformed)
}

func TestDegenerateCalibration(t *testing.T) {
	cal := DefaultCalibration()
	cal.Pixel[0].X = math.NaN()

	_, err := NewViewTransformer(cal)
	assert.Error(t, err)
}

func TestCalibrationOutsidePixelRange(t *testing.T) {
	cal := DefaultCalibration()
	cal.Pixel[2].X = 1 << 40

	_, err := NewViewTransformer(cal)
	assert.Error(t, err)
}

func TestMatrixProjectsCorners(t *testing.T) {
	vt := newDefaultTransformer(t)
	cal := DefaultCalibration()

	m := vt.Matrix()
	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)

	p := cal.Pixel[2]
	w := m.At(2, 0)*p.X + m.At(2, 1)*p.Y + m.At(2, 2)
	assert.InDelta(t, cal.World[2].X, (m.At(0, 0)*p.X+m.At(0, 1)*p.Y+m.At(0, 2))/w, 1e-2)
	assert.InDelta(t, cal.World[2].Y, (m.At(1, 0)*p.X+m.At(1, 1)*p.Y+m.At(1, 2))/w, 1e-2)
}
