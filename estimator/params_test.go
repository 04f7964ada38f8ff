package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	assert.Equal(t, 30.0, p.FrameRate)
	assert.Equal(t, 5, p.Window())
	assert.Equal(t, 40.0, p.MaxSpeed)
	assert.Equal(t, 10.0, p.PixelsPerMeter)
	assert.NoError(t, p.Validate())

	assert.True(t, p.excluded("ball"))
	assert.True(t, p.excluded("referees"))
	assert.False(t, p.excluded("players"))
}

func TestFrameWindowAlias(t *testing.T) {
	p := DefaultParams()
	p.FrameWindow = 8

	assert.Equal(t, 8, p.Window())
}

func TestParamsValidate(t *testing.T) {

	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"zero frame rate", func(p *Params) { p.FrameRate = 0 }},
		{"window of one", func(p *Params) { p.SmoothingWindow = 1 }},
		{"negative max speed", func(p *Params) { p.MaxSpeed = -1 }},
		{"zero pixel ratio", func(p *Params) { p.PixelsPerMeter = 0 }},
		{"zero step", func(p *Params) { p.MaxStepPixel = 0 }},
		{"history below window", func(p *Params) { p.PositionHistory = 3 }},
		{"no speed history", func(p *Params) { p.SpeedHistory = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.modify(&p)

			assert.Error(t, p.Validate())

			_, err := New(p)
			assert.Error(t, err)
		})
	}
}

func TestParamsFromJSON(t *testing.T) {
	p, err := ParamsFromJSON([]byte(`{"frame_rate": 25, "frame_window": 7, "excluded_classes": ["ball"]}`))
	require.NoError(t, err)

	assert.Equal(t, 25.0, p.FrameRate)
	assert.Equal(t, 7, p.Window())
	assert.Equal(t, []string{"ball"}, p.ExcludedClasses)

	// untouched fields keep defaults
	assert.Equal(t, 40.0, p.MaxSpeed)
	assert.Equal(t, 20, p.PositionHistory)
}

func TestParamsFromJSONErrors(t *testing.T) {

	tests := []struct {
		name string
		json string
	}{
		{"invalid json", `{"frame_rate": `},
		{"not object", `[1]`},
		{"string number", `{"max_speed": "fast"}`},
		{"bad classes", `{"excluded_classes": "ball"}`},
		{"fails validation", `{"frame_rate": 0}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParamsFromJSON([]byte(tc.json))
			assert.Error(t, err)
		})
	}
}
