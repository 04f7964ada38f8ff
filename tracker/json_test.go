package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sampleTracks = `{
  "players": [
    {"7": {"bbox": [100, 200, 140, 300], "position": [120, 300], "position_adjusted": [118, 301]}},
    {"7": {"bbox": [102, 200, 142, 300], "position": [122, 300]},
     "11": {"bbox": [400, 220, 440, 330]}}
  ],
  "ball": [
    {"1": {"bbox": [500, 500, 510, 510]}},
    null
  ]
}`

func TestParseTracks(t *testing.T) {
	tracks, err := ParseTracks([]byte(sampleTracks))
	require.NoError(t, err)

	require.Len(t, tracks["players"], 2)
	require.Len(t, tracks["ball"], 2)
	assert.Empty(t, tracks["ball"][1])

	rec := tracks["players"][0][7]
	require.NotNil(t, rec)
	require.NotNil(t, rec.BBox)
	assert.Equal(t, NewRect(100, 200, 140, 300), *rec.BBox)
	assert.Equal(t, Point{120, 300}, *rec.Position)
	assert.Equal(t, Point{118, 301}, *rec.PositionAdjusted)
	assert.Nil(t, rec.PositionTransformed)
	assert.Nil(t, rec.Speed)

	assert.Equal(t, []int{7, 11}, tracks["players"][1].IDs())
}

func TestParseTracksErrors(t *testing.T) {

	tests := []struct {
		name string
		json string
	}{
		{"invalid json", `{"players": [`},
		{"not object", `[1, 2]`},
		{"frames not array", `{"players": {"7": {}}}`},
		{"bad track id", `{"players": [{"seven": {"bbox": [0,0,1,1]}}]}`},
		{"short bbox", `{"players": [{"7": {"bbox": [0,0,1]}}]}`},
		{"non numeric position", `{"players": [{"7": {"position": ["a", 1]}}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTracks([]byte(tc.json))
			assert.Error(t, err)
		})
	}
}

func TestMarshalTracks(t *testing.T) {
	tracks, err := ParseTracks([]byte(sampleTracks))
	require.NoError(t, err)

	rec := tracks["players"][1][7]
	rec.SetTransformed(Point{10.5, 20})
	rec.SetSpeedDistance(18.25, 3.5)

	data, err := MarshalTracks(tracks)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	res := gjson.GetBytes(data, "players.1.7")
	assert.Equal(t, 18.25, res.Get("speed").Float())
	assert.Equal(t, 3.5, res.Get("distance").Float())
	assert.Equal(t, 10.5, res.Get("position_transformed.0").Float())
	assert.Equal(t, 102.0, res.Get("bbox.0").Float())

	// round trip keeps the annotated fields
	back, err := ParseTracks(data)
	require.NoError(t, err)

	s, d, ok := back["players"][1][7].SpeedDistance()
	require.True(t, ok)
	assert.Equal(t, 18.25, s)
	assert.Equal(t, 3.5, d)
	assert.Len(t, back["ball"], 2)
	assert.Empty(t, back["ball"][1])
}

func TestMarshalTracksPathCharacters(t *testing.T) {
	classes := []string{
		"x|y", "@this", "#", `a\b`, "a.b", "go*", "who?", ":force",
		"a!b", "a=b", "a<b>", "50%", "0",
	}

	tracks := make(Tracks)

	for i, class := range classes {
		tracks.Add(class, 0, i, NewRecord(NewRect(1, 2, 3, 4)))
	}

	data, err := MarshalTracks(tracks)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	back, err := ParseTracks(data)
	require.NoError(t, err)
	require.Len(t, back, len(classes))

	for i, class := range classes {
		frames, exists := back[class]
		require.True(t, exists, "class %q missing", class)
		require.Len(t, frames, 1)
		require.NotNil(t, frames[0][i], "class %q record", class)
		assert.Equal(t, 3.0, frames[0][i].BBox.X2)
	}
}

func TestMarshalTracksEmptyClass(t *testing.T) {
	tracks := make(Tracks)
	tracks.Add("", 0, 1, NewRecord(NewRect(1, 2, 3, 4)))

	_, err := MarshalTracks(tracks)
	assert.Error(t, err)
}
