package estimator

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/swdee/go-courtspeed/render"
	"github.com/swdee/go-courtspeed/tracker"
	"gocv.io/x/gocv"
)

const (
	// labelDrop is the number of pixels below the foot position to place
	// the first line of text
	labelDrop = 40
	// labelWidth is the room kept at the right edge of the frame for text
	labelWidth = 100
	// labelTop and labelBottom are the margins kept at the top and bottom
	// of the frame
	labelTop    = 20
	labelBottom = 40
)

// clamp restricts v to the range [lo, hi], preferring lo when hi < lo
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Overlays returns the speed and distance labels to draw on the frame of the
// given index and size
func (e *Estimator) Overlays(frameIdx, width, height int, tracks tracker.Tracks) []render.Label {
	e.Lock()
	defer e.Unlock()

	return e.overlays(frameIdx, width, height, tracks)
}

func (e *Estimator) overlays(frameIdx, width, height int, tracks tracker.Tracks) []render.Label {

	labels := make([]render.Label, 0)

	for _, class := range tracks.Classes() {

		if e.params.excluded(class) {
			continue
		}

		frames := tracks[class]

		if frameIdx >= len(frames) {
			continue
		}

		frame := frames[frameIdx]

		for _, id := range frame.IDs() {
			rec := frame[id]

			if rec == nil || rec.BBox == nil {
				continue
			}

			speed, dist, ok := rec.SpeedDistance()

			if !ok {
				speed, dist, ok = e.cachedValues(tracker.NewEntityKey(class, id))
			}

			if !ok {
				continue
			}

			foot := rec.BBox.Foot()

			if !foot.IsFinite() {
				continue
			}

			x := clamp(int(foot.X), 0, width-labelWidth)
			y := clamp(int(foot.Y)+labelDrop, labelTop, height-labelBottom)

			labels = append(labels, render.Label{
				Origin: image.Pt(x, y),
				Lines: []string{
					fmt.Sprintf("%.1f km/h", speed),
					fmt.Sprintf("%.1f m", dist),
				},
			})
		}
	}

	return labels
}

// Render returns a copy of each frame with the speed and distance of every
// entity drawn beneath it.  The input frames are not modified and the caller
// must Close() the returned Mats
func (e *Estimator) Render(frames []gocv.Mat, tracks tracker.Tracks) []gocv.Mat {
	e.Lock()
	defer e.Unlock()

	font := render.OverlayFont()
	out := make([]gocv.Mat, 0, len(frames))

	for frameIdx, frame := range frames {
		img := frame.Clone()

		labels := e.overlays(frameIdx, img.Cols(), img.Rows(), tracks)
		render.SpeedDistance(&img, labels, font)

		out = append(out, img)
	}

	return out
}

// RenderImages is the standard library image counterpart of Render
func (e *Estimator) RenderImages(frames []image.Image, tracks tracker.Tracks) []*image.RGBA {
	e.Lock()
	defer e.Unlock()

	font := render.OverlayImageFont()
	out := make([]*image.RGBA, 0, len(frames))

	for frameIdx, frame := range frames {
		b := frame.Bounds()
		img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(img, img.Bounds(), frame, b.Min, draw.Src)

		labels := e.overlays(frameIdx, b.Dx(), b.Dy(), tracks)
		render.SpeedDistanceImage(img, labels, font)

		out = append(out, img)
	}

	return out
}
