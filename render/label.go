package render

import (
	"image"
	"image/draw"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Label is a block of text lines to draw on a frame
type Label struct {
	// Origin is the bottom-left position of the first line of text
	Origin image.Point
	// Lines of text, each drawn LineSpacing pixels below the previous
	Lines []string
}

// SpeedDistance draws the speed and distance labels onto the image
func SpeedDistance(img *gocv.Mat, labels []Label, font Font) {

	for _, label := range labels {
		for i, line := range label.Lines {
			pos := image.Pt(label.Origin.X, label.Origin.Y+i*font.LineSpacing)

			gocv.PutTextWithParams(img, line, pos, font.Face, font.Scale,
				font.Color, font.Thickness, font.LineType, false)
		}
	}
}

// SpeedDistanceImage draws the speed and distance labels onto a standard
// library image
func SpeedDistanceImage(dst draw.Image, labels []Label, imgFont ImageFont) {

	dr := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(imgFont.Color),
		Face: imgFont.Face,
	}

	for _, label := range labels {
		for i, line := range label.Lines {
			dr.Dot = fixed.P(label.Origin.X, label.Origin.Y+i*imgFont.LineSpacing)
			dr.DrawString(line)
		}
	}
}
