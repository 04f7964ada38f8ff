package render

import (
	"image/color"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// LineSpacing is the number of pixels between the baselines of
	// consecutive lines of a multi line label
	LineSpacing int
}

// OverlayFont returns the font settings used for the speed and distance
// labels drawn beneath each player
func OverlayFont() Font {
	return Font{
		Face:        gocv.FontHersheySimplex,
		Scale:       0.5,
		Color:       Black,
		Thickness:   2,
		LineType:    gocv.Line8,
		LineSpacing: 18,
	}
}

// ImageFont defines the parameters for rendering text on a standard library
// image using golang.org/x/image fonts
type ImageFont struct {
	Face        font.Face
	Color       color.Color
	LineSpacing int
}

// OverlayImageFont returns the ImageFont counterpart of OverlayFont using
// the built in 7x13 bitmap face
func OverlayImageFont() ImageFont {
	return ImageFont{
		Face:        basicfont.Face7x13,
		Color:       Black,
		LineSpacing: 18,
	}
}
