package render

import "image/color"

// Black is the overlay text colour
var Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
