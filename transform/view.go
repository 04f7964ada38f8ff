package transform

import (
	"fmt"
	"image"
	"math"

	"github.com/swdee/go-courtspeed/tracker"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

const (
	// PitchWidth is the width of the football pitch in meters
	PitchWidth = 68.0
	// PitchLength is the full length of the football pitch in meters
	PitchLength = 105.0
)

// Calibration holds the four pixel corners of the calibrated region in the
// video frame and the real world coordinates (meters) they correspond to.
// Corners must be given in the same order in both sets
type Calibration struct {
	Pixel [4]tracker.Point
	World [4]tracker.Point
}

// DefaultCalibration returns the manually measured pitch corners for the
// broadcast camera view, mapped onto a 68x105 meter pitch
func DefaultCalibration() Calibration {
	return Calibration{
		Pixel: [4]tracker.Point{
			{X: 110, Y: 1035},
			{X: 265, Y: 275},
			{X: 910, Y: 260},
			{X: 1640, Y: 915},
		},
		World: [4]tracker.Point{
			{X: 0, Y: PitchWidth},
			{X: 0, Y: 0},
			{X: PitchLength, Y: 0},
			{X: PitchLength, Y: PitchWidth},
		},
	}
}

// ViewTransformer projects pixel positions inside the calibrated region onto
// real world pitch coordinates
type ViewTransformer struct {
	// homography is the 3x3 perspective transform matrix
	homography *mat.Dense
	// region is the calibrated polygon in pixel space used for bounds checks
	region gocv.PointVector
	// bounds is the bounding box of region with Max inclusive
	bounds image.Rectangle
}

// NewViewTransformer derives the perspective transform for the given
// calibration.  Call Close() when finished to free the region memory
func NewViewTransformer(cal Calibration) (*ViewTransformer, error) {

	src := make([]gocv.Point2f, 4)
	dst := make([]gocv.Point2f, 4)
	poly := make([]image.Point, 4)

	for i := 0; i < 4; i++ {
		if !cal.Pixel[i].IsFinite() || !cal.World[i].IsFinite() {
			return nil, fmt.Errorf("calibration corner %d is not finite", i)
		}

		if math.Abs(cal.Pixel[i].X) > math.MaxInt32 || math.Abs(cal.Pixel[i].Y) > math.MaxInt32 {
			return nil, fmt.Errorf("calibration corner %d is outside the pixel range", i)
		}

		src[i] = gocv.Point2f{X: float32(cal.Pixel[i].X), Y: float32(cal.Pixel[i].Y)}
		dst[i] = gocv.Point2f{X: float32(cal.World[i].X), Y: float32(cal.World[i].Y)}
		poly[i] = image.Pt(int(cal.Pixel[i].X), int(cal.Pixel[i].Y))
	}

	srcVec := gocv.NewPoint2fVectorFromPoints(src)
	defer srcVec.Close()

	dstVec := gocv.NewPoint2fVectorFromPoints(dst)
	defer dstVec.Close()

	m := gocv.GetPerspectiveTransform2f(srcVec, dstVec)
	defer m.Close()

	if m.Empty() || m.Rows() != 3 || m.Cols() != 3 {
		return nil, fmt.Errorf("degenerate calibration, no perspective transform found")
	}

	h := mat.NewDense(3, 3, nil)

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := m.GetDoubleAt(r, c)

			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("degenerate calibration, transform is not finite")
			}

			h.Set(r, c, v)
		}
	}

	bounds := image.Rectangle{Min: poly[0], Max: poly[0]}

	for _, pt := range poly[1:] {
		bounds.Min.X = min(bounds.Min.X, pt.X)
		bounds.Min.Y = min(bounds.Min.Y, pt.Y)
		bounds.Max.X = max(bounds.Max.X, pt.X)
		bounds.Max.Y = max(bounds.Max.Y, pt.Y)
	}

	return &ViewTransformer{
		homography: h,
		region:     gocv.NewPointVectorFromPoints(poly),
		bounds:     bounds,
	}, nil
}

// Close frees the memory held by the calibrated region
func (v *ViewTransformer) Close() {
	v.region.Close()
}

// Matrix returns the perspective transform matrix
func (v *ViewTransformer) Matrix() mat.Matrix {
	return v.homography
}

// Contains returns true if the pixel point is inside or on the boundary of
// the calibrated region
func (v *ViewTransformer) Contains(p tracker.Point) bool {

	if !p.IsFinite() {
		return false
	}

	// points clear of the bounding box would overflow the 32 bit pixel
	// coordinates of the polygon test
	if p.X <= float64(v.bounds.Min.X-1) || p.X >= float64(v.bounds.Max.X+1) ||
		p.Y <= float64(v.bounds.Min.Y-1) || p.Y >= float64(v.bounds.Max.Y+1) {
		return false
	}

	// the polygon test works on whole pixels
	pt := image.Pt(int(p.X), int(p.Y))

	return gocv.PointPolygonTest(v.region, pt, false) >= 0
}

// Transform projects a pixel point to real world coordinates.  Returns false
// if the point is outside the calibrated region or cannot be projected
func (v *ViewTransformer) Transform(p tracker.Point) (tracker.Point, bool) {

	if !v.Contains(p) {
		return tracker.Point{}, false
	}

	in := mat.NewVecDense(3, []float64{p.X, p.Y, 1})

	var out mat.VecDense
	out.MulVec(v.homography, in)

	w := out.AtVec(2)

	if math.Abs(w) < 1e-12 {
		return tracker.Point{}, false
	}

	res := tracker.Point{X: out.AtVec(0) / w, Y: out.AtVec(1) / w}

	if !res.IsFinite() {
		return tracker.Point{}, false
	}

	return res, true
}

// Annotate sets the transformed position on every record across all classes
// and frames that has an adjusted pixel position inside the calibrated
// region.  Returns the number of records annotated
func (v *ViewTransformer) Annotate(tracks tracker.Tracks) int {

	count := 0

	for _, class := range tracks.Classes() {
		for _, frame := range tracks[class] {
			for _, rec := range frame {

				if rec == nil || rec.PositionAdjusted == nil {
					continue
				}

				if p, ok := v.Transform(*rec.PositionAdjusted); ok {
					rec.SetTransformed(p)
					count++
				}
			}
		}
	}

	return count
}
