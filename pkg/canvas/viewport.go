package canvas

import (
	"math"

	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

// Default zoom limits.
const (
	DefaultZoomMin  = 0.5
	DefaultZoomMax  = 1.6
	DefaultZoomStep = 0.1
)

// ZoomLimits bounds the zoom factor and sets the increment of one zoom step.
type ZoomLimits struct {
	Min, Max, Step float64
}

// DefaultZoomLimits returns 0.5..1.6 in steps of 0.1.
func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{Min: DefaultZoomMin, Max: DefaultZoomMax, Step: DefaultZoomStep}
}

// Viewport describes where the canvas sits on screen. OriginX/OriginY is the
// screen position of the canvas' top-left corner after panning; Width and
// Height are its unscaled size.
type Viewport struct {
	OriginX, OriginY float64
	Width, Height    float64
	Zoom             float64
}

// DefaultViewport returns an unpanned viewport at zoom 1 with the given size.
func DefaultViewport(width, height float64) Viewport {
	return Viewport{Width: width, Height: height, Zoom: 1}
}

// scale returns size/(size*zoom), falling back to 1/zoom for an unsized
// axis.
func (v Viewport) scale(size float64) float64 {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	if size == 0 {
		return 1 / z
	}
	return size / (size * z)
}

// ScreenToCanvas maps a screen coordinate into canvas space:
//
//	canvas = screen * (size / (size * zoom)) - origin * (size / (size * zoom))
func (v Viewport) ScreenToCanvas(p curve.Point) curve.Point {
	fx, fy := v.scale(v.Width), v.scale(v.Height)
	return curve.Point{
		X: p.X*fx - v.OriginX*fx,
		Y: p.Y*fy - v.OriginY*fy,
	}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (v Viewport) CanvasToScreen(p curve.Point) curve.Point {
	fx, fy := v.scale(v.Width), v.scale(v.Height)
	return curve.Point{
		X: p.X/fx + v.OriginX,
		Y: p.Y/fy + v.OriginY,
	}
}

// clampZoom keeps z inside the limits and drops float drift from repeated
// steps.
func (l ZoomLimits) clampZoom(z float64) float64 {
	z = math.Round(z*1e6) / 1e6
	return math.Max(l.Min, math.Min(l.Max, z))
}
