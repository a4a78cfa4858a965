package curve

// Options carries the curvature settings of an editor.
type Options struct {
	// Curvature is used for edges without reroute points.
	Curvature float64
	// RerouteCurvatureStartEnd is used for the first and last segment of a
	// rerouted edge.
	RerouteCurvatureStartEnd float64
	// RerouteCurvature is used between two reroute points.
	RerouteCurvature float64
	// FixCurvature renders one path per segment.
	FixCurvature bool
}

// DefaultOptions returns curvature 0.5 everywhere and a single path per edge.
func DefaultOptions() Options {
	return Options{
		Curvature:                0.5,
		RerouteCurvatureStartEnd: 0.5,
		RerouteCurvature:         0.5,
	}
}

// Path renders the edge from a to b through points using the curvatures in o.
func (o Options) Path(a, b Point, points []Point) []string {
	if len(points) == 0 {
		return Path(a, b, nil, o.Curvature, o.Curvature, o.FixCurvature)
	}
	return Path(a, b, points, o.RerouteCurvatureStartEnd, o.RerouteCurvature, o.FixCurvature)
}

// Segments is like Path but returns the geometry.
func (o Options) Segments(a, b Point, points []Point) []Segment {
	if len(points) == 0 {
		return Segments(a, b, nil, o.Curvature, o.Curvature)
	}
	return Segments(a, b, points, o.RerouteCurvatureStartEnd, o.RerouteCurvature)
}
