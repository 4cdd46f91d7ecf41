package sim

import (
	"time"

	"github.com/san-kum/forque/internal/config"
	"github.com/san-kum/forque/internal/metrics"
)

// Point is a Euclidean position in d dimensions. Renderers consume plain
// coordinates and never see the algebra.
type Point []float64

// BodyFrame is the drawable snapshot of one body in world coordinates.
type BodyFrame struct {
	Center   Point
	Vertices []Point
	// Edges index into Vertices and are shared between frames.
	Edges [][2]int
	// Glyphs are velocity markers: each vertex and a point ahead of it.
	Glyphs [][2]Point
	// Spring runs from the world anchor to the body anchor.
	Spring [2]Point
}

// PlaneFrame outlines the static reference plane.
type PlaneFrame struct {
	Corners []Point
}

// Frame is everything a renderer needs for one host frame.
type Frame struct {
	Index   int
	SimTime float64
	Energy  float64
	Bounds  metrics.Bounds
	Labels  [3]string
	Bodies  []BodyFrame
	Plane   PlaneFrame
	Display config.DisplayConfig
}

// Options configure the frame driver around an existing world.
type Options struct {
	// Floor is the reference plane offset: the plane sits at -Floor on the
	// gravity axis.
	Floor      float64
	GlyphScale float64
	Display    config.DisplayConfig
}

func DefaultOptions() Options {
	return Options{
		Floor:      config.DefaultFloor,
		GlyphScale: 0.1,
		Display:    config.DefaultDisplay(),
	}
}

// RunConfig controls a headless run.
type RunConfig struct {
	Frames        int
	ValidateState bool
	// Start is the clock value of frame zero. The headless clock advances by
	// the simulated frame time, so runs are reproducible.
	Start time.Time
}

// Result is the trace of a headless run.
type Result struct {
	Times []float64
	// Energy holds the total energy at Times; index 0 is the initial state.
	Energy []float64
	// Heights[i][b] is the center height of body b at Times[i].
	Heights     [][]float64
	Metrics     map[string]float64
	Bounds      metrics.Bounds
	FramesRun   int
	EnergyDrift float64
	Spread      float64
}
