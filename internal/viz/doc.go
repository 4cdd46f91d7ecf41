// Package viz draws simulation frames in the terminal.
//
// [Canvas] is a braille dot grid, [Camera] folds d-dimensional points into
// 3D and projects them, and [Render] draws a sim.Frame through both. [Model]
// is the Bubble Tea live view that advances one frame per tick.
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R       - Rebuild the scene
//	D       - Toggle damping
//	1-4     - Toggle edges, glyphs, springs, plane
//	x/y/z   - Rotate the camera
//	+/-     - Zoom
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
