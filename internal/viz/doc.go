// Package viz is the terminal front-end: a Bubble Tea program that steps
// a simulator once per frame and draws the density field with
// half-block characters, two grid rows per terminal line.
//
// # Key Bindings
//
//	Drag  - Inject density and velocity at the pointer
//	Space - Pause/Resume
//	R     - Clear every field
//	C     - Cycle colormaps
//	T     - Cycle themes
//	G     - Toggle GIF recording
//	?     - Show help
//	Q     - Quit
//
// Large grids are averaged down until the field fits beside the stats
// panel. Recordings are written to [Options].RecordDir.
package viz
