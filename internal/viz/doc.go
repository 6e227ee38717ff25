// Package viz renders atom worlds in the terminal.
//
// Drawing goes through a braille [Canvas] (2x4 dots per cell). A [Scene]
// fits the world rectangle onto the canvas and draws shell rings, pair
// links and particles; [AtomWireframe] and [Camera] give the same bodies a
// rotatable 3D view. [Model] is a Bubble Tea program that ticks a
// [physics.World] on every [TickMsg] and shows occupancy per shell next to
// the picture.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single tick when paused
//	R     - Rebuild the scenario
//	3     - Toggle the 3D view
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
