// Package viz provides a terminal viewer for watching an adaptive
// integration advance.
//
// The viewer is a Bubble Tea program: component traces render as ASCII
// charts while a side panel tracks the step count, rejection count, and
// the stepsize trace on a log scale.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from the initial state
//	Q     - Quit
package viz
