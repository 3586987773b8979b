// Package viz draws the orrery in a terminal.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [Model]: the watch application driving a sim.Simulator each tick
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Camera]: top-down or tilted projection of ecliptic coordinates
//   - [PlotSeries]: asciigraph line charts for recorded series
//
// # Key Bindings
//
//	Space - Pause/Resume the clock
//	+ -   - Scale step up/down (10^n simulated seconds per second)
//	1-7   - Scale presets, realtime to year per second
//	R     - Reverse time
//	E / N - Jump to J2000 / to the current wall time
//	Tab   - Follow the next planet
//	Z / X - Zoom in/out
//	Up/Dn - Tilt the view out of the ecliptic
//	B     - Toggle the asteroid belt
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
