// Package tui is a terminal monitor for running the particle simulation
// without a window.
//
// It shows a braille-dot preview of the cloud, projected with the same
// model/view/projection transform the windowed viewer uses, next to live
// statistics and an asciigraph plot of the cloud radius or kinetic energy.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	+ / -  - More/fewer steps per tick
//	Arrows - Orbit the preview (yaw, pitch)
//	G      - Toggle plot between radius and energy
//	Q      - Quit
package tui
