// Package viz renders transport runs in the terminal.
//
// [Model] is a Bubble Tea program that follows a run live through a [Feed]
// observer: bank occupancy, alive tracks and drop counts per step.
// [PlotSteps] draws a stored run's per-step series with asciigraph, and
// [DirectionMap] scatters secondary directions on a braille [Canvas].
//
// # Key Bindings
//
//	Q / Esc - Quit, cancelling the run if it is still going
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
