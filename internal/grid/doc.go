// Package grid provides evenly spaced grids and interpolation over them.
//
//   - [UniformGridData]: pointer-free grid description
//   - [UniformGrid]: index and bin lookup
//   - [Interp]: linear interpolation of tabulated values
//   - [LogInterp]: interpolation on a grid uniform in log energy
//
// [UniformGrid.Find] requires Front <= v < Back; its callers (such as
// [Interp]) are responsible for the boundary at Back and for values outside
// the grid.
package grid
