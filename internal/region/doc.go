// Package region implements the GridRegion algebra: sets of non-overlapping
// axis-aligned boxes over 3-dimensional integer index space, with merge
// (union), subtract, intersect, area and a deterministic iteration order.
//
// All public operations treat a Region as immutable: they return a new
// Region rather than mutating either operand.
package region
