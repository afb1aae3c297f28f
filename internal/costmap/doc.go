// Package costmap owns the 2D traversal-cost grid used by the global
// planner.
//
// Responsibilities: cell cost storage, world<->grid coordinate conversion,
// obstacle inflation (Smudge), and obstacle clearance queries.
// Key types: Grid, Cell, ClearanceIndex.
//
// A Grid is produced externally (by a mapping pipeline) and handed to the
// planner per request. Nothing in this package mutates a source grid after
// construction: Smudge returns a transformed copy, so concurrent readers of
// the source stay safe.
package costmap
