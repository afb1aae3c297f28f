// Package navpath owns ordered waypoint sequences.
//
// Responsibilities: the immutable-by-convention Path type (arc length,
// resampling, simplification) and the bounded History ring used for pose
// trails. Path methods never mutate the receiver; History is the one
// in-place type, so a canonical plan is never aliased with a trail view.
package navpath
