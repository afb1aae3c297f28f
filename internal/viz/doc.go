// Package viz is the fire-and-forget visualization side-channel.
//
// Components publish named drawables (Vector, Path, *costmap.Grid) onto a
// lazily-created broadcast Bus. Publishing never blocks: a slow or absent
// consumer drops events rather than stalling planning. The Emitter type is
// embedded by anything that wants a vis hook; until someone calls Stream()
// its Vis calls are no-ops.
package viz
