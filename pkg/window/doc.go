// Package window implements a windowed pagination controller for very long,
// fixed-extent sequences.
//
// Only one page of items (the window) is ever materialized. The first item of
// a window is placed after a leading margin equal to the height of every page
// before it ([Geometry.BufferOffset]), so the scrollable content keeps the same
// absolute geometry no matter which window is loaded.
//
// The package has three parts:
//
//   - [Geometry]: pure offset arithmetic.
//   - [Store]: slices a [Sequence] into pages.
//   - [Controller]: owns the page index, turns scroll samples into
//     [Transition]s, and hands them to a [Presenter] in two phases (commit the
//     window, then apply the corrective offset).
//
// A [Controller] is single-owner: it never blocks, starts no goroutines, and
// must not be used concurrently.
package window
