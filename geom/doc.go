// Package geom contains the value types used to lay out placed characters on
// a stage: points, placement matrices and axis-aligned rectangles.
//
// Coordinates are expressed in the container's native sub-units (twips, 1/20
// of a pixel). Matrix scale and rotate/skew components are 16.16 fixed point
// numbers, as stored in the container.
package geom
