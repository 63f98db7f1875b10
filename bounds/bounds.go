// Package bounds computes the stage bounds of sprites by walking the graph of
// characters they place, composing each placement's matrix on the way.
package bounds

import (
	"strconv"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-swf/geom"
	"badc0de.net/pkg/go-swf/swfxml"
)

// ErrCycle is returned when a sprite places itself, directly or through
// other sprites.
var ErrCycle = errors.New("sprite placement cycle")

// Index is the part of a container's tag index bounds are computed from.
// *swfxml.Index implements it.
type Index interface {
	Placements(id int) ([]swfxml.Placement, bool)
	Shape(id int) (geom.Rectangle, bool)
}

// Group is every matrix one character is placed with inside a sprite.
type Group struct {
	CharacterID int
	Matrices    []geom.Matrix
}

// Extractor computes bounds against one container's index. Computed bounds
// are kept, so an Extractor should not outlive its index.
type Extractor struct {
	index Index

	mu   sync.Mutex
	memo map[int]*geom.Rectangle
}

// New returns an extractor reading from index.
func New(index Index) *Extractor {
	return &Extractor{index: index, memo: map[int]*geom.Rectangle{}}
}

// PlaceObjectMatrices returns the characters placed by sprite id, each with
// the matrices of all of its placements. Characters are in order of their
// first placement. ok is false if id is not a sprite.
func (e *Extractor) PlaceObjectMatrices(id int) (groups []Group, ok bool) {
	placements, ok := e.index.Placements(id)
	if !ok {
		return nil, false
	}

	at := map[int]int{}
	for _, p := range placements {
		i, seen := at[p.CharacterID]
		if !seen {
			i = len(groups)
			at[p.CharacterID] = i
			groups = append(groups, Group{CharacterID: p.CharacterID})
		}
		groups[i].Matrices = append(groups[i].Matrices, p.Matrix)
	}
	return groups, true
}

// Dependencies returns the characters sprite id places directly, one entry
// per placement in timeline order. A character placed twice is listed twice.
func (e *Extractor) Dependencies(id int) ([]int, bool) {
	placements, ok := e.index.Placements(id)
	if !ok {
		return nil, false
	}
	deps := make([]int, 0, len(placements))
	for _, p := range placements {
		deps = append(deps, p.CharacterID)
	}
	return deps, true
}

// Bounds returns the smallest rectangle enclosing everything character id
// draws. For a shape this is the shape's own bounds; for a sprite it is the
// union of the bounds of everything it places, each transformed by its
// placement matrix.
//
// ok is false if nothing with geometry is reachable from id. Placed
// characters without geometry, or unknown to the index, are skipped.
func (e *Extractor) Bounds(id int) (r geom.Rectangle, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.bounds(id, nil)
	if err != nil || b == nil {
		return geom.Rectangle{}, false, err
	}
	return *b, true, nil
}

// bounds must be called with e.mu held. path holds the sprites being
// resolved above id.
func (e *Extractor) bounds(id int, path []int) (*geom.Rectangle, error) {
	if r, ok := e.index.Shape(id); ok {
		return &r, nil
	}
	if r, ok := e.memo[id]; ok {
		return r, nil
	}
	for _, p := range path {
		if p == id {
			return nil, errors.Wrapf(ErrCycle, "%s", formatPath(append(path, id)))
		}
	}

	groups, ok := e.PlaceObjectMatrices(id)
	if !ok {
		glog.V(2).Infof("bounds: character %d is neither a shape nor a sprite", id)
		return nil, nil
	}

	path = append(path, id)
	var out *geom.Rectangle
	for _, g := range groups {
		child, err := e.bounds(g.CharacterID, path)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		for _, m := range g.Matrices {
			t := child.Transform(m)
			if out == nil {
				out = &t
				continue
			}
			merged := out.Merge(t)
			out = &merged
		}
	}

	e.memo[id] = out
	return out, nil
}

func formatPath(path []int) string {
	s := make([]string, len(path))
	for i, id := range path {
		s[i] = strconv.Itoa(id)
	}
	return strings.Join(s, " -> ")
}
