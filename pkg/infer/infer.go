// Package infer finds board edges that share a real-world dimension with a
// user-selected reference edge and turns them into variable bindings.
package infer

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/chazu/carcass/pkg/geometry"
	"github.com/chazu/carcass/pkg/scene"
	"github.com/chazu/carcass/pkg/variable"
)

// Tolerance is the absolute difference below which two edges are the same
// size. It is a fixed epsilon for discrete size matching and is unrelated to
// the proportional threshold used for full-size snapping.
const Tolerance = 0.001

// ErrMissingIdentity is returned when the reference board has no name.
// Board names are the only identity bindings can refer to.
var ErrMissingIdentity = errors.New("infer: reference board has no name")

// ReferenceEdge is the edge the user picked: a board, an axis, and the
// world-space size measured along that axis at selection time.
type ReferenceEdge struct {
	Board *scene.Board
	Axis  scene.Axis
	Value float64
}

// NewReferenceEdge measures b along axis with sizer.
func NewReferenceEdge(b *scene.Board, axis scene.Axis, sizer geometry.Sizer) ReferenceEdge {
	return ReferenceEdge{Board: b, Axis: axis, Value: sizer.WorldSize(b).Get(axis)}
}

// SameSize reports whether a and b differ by strictly less than Tolerance.
func SameSize(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// FindAndBindMeshes scans boards for edges along ref.Axis whose world size
// matches ref.Value and returns one binding per match, reference first, the
// rest in board order. Only ref.Axis is compared. Unnamed candidates are
// skipped with a warning. Geometry is never modified.
func FindAndBindMeshes(ref ReferenceEdge, boards []*scene.Board, sizer geometry.Sizer) ([]variable.Binding, error) {
	if ref.Board == nil || ref.Board.Name == "" {
		log.Printf("[infer] reference board has no name; name it before binding")
		return nil, ErrMissingIdentity
	}
	if !ref.Axis.Valid() {
		return nil, fmt.Errorf("infer: invalid reference axis %d", int(ref.Axis))
	}

	bindings := []variable.Binding{{
		MeshName:     ref.Board.Name,
		Axis:         ref.Axis,
		InitialValue: sizer.WorldSize(ref.Board).Get(ref.Axis),
	}}

	seen := map[string]bool{ref.Board.Name: true}
	for _, b := range boards {
		if b == nil || b == ref.Board || b.Name == ref.Board.Name {
			continue
		}
		if b.Name == "" {
			log.Printf("[infer] board %s has no name, skipping", b.ID.Short())
			continue
		}
		if seen[b.Name] {
			log.Printf("[infer] board name %q is not unique, skipping board %s", b.Name, b.ID.Short())
			continue
		}

		size := sizer.WorldSize(b).Get(ref.Axis)
		if SameSize(size, ref.Value) {
			bindings = append(bindings, variable.Binding{
				MeshName:     b.Name,
				Axis:         ref.Axis,
				InitialValue: size,
			})
			seen[b.Name] = true
		}
	}

	log.Printf("[infer] %d bindings for %s.%s", len(bindings), ref.Board.Name, ref.Axis)
	return bindings, nil
}
