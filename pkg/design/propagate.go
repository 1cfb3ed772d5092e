package design

import (
	"fmt"
	"log"

	"github.com/chazu/carcass/pkg/variable"
)

// Change records one edge resized by a variable update.
type Change struct {
	Binding variable.Binding
	From    float64 // world size before the update
	To      float64
}

// Skip records a bound edge that could not be resized.
type Skip struct {
	Binding variable.Binding
	Reason  string
}

// Propagation is the outcome of applying a variable's value to its edges.
type Propagation struct {
	Variable string
	Value    float64
	Changes  []Change
	Skipped  []Skip
}

// SetVariable stores a new value text for name, evaluates it and resizes
// every bound edge to the result. The value is stored only if it evaluates.
func (s *Session) SetVariable(name, value string) (Propagation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.registry.Get(name)
	if !ok {
		return Propagation{}, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	old := v.Value
	v.Value = value
	s.registry.Add(v)

	p, err := s.apply(v)
	if err != nil {
		v.Value = old
		s.registry.Add(v)
		return Propagation{}, err
	}
	return p, nil
}

// ApplyVariable evaluates the stored value of name and resizes every bound
// edge to the result.
func (s *Session) ApplyVariable(name string) (Propagation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.registry.Get(name)
	if !ok {
		return Propagation{}, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return s.apply(v)
}

// apply resizes each bound edge by scaling the board along the bound axis so
// its world size equals the variable's value. Bound axes are world axes, so
// rotated boards are skipped.
func (s *Session) apply(v variable.CustomVariable) (Propagation, error) {
	target, err := s.evaluate(v.Value)
	if err != nil {
		return Propagation{}, fmt.Errorf("variable %s: %w", v.Name, err)
	}
	if target <= 0 {
		return Propagation{}, fmt.Errorf("variable %s: value %g must be positive", v.Name, target)
	}

	p := Propagation{Variable: v.Name, Value: target}
	for _, bd := range v.Bindings {
		b := s.scene.Lookup(bd.MeshName)
		switch {
		case b == nil:
			p.Skipped = append(p.Skipped, Skip{Binding: bd, Reason: "board not in scene"})
			continue
		case b.Transform.IsRotated():
			p.Skipped = append(p.Skipped, Skip{Binding: bd, Reason: "board is rotated"})
			continue
		}

		from := s.sizer.WorldSize(b).Get(bd.Axis)
		if from == 0 {
			p.Skipped = append(p.Skipped, Skip{Binding: bd, Reason: "edge has zero size"})
			continue
		}
		scale := b.Transform.Scale.Get(bd.Axis)
		b.Transform.Scale.Set(bd.Axis, scale*target/from)
		to := s.sizer.WorldSize(b).Get(bd.Axis)

		if to != from {
			p.Changes = append(p.Changes, Change{Binding: bd, From: from, To: to})
		}
	}

	for _, sk := range p.Skipped {
		log.Printf("[design] %s: skipping %s: %s", v.Name, sk.Binding.Edge(), sk.Reason)
	}
	log.Printf("[design] %s = %g resized %d edges", v.Name, target, len(p.Changes))
	return p, nil
}
