// Package design ties the core operations together around one scene: edge
// binding, variable definition and propagation, formula synthesis and
// full-size normalization. Shells (desktop, CLI) talk to a Session rather
// than to the individual packages.
package design

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chazu/carcass/pkg/adsorb"
	"github.com/chazu/carcass/pkg/engine"
	"github.com/chazu/carcass/pkg/formula"
	"github.com/chazu/carcass/pkg/geometry"
	"github.com/chazu/carcass/pkg/infer"
	"github.com/chazu/carcass/pkg/scene"
	"github.com/chazu/carcass/pkg/variable"
)

var (
	// ErrUnknownBoard is returned when a board name is not in the scene.
	ErrUnknownBoard = errors.New("design: unknown board")
	// ErrUnknownVariable is returned when a variable name is not registered.
	ErrUnknownVariable = errors.New("design: unknown variable")
	// ErrInvalidGlobals is returned when synthesis is refused because the
	// globals would make formula ratios meaningless.
	ErrInvalidGlobals = errors.New("design: invalid globals")
)

// Session owns a scene, its globals and its variable registry. All methods
// are safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	scene    *scene.Scene
	globals  scene.Globals
	registry *variable.Registry
	sizer    geometry.Sizer
	engine   *engine.Engine
}

// NewSession creates a session over s. A nil sizer means geometry.MatrixSizer.
func NewSession(s *scene.Scene, g scene.Globals, sizer geometry.Sizer) *Session {
	if s == nil {
		s = scene.New()
	}
	if sizer == nil {
		sizer = geometry.MatrixSizer{}
	}
	return &Session{
		scene:    s,
		globals:  g,
		registry: variable.NewRegistry(),
		sizer:    sizer,
		engine:   engine.NewEngine(),
	}
}

// Scene returns the session's scene. Callers must not mutate it while other
// goroutines use the session.
func (s *Session) Scene() *scene.Scene {
	return s.scene
}

// Globals returns the current globals.
func (s *Session) Globals() scene.Globals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globals
}

// SetGlobals replaces the globals. Invalid globals are stored anyway so the
// user can keep editing; the returned findings say what is wrong.
func (s *Session) SetGlobals(g scene.Globals) []scene.ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globals = g
	return scene.ValidateGlobals(g)
}

// Validate checks the globals and every board.
func (s *Session) Validate() scene.ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scene.Validate(s.scene, s.globals)
}

// Bind measures boardName along axis and returns bindings for every board
// edge of the same size, reference first.
func (s *Session) Bind(boardName string, axis scene.Axis) ([]variable.Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bind(boardName, axis)
}

func (s *Session) bind(boardName string, axis scene.Axis) ([]variable.Binding, error) {
	b := s.scene.Lookup(boardName)
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBoard, boardName)
	}
	ref := infer.NewReferenceEdge(b, axis, s.sizer)
	bindings, err := infer.FindAndBindMeshes(ref, s.scene.Boards(), s.sizer)
	if err != nil {
		return nil, fmt.Errorf("binding %s.%s: %w", boardName, axis, err)
	}
	return bindings, nil
}

// DefineVariable binds the edge boardName.axis and its equal-sized peers to
// a new variable and stores it, replacing any variable of the same name.
func (s *Session) DefineVariable(name, value, description, boardName string, axis scene.Axis) (variable.CustomVariable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bindings, err := s.bind(boardName, axis)
	if err != nil {
		return variable.CustomVariable{}, err
	}
	v, err := variable.New(name, value, description, bindings)
	if err != nil {
		return variable.CustomVariable{}, err
	}
	s.registry.Add(v)
	return v, nil
}

// AddVariable stores a fully built variable, replacing any of the same name.
func (s *Session) AddVariable(v variable.CustomVariable) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Add(v)
	return nil
}

// RemoveVariable deletes a variable by name. Removing an absent name is a
// no-op.
func (s *Session) RemoveVariable(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Remove(name)
}

// Variables returns a copy of the registered variables in insertion order.
func (s *Session) Variables() []variable.CustomVariable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Variables()
}

// Conflicts reports board edges driven by more than one variable.
func (s *Session) Conflicts() []variable.Conflict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Conflicts()
}

// Evaluate computes expr against the current globals and variables.
func (s *Session) Evaluate(expr string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluate(expr)
}

func (s *Session) evaluate(expr string) (float64, error) {
	return s.engine.Evaluate(expr, engine.Env{
		Globals:   s.globals,
		Variables: s.registry.Map(),
	})
}

// Synthesize recomputes the formula of every board. It refuses to run when
// validation reports blocking errors and returns the full validation result
// either way.
func (s *Session) Synthesize() (scene.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := scene.Validate(s.scene, s.globals)
	for _, w := range res.Warnings {
		log.Printf("[design] %v", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Printf("[design] %v", e)
		}
		return res, fmt.Errorf("%w: %d errors", ErrInvalidGlobals, len(res.Errors))
	}

	formula.CalculateAll(s.scene.Boards(), s.globals)
	log.Printf("[design] synthesized formulas for %d boards", s.scene.BoardCount())
	return res, nil
}

// Normalize snaps near-full-size boards onto the scene's enclosing size
// using the globals' threshold. It returns the snapped axes per board name.
func (s *Session) Normalize() map[string][]scene.Axis {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapped := make(map[string][]scene.Axis)
	for _, b := range s.scene.Boards() {
		if axes := adsorb.NormalizeBoard(b, s.scene.EnclosingSize, s.globals.Threshold); axes != nil {
			snapped[b.Name] = axes
		}
	}
	if len(snapped) > 0 {
		log.Printf("[design] snapped %d boards to full size", len(snapped))
	}
	return snapped
}
