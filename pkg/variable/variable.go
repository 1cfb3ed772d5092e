// Package variable holds user-defined design variables and the board edges
// each one drives.
package variable

import (
	"errors"
	"fmt"

	"github.com/chazu/carcass/pkg/scene"
)

// Binding ties a variable to one board edge. InitialValue is the edge's
// measured size when the binding was made and is the baseline for later
// proportional edits. Bindings are never edited; rebind instead.
type Binding struct {
	MeshName     string     `json:"meshName" yaml:"meshName"`
	Axis         scene.Axis `json:"axis" yaml:"axis"`
	InitialValue float64    `json:"initialValue" yaml:"initialValue"`
}

// Edge identifies a board edge independent of any variable.
type Edge struct {
	MeshName string
	Axis     scene.Axis
}

// Edge returns the edge this binding refers to.
func (b Binding) Edge() Edge {
	return Edge{MeshName: b.MeshName, Axis: b.Axis}
}

func (e Edge) String() string {
	return fmt.Sprintf("%s.%s", e.MeshName, e.Axis)
}

// CustomVariable is a named value driving a set of board edges. Value is the
// user's text, a literal or an expression; the registry never evaluates it.
type CustomVariable struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`

	// Provenance of the first bound edge.
	SourceMeshName     string     `json:"sourceMeshName" yaml:"sourceMeshName"`
	SourceAxis         scene.Axis `json:"sourceAxis" yaml:"sourceAxis"`
	SourceInitialValue float64    `json:"sourceInitialValue" yaml:"sourceInitialValue"`

	Description string    `json:"description" yaml:"description"`
	Bindings    []Binding `json:"bindings" yaml:"bindings"` // first is the reference edge
}

var (
	// ErrEmptyName is returned when a variable has no name.
	ErrEmptyName = errors.New("variable: name is empty")

	// ErrNoBindings is returned when a variable would drive no edges.
	ErrNoBindings = errors.New("variable: no bindings")

	// ErrDuplicateBinding is returned when one board appears twice in a
	// variable's bindings.
	ErrDuplicateBinding = errors.New("variable: board bound more than once")
)

// New builds a CustomVariable whose provenance is taken from bindings[0].
func New(name, value, description string, bindings []Binding) (CustomVariable, error) {
	v := CustomVariable{
		Name:        name,
		Value:       value,
		Description: description,
		Bindings:    append([]Binding(nil), bindings...),
	}
	if len(bindings) > 0 {
		v.SourceMeshName = bindings[0].MeshName
		v.SourceAxis = bindings[0].Axis
		v.SourceInitialValue = bindings[0].InitialValue
	}
	if err := v.Validate(); err != nil {
		return CustomVariable{}, err
	}
	return v, nil
}

// Validate checks that v has a name, at least one binding, and binds each
// board at most once.
func (v CustomVariable) Validate() error {
	if v.Name == "" {
		return ErrEmptyName
	}
	if len(v.Bindings) == 0 {
		return fmt.Errorf("%q: %w", v.Name, ErrNoBindings)
	}
	seen := make(map[string]bool, len(v.Bindings))
	for _, b := range v.Bindings {
		if seen[b.MeshName] {
			return fmt.Errorf("%q: %s: %w", v.Name, b.MeshName, ErrDuplicateBinding)
		}
		seen[b.MeshName] = true
	}
	return nil
}
