package variable

import (
	"testing"

	"github.com/chazu/carcass/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shelfVariable(t *testing.T, name, value string, meshes ...string) CustomVariable {
	t.Helper()
	var bindings []Binding
	for _, m := range meshes {
		bindings = append(bindings, Binding{MeshName: m, Axis: scene.AxisX, InitialValue: 564})
	}
	v, err := New(name, value, "shelf width", bindings)
	require.NoError(t, err)
	return v
}

func TestRegistryUpsertAndRemove(t *testing.T) {
	r := NewRegistry()

	r.Add(shelfVariable(t, "Shelf1", "564", "shelf-1"))
	r.Add(shelfVariable(t, "Shelf1", "600", "shelf-1", "shelf-2"))

	require.Equal(t, 1, r.Len())
	got, ok := r.Get("Shelf1")
	require.True(t, ok)
	assert.Equal(t, "600", got.Value)
	assert.Len(t, got.Bindings, 2, "upsert replaces wholesale")

	r.Remove("Shelf1")
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Variables())
}

func TestRegistryRemoveUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Add(shelfVariable(t, "A", "1", "a"))

	r.Remove("missing")
	r.Remove("missing")

	assert.Equal(t, 1, r.Len())
}

func TestRegistryReplaceKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Add(shelfVariable(t, "A", "1", "a"))
	r.Add(shelfVariable(t, "B", "2", "b"))
	r.Add(shelfVariable(t, "A", "3", "a"))

	vars := r.Variables()
	require.Len(t, vars, 2)
	assert.Equal(t, "A", vars[0].Name)
	assert.Equal(t, "3", vars[0].Value)
	assert.Equal(t, "B", vars[1].Name)
}

func TestRegistryMap(t *testing.T) {
	r := NewRegistry()
	r.Add(shelfVariable(t, "A", "100", "a"))
	r.Add(shelfVariable(t, "B", "A / 2", "b"))

	assert.Equal(t, map[string]string{"A": "100", "B": "A / 2"}, r.Map())
}

func TestRegistryVariablesIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Add(shelfVariable(t, "A", "1", "a"))

	vars := r.Variables()
	vars[0].Value = "changed"

	got, _ := r.Get("A")
	assert.Equal(t, "1", got.Value)
}

func TestNewFillsProvenance(t *testing.T) {
	bindings := []Binding{
		{MeshName: "left", Axis: scene.AxisY, InitialValue: 720},
		{MeshName: "right", Axis: scene.AxisY, InitialValue: 720.0004},
	}
	v, err := New("SideHeight", "720", "", bindings)
	require.NoError(t, err)

	assert.Equal(t, "left", v.SourceMeshName)
	assert.Equal(t, scene.AxisY, v.SourceAxis)
	assert.Equal(t, 720.0, v.SourceInitialValue)

	bindings[0].MeshName = "mutated"
	assert.Equal(t, "left", v.Bindings[0].MeshName, "New copies the bindings")
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := New("", "1", "", []Binding{{MeshName: "a"}})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = New("A", "1", "", nil)
	assert.ErrorIs(t, err, ErrNoBindings)

	_, err = New("A", "1", "", []Binding{{MeshName: "a"}, {MeshName: "a", Axis: scene.AxisY}})
	assert.ErrorIs(t, err, ErrDuplicateBinding)
}

func TestConflicts(t *testing.T) {
	r := NewRegistry()
	r.Add(shelfVariable(t, "Inner", "564", "shelf-1", "shelf-2"))
	r.Add(shelfVariable(t, "Top", "600", "top", "shelf-2"))
	r.Add(shelfVariable(t, "Other", "600", "shelf-1"))

	conflicts := r.Conflicts()
	require.Len(t, conflicts, 2)

	assert.Equal(t, Edge{MeshName: "shelf-1", Axis: scene.AxisX}, conflicts[0].Edge)
	assert.Equal(t, []string{"Inner", "Other"}, conflicts[0].Variables)

	assert.Equal(t, Edge{MeshName: "shelf-2", Axis: scene.AxisX}, conflicts[1].Edge)
	assert.Equal(t, []string{"Inner", "Top"}, conflicts[1].Variables)
}

func TestConflictsDifferentAxesDoNotConflict(t *testing.T) {
	r := NewRegistry()
	a, err := New("W", "1", "", []Binding{{MeshName: "door", Axis: scene.AxisX}})
	require.NoError(t, err)
	b, err := New("H", "1", "", []Binding{{MeshName: "door", Axis: scene.AxisY}})
	require.NoError(t, err)
	r.Add(a)
	r.Add(b)

	assert.Empty(t, r.Conflicts())
}

func TestEdgeString(t *testing.T) {
	assert.Equal(t, "left.y", Edge{MeshName: "left", Axis: scene.AxisY}.String())
}
