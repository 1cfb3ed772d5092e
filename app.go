package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chazu/carcass/pkg/config"
	"github.com/chazu/carcass/pkg/design"
	"github.com/chazu/carcass/pkg/engine"
	"github.com/chazu/carcass/pkg/geometry"
	"github.com/chazu/carcass/pkg/kernel/sdfx"
	"github.com/chazu/carcass/pkg/scene"
	"github.com/chazu/carcass/pkg/variable"
)

// colorPalette is a default palette used to assign distinct colors to boards.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the backend shared by the desktop shell and the CLI. Its exported
// methods are bound to the frontend by Wails.
type App struct {
	ctx context.Context

	mu      sync.Mutex
	session *design.Session
	sizer   geometry.Sizer
	path    string // project file last loaded or saved
}

// BoardData is the JSON-serializable board sent to the frontend.
type BoardData struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ThicknessAxis string          `json:"thicknessAxis"`
	Transform     scene.Transform `json:"transform"`
	WorldSize     scene.Vec3      `json:"worldSize"`
	Formula       scene.Formula   `json:"formula"`
	Color         string          `json:"color"`
}

// ConflictData is an edge driven by more than one variable.
type ConflictData struct {
	Edge      string   `json:"edge"`
	Variables []string `json:"variables"`
}

// EvalErrorData is a JSON-serializable error or warning for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ProjectState is the full state returned to the frontend after each call.
type ProjectState struct {
	Path      string                    `json:"path"`
	Globals   scene.Globals             `json:"globals"`
	Boards    []BoardData               `json:"boards"`
	Variables []variable.CustomVariable `json:"variables"`
	Conflicts []ConflictData            `json:"conflicts"`
	Errors    []EvalErrorData           `json:"errors"`
	Warnings  []EvalErrorData           `json:"warnings"`
}

// EvalResult is the value of one expression.
type EvalResult struct {
	Value  float64         `json:"value"`
	Errors []EvalErrorData `json:"errors"`
}

// BindResult lists the edges that would be bound from a reference edge.
type BindResult struct {
	Bindings []variable.Binding `json:"bindings"`
	Errors   []EvalErrorData    `json:"errors"`
}

// NewApp creates an App with an empty scene measured by the sdfx kernel.
func NewApp() *App {
	sizer := geometry.NewKernelSizer(sdfx.New())
	return &App{
		sizer:   sizer,
		session: design.NewSession(scene.New(), scene.DefaultGlobals(), sizer),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) current() *design.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// LoadProject replaces the session with the project at path.
func (a *App) LoadProject(path string) ProjectState {
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("[app] load %s: %v", path, err)
		return a.stateWith(err)
	}
	sess, err := cfg.Session(a.sizer)
	if err != nil {
		log.Printf("[app] load %s: %v", path, err)
		return a.stateWith(err)
	}

	a.mu.Lock()
	a.session = sess
	a.path = path
	a.mu.Unlock()

	log.Printf("[app] loaded %s: %d boards, %d variables", path, sess.Scene().BoardCount(), len(sess.Variables()))
	return a.State()
}

// SaveProject writes the session to path, or to the loaded path when path
// is empty.
func (a *App) SaveProject(path string) error {
	a.mu.Lock()
	if path == "" {
		path = a.path
	}
	sess := a.session
	a.mu.Unlock()

	if path == "" {
		return errors.New("no project path")
	}
	if err := config.Save(path, config.FromSession(sess)); err != nil {
		return err
	}

	a.mu.Lock()
	a.path = path
	a.mu.Unlock()
	return nil
}

// State synthesizes formulas when the globals allow it and returns the
// full project state with validation findings.
func (a *App) State() ProjectState {
	return a.stateWith(nil)
}

func (a *App) stateWith(err error) ProjectState {
	sess := a.current()
	a.mu.Lock()
	path := a.path
	a.mu.Unlock()

	state := ProjectState{
		Path:      path,
		Globals:   sess.Globals(),
		Boards:    []BoardData{},
		Variables: sess.Variables(),
		Conflicts: []ConflictData{},
		Errors:    []EvalErrorData{},
		Warnings:  []EvalErrorData{},
	}
	if err != nil {
		state.Errors = append(state.Errors, toErrorData(err))
	}

	// Synthesis errors are already listed in the validation result.
	res, _ := sess.Synthesize()
	for _, e := range res.Errors {
		state.Errors = append(state.Errors, EvalErrorData{Message: e.Error()})
	}
	for _, w := range res.Warnings {
		state.Warnings = append(state.Warnings, EvalErrorData{Message: w.Error()})
	}

	for i, b := range sess.Scene().Boards() {
		state.Boards = append(state.Boards, BoardData{
			ID:            string(b.ID),
			Name:          b.Name,
			ThicknessAxis: b.ThicknessAxis.String(),
			Transform:     b.Transform,
			WorldSize:     a.sizer.WorldSize(b),
			Formula:       b.Formula,
			Color:         colorPalette[i%len(colorPalette)],
		})
	}
	for _, c := range sess.Conflicts() {
		state.Conflicts = append(state.Conflicts, ConflictData{Edge: c.Edge.String(), Variables: c.Variables})
	}
	return state
}

// SetGlobals replaces the global design parameters.
func (a *App) SetGlobals(g scene.Globals) ProjectState {
	a.current().SetGlobals(g)
	return a.State()
}

// BindEdge previews the bindings the reference edge board.axis would create.
func (a *App) BindEdge(board, axis string) BindResult {
	result := BindResult{Bindings: []variable.Binding{}, Errors: []EvalErrorData{}}
	ax, err := scene.ParseAxis(axis)
	if err != nil {
		result.Errors = append(result.Errors, toErrorData(err))
		return result
	}
	bindings, err := a.current().Bind(board, ax)
	if err != nil {
		log.Printf("[app] bind %s.%s: %v", board, axis, err)
		result.Errors = append(result.Errors, toErrorData(err))
		return result
	}
	result.Bindings = bindings
	return result
}

// DefineVariable creates or replaces a variable bound from board.axis.
func (a *App) DefineVariable(name, value, description, board, axis string) ProjectState {
	ax, err := scene.ParseAxis(axis)
	if err != nil {
		return a.stateWith(err)
	}
	if _, err := a.current().DefineVariable(name, value, description, board, ax); err != nil {
		return a.stateWith(err)
	}
	return a.State()
}

// SetVariable changes a variable's value and resizes its bound edges.
func (a *App) SetVariable(name, value string) ProjectState {
	p, err := a.current().SetVariable(name, value)
	if err != nil {
		return a.stateWith(err)
	}
	state := a.State()
	for _, sk := range p.Skipped {
		state.Warnings = append(state.Warnings, EvalErrorData{
			Message: fmt.Sprintf("%s: %s not resized: %s", name, sk.Binding.Edge(), sk.Reason),
		})
	}
	return state
}

// RemoveVariable deletes a variable. Board geometry is left as is.
func (a *App) RemoveVariable(name string) ProjectState {
	a.current().RemoveVariable(name)
	return a.State()
}

// Normalize snaps near-full-size boards onto the enclosing size.
func (a *App) Normalize() ProjectState {
	a.current().Normalize()
	return a.State()
}

// Evaluate computes an expression against the current globals and
// variables.
func (a *App) Evaluate(expr string) EvalResult {
	result := EvalResult{Errors: []EvalErrorData{}}
	v, err := a.current().Evaluate(expr)
	if err != nil {
		result.Errors = append(result.Errors, toErrorData(err))
		return result
	}
	result.Value = v
	return result
}

func toErrorData(err error) EvalErrorData {
	var ee engine.EvalError
	if errors.As(err, &ee) {
		return EvalErrorData{Line: ee.Line, Col: ee.Col, Message: err.Error()}
	}
	return EvalErrorData{Message: err.Error()}
}
