// Package engine evaluates formula and custom-variable expressions.
//
// Expressions use the infix grammar the formula package emits: the global
// symbols #W #H #D #BT, custom variable names, decimal literals, the
// operators * / + - and parentheses. Each expression is compiled to a small
// Lisp program and run in a fresh zygomys sandbox, so user-entered variable
// text never executes with access to the host.
package engine

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/carcass/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

var (
	// ErrUndefined is returned for an identifier that names no variable.
	ErrUndefined = errors.New("undefined variable")
	// ErrCycle is returned when variables refer to each other in a loop.
	ErrCycle = errors.New("variable cycle")
	// ErrNotFinite is returned when an expression evaluates to NaN or ±Inf,
	// typically after a division by zero.
	ErrNotFinite = errors.New("result is not a finite number")
)

// EvalError is a syntax or runtime error in an expression. Col is the
// 1-based byte offset into the expression that failed; Line is set only for
// errors reported by the interpreter.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case e.Col > 0:
		return fmt.Sprintf("col %d: %s", e.Col, e.Message)
	}
	return e.Message
}

// Env supplies the values an expression may refer to. Variables maps a
// custom variable name to its unevaluated expression text.
type Env struct {
	Globals   scene.Globals
	Variables map[string]string
}

// Engine evaluates expressions. It is safe for concurrent use; each call to
// Evaluate creates a fresh sandboxed interpreter.
type Engine struct {
	// Timeout bounds a single evaluation. Zero means EvalTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate computes the numeric value of expr in env.
//
// A newer call supersedes an older one still in flight; the older call then
// returns an error instead of a stale value.
func (e *Engine) Evaluate(expr string, env Env) (float64, error) {
	prog, err := Compile(expr, env)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		v, err := run(prog)
		ch <- evalResult{value: v, err: err}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	return waitWithTimeout(ch, gen, timeout, &e.mu, &e.generation)
}

// run executes a compiled program in a fresh sandbox.
func run(prog string) (float64, error) {
	// Sandbox mode keeps the interpreter away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	if err := env.LoadString(prog); err != nil {
		return 0, parseZygomysError(err)
	}
	res, err := env.Run()
	if err != nil {
		return 0, parseZygomysError(err)
	}

	v, err := toFloat64(res)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts an interpreter error into an EvalError,
// extracting the line number when the message carries one.
func parseZygomysError(err error) EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return EvalError{Line: line, Message: strings.TrimSpace(m[2])}
		}
	}
	return EvalError{Message: strings.TrimSpace(msg)}
}
