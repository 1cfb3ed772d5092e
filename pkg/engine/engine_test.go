package engine

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/carcass/pkg/scene"
)

var cabinet = scene.Globals{Width: 600, Height: 720, Depth: 560, PanelThickness: 18}

func TestEvaluateFormulas(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"#W", 600},
		{"#H * 0.5", 360},
		{"#D * 0.25", 140},
		{"#BT", 18},
		{"#W * 0.485 - (#BT / 2)", 600*0.485 - 9},
		{"#W * -0.485 + (#BT / 2)", -600*0.485 + 9},
		{"1 / 2", 0.5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 4 - 3", 3},
		{"-(#BT)", -18},
		{"--3", 3},
		{".5 + 1.", 1.5},
	}
	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := eng.Evaluate(tt.expr, Env{Globals: cabinet})
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateVariables(t *testing.T) {
	env := Env{
		Globals: cabinet,
		Variables: map[string]string{
			"inner":   "#W - 2 * #BT",
			"shelf":   "inner - 2",
			"drawer":  "shelf / 2",
			"柜宽":      "#W",
			"unused":  "nope + 1",
			"literal": "350",
		},
	}
	tests := []struct {
		expr string
		want float64
	}{
		{"inner", 564},
		{"shelf", 562},
		{"drawer + shelf", 281 + 562},
		{"柜宽 / 2", 300},
		{"literal", 350},
	}
	eng := NewEngine()
	for _, tt := range tests {
		got, err := eng.Evaluate(tt.expr, env)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", tt.expr, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateUndefinedVariable(t *testing.T) {
	_, err := NewEngine().Evaluate("shelf * 2", Env{Globals: cabinet})
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
	if !strings.Contains(err.Error(), "shelf") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestEvaluateCycle(t *testing.T) {
	env := Env{
		Globals:   cabinet,
		Variables: map[string]string{"a": "b + 1", "b": "c", "c": "a * 2", "self": "self"},
	}
	for _, expr := range []string{"a", "c + 1", "self"} {
		_, err := NewEngine().Evaluate(expr, env)
		if !errors.Is(err, ErrCycle) {
			t.Errorf("Evaluate(%q): expected ErrCycle, got %v", expr, err)
		}
	}
}

func TestEvaluateSyntaxErrors(t *testing.T) {
	tests := []struct {
		expr    string
		wantCol int
	}{
		{"", 0},
		{"   ", 0},
		{"#W *", 5},
		{"(#W", 4},
		{"#W)", 3},
		{"#X", 1},
		{"1.2.3", 4},
		{"#W % 2", 4},
		{"* 2", 1},
		{".", 1},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := NewEngine().Evaluate(tt.expr, Env{Globals: cabinet})
			var ee EvalError
			if !errors.As(err, &ee) {
				t.Fatalf("expected EvalError, got %T %v", err, err)
			}
			if ee.Col != tt.wantCol {
				t.Errorf("col = %d, want %d (%v)", ee.Col, tt.wantCol, ee)
			}
		})
	}
}

func TestEvaluateVariableSyntaxErrorNamesVariable(t *testing.T) {
	env := Env{Globals: cabinet, Variables: map[string]string{"shelf": "#W *"}}
	_, err := NewEngine().Evaluate("shelf", env)
	var ee EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EvalError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "variable shelf:") {
		t.Errorf("error = %q", err)
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	_, err := NewEngine().Evaluate("#W / 0", Env{Globals: cabinet})
	if err == nil {
		t.Fatal("expected an error for division by zero")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	env := Env{Globals: cabinet, Variables: map[string]string{"x": "#W * 0.333"}}
	first, err := eng.Evaluate("x + #BT", env)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := eng.Evaluate("x + #BT", env)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("run %d = %v, want %v", i, got, first)
		}
	}
}

func TestCompile(t *testing.T) {
	env := Env{
		Globals:   scene.Globals{Width: 600, Height: 720, Depth: -1, PanelThickness: 18.5},
		Variables: map[string]string{"a": "#W / 2", "b": "a + a"},
	}
	got, err := Compile("b - 1", env)
	if err != nil {
		t.Fatal(err)
	}
	want := "(def gW 600.0)\n" +
		"(def gH 720.0)\n" +
		"(def gD (- 0.0 1.0))\n" +
		"(def gBT 18.5)\n" +
		"(def v0 (/ gW 2.0))\n" +
		"(def v1 (+ v0 v0))\n" +
		"(- v1 1.0)\n"
	if got != want {
		t.Errorf("Compile =\n%s\nwant\n%s", got, want)
	}
}

func TestEvalErrorFormat(t *testing.T) {
	tests := []struct {
		err  EvalError
		want string
	}{
		{EvalError{Line: 3, Message: "bad"}, "line 3: bad"},
		{EvalError{Col: 7, Message: "bad"}, "col 7: bad"},
		{EvalError{Message: "bad"}, "bad"},
	}
	for _, tt := range tests {
		var err error = tt.err
		if err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// The interpreter cannot be made to loop from the infix grammar, so the
	// plumbing is exercised directly with a channel that never sends.
	var mu sync.Mutex
	gen := uint64(1)
	ch := make(chan evalResult)

	start := time.Now()
	_, err := waitWithTimeout(ch, 1, 20*time.Millisecond, &mu, &gen)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("unexpected message: %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout took %s", time.Since(start))
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2)

	ch := make(chan evalResult, 1)
	ch <- evalResult{value: 42}

	_, err := waitWithTimeout(ch, 1, time.Second, &mu, &gen)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"line format lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short line format", "line 2: bad", 2, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseZygomysError(errString(tt.msg))
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
