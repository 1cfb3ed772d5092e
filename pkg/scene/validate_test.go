package scene

import (
	"strings"
	"testing"
)

func validGlobals() Globals {
	return Globals{Width: 600, Height: 720, Depth: 560, PanelThickness: 18, Threshold: 0.01}
}

func TestValidateCleanScene(t *testing.T) {
	s := New()
	s.AddBoard(NewBoard("top", Transform{Scale: Vec3{600, 18, 560}}, AxisY))
	s.AddBoard(NewBoard("bottom", Transform{Scale: Vec3{600, 18, 560}}, AxisY))

	r := Validate(s, validGlobals())
	if !r.OK() {
		t.Errorf("expected no errors, got %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings)
	}
}

func TestValidateZeroGlobals(t *testing.T) {
	g := validGlobals()
	g.Height = 0
	errs := ValidateGlobals(g)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Message, "height") {
		t.Errorf("message should mention height: %q", errs[0].Message)
	}
	if errs[0].Severity != SeverityError {
		t.Errorf("severity = %v, want error", errs[0].Severity)
	}
}

func TestValidateThresholdRange(t *testing.T) {
	g := validGlobals()
	g.Threshold = 1.5
	if errs := ValidateGlobals(g); len(errs) != 1 {
		t.Errorf("expected threshold error, got %v", errs)
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	s := New()
	s.AddBoard(NewBoard("shelf", Transform{Scale: Vec3{1, 1, 1}}, AxisY))
	s.AddBoard(NewBoard("shelf", Transform{Scale: Vec3{1, 1, 1}}, AxisY))

	r := Validate(s, validGlobals())
	if r.OK() {
		t.Fatal("duplicate names should be a blocking error")
	}
	if r.Errors[0].Board != "shelf" {
		t.Errorf("error board = %q, want shelf", r.Errors[0].Board)
	}
}

func TestValidateUnnamedBoardWarns(t *testing.T) {
	s := New()
	s.AddBoard(NewBoard("", Transform{Scale: Vec3{1, 1, 1}}, AxisY))

	r := Validate(s, validGlobals())
	if !r.OK() {
		t.Errorf("unnamed board should not block: %v", r.Errors)
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", r.Warnings)
	}
}

func TestValidateRotatedBoardWarns(t *testing.T) {
	s := New()
	b := NewBoard("door", Transform{Scale: Vec3{1, 1, 1}}, AxisZ)
	b.Transform.Rotation.Y = 0.5
	s.AddBoard(b)

	r := Validate(s, validGlobals())
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0].Message, "rotated") {
		t.Errorf("expected rotation warning, got %v", r.Warnings)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Board: "top", Message: "bad", Severity: SeverityError}
	if got := e.Error(); got != `[error] board "top": bad` {
		t.Errorf("Error() = %q", got)
	}
	e = ValidationError{Message: "bad", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] bad" {
		t.Errorf("Error() = %q", got)
	}
}
