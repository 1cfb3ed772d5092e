package scene

import "fmt"

// ValidationSeverity indicates whether a finding blocks formula synthesis or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks synthesis
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Board    string // board name, or empty for scene-level findings
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Board == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] board %q: %s", e.Severity, e.Board, e.Message)
}

// ValidationResult separates blocking errors from advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks the globals and every board in s. It never mutates s.
func Validate(s *Scene, g Globals) ValidationResult {
	var all []ValidationError
	all = append(all, ValidateGlobals(g)...)
	all = append(all, validateNames(s)...)
	all = append(all, validateBoards(s)...)

	var result ValidationResult
	for _, e := range all {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// ValidateGlobals reports non-positive envelope dimensions, which would make
// every formula ratio divide by zero, and an out-of-range threshold.
func ValidateGlobals(g Globals) []ValidationError {
	var errs []ValidationError
	for _, a := range Axes {
		if d := g.Dimension(a); d <= 0 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("global %s is %.4f, must be positive", dimensionName(a), d),
				Severity: SeverityError,
			})
		}
	}
	if g.PanelThickness <= 0 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("panel thickness is %.4f, must be positive", g.PanelThickness),
			Severity: SeverityError,
		})
	}
	if g.Threshold < 0 || g.Threshold > 1 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("threshold %.4f outside [0, 1]", g.Threshold),
			Severity: SeverityError,
		})
	}
	return errs
}

// validateNames warns about unnamed boards, which cannot take part in edge
// matching, and rejects duplicate names, which would make bindings ambiguous.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)
	for _, b := range s.boards {
		if b.Name == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("board %s has no name and cannot be bound", b.ID.Short()),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[b.Name]++
	}
	for name, n := range seen {
		if n > 1 {
			errs = append(errs, ValidationError{
				Board:    name,
				Message:  fmt.Sprintf("name assigned to %d boards", n),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateBoards checks per-board invariants.
func validateBoards(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, b := range s.boards {
		if !b.ThicknessAxis.Valid() {
			errs = append(errs, ValidationError{
				Board:    b.Name,
				Message:  fmt.Sprintf("thickness axis %d is not x, y, or z", int(b.ThicknessAxis)),
				Severity: SeverityError,
			})
		}
		size := b.LocalSize()
		for _, a := range Axes {
			if size.Get(a) <= 0 {
				errs = append(errs, ValidationError{
					Board:    b.Name,
					Message:  fmt.Sprintf("size %s is %.4f, must be positive", a, size.Get(a)),
					Severity: SeverityWarning,
				})
			}
		}
		if b.Transform.IsRotated() {
			errs = append(errs, ValidationError{
				Board:    b.Name,
				Message:  "board is rotated; scale formulas describe local axes",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func dimensionName(a Axis) string {
	switch a {
	case AxisX:
		return "width"
	case AxisY:
		return "height"
	default:
		return "depth"
	}
}
