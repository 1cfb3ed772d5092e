// Package config reads and writes carcass project files: the globals, the
// boards of one scene and the custom variables bound to them, as YAML.
package config

import (
	"fmt"
	"os"

	"github.com/chazu/carcass/pkg/design"
	"github.com/chazu/carcass/pkg/geometry"
	"github.com/chazu/carcass/pkg/scene"
	"github.com/chazu/carcass/pkg/variable"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk project.
type Config struct {
	Globals scene.Globals `yaml:"globals"`

	// Enclosing is the size adsorption snaps to. Defaults to the globals'
	// width, height and depth.
	Enclosing *scene.Vec3 `yaml:"enclosing,omitempty"`

	Boards    []BoardConfig    `yaml:"boards"`
	Variables []VariableConfig `yaml:"variables,omitempty"`
}

// BoardConfig describes one board. Positions are in centimeters, scale in
// millimeters, rotation in radians.
type BoardConfig struct {
	Name          string      `yaml:"name"`
	ThicknessAxis string      `yaml:"thicknessAxis"`
	Position      scene.Vec3  `yaml:"position"`
	Rotation      scene.Vec3  `yaml:"rotation,omitempty"`
	Scale         scene.Vec3  `yaml:"scale"`
	Geometry      *scene.Vec3 `yaml:"geometry,omitempty"`
}

// VariableConfig describes one custom variable. A variable either lists its
// bindings explicitly, as Save writes them, or names a reference edge with
// Board and Axis and is bound by edge matching on load.
type VariableConfig struct {
	Name        string             `yaml:"name"`
	Value       string             `yaml:"value"`
	Description string             `yaml:"description,omitempty"`
	Board       string             `yaml:"board,omitempty"`
	Axis        string             `yaml:"axis,omitempty"`
	Bindings    []variable.Binding `yaml:"bindings,omitempty"`
}

// Load reads and validates a project file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a project document. A zero panel thickness is
// replaced with scene.DefaultPanelThickness.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if cfg.Globals.PanelThickness == 0 {
		cfg.Globals.PanelThickness = scene.DefaultPanelThickness
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural requirements. Geometric problems such as
// zero globals are left to scene.Validate so they can be reported as
// findings rather than load failures.
func (c *Config) Validate() error {
	if len(c.Boards) == 0 {
		return fmt.Errorf("at least one board must be defined")
	}
	names := make(map[string]bool, len(c.Boards))
	for i, b := range c.Boards {
		if b.Name == "" {
			return fmt.Errorf("boards[%d].name is required", i)
		}
		if names[b.Name] {
			return fmt.Errorf("boards[%d].name %q is not unique", i, b.Name)
		}
		names[b.Name] = true
		if _, err := scene.ParseAxis(b.ThicknessAxis); err != nil {
			return fmt.Errorf("boards[%d].thicknessAxis for %s: %w", i, b.Name, err)
		}
	}

	vars := make(map[string]bool, len(c.Variables))
	for i, v := range c.Variables {
		if v.Name == "" {
			return fmt.Errorf("variables[%d].name is required", i)
		}
		if vars[v.Name] {
			return fmt.Errorf("variables[%d].name %q is not unique", i, v.Name)
		}
		vars[v.Name] = true
		if len(v.Bindings) > 0 {
			continue
		}
		if !names[v.Board] {
			return fmt.Errorf("variables[%d].board %q for %s is not a board", i, v.Board, v.Name)
		}
		if _, err := scene.ParseAxis(v.Axis); err != nil {
			return fmt.Errorf("variables[%d].axis for %s: %w", i, v.Name, err)
		}
	}
	return nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Scene builds the scene described by c, in board order.
func (c *Config) Scene() *scene.Scene {
	s := scene.New()
	for _, bc := range c.Boards {
		axis, _ := scene.ParseAxis(bc.ThicknessAxis)
		b := scene.NewBoard(bc.Name, scene.Transform{
			Position: bc.Position,
			Rotation: bc.Rotation,
			Scale:    bc.Scale,
		}, axis)
		if bc.Geometry != nil {
			b.Geometry = *bc.Geometry
			b.OriginalSize = b.LocalSize()
		}
		s.AddBoard(b)
	}
	if c.Enclosing != nil {
		s.EnclosingSize = *c.Enclosing
	} else {
		s.EnclosingSize = c.Globals.Envelope()
	}
	return s
}

// Session builds a design session over the scene and registers every
// variable, binding reference edges with sizer.
func (c *Config) Session(sizer geometry.Sizer) (*design.Session, error) {
	sess := design.NewSession(c.Scene(), c.Globals, sizer)
	for _, vc := range c.Variables {
		if len(vc.Bindings) > 0 {
			v, err := variable.New(vc.Name, vc.Value, vc.Description, vc.Bindings)
			if err != nil {
				return nil, fmt.Errorf("variable %s: %w", vc.Name, err)
			}
			if err := sess.AddVariable(v); err != nil {
				return nil, fmt.Errorf("variable %s: %w", vc.Name, err)
			}
			continue
		}
		axis, err := scene.ParseAxis(vc.Axis)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", vc.Name, err)
		}
		if _, err := sess.DefineVariable(vc.Name, vc.Value, vc.Description, vc.Board, axis); err != nil {
			return nil, fmt.Errorf("variable %s: %w", vc.Name, err)
		}
	}
	return sess, nil
}

// FromSession captures the current state of sess. Variables are written
// with explicit bindings so reloading does not re-run edge matching.
func FromSession(sess *design.Session) *Config {
	s := sess.Scene()
	cfg := &Config{Globals: sess.Globals()}
	enclosing := s.EnclosingSize
	cfg.Enclosing = &enclosing

	for _, b := range s.Boards() {
		bc := BoardConfig{
			Name:          b.Name,
			ThicknessAxis: b.ThicknessAxis.String(),
			Position:      b.Transform.Position,
			Rotation:      b.Transform.Rotation,
			Scale:         b.Transform.Scale,
		}
		if b.Geometry != scene.UnitGeometry && !b.Geometry.IsZero() {
			g := b.Geometry
			bc.Geometry = &g
		}
		cfg.Boards = append(cfg.Boards, bc)
	}
	for _, v := range sess.Variables() {
		cfg.Variables = append(cfg.Variables, VariableConfig{
			Name:        v.Name,
			Value:       v.Value,
			Description: v.Description,
			Bindings:    v.Bindings,
		})
	}
	return cfg
}
