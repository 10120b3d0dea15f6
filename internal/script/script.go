// Package script reads YAML gesture scripts and replays them against a
// session, so edits can be reproduced without a window.
//
// A script lists the captures to open and a sequence of steps. Each step
// does exactly one thing:
//
//	captures: [a.png, b.png]
//	steps:
//	  - tool: pen
//	  - style: {color: "#ff0000", thickness: 4}
//	  - down: [10, 10]
//	  - move: [40, 40]
//	  - up: [80, 20]
//	  - action: undo
//	  - switch: 1
//	  - text: "hello"
//	  - shape: {type: arrow, from: [0, 0], to: [100, 0]}
package script

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"snapedit/internal/editor"
	"snapedit/internal/layers"
	"snapedit/pkg/colorutil"
	"snapedit/pkg/geometry"
)

// Script is a parsed replay script.
type Script struct {
	Captures []string `yaml:"captures"`
	Steps    []Step   `yaml:"steps"`

	// Dir is the directory relative capture paths are resolved against.
	Dir string `yaml:"-"`
}

// Point is an [x, y] pair in capture pixels.
type Point []float64

// Geometry converts p to a geometry point.
func (p Point) Geometry() geometry.Point2D {
	return geometry.Point2D{X: p[0], Y: p[1]}
}

// StyleStep overrides parts of the active tool's style. Unset fields keep
// their current value.
type StyleStep struct {
	Color       *string  `yaml:"color"`
	Opacity     *float64 `yaml:"opacity"`
	Thickness   *float64 `yaml:"thickness"`
	Fill        *bool    `yaml:"fill"`
	FillOpacity *float64 `yaml:"fill_opacity"`
}

// FontStep overrides parts of the text font.
type FontStep struct {
	Size      *float64 `yaml:"size"`
	Shadow    *bool    `yaml:"shadow"`
	Underline *bool    `yaml:"underline"`
}

// ShapeStep adds a shape layer directly, without a drag.
type ShapeStep struct {
	Type string `yaml:"type"`
	From Point  `yaml:"from"`
	To   Point  `yaml:"to"`
}

// Step is one scripted operation.
type Step struct {
	Tool   string     `yaml:"tool,omitempty"`
	Style  *StyleStep `yaml:"style,omitempty"`
	Font   *FontStep  `yaml:"font,omitempty"`
	Down   Point      `yaml:"down,omitempty"`
	Move   Point      `yaml:"move,omitempty"`
	Up     Point      `yaml:"up,omitempty"`
	Cancel bool       `yaml:"cancel,omitempty"`
	Action string     `yaml:"action,omitempty"`
	Switch *int       `yaml:"switch,omitempty"`
	Text   *string    `yaml:"text,omitempty"`
	Shape  *ShapeStep `yaml:"shape,omitempty"`
}

// Actions lists the names accepted by the action step.
var Actions = []string{
	"undo", "redo", "confirm", "delete", "reset", "rotate",
	"flip-h", "flip-v", "crop", "mosaic-selection", "clear-selection",
}

// Kind names the operation the step performs, or "" for an empty step.
func (s Step) Kind() string {
	kinds := s.kinds()
	if len(kinds) != 1 {
		return strings.Join(kinds, "+")
	}
	return kinds[0]
}

func (s Step) kinds() []string {
	var k []string
	if s.Tool != "" {
		k = append(k, "tool")
	}
	if s.Style != nil {
		k = append(k, "style")
	}
	if s.Font != nil {
		k = append(k, "font")
	}
	if s.Down != nil {
		k = append(k, "down")
	}
	if s.Move != nil {
		k = append(k, "move")
	}
	if s.Up != nil {
		k = append(k, "up")
	}
	if s.Cancel {
		k = append(k, "cancel")
	}
	if s.Action != "" {
		k = append(k, "action")
	}
	if s.Switch != nil {
		k = append(k, "switch")
	}
	if s.Text != nil {
		k = append(k, "text")
	}
	if s.Shape != nil {
		k = append(k, "shape")
	}
	return k
}

// Validate checks that the step does exactly one well-formed thing.
func (s Step) Validate() error {
	kinds := s.kinds()
	switch len(kinds) {
	case 0:
		return fmt.Errorf("empty step")
	case 1:
	default:
		return fmt.Errorf("step combines %s", strings.Join(kinds, ", "))
	}

	switch kinds[0] {
	case "tool":
		if _, err := editor.ParseTool(s.Tool); err != nil {
			return err
		}
	case "style":
		if s.Style.Color != nil {
			if _, err := colorutil.ParseHex(*s.Style.Color); err != nil {
				return err
			}
		}
		if o := s.Style.Opacity; o != nil && (*o < 0 || *o > 1) {
			return fmt.Errorf("opacity %g out of range 0-1", *o)
		}
		if th := s.Style.Thickness; th != nil && *th <= 0 {
			return fmt.Errorf("thickness must be positive, got %g", *th)
		}
		if o := s.Style.FillOpacity; o != nil && (*o < 0 || *o > 1) {
			return fmt.Errorf("fill_opacity %g out of range 0-1", *o)
		}
	case "font":
		if sz := s.Font.Size; sz != nil && *sz < 1 {
			return fmt.Errorf("font size must be at least 1, got %g", *sz)
		}
	case "down":
		return checkPoint("down", s.Down)
	case "move":
		return checkPoint("move", s.Move)
	case "up":
		return checkPoint("up", s.Up)
	case "action":
		for _, a := range Actions {
			if a == s.Action {
				return nil
			}
		}
		return fmt.Errorf("unknown action %q", s.Action)
	case "switch":
		if *s.Switch < 0 {
			return fmt.Errorf("capture index must not be negative, got %d", *s.Switch)
		}
	case "shape":
		if _, err := layers.ParseShapeType(s.Shape.Type); err != nil {
			return err
		}
		if err := checkPoint("from", s.Shape.From); err != nil {
			return err
		}
		return checkPoint("to", s.Shape.To)
	}
	return nil
}

func checkPoint(name string, p Point) error {
	if len(p) != 2 {
		return fmt.Errorf("%s needs [x, y], got %d values", name, len(p))
	}
	return nil
}

// Parse reads a script. Unknown keys are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Script
	if err := dec.Decode(&sc); err != nil {
		if err == io.EOF {
			return &sc, nil
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range sc.Steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

// Load reads the script at path. Capture paths in it are resolved relative
// to the script's directory.
func Load(path string) (*Script, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	sc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Dir = filepath.Dir(expanded)
	return sc, nil
}

// CapturePaths returns the script's capture paths with ~ expanded and
// relative paths joined to Dir.
func (sc *Script) CapturePaths() ([]string, error) {
	paths := make([]string, 0, len(sc.Captures))
	for _, p := range sc.Captures {
		expanded, err := homedir.Expand(p)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", p, err)
		}
		if !filepath.IsAbs(expanded) && sc.Dir != "" {
			expanded = filepath.Join(sc.Dir, expanded)
		}
		paths = append(paths, expanded)
	}
	return paths, nil
}
