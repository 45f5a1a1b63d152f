package main

import (
	"fmt"
	"strings"

	"region-annotator/internal/app"
	"region-annotator/internal/capture"
	"region-annotator/pkg/geometry"

	"gopkg.in/yaml.v3"
)

// Step actions understood by a replay script.
const (
	ActionTool  = "tool"
	ActionDown  = "down"
	ActionMove  = "move"
	ActionUp    = "up"
	ActionLeave = "leave"
	ActionLabel = "label"
)

// Script is a recorded pointer session. JSON scripts parse too, since JSON
// is valid YAML.
type Script struct {
	Image string `yaml:"image"`
	Steps []Step `yaml:"steps"`
}

// Step is one host event.
type Step struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Button string  `yaml:"button"`
	Tool   string  `yaml:"tool"`
	Text   string  `yaml:"text"`
}

// ParseScript decodes and validates a script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (st Step) validate() error {
	switch strings.ToLower(st.Action) {
	case ActionTool:
		_, err := capture.ParseTool(st.Tool)
		return err
	case ActionDown, ActionUp:
		_, err := parseButton(st.Button)
		return err
	case ActionMove, ActionLeave, ActionLabel:
		return nil
	case "":
		return fmt.Errorf("missing action")
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
}

func (st Step) point() geometry.Point2D {
	return geometry.Point2D{X: st.X, Y: st.Y}
}

// parseButton maps a button name to the engine numbering. Empty means primary.
func parseButton(name string) (capture.Button, error) {
	switch strings.ToLower(name) {
	case "", "primary", "left":
		return capture.ButtonPrimary, nil
	case "middle":
		return capture.ButtonMiddle, nil
	case "secondary", "right":
		return capture.ButtonSecondary, nil
	default:
		return 0, fmt.Errorf("unknown button %q", name)
	}
}

// Run feeds every step into the session in order.
func (s *Script) Run(state *app.State) error {
	for i, step := range s.Steps {
		if err := step.apply(state); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) apply(state *app.State) error {
	switch strings.ToLower(st.Action) {
	case ActionTool:
		tool, err := capture.ParseTool(st.Tool)
		if err != nil {
			return err
		}
		state.SetTool(tool)
	case ActionDown:
		b, err := parseButton(st.Button)
		if err != nil {
			return err
		}
		state.Engine.PointerDown(st.point(), b)
	case ActionUp:
		b, err := parseButton(st.Button)
		if err != nil {
			return err
		}
		state.Engine.PointerUp(st.point(), b)
	case ActionMove:
		state.Engine.PointerMove(st.point())
	case ActionLeave:
		state.Engine.PointerLeave()
	case ActionLabel:
		all := state.Store.All()
		if len(all) == 0 {
			return fmt.Errorf("no annotation to label")
		}
		state.EditAnnotation(all[len(all)-1].ID, st.Text)
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}
