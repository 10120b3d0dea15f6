package script

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"snapedit/internal/app"
	"snapedit/internal/editor"
	"snapedit/internal/events"
	"snapedit/internal/history"
	"snapedit/internal/layers"
	"snapedit/internal/logging"
	"snapedit/pkg/colorutil"
)

// Runner replays scripts against a session and collects the notices the
// editor raises along the way.
type Runner struct {
	state *app.State

	mu      sync.Mutex
	notices []string
}

// NewRunner creates a runner driving state.
func NewRunner(state *app.State) *Runner {
	r := &Runner{state: state}
	state.On(events.Notice, func(data interface{}) {
		if msg, ok := data.(string); ok {
			r.mu.Lock()
			r.notices = append(r.notices, msg)
			r.mu.Unlock()
		}
	})
	return r
}

// Notices returns the notices raised so far, in order.
func (r *Runner) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// Open loads the script's captures into the session.
func (r *Runner) Open(sc *Script) error {
	paths, err := sc.CapturePaths()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := r.state.OpenFile(p); err != nil {
			return fmt.Errorf("failed to open capture: %w", err)
		}
	}
	return nil
}

// Run executes the script's steps in order, stopping at the first error
// or when ctx is cancelled. Undo and redo with nothing to do are skipped.
func (r *Runner) Run(ctx context.Context, sc *Script) error {
	log := logging.Logger()
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Debug("script step", "n", i+1, "kind", step.Kind())

		err := r.apply(step)
		if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
			log.Info("script step skipped", "n", i+1, "reason", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Kind(), err)
		}
	}
	return nil
}

func (r *Runner) apply(step Step) error {
	if step.Switch != nil {
		return r.state.SwitchTo(*step.Switch)
	}
	return r.state.Do(func(ed *editor.Session) error {
		if ed.Capture() == nil {
			return app.ErrNoCapture
		}
		switch {
		case step.Tool != "":
			t, err := editor.ParseTool(step.Tool)
			if err != nil {
				return err
			}
			return ed.SetTool(t)
		case step.Style != nil:
			return ed.SetStyle(mergeStyle(ed.Style(), step.Style))
		case step.Font != nil:
			return ed.SetFont(mergeFont(ed.Settings().Font, step.Font))
		case step.Down != nil:
			return ed.PointerDown(step.Down.Geometry())
		case step.Move != nil:
			return ed.PointerMove(step.Move.Geometry())
		case step.Up != nil:
			return ed.PointerUp(step.Up.Geometry())
		case step.Cancel:
			return ed.PointerCancel()
		case step.Text != nil:
			ed.SetPendingText(*step.Text)
			return nil
		case step.Shape != nil:
			st, err := layers.ParseShapeType(step.Shape.Type)
			if err != nil {
				return err
			}
			_, err = ed.AddShape(st, step.Shape.From.Geometry(), step.Shape.To.Geometry())
			return err
		case step.Action != "":
			return action(ed, step.Action)
		}
		return fmt.Errorf("empty step")
	})
}

func action(ed *editor.Session, name string) error {
	switch name {
	case "undo":
		return ed.Undo()
	case "redo":
		return ed.Redo()
	case "confirm":
		ed.Confirm()
		return nil
	case "delete":
		return ed.DeleteSelected()
	case "reset":
		return ed.Reset()
	case "rotate":
		return ed.Rotate90()
	case "flip-h":
		return ed.FlipHorizontal()
	case "flip-v":
		return ed.FlipVertical()
	case "crop":
		return ed.ApplyCrop()
	case "mosaic-selection":
		return ed.MosaicSelection()
	case "clear-selection":
		ed.ClearSelection()
		return nil
	}
	return fmt.Errorf("unknown action %q", name)
}

func mergeStyle(s layers.Style, o *StyleStep) layers.Style {
	if o.Color != nil {
		if c, err := colorutil.ParseHex(*o.Color); err == nil {
			s.Color = c
		}
	}
	if o.Opacity != nil {
		s.Color = colorutil.WithOpacity(s.Color, *o.Opacity)
	}
	if o.Thickness != nil {
		s.Thickness = *o.Thickness
	}
	if o.Fill != nil {
		s.Fill = *o.Fill
	}
	if o.FillOpacity != nil {
		s.FillOpacity = *o.FillOpacity
	}
	return s
}

func mergeFont(f layers.TextStyle, o *FontStep) layers.TextStyle {
	if o.Size != nil {
		f.Size = *o.Size
	}
	if o.Shadow != nil {
		f.Shadow = *o.Shadow
	}
	if o.Underline != nil {
		f.Underline = *o.Underline
	}
	return f
}
