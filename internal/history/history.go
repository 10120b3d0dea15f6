// Package history implements linear undo/redo over capture snapshots.
package history

import (
	"errors"
	"fmt"
	"image"

	"snapedit/internal/effects"
	"snapedit/internal/layers"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Frame is a snapshot of a capture's editable state. Frames held by a
// Manager share no memory with the live capture.
type Frame struct {
	Action string
	Base   *image.RGBA
	Layers []*layers.DrawingLayer
}

// NewFrame deep-copies base and list into a frame.
func NewFrame(action string, base *image.RGBA, list []*layers.DrawingLayer) (Frame, error) {
	if base == nil {
		return Frame{}, fmt.Errorf("snapshot %q: nil raster", action)
	}
	copied, err := layers.CloneAll(list)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to snapshot layers for %q: %w", action, err)
	}
	return Frame{Action: action, Base: effects.Clone(base), Layers: copied}, nil
}

// Manager holds the undo and redo stacks of one capture.
type Manager struct {
	undo  []Frame
	redo  []Frame
	limit int
}

// NewManager creates a manager keeping at most limit undo frames.
// A limit of 0 keeps everything.
func NewManager(limit int) *Manager {
	if limit < 0 {
		limit = 0
	}
	return &Manager{limit: limit}
}

// Save records the state before a mutation. It must be called once per
// logical edit, before the edit is applied. Saving clears the redo stack.
func (m *Manager) Save(action string, base *image.RGBA, list []*layers.DrawingLayer) error {
	f, err := NewFrame(action, base, list)
	if err != nil {
		return err
	}
	m.Push(f)
	return nil
}

// Push records an already copied frame. The manager takes ownership of f.
func (m *Manager) Push(f Frame) {
	m.undo = append(m.undo, f)
	if m.limit > 0 && len(m.undo) > m.limit {
		m.undo = append([]Frame(nil), m.undo[len(m.undo)-m.limit:]...)
	}
	m.redo = nil
}

// PeekUndo returns the frame the next Undo restores without popping it.
func (m *Manager) PeekUndo() (Frame, bool) {
	if len(m.undo) == 0 {
		return Frame{}, false
	}
	return m.undo[len(m.undo)-1], true
}

// PeekRedo returns the frame the next Redo restores without popping it.
func (m *Manager) PeekRedo() (Frame, bool) {
	if len(m.redo) == 0 {
		return Frame{}, false
	}
	return m.redo[len(m.redo)-1], true
}

// Undo pops the last frame and pushes the current state onto the redo
// stack. The returned frame is owned by the caller.
func (m *Manager) Undo(base *image.RGBA, list []*layers.DrawingLayer) (Frame, error) {
	if len(m.undo) == 0 {
		return Frame{}, ErrNothingToUndo
	}
	prev := m.undo[len(m.undo)-1]
	cur, err := NewFrame(prev.Action, base, list)
	if err != nil {
		return Frame{}, err
	}
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, cur)
	return prev, nil
}

// Redo mirrors Undo.
func (m *Manager) Redo(base *image.RGBA, list []*layers.DrawingLayer) (Frame, error) {
	if len(m.redo) == 0 {
		return Frame{}, ErrNothingToRedo
	}
	next := m.redo[len(m.redo)-1]
	cur, err := NewFrame(next.Action, base, list)
	if err != nil {
		return Frame{}, err
	}
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, cur)
	return next, nil
}

// CanUndo reports whether an undo frame is available.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether a redo frame is available.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (m *Manager) Len() (undo, redo int) { return len(m.undo), len(m.redo) }

// UndoAction names the edit the next Undo reverts, or "".
func (m *Manager) UndoAction() string {
	if len(m.undo) == 0 {
		return ""
	}
	return m.undo[len(m.undo)-1].Action
}

// RedoAction names the edit the next Redo reapplies, or "".
func (m *Manager) RedoAction() string {
	if len(m.redo) == 0 {
		return ""
	}
	return m.redo[len(m.redo)-1].Action
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}
