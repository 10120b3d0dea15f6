// Package app holds the session: the open captures, which one is active,
// and the single editor working on it.
package app

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"snapedit/internal/capture"
	"snapedit/internal/config"
	"snapedit/internal/editor"
	"snapedit/internal/effects"
	"snapedit/internal/events"
	"snapedit/internal/logging"
	"snapedit/pkg/geometry"
)

var (
	// ErrNoCapture is returned when an operation needs an active capture.
	ErrNoCapture = errors.New("no active capture")

	// ErrIndexOutOfRange is returned for capture indices outside the session.
	ErrIndexOutOfRange = errors.New("capture index out of range")
)

// Recognizer extracts text from an image region.
type Recognizer interface {
	Recognize(img image.Image) (string, error)
}

type queued struct {
	event events.Type
	data  interface{}
}

// State is the editing session.
//
// All access to the editor goes through State, which serializes it. Events
// raised while the lock is held are queued and delivered to listeners after
// it is released, so listeners may call back into State.
type State struct {
	mu sync.RWMutex

	cfg      *config.Config
	settings editor.Settings
	editor   *editor.Session

	captures    []*capture.Capture
	activeIndex int

	recognizer Recognizer
	watcher    *config.Watcher

	bus     *events.Bus
	pending []queued
}

// NewState creates an empty session configured by cfg. A nil cfg uses the
// defaults.
func NewState(cfg *config.Config) (*State, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	settings, err := cfg.EditorSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to apply config: %w", err)
	}

	s := &State{
		cfg:         cfg,
		settings:    settings,
		activeIndex: -1,
		bus:         events.NewBus(),
	}

	inner := events.NewBus()
	for _, ev := range []events.Type{events.RasterChanged, events.SelectionChanged, events.ToolChanged, events.Notice} {
		ev := ev
		inner.On(ev, func(data interface{}) { s.queue(ev, data) })
	}
	s.editor = editor.New(inner, settings)
	return s, nil
}

// On registers an event listener for the specified event type.
func (s *State) On(event events.Type, listener events.Listener) {
	s.bus.On(event, listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event events.Type, data interface{}) {
	s.bus.Emit(event, data)
}

// queue holds an event until the lock is released. Callers hold s.mu.
func (s *State) queue(event events.Type, data interface{}) {
	s.pending = append(s.pending, queued{event, data})
}

// unlock releases the write lock and delivers queued events.
func (s *State) unlock() {
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, q := range pending {
		s.bus.Emit(q.event, q.data)
	}
}

// Do runs fn with exclusive access to the editor.
func (s *State) Do(fn func(ed *editor.Session) error) error {
	s.mu.Lock()
	defer s.unlock()
	return fn(s.editor)
}

// Config returns the active configuration.
func (s *State) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetRecognizer installs the OCR engine used by RecognizeText.
func (s *State) SetRecognizer(r Recognizer) {
	s.mu.Lock()
	defer s.unlock()
	s.recognizer = r
}

// AddCapture adds an image to the session and makes it active.
func (s *State) AddCapture(img image.Image, name string) (*capture.Capture, error) {
	c, err := capture.New(img, name)
	if err != nil {
		return nil, err
	}
	return c, s.add(c)
}

// OpenFile loads an image file into the session and makes it active.
func (s *State) OpenFile(path string) (*capture.Capture, error) {
	c, err := capture.Load(path)
	if err != nil {
		return nil, err
	}
	return c, s.add(c)
}

func (s *State) add(c *capture.Capture) error {
	s.mu.Lock()
	defer s.unlock()

	c.SetHistoryLimit(s.cfg.History.Limit)
	s.captures = append(s.captures, c)
	s.queue(events.CaptureAdded, c)
	logging.Logger().Info("capture added", "name", c.Name, "size", c.Bounds().Size(), "count", len(s.captures))
	return s.switchTo(len(s.captures) - 1)
}

// RemoveCapture closes the capture at index i. When it was active the
// next capture, or the previous one at the end of the list, becomes active.
func (s *State) RemoveCapture(i int) error {
	s.mu.Lock()
	defer s.unlock()

	if i < 0 || i >= len(s.captures) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.captures))
	}
	removed := s.captures[i]
	wasActive := i == s.activeIndex
	if wasActive {
		if err := s.editor.Detach(); err != nil {
			return err
		}
		s.activeIndex = -1
	}
	s.captures = append(s.captures[:i], s.captures[i+1:]...)
	s.queue(events.CaptureRemoved, removed)
	logging.Logger().Info("capture removed", "name", removed.Name, "count", len(s.captures))

	switch {
	case !wasActive && i < s.activeIndex:
		s.activeIndex--
	case wasActive && len(s.captures) > 0:
		next := i
		if next >= len(s.captures) {
			next = len(s.captures) - 1
		}
		return s.switchTo(next)
	}
	return nil
}

// SwitchTo makes capture i active. The outgoing capture keeps its layers
// and base; the incoming one starts with empty undo stacks unless
// session.keep_history is set.
func (s *State) SwitchTo(i int) error {
	s.mu.Lock()
	defer s.unlock()
	if i == s.activeIndex {
		return nil
	}
	return s.switchTo(i)
}

// switchTo does the work of SwitchTo. Callers hold s.mu.
func (s *State) switchTo(i int) error {
	if i < 0 || i >= len(s.captures) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.captures))
	}
	if err := s.editor.Detach(); err != nil {
		return fmt.Errorf("failed to leave capture: %w", err)
	}

	c := s.captures[i]
	s.activeIndex = i
	if !s.cfg.Session.KeepHistory {
		c.History().Clear()
	}
	if err := s.editor.Attach(c); err != nil {
		return fmt.Errorf("failed to switch to %q: %w", c.Name, err)
	}
	s.queue(events.CaptureSwitched, c)
	logging.Logger().Debug("capture switched", "index", i, "name", c.Name)
	return nil
}

// Active returns the active capture and its index, or nil and -1.
func (s *State) Active() (*capture.Capture, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeIndex < 0 {
		return nil, -1
	}
	return s.captures[s.activeIndex], s.activeIndex
}

// Captures returns the open captures in order.
func (s *State) Captures() []*capture.Capture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*capture.Capture(nil), s.captures...)
}

// Count returns the number of open captures.
func (s *State) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.captures)
}

// Current returns the published composite of the active capture.
func (s *State) Current() (*image.RGBA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeIndex < 0 {
		return nil, ErrNoCapture
	}
	return s.captures[s.activeIndex].Current(), nil
}

// Thumbnails returns a scaled copy of every capture's composite, in order.
// A height of 0 uses session.thumbnail_height.
func (s *State) Thumbnails(height int) []*image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if height <= 0 {
		height = s.cfg.Session.ThumbnailHeight
	}
	if height <= 0 {
		height = effects.DefaultThumbnailHeight
	}
	out := make([]*image.RGBA, len(s.captures))
	for i, c := range s.captures {
		out[i] = c.Thumbnail(height)
	}
	return out
}

// RecognizeText runs OCR over a region of the active capture's composite.
func (s *State) RecognizeText(rect geometry.Rect) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeIndex < 0 {
		return "", ErrNoCapture
	}
	if s.recognizer == nil {
		return "", fmt.Errorf("text recognition is not available")
	}
	region, err := effects.Crop(s.captures[s.activeIndex].Current(), rect.Image())
	if err != nil {
		return "", fmt.Errorf("failed to extract region: %w", err)
	}
	text, err := s.recognizer.Recognize(region)
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}
	return text, nil
}

// ApplyConfig replaces the configuration. Tool defaults take effect at
// once; history limits apply to captures opened afterwards.
func (s *State) ApplyConfig(cfg *config.Config) error {
	settings, err := cfg.EditorSettings()
	if err != nil {
		return fmt.Errorf("failed to apply config: %w", err)
	}

	s.mu.Lock()
	defer s.unlock()
	s.cfg = cfg
	s.settings = settings
	s.editor.SetSettings(settings)
	if level, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		logging.SetLevel(level)
	}
	s.queue(events.ConfigReloaded, cfg)
	return nil
}

// WatchConfig reloads the configuration whenever path changes.
func (s *State) WatchConfig(path string) error {
	w, err := config.NewWatcher(path)
	if err != nil {
		return err
	}
	w.OnReload(func(cfg *config.Config) {
		if err := s.ApplyConfig(cfg); err != nil {
			logging.Logger().Warn("config not applied", "err", err)
		}
	})

	s.mu.Lock()
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.watcher = w
	s.mu.Unlock()

	w.Start()
	return nil
}

// Close stops the config watcher and stores the active capture's edits.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.unlock()
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
	return s.editor.Persist()
}
