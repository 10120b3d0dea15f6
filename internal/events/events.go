// Package events provides a small synchronous listener registry.
package events

import (
	"fmt"
	"sync"
)

// Type identifies an event.
type Type int

const (
	// RasterChanged carries the new composite (*image.RGBA) of the active capture.
	RasterChanged Type = iota
	// SelectionChanged carries the selected object or wand mask, nil when cleared.
	SelectionChanged
	// ToolChanged carries the new tool.
	ToolChanged
	// Notice carries a user-facing message string.
	Notice
	// CaptureAdded carries the new capture.
	CaptureAdded
	// CaptureRemoved carries the removed capture.
	CaptureRemoved
	// CaptureSwitched carries the newly active capture.
	CaptureSwitched
	// ConfigReloaded carries the reloaded configuration.
	ConfigReloaded
)

var typeNames = []string{
	"raster-changed",
	"selection-changed",
	"tool-changed",
	"notice",
	"capture-added",
	"capture-removed",
	"capture-switched",
	"config-reloaded",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Listener is a callback for events.
type Listener func(data interface{})

// Bus dispatches events to registered listeners in registration order.
// Emit runs listeners on the caller's goroutine.
type Bus struct {
	mu        sync.RWMutex
	listeners map[Type][]Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[Type][]Listener)}
}

// On registers a listener for an event type.
func (b *Bus) On(event Type, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[Type][]Listener)
	}
	b.listeners[event] = append(b.listeners[event], listener)
}

// Emit notifies all listeners of an event.
func (b *Bus) Emit(event Type, data interface{}) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
