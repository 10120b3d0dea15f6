package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusEmitOrder(t *testing.T) {
	const changed = SelectionChanged
	var b Bus
	var got []string
	b.On(changed, func(data interface{}) { got = append(got, "a:"+data.(string)) })
	b.On(changed, func(data interface{}) { got = append(got, "b:"+data.(string)) })
	b.On(changed+1, func(interface{}) { got = append(got, "other") })

	b.Emit(changed, "x")
	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestBusListenerMayRegister(t *testing.T) {
	const ev = Notice
	b := NewBus()
	calls := 0
	b.On(ev, func(interface{}) {
		calls++
		b.On(ev, func(interface{}) { calls++ })
	})
	b.Emit(ev, nil)
	assert.Equal(t, 1, calls)
	b.Emit(ev, nil)
	assert.Equal(t, 3, calls)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "capture-switched", CaptureSwitched.String())
	assert.Equal(t, "event(99)", Type(99).String())
}
