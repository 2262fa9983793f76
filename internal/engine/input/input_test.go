package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{
			name:  "quit",
			event: &sdl.QuitEvent{Type: sdl.QUIT},
			want:  Event{Type: EventQuit},
			ok:    true,
		},
		{
			name:  "resize",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
			want:  Event{Type: EventWindowResize, Width: 800, Height: 600},
			ok:    true,
		},
		{
			name:  "focus is ignored",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED},
			ok:    false,
		},
		{
			name:  "key down",
			event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			want:  Event{Type: EventKeyDown, Key: sdl.SCANCODE_W},
			ok:    true,
		},
		{
			name:  "key repeat",
			event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			want:  Event{Type: EventKeyDown, Key: sdl.SCANCODE_W, Repeat: true},
			ok:    true,
		},
		{
			name:  "key up",
			event: &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F}},
			want:  Event{Type: EventKeyUp, Key: sdl.SCANCODE_F},
			ok:    true,
		},
		{
			name:  "motion",
			event: &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: 3, YRel: -4},
			want:  Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, RelX: 3, RelY: -4},
			ok:    true,
		},
		{
			name:  "middle button",
			event: &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_MIDDLE, X: 1, Y: 2},
			want:  Event{Type: EventMouseDown, Button: sdl.BUTTON_MIDDLE, MouseX: 1, MouseY: 2},
			ok:    true,
		},
		{
			name:  "wheel",
			event: &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2},
			want:  Event{Type: EventMouseWheel, WheelY: 2},
			ok:    true,
		},
		{
			name:  "flipped wheel",
			event: &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 1, Direction: sdl.MOUSEWHEEL_FLIPPED},
			want:  Event{Type: EventMouseWheel, WheelY: -1},
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.event)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHeldState(t *testing.T) {
	in := New()

	in.Push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_W})
	in.Push(Event{Type: EventMouseDown, Button: sdl.BUTTON_MIDDLE})
	assert.True(t, in.IsKeyDown(sdl.SCANCODE_W))
	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_W))
	assert.True(t, in.IsButtonDown(sdl.BUTTON_MIDDLE))

	in.Push(Event{Type: EventKeyUp, Key: sdl.SCANCODE_W})
	in.Push(Event{Type: EventMouseUp, Button: sdl.BUTTON_MIDDLE})
	assert.False(t, in.IsKeyDown(sdl.SCANCODE_W))
	assert.False(t, in.IsButtonDown(sdl.BUTTON_MIDDLE))
	assert.Len(t, in.Events(), 4)
}

func TestIsKeyPressedIgnoresRepeats(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_F, Repeat: true})

	assert.False(t, in.IsKeyPressed(sdl.SCANCODE_F))
	assert.True(t, in.IsKeyDown(sdl.SCANCODE_F))
}
