package sdl

import (
	"testing"

	"github.com/mnafees/c8core/internal"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

func TestKeymapCoversKeypad(t *testing.T) {
	codes := []sdl.Scancode{
		sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3, sdl.SCANCODE_4,
		sdl.SCANCODE_Q, sdl.SCANCODE_W, sdl.SCANCODE_E, sdl.SCANCODE_R,
		sdl.SCANCODE_A, sdl.SCANCODE_S, sdl.SCANCODE_D, sdl.SCANCODE_F,
		sdl.SCANCODE_Z, sdl.SCANCODE_X, sdl.SCANCODE_C, sdl.SCANCODE_V,
	}

	var seen [internal.KeyCount]bool
	for _, code := range codes {
		key := keymap(code)
		assert.True(t, key >= 0 && key < internal.KeyCount)
		assert.False(t, seen[key], "keypad key mapped twice")
		seen[key] = true
	}
	assert.Equal(t, int8(-1), keymap(sdl.SCANCODE_P))
}

func TestSetKey(t *testing.T) {
	vm := internal.NewC8VM()
	io := NewIO(vm, Config{PixelSize: 1}, log.NewTestLogger(t))

	io.setKey(sdl.SCANCODE_V, true)
	assert.True(t, vm.Key(0xF))
	io.setKey(sdl.SCANCODE_V, false)
	assert.False(t, vm.Key(0xF))

	io.setKey(sdl.SCANCODE_P, true)
	for i := uint8(0); i < internal.KeyCount; i++ {
		assert.False(t, vm.Key(i))
	}
}

func TestBeepWithoutAudioDevice(t *testing.T) {
	io := NewIO(internal.NewC8VM(), Config{Mute: true}, log.NewTestLogger(t))
	io.Beep()
}
