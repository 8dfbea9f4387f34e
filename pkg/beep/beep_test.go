package beep

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestSquareWave(t *testing.T) {
	buf := SquareWave(8, 2, time.Second, 100)
	assert.Equal(t, 16, len(buf))

	expected := []int16{100, 100, -100, -100, 100, 100, -100, -100}
	for i, want := range expected {
		got := int16(binary.LittleEndian.Uint16(buf[i*2:]))
		assert.Equal(t, want, got)
	}
}

func TestSquareWaveInvalid(t *testing.T) {
	assert.Equal(t, 0, len(SquareWave(44100, 440, 0, 100)))
	assert.Equal(t, 0, len(SquareWave(44100, 0, time.Second, 100)))
}

func TestTone(t *testing.T) {
	assert.Equal(t, SampleRate/10*2, len(Tone()))
}
