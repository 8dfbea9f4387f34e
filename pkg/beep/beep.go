// Package beep generates the tone played when the sound timer expires.
package beep

import (
	"encoding/binary"
	"time"
)

// Default tone parameters
const (
	SampleRate = 44100
	Frequency  = 440
	Duration   = 100 * time.Millisecond
	Amplitude  = 0x2000
)

// SquareWave returns a mono square wave as signed 16-bit little endian PCM.
func SquareWave(sampleRate, frequency int, duration time.Duration, amplitude int16) []byte {
	samples := int(int64(sampleRate) * int64(duration) / int64(time.Second))
	if samples <= 0 || frequency <= 0 {
		return nil
	}

	period := sampleRate / frequency
	if period < 2 {
		period = 2
	}
	half := period / 2

	buf := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		value := amplitude
		if i%period >= half {
			value = -amplitude
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(value))
	}
	return buf
}

// Tone returns the default beep tone.
func Tone() []byte {
	return SquareWave(SampleRate, Frequency, Duration, Amplitude)
}
