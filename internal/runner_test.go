package internal

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type testFrontend struct {
	polls    int
	quitAt   int
	frames   []Framebuffer
	keyPress func(polls int)
}

func (f *testFrontend) PollInput() bool {
	f.polls++
	if f.keyPress != nil {
		f.keyPress(f.polls)
	}
	return f.quitAt > 0 && f.polls >= f.quitAt
}

func (f *testFrontend) Render(fb Framebuffer) {
	f.frames = append(f.frames, fb)
}

func TestNewRunnerInstructionsPerFrame(t *testing.T) {
	vm := NewC8VM()
	assert.Equal(t, 10, NewRunner(vm, 600, nil).InstructionsPerFrame())
	assert.Equal(t, 1, NewRunner(vm, 10, nil).InstructionsPerFrame())
	assert.Equal(t, 1, NewRunner(vm, 0, nil).InstructionsPerFrame())
}

func TestRunnerFrame(t *testing.T) {
	// 0x200: LD V0, 5; LD DT, V0; ADD V1, 1; JP 0x204
	vm := newTestVM(t, 0x6005, 0xF015, 0x7101, 0x1204)
	runner := NewRunner(vm, 6*TimerFrequency, nil)

	assert.NoError(t, runner.Frame())
	assert.Equal(t, uint8(4), vm.DelayTimer())
	assert.Equal(t, uint8(2), vm.Register(1))

	assert.NoError(t, runner.Frame())
	assert.Equal(t, uint8(3), vm.DelayTimer())
	assert.Equal(t, uint8(5), vm.Register(1))
}

func TestRunnerFrameStopsOnError(t *testing.T) {
	vm := newTestVM(t, 0x6001, 0xFFFF, 0x6002)
	vm.soundTimer = 2
	runner := NewRunner(vm, 10*TimerFrequency, nil)

	err := runner.Frame()
	assert.True(t, errors.Is(err, ErrUnsupportedInstruction))
	assert.Equal(t, uint16(0x202), vm.PC())
	assert.Equal(t, uint8(2), vm.SoundTimer(), "timers do not tick for a failed frame")
}

func TestRunnerRunQuits(t *testing.T) {
	// 0x200: LD I, glyph 0; DRW V0, V0, 5; JP 0x204
	vm := newTestVM(t, 0xA000, 0xD005, 0x1204)
	vm.UnsetDrawFlag()
	runner := NewRunner(vm, 3*TimerFrequency, log.NewTestLogger(t))
	fe := &testFrontend{quitAt: 3}

	assert.NoError(t, runner.Run(context.Background(), fe))
	assert.Equal(t, 3, fe.polls)
	assert.Len(t, fe.frames, 1)
	assert.True(t, fe.frames[0].At(0, 0))
	assert.False(t, vm.IsDrawFlagSet())
}

func TestRunnerRunForwardsKeys(t *testing.T) {
	// 0x200: LD V2, K; JP 0x202
	vm := newTestVM(t, 0xF20A, 0x1202)
	runner := NewRunner(vm, TimerFrequency, nil)
	fe := &testFrontend{
		quitAt: 4,
		keyPress: func(polls int) {
			if polls == 2 {
				assert.NoError(t, vm.SetKey(0xC, true))
			}
		},
	}

	assert.NoError(t, runner.Run(context.Background(), fe))
	assert.Equal(t, uint8(0xC), vm.Register(2))
	assert.Equal(t, uint16(0x202), vm.PC())
}

func TestRunnerRunReturnsStepError(t *testing.T) {
	vm := newTestVM(t, 0x00EE)
	runner := NewRunner(vm, TimerFrequency, log.NewTestLogger(t))

	err := runner.Run(context.Background(), &testFrontend{})
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestRunnerRunCancelled(t *testing.T) {
	vm := newTestVM(t, 0x1200)
	runner := NewRunner(vm, TimerFrequency, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := runner.Run(ctx, &testFrontend{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
