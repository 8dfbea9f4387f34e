package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Frontend is the I/O layer driven by a Runner.
type Frontend interface {
	// PollInput forwards pending input events to the VM and returns true
	// when the user asked to quit.
	PollInput() bool
	// Render presents the framebuffer.
	Render(fb Framebuffer)
}

// Runner drives a VM at a fixed instruction rate with the timers ticking at
// TimerFrequency.
type Runner struct {
	vm                   *C8VM
	instructionsPerFrame int
	logger               *log.Logger
}

// NewRunner returns a runner executing instructionsPerSecond instructions
// per second, rounded to whole instructions per timer frame.
func NewRunner(vm *C8VM, instructionsPerSecond int, logger *log.Logger) *Runner {
	perFrame := instructionsPerSecond / TimerFrequency
	if perFrame < 1 {
		perFrame = 1
	}
	return &Runner{
		vm:                   vm,
		instructionsPerFrame: perFrame,
		logger:               logger,
	}
}

// VM returns the driven VM
func (r *Runner) VM() *C8VM {
	return r.vm
}

// InstructionsPerFrame returns the number of instructions executed per frame
func (r *Runner) InstructionsPerFrame() int {
	return r.instructionsPerFrame
}

// Frame executes one timer period worth of instructions followed by a
// single timer tick.
func (r *Runner) Frame() error {
	for i := 0; i < r.instructionsPerFrame; i++ {
		if err := r.vm.Step(); err != nil {
			return err
		}
	}
	r.vm.TickTimers()
	return nil
}

// Run is the main application loop. It returns nil when the frontend asks to
// quit, the context error on cancellation, or the first failed step.
func (r *Runner) Run(ctx context.Context, fe Frontend) error {
	ticker := time.NewTicker(time.Second / TimerFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if fe.PollInput() {
			return nil
		}

		if err := r.Frame(); err != nil {
			if r.logger != nil {
				r.logger.Error("Execution halted",
					log.String("pc", fmt.Sprintf("0x%04X", r.vm.PC())),
					log.Err(err))
			}
			return err
		}

		if r.vm.IsDrawFlagSet() {
			fe.Render(r.vm.Display())
			r.vm.UnsetDrawFlag()
		}
	}
}
