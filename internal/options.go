package internal

import (
	"math/rand"

	"github.com/retroenv/retrogolib/log"
)

// Option configures a C8VM.
type Option func(*C8VM)

// WithRandomSource sets the source used by the RND instruction.
func WithRandomSource(src RandomSource) Option {
	return func(vm *C8VM) {
		vm.rand = src
	}
}

// WithBeeper sets the collaborator notified when the sound timer runs out.
func WithBeeper(b Beeper) Option {
	return func(vm *C8VM) {
		vm.beeper = b
	}
}

// WithLogger enables debug tracing of executed instructions.
func WithLogger(logger *log.Logger) Option {
	return func(vm *C8VM) {
		vm.logger = logger
	}
}

// RandomSource provides the random bytes consumed by RND Vx, kk.
type RandomSource interface {
	RandomByte() uint8
}

type mathRandSource struct {
	rnd *rand.Rand
}

// NewRandomSource returns a pseudo random source seeded with seed.
func NewRandomSource(seed int64) RandomSource {
	return &mathRandSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *mathRandSource) RandomByte() uint8 {
	return uint8(s.rnd.Intn(256))
}

// Beeper is notified when the sound timer expires.
type Beeper interface {
	Beep()
}

// BeeperFunc adapts a function to the Beeper interface.
type BeeperFunc func()

// Beep calls f.
func (f BeeperFunc) Beep() {
	f()
}
