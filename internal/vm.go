package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
	stackSize      = 16
	registerCount  = 16
	flagRegister   = 0xF
	glyphSize      = 5

	// KeyCount is the number of keys on the hexadecimal keypad.
	KeyCount = 16

	TimerFrequency = 60
	ScreenWidth    = 64
	ScreenHeight   = 32
)

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	regV       [registerCount]uint8 // 16 general purpose 8-bit registers, VF doubles as the flag register
	regI       uint16               // 16-bit register that is generally used to store memory addresses
	delayTimer uint8                // Delay timer
	soundTimer uint8                // Sound timer
	pc         uint16               // Program counter
	sp         uint8                // Stack pointer
	stack      [stackSize]uint16    // A stack of 16 16-bit values
	memory     [totalMemory]uint8   // 4 KB global memory
	keys       [KeyCount]bool       // Hexadecimal keypad state
	pixels     Framebuffer          // 64 px x 32 px display

	drawFlag bool   // Set whenever the framebuffer changed
	program  []byte // Last loaded program image, replayed by Reset

	rand   RandomSource
	beeper Beeper
	logger *log.Logger
}

var fontset = [...]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM with the font
// preloaded and the program counter at the program start address.
func NewC8VM(opts ...Option) *C8VM {
	vm := &C8VM{}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.rand == nil {
		vm.rand = NewRandomSource(time.Now().UnixNano())
	}
	vm.powerOn()
	return vm
}

func (vm *C8VM) powerOn() {
	vm.regV = [registerCount]uint8{}
	vm.regI = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = pcStartAddr
	vm.sp = 0
	vm.stack = [stackSize]uint16{}
	vm.memory = [totalMemory]uint8{}
	vm.keys = [KeyCount]bool{}
	vm.pixels = Framebuffer{}
	vm.drawFlag = true
	copy(vm.memory[:], fontset[:])
}

// Load copies a program image into the VM's memory at the program start
// address. Images that do not fit are rejected before any byte is copied.
func (vm *C8VM) Load(data []byte) error {
	size := len(data)
	if size > maxProgramSize {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes, at most %d allowed", size, maxProgramSize)
	}
	copy(vm.memory[pcStartAddr:], data)
	vm.program = append(vm.program[:0], data...)

	if vm.logger != nil {
		vm.logger.Debug("Program loaded", log.Int("size", size))
	}
	return nil
}

// LoadProgram loads a given CHIP-8 program file into the VM's memory
func (vm *C8VM) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "loading program")
	}
	return vm.Load(data)
}

// Reset returns the VM to its power-on state and reloads the last program.
func (vm *C8VM) Reset() {
	vm.powerOn()
	copy(vm.memory[pcStartAddr:], vm.program)

	if vm.logger != nil {
		vm.logger.Debug("Machine reset", log.Int("program_size", len(vm.program)))
	}
}

// Step executes exactly one fetch-decode-execute cycle. On failure the
// program counter is left pointing at the faulting instruction.
func (vm *C8VM) Step() error {
	pc := vm.pc
	word, err := vm.fetch()
	if err != nil {
		return &StepError{PC: pc, Err: err}
	}

	ins, err := Decode(word)
	if err != nil {
		vm.pc = pc
		return &StepError{PC: pc, Word: word, Err: err}
	}

	if vm.logger != nil {
		vm.logger.Debug("exec",
			log.String("pc", fmt.Sprintf("0x%04X", pc)),
			log.String("opcode", fmt.Sprintf("0x%04X", word)),
			log.String("instr", ins.Op.String()))
	}

	if err := vm.execute(ins); err != nil {
		vm.pc = pc
		return &StepError{PC: pc, Word: word, Err: err}
	}
	return nil
}

// fetch reads the big-endian instruction word at pc and advances pc past it.
func (vm *C8VM) fetch() (uint16, error) {
	if int(vm.pc)+1 >= totalMemory {
		return 0, errors.Wrapf(ErrOutOfBounds, "fetch at 0x%04X", vm.pc)
	}
	word := uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1])
	vm.pc += 2
	return word, nil
}

// TickTimers decrements the delay and sound timers. It has to be called at
// TimerFrequency, independent of the instruction rate. The beeper is
// notified when the sound timer runs out.
func (vm *C8VM) TickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}

	if vm.soundTimer > 0 {
		if vm.soundTimer == 1 && vm.beeper != nil {
			vm.beeper.Beep()
		}
		vm.soundTimer--
	}
}

// SetKey sets the pressed state of a keypad key
func (vm *C8VM) SetKey(index uint8, pressed bool) error {
	if index >= KeyCount {
		return errors.Wrapf(ErrInvalidKey, "key %d", index)
	}
	vm.keys[index] = pressed
	return nil
}

// Key returns whether the given keypad key is pressed
func (vm *C8VM) Key(index uint8) bool {
	return index < KeyCount && vm.keys[index]
}

// Display returns a snapshot of the framebuffer
func (vm *C8VM) Display() Framebuffer {
	return vm.pixels
}

// IsDrawFlagSet returns whether the framebuffer changed since the flag was last unset
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}

// PC returns the program counter
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// Index returns the value of I
func (vm *C8VM) Index() uint16 {
	return vm.regI
}

// SP returns the stack pointer
func (vm *C8VM) SP() uint8 {
	return vm.sp
}

// Register returns the value of Vx, or 0 for an invalid register
func (vm *C8VM) Register(x uint8) uint8 {
	if x >= registerCount {
		return 0
	}
	return vm.regV[x]
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}
