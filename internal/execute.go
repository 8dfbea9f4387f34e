package internal

import (
	"github.com/pkg/errors"
)

// execute applies a decoded instruction to the VM state. The program counter
// already points at the following instruction. All bounds are checked before
// any state is modified.
func (vm *C8VM) execute(ins Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.Op {
	case OpNop:
	case OpCls:
		vm.pixels.clear()
		vm.drawFlag = true
	case OpRet:
		if vm.sp == 0 {
			return ErrStackUnderflow
		}
		vm.sp--
		vm.pc = vm.stack[vm.sp]
	case OpJp:
		vm.pc = ins.NNN
	case OpCall:
		if vm.sp >= stackSize {
			return ErrStackOverflow
		}
		vm.stack[vm.sp] = vm.pc
		vm.sp++
		vm.pc = ins.NNN
	case OpSeByte:
		vm.skipIf(vm.regV[x] == ins.KK)
	case OpSneByte:
		vm.skipIf(vm.regV[x] != ins.KK)
	case OpSeReg:
		vm.skipIf(vm.regV[x] == vm.regV[y])
	case OpLdByte:
		vm.regV[x] = ins.KK
	case OpAddByte:
		vm.regV[x] += ins.KK
	case OpLdReg:
		vm.regV[x] = vm.regV[y]
	case OpOr:
		vm.regV[x] |= vm.regV[y]
	case OpAnd:
		vm.regV[x] &= vm.regV[y]
	case OpXor:
		vm.regV[x] ^= vm.regV[y]
	case OpAddReg:
		sum := uint16(vm.regV[x]) + uint16(vm.regV[y])
		vm.regV[x] = uint8(sum)
		vm.setFlag(sum > 0xFF)
	case OpSub:
		// VF is set when no borrow occurs
		noBorrow := vm.regV[x] >= vm.regV[y]
		vm.regV[x] -= vm.regV[y]
		vm.setFlag(noBorrow)
	case OpShr:
		lsb := vm.regV[x] & 0x01
		vm.regV[x] >>= 1
		vm.regV[flagRegister] = lsb
	case OpSubn:
		noBorrow := vm.regV[y] >= vm.regV[x]
		vm.regV[x] = vm.regV[y] - vm.regV[x]
		vm.setFlag(noBorrow)
	case OpShl:
		msb := vm.regV[x] >> 7
		vm.regV[x] <<= 1
		vm.regV[flagRegister] = msb
	case OpSneReg:
		vm.skipIf(vm.regV[x] != vm.regV[y])
	case OpLdI:
		vm.regI = ins.NNN
	case OpJpV0:
		vm.pc = ins.NNN + uint16(vm.regV[0])
	case OpRnd:
		vm.regV[x] = vm.rand.RandomByte() & ins.KK
	case OpDrw:
		return vm.drawSprite(vm.regV[x], vm.regV[y], ins.N)
	case OpSkp, OpSknp:
		key := vm.regV[x]
		if key >= KeyCount {
			return errors.Wrapf(ErrInvalidKey, "key %d", key)
		}
		vm.skipIf(vm.keys[key] == (ins.Op == OpSkp))
	case OpLdVxDT:
		vm.regV[x] = vm.delayTimer
	case OpLdVxK:
		vm.waitForKey(x)
	case OpLdDTVx:
		vm.delayTimer = vm.regV[x]
	case OpLdSTVx:
		vm.soundTimer = vm.regV[x]
	case OpAddI:
		vm.regI += uint16(vm.regV[x])
	case OpLdF:
		vm.regI = uint16(vm.regV[x]) * glyphSize
	case OpLdB:
		if err := vm.checkRange(vm.regI, 3); err != nil {
			return err
		}
		value := vm.regV[x]
		vm.memory[vm.regI] = value / 100
		vm.memory[vm.regI+1] = (value / 10) % 10
		vm.memory[vm.regI+2] = value % 10
	case OpStoreRegs:
		if err := vm.checkRange(vm.regI, int(x)+1); err != nil {
			return err
		}
		copy(vm.memory[vm.regI:], vm.regV[:x+1])
	case OpLoadRegs:
		if err := vm.checkRange(vm.regI, int(x)+1); err != nil {
			return err
		}
		copy(vm.regV[:x+1], vm.memory[vm.regI:])
	default:
		return errors.Wrapf(ErrUnsupportedInstruction, "opcode %04X", ins.Word)
	}
	return nil
}

func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc += 2
	}
}

func (vm *C8VM) setFlag(set bool) {
	if set {
		vm.regV[flagRegister] = 1
	} else {
		vm.regV[flagRegister] = 0
	}
}

// checkRange verifies that size bytes starting at addr lie inside memory.
func (vm *C8VM) checkRange(addr uint16, size int) error {
	if int(addr)+size > totalMemory {
		return errors.Wrapf(ErrOutOfBounds, "%d bytes at 0x%04X", size, addr)
	}
	return nil
}

// waitForKey stores the lowest pressed key in Vx. Without a pressed key the
// program counter is rewound so the instruction runs again on the next step.
func (vm *C8VM) waitForKey(x uint8) {
	for i, pressed := range vm.keys {
		if pressed {
			vm.regV[x] = uint8(i)
			return
		}
	}
	vm.pc -= 2
}

// drawSprite XORs an n byte sprite read from I onto the screen at x, y.
// Pixels wrap around the screen edges and VF reports whether any lit pixel
// was turned off.
func (vm *C8VM) drawSprite(x uint8, y uint8, n uint8) error {
	if err := vm.checkRange(vm.regI, int(n)); err != nil {
		return err
	}

	collision := false
	for byteIdx := 0; byteIdx < int(n); byteIdx++ {
		spriteByte := vm.memory[int(vm.regI)+byteIdx]
		for bitIdx := 0; bitIdx < 8; bitIdx++ {
			if spriteByte&(0x80>>bitIdx) == 0 {
				continue
			}
			if vm.pixels.flip(int(x)+bitIdx, int(y)+byteIdx) {
				collision = true
			}
		}
	}
	vm.setFlag(collision)
	vm.drawFlag = true
	return nil
}
