package internal

import (
	"fmt"

	"github.com/pkg/errors"
)

// Op identifies one of the 35 supported CHIP-8 instructions.
type Op uint8

const (
	OpNop       Op = iota // 0000
	OpCls                 // 00E0
	OpRet                 // 00EE
	OpJp                  // 1nnn
	OpCall                // 2nnn
	OpSeByte              // 3xkk
	OpSneByte             // 4xkk
	OpSeReg               // 5xy0
	OpLdByte              // 6xkk
	OpAddByte             // 7xkk
	OpLdReg               // 8xy0
	OpOr                  // 8xy1
	OpAnd                 // 8xy2
	OpXor                 // 8xy3
	OpAddReg              // 8xy4
	OpSub                 // 8xy5
	OpShr                 // 8xy6
	OpSubn                // 8xy7
	OpShl                 // 8xyE
	OpSneReg              // 9xy0
	OpLdI                 // Annn
	OpJpV0                // Bnnn
	OpRnd                 // Cxkk
	OpDrw                 // Dxyn
	OpSkp                 // Ex9E
	OpSknp                // ExA1
	OpLdVxDT              // Fx07
	OpLdVxK               // Fx0A
	OpLdDTVx              // Fx15
	OpLdSTVx              // Fx18
	OpAddI                // Fx1E
	OpLdF                 // Fx29
	OpLdB                 // Fx33
	OpStoreRegs           // Fx55
	OpLoadRegs            // Fx65
)

var mnemonics = [...]string{
	OpNop:       "NOP",
	OpCls:       "CLS",
	OpRet:       "RET",
	OpJp:        "JP",
	OpCall:      "CALL",
	OpSeByte:    "SE",
	OpSneByte:   "SNE",
	OpSeReg:     "SE",
	OpLdByte:    "LD",
	OpAddByte:   "ADD",
	OpLdReg:     "LD",
	OpOr:        "OR",
	OpAnd:       "AND",
	OpXor:       "XOR",
	OpAddReg:    "ADD",
	OpSub:       "SUB",
	OpShr:       "SHR",
	OpSubn:      "SUBN",
	OpShl:       "SHL",
	OpSneReg:    "SNE",
	OpLdI:       "LD",
	OpJpV0:      "JP",
	OpRnd:       "RND",
	OpDrw:       "DRW",
	OpSkp:       "SKP",
	OpSknp:      "SKNP",
	OpLdVxDT:    "LD",
	OpLdVxK:     "LD",
	OpLdDTVx:    "LD",
	OpLdSTVx:    "LD",
	OpAddI:      "ADD",
	OpLdF:       "LD",
	OpLdB:       "LD",
	OpStoreRegs: "LD",
	OpLoadRegs:  "LD",
}

// String returns the assembler mnemonic of the instruction.
func (op Op) String() string {
	if int(op) < len(mnemonics) {
		return mnemonics[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Instruction is a decoded instruction word with its operand fields.
type Instruction struct {
	Op   Op
	Word uint16 // raw instruction word
	X    uint8  // the lower 4 bits of the high byte of the instruction
	Y    uint8  // the upper 4 bits of the low byte of the instruction
	N    uint8  // the lowest 4 bits of the instruction
	KK   uint8  // the lowest 8 bits of the instruction
	NNN  uint16 // the lowest 12 bits of the instruction
}

type opcodeInfo struct {
	mask  uint16
	value uint16
	op    Op
}

// opcodes lists the encodings of every instruction, grouped by the first nibble.
var opcodes = [16][]opcodeInfo{
	0x0: {
		{0xFFFF, 0x0000, OpNop},
		{0xFFFF, 0x00E0, OpCls},
		{0xFFFF, 0x00EE, OpRet},
	},
	0x1: {{0xF000, 0x1000, OpJp}},
	0x2: {{0xF000, 0x2000, OpCall}},
	0x3: {{0xF000, 0x3000, OpSeByte}},
	0x4: {{0xF000, 0x4000, OpSneByte}},
	0x5: {{0xF00F, 0x5000, OpSeReg}},
	0x6: {{0xF000, 0x6000, OpLdByte}},
	0x7: {{0xF000, 0x7000, OpAddByte}},
	0x8: {
		{0xF00F, 0x8000, OpLdReg},
		{0xF00F, 0x8001, OpOr},
		{0xF00F, 0x8002, OpAnd},
		{0xF00F, 0x8003, OpXor},
		{0xF00F, 0x8004, OpAddReg},
		{0xF00F, 0x8005, OpSub},
		{0xF00F, 0x8006, OpShr},
		{0xF00F, 0x8007, OpSubn},
		{0xF00F, 0x800E, OpShl},
	},
	0x9: {{0xF00F, 0x9000, OpSneReg}},
	0xA: {{0xF000, 0xA000, OpLdI}},
	0xB: {{0xF000, 0xB000, OpJpV0}},
	0xC: {{0xF000, 0xC000, OpRnd}},
	0xD: {{0xF000, 0xD000, OpDrw}},
	0xE: {
		{0xF0FF, 0xE09E, OpSkp},
		{0xF0FF, 0xE0A1, OpSknp},
	},
	0xF: {
		{0xF0FF, 0xF007, OpLdVxDT},
		{0xF0FF, 0xF00A, OpLdVxK},
		{0xF0FF, 0xF015, OpLdDTVx},
		{0xF0FF, 0xF018, OpLdSTVx},
		{0xF0FF, 0xF01E, OpAddI},
		{0xF0FF, 0xF029, OpLdF},
		{0xF0FF, 0xF033, OpLdB},
		{0xF0FF, 0xF055, OpStoreRegs},
		{0xF0FF, 0xF065, OpLoadRegs},
	},
}

// Decode splits an instruction word into its nibble fields and identifies
// the instruction. Words matching no known encoding return an error
// wrapping ErrUnsupportedInstruction.
func Decode(word uint16) (Instruction, error) {
	for _, info := range opcodes[word>>12] {
		if word&info.mask == info.value {
			return Instruction{
				Op:   info.op,
				Word: word,
				X:    uint8((word >> 8) & 0x000F),
				Y:    uint8((word >> 4) & 0x000F),
				N:    uint8(word & 0x000F),
				KK:   uint8(word & 0x00FF),
				NNN:  word & 0x0FFF,
			}, nil
		}
	}
	return Instruction{}, errors.Wrapf(ErrUnsupportedInstruction, "opcode %04X", word)
}
