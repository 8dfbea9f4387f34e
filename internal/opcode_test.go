package internal

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		word     uint16
		op       Op
		mnemonic string
	}{
		{0x0000, OpNop, "NOP"},
		{0x00E0, OpCls, "CLS"},
		{0x00EE, OpRet, "RET"},
		{0x1234, OpJp, "JP"},
		{0x2345, OpCall, "CALL"},
		{0x3A12, OpSeByte, "SE"},
		{0x4A12, OpSneByte, "SNE"},
		{0x5AB0, OpSeReg, "SE"},
		{0x6A12, OpLdByte, "LD"},
		{0x7A12, OpAddByte, "ADD"},
		{0x8AB0, OpLdReg, "LD"},
		{0x8AB1, OpOr, "OR"},
		{0x8AB2, OpAnd, "AND"},
		{0x8AB3, OpXor, "XOR"},
		{0x8AB4, OpAddReg, "ADD"},
		{0x8AB5, OpSub, "SUB"},
		{0x8AB6, OpShr, "SHR"},
		{0x8AB7, OpSubn, "SUBN"},
		{0x8ABE, OpShl, "SHL"},
		{0x9AB0, OpSneReg, "SNE"},
		{0xA123, OpLdI, "LD"},
		{0xB123, OpJpV0, "JP"},
		{0xCA12, OpRnd, "RND"},
		{0xDAB5, OpDrw, "DRW"},
		{0xEA9E, OpSkp, "SKP"},
		{0xEAA1, OpSknp, "SKNP"},
		{0xFA07, OpLdVxDT, "LD"},
		{0xFA0A, OpLdVxK, "LD"},
		{0xFA15, OpLdDTVx, "LD"},
		{0xFA18, OpLdSTVx, "LD"},
		{0xFA1E, OpAddI, "ADD"},
		{0xFA29, OpLdF, "LD"},
		{0xFA33, OpLdB, "LD"},
		{0xFA55, OpStoreRegs, "LD"},
		{0xFA65, OpLoadRegs, "LD"},
	}

	seen := map[Op]bool{}
	for _, tt := range tests {
		ins, err := Decode(tt.word)
		assert.NoError(t, err)
		assert.Equal(t, tt.op, ins.Op)
		assert.Equal(t, tt.word, ins.Word)
		assert.Equal(t, tt.mnemonic, ins.Op.String())
		seen[tt.op] = true
	}
	assert.Equal(t, 35, len(seen))
}

func TestDecodeFields(t *testing.T) {
	ins, err := Decode(0xD7A3)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x7), ins.X)
	assert.Equal(t, uint8(0xA), ins.Y)
	assert.Equal(t, uint8(0x3), ins.N)
	assert.Equal(t, uint8(0xA3), ins.KK)
	assert.Equal(t, uint16(0x7A3), ins.NNN)
}

func TestDecodeUnsupported(t *testing.T) {
	words := []uint16{
		0x0001, 0x00E1, 0x00EF, 0x0123,
		0x5AB1, 0x5ABF,
		0x8AB8, 0x8ABD, 0x8ABF,
		0x9AB1,
		0xEA9F, 0xEAA2, 0xE000,
		0xFA00, 0xFA08, 0xFA30, 0xFA75, 0xFFFF,
	}

	for _, word := range words {
		_, err := Decode(word)
		assert.True(t, errors.Is(err, ErrUnsupportedInstruction))
	}
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "Op(200)", Op(200).String())
}
