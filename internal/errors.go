package internal

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrProgramTooLarge        = errors.New("program size exceeds the maximum size")
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
	ErrStackOverflow          = errors.New("stack overflow")
	ErrStackUnderflow         = errors.New("stack underflow")
	ErrOutOfBounds            = errors.New("memory access out of bounds")
	ErrInvalidKey             = errors.New("invalid key index")
)

// StepError describes a failed fetch-decode-execute cycle.
type StepError struct {
	PC   uint16 // address of the faulting instruction
	Word uint16 // raw instruction word, zero if the fetch itself failed
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("executing %04X at 0x%04X: %v", e.Word, e.PC, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
