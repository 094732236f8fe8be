package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOpcode matches any *UnsupportedOpcodeError.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")

	// ErrReadOnlyOperand is returned when storing through a mode that has no target.
	ErrReadOnlyOperand = errors.New("operand is read-only")
)

// UnsupportedOpcodeError reports a fetched opcode outside the official set.
// Execution cannot resume after it.
type UnsupportedOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("unsupported opcode $%02X at $%04X", e.Opcode, e.PC)
}

func (e *UnsupportedOpcodeError) Is(target error) bool {
	return target == ErrUnsupportedOpcode
}
