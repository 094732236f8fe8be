package cartridge

import (
	"errors"
	"fmt"
)

// Load errors. Every one of them aborts loading; no partially built
// cartridge is returned alongside an error.
var (
	ErrInvalidHeader     = errors.New("invalid iNES header")
	ErrUnsupportedFormat = errors.New("unsupported ROM format")
	ErrTruncatedImage    = errors.New("truncated ROM image")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// UnsupportedMapperError carries the mapper id a header asked for.
type UnsupportedMapperError struct {
	ID uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("mapper %d not implemented", e.ID)
}

func (e *UnsupportedMapperError) Is(target error) bool {
	return target == ErrUnsupportedMapper
}
