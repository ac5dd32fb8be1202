package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error classes. Use errors.Cause (or errors.Is) on a returned error to
// find which one applies.
var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrOperandCount    = errors.New("wrong number of operands")
	ErrRegisterRange   = errors.New("register out of range")
	ErrImmediateRange  = errors.New("immediate out of range")
	ErrUnresolvedLabel = errors.New("unresolved label")
)

// Error locates an assembly failure in the source.
type Error struct {
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v (%q)", e.Line, e.Err, e.Text)
}

// Cause lets errors.Cause reach the error class.
func (e *Error) Cause() error { return e.Err }

func (e *Error) Unwrap() error { return e.Err }

func lineError(s Statement, err error) error {
	return &Error{Line: s.Line, Text: s.Text, Err: err}
}
