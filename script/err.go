package script

import (
	"errors"

	"github.com/ezrec/genmterp/translate"
)

var f = translate.From

var (
	ErrUndefinedVariable = errors.New(f("undefined variable reference"))
	ErrPrimitiveContract = errors.New(f("primitive contract violation"))
	ErrExecution         = errors.New(f("execution failed"))
	ErrFinalized         = errors.New(f("output already finalized"))
	ErrNotCallable       = errors.New(f("opcode symbol is not callable"))
)

// ErrScript is a failure reported by the control-language interpreter.
type ErrScript struct {
	Class error  // One of the script or template error classes.
	Msg   string // Interpreter message.
}

func (err *ErrScript) Error() string {
	return f("%v: %v", err.Class, err.Msg)
}

func (err *ErrScript) Unwrap() error {
	return err.Class
}

// ErrPrimitive is a failed primitive call.
type ErrPrimitive struct {
	Primitive string
	Class     error // ErrPrimitiveContract or ErrExecution.
	Err       error
}

func (err *ErrPrimitive) Error() string {
	return f("%v: %v: %v", err.Primitive, err.Class, err.Err)
}

func (err *ErrPrimitive) Is(target error) bool {
	return target == err.Class
}

func (err *ErrPrimitive) Unwrap() error {
	return err.Err
}

// ErrArch locates an error at the program of an architecture.
type ErrArch struct {
	Arch string
	Err  error
}

func (err *ErrArch) Error() string {
	return f("%v: %v", err.Arch, err.Err)
}

func (err *ErrArch) Unwrap() error {
	return err.Err
}
