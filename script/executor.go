// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/genmterp/template"
)

// fileOptions enables the Python control flow that templates rely on.
var fileOptions = syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Executor runs assembled programs against a sink.
type Executor struct {
	Verbose bool // If set, logs script print() output and progress.
	Sink    Sink // Receiver of the primitive calls.
}

// run is the state of a single program execution.
type run struct {
	*Executor
	arch      string
	thread    *starlark.Thread
	finalized bool
	fault     error // First primitive failure, if any.
}

// handler adapts a script value bound to an opcode symbol.
type handler struct {
	run   *run
	value starlark.Callable
}

func (h *handler) Name() string {
	return h.value.Name()
}

func (h *handler) Call() (err error) {
	_, err = starlark.Call(h.run.thread, h.value, nil, nil)
	return
}

// Execute lowers and runs a program. The sink receives the primitive calls
// in program order.
func (ex *Executor) Execute(prog *Program) (err error) {
	sc := Lower(prog)
	return ex.ExecuteScript(prog.Arch, sc)
}

// ExecuteScript runs an already lowered program.
func (ex *Executor) ExecuteScript(arch string, sc *Script) (err error) {
	r := &run{
		Executor: ex,
		arch:     arch,
	}

	r.thread = &starlark.Thread{
		Name: arch,
		Print: func(_ *starlark.Thread, msg string) {
			if ex.Verbose {
				log.Printf("%v: %v", arch, msg)
			}
		},
	}

	predeclared := starlark.StringDict{
		PRIMITIVE_OPCODE:   starlark.NewBuiltin(PRIMITIVE_OPCODE, r.emitOpcodeEntry),
		PRIMITIVE_LINE:     starlark.NewBuiltin(PRIMITIVE_LINE, r.emitLine),
		PRIMITIVE_FINALIZE: starlark.NewBuiltin(PRIMITIVE_FINALIZE, r.finalize),
	}

	if ex.Verbose {
		log.Printf("%v: executing %v (%d lines)", arch, sc.Filename, sc.Lines())
	}

	_, err = starlark.ExecFileOptions(&fileOptions, r.thread, sc.Filename, sc.Source, predeclared)
	if err != nil {
		err = &ErrArch{Arch: arch, Err: sc.locate(err, r.fault)}
		return
	}

	return
}

// fail records the first failed primitive call of the run. Sink errors
// are execution failures unless the sink reports a contract violation.
func (r *run) fail(primitive string, err error) error {
	class := ErrExecution
	if errors.Is(err, ErrPrimitiveContract) {
		class = ErrPrimitiveContract
	}
	return r.record(&ErrPrimitive{Primitive: primitive, Class: class, Err: err})
}

// contract records a primitive contract violation.
func (r *run) contract(primitive string, err error) error {
	return r.record(&ErrPrimitive{Primitive: primitive, Class: ErrPrimitiveContract, Err: err})
}

func (r *run) record(err error) error {
	if r.fault == nil {
		r.fault = err
	}
	return err
}

// emit_opcode_entry(index, label, symbol, is_alt)
func (r *run) emitOpcodeEntry(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var index int
	var label string
	var symbol starlark.Value
	var isAlt bool

	err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 4, &index, &label, &symbol, &isAlt)
	if err != nil {
		return nil, r.contract(b.Name(), err)
	}

	if r.finalized {
		return nil, r.contract(b.Name(), ErrFinalized)
	}

	callable, ok := symbol.(starlark.Callable)
	if !ok {
		return nil, r.contract(b.Name(), fmt.Errorf("%w: %v (%v)", ErrNotCallable, label, symbol.Type()))
	}

	entry := OpcodeEntry{
		Index:   index,
		Label:   label,
		Handler: &handler{run: r, value: callable},
		IsAlt:   isAlt,
	}

	err = r.Sink.EmitOpcodeEntry(entry)
	if err != nil {
		return nil, r.fail(b.Name(), err)
	}

	return starlark.None, nil
}

// emit_line(*parts)
func (r *run) emitLine(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) != 0 {
		return nil, r.contract(b.Name(), fmt.Errorf("unexpected keyword arguments"))
	}
	if len(args) == 0 {
		return nil, r.contract(b.Name(), fmt.Errorf("missing text"))
	}
	if r.finalized {
		return nil, r.contract(b.Name(), ErrFinalized)
	}

	var sb strings.Builder
	for n, arg := range args {
		switch v := arg.(type) {
		case starlark.String:
			sb.WriteString(v.GoString())
		case starlark.Int, starlark.Bool:
			sb.WriteString(v.String())
		default:
			return nil, r.contract(b.Name(), fmt.Errorf("part %d: got %v, want string", n, arg.Type()))
		}
	}

	err := r.Sink.EmitLine(sb.String())
	if err != nil {
		return nil, r.fail(b.Name(), err)
	}

	return starlark.None, nil
}

// finalize()
func (r *run) finalize(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0)
	if err != nil {
		return nil, r.contract(b.Name(), err)
	}
	if r.finalized {
		return nil, r.contract(b.Name(), ErrFinalized)
	}
	r.finalized = true

	err = r.Sink.Finalize()
	if err != nil {
		return nil, r.fail(b.Name(), err)
	}

	return starlark.None, nil
}

// locate classifies an interpreter error and maps it back to the template
// line that caused it. Errors raised by opcode handlers are nested inside the
// error of the primitive that invoked them; the innermost one is located.
func (sc *Script) locate(err error, fault error) error {
	var lineno int
	var class error
	var msg string

	var synErr syntax.Error
	var resErrs resolve.ErrorList

	switch {
	case errors.As(err, &synErr):
		lineno = int(synErr.Pos.Line)
		class = template.ErrMalformedTemplateLine
		msg = synErr.Msg
	case errors.As(err, &resErrs) && len(resErrs) > 0:
		lineno = int(resErrs[0].Pos.Line)
		msg = resErrs[0].Msg
		if strings.HasPrefix(msg, "undefined:") {
			class = ErrUndefinedVariable
		} else {
			class = template.ErrMalformedTemplateLine
		}
	default:
		evalErr := innermost(err)
		if evalErr == nil {
			class = ErrExecution
			msg = err.Error()
			break
		}
		lineno = sc.frame(evalErr)
		msg = evalErr.Msg
		if strings.Contains(msg, "referenced before assignment") {
			class = ErrUndefinedVariable
		} else {
			class = ErrExecution
		}
	}

	// A fault wrapping a handler error is reported as that script error.
	if fault != nil && innermost(fault) == nil {
		err = fault
	} else {
		err = &ErrScript{Class: class, Msg: msg}
	}

	at, ok := sc.Origin(lineno)
	if !ok {
		return &template.ErrSyntax{File: sc.Filename, LineNo: lineno, Line: sc.line(lineno), Err: err}
	}

	return &template.ErrSyntax{File: at.File, LineNo: at.LineNo, Line: at.Text, Err: err}
}

// innermost returns the deepest interpreter error of an error chain.
func innermost(err error) (inner *starlark.EvalError) {
	var evalErr *starlark.EvalError
	for errors.As(err, &evalErr) {
		inner = evalErr
		err = evalErr.Unwrap()
	}
	return
}

// frame returns the script line of the innermost call frame of the script.
func (sc *Script) frame(evalErr *starlark.EvalError) (lineno int) {
	for n := len(evalErr.CallStack) - 1; n >= 0; n-- {
		pos := evalErr.CallStack[n].Pos
		if pos.Filename() == sc.Filename {
			return int(pos.Line)
		}
	}
	return
}

// line returns the text of a line of the script.
func (sc *Script) line(lineno int) string {
	if lineno < 1 {
		return ""
	}
	lines := strings.Split(string(sc.Source), "\n")
	if lineno > len(lines) {
		return ""
	}
	return lines[lineno-1]
}
