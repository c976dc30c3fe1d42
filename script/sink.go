package script

// Names of the primitives available to a program.
const (
	PRIMITIVE_OPCODE   = "emit_opcode_entry"
	PRIMITIVE_LINE     = "emit_line"
	PRIMITIVE_FINALIZE = "finalize"
)

// Handler is the value bound to an opcode symbol in a running program.
type Handler interface {
	// Name returns the name of the handler.
	Name() string
	// Call invokes the handler, typically emitting the opcode body.
	Call() error
}

// OpcodeEntry is one opcode table entry.
type OpcodeEntry struct {
	Index   int     // Opcode value.
	Label   string  // Opcode symbol.
	Handler Handler // Value bound to the opcode symbol.
	IsAlt   bool    // Alternate opcode table.
}

// Sink receives the primitive calls of a running program.
type Sink interface {
	// EmitOpcodeEntry emits an opcode table entry.
	EmitOpcodeEntry(entry OpcodeEntry) error
	// EmitLine emits a line of output.
	EmitLine(text string) error
	// Finalize completes the output.
	Finalize() error
}
