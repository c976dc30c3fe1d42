package output

import (
	"fmt"
	"io"

	"github.com/ezrec/genmterp/script"
)

// Call is a recorded primitive call.
type Call struct {
	Primitive string // Primitive name.
	Index     int    // Opcode value, for opcode entries.
	Label     string // Opcode symbol, for opcode entries.
	IsAlt     bool   // Alternate table, for opcode entries.
	Text      string // Line text, for emitted lines.
}

func (call Call) String() string {
	switch call.Primitive {
	case script.PRIMITIVE_OPCODE:
		return fmt.Sprintf("%v(%d, %q, %v, %v)", call.Primitive, call.Index, call.Label, call.Label, call.IsAlt)
	case script.PRIMITIVE_LINE:
		return fmt.Sprintf("%v(%q)", call.Primitive, call.Text)
	default:
		return fmt.Sprintf("%v()", call.Primitive)
	}
}

// Recorder records the primitive calls of a program.
type Recorder struct {
	Expand bool   // If set, opcode handlers of the primary table are invoked.
	Calls  []Call // Recorded calls, in order.
}

func (rec *Recorder) EmitOpcodeEntry(entry script.OpcodeEntry) (err error) {
	rec.Calls = append(rec.Calls, Call{
		Primitive: script.PRIMITIVE_OPCODE,
		Index:     entry.Index,
		Label:     entry.Label,
		IsAlt:     entry.IsAlt,
	})

	if rec.Expand && !entry.IsAlt {
		err = entry.Handler.Call()
	}

	return
}

func (rec *Recorder) EmitLine(text string) (err error) {
	rec.Calls = append(rec.Calls, Call{Primitive: script.PRIMITIVE_LINE, Text: text})
	return
}

func (rec *Recorder) Finalize() (err error) {
	rec.Calls = append(rec.Calls, Call{Primitive: script.PRIMITIVE_FINALIZE})
	return
}

// Lines returns the text of the recorded emitted lines.
func (rec *Recorder) Lines() (lines []string) {
	for _, call := range rec.Calls {
		if call.Primitive == script.PRIMITIVE_LINE {
			lines = append(lines, call.Text)
		}
	}
	return
}

// Dump writes the recorded calls, one per line.
func (rec *Recorder) Dump(w io.Writer) (err error) {
	for _, call := range rec.Calls {
		_, err = fmt.Fprintln(w, call.String())
		if err != nil {
			return
		}
	}
	return
}
