// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package output

import (
	"bytes"
	"fmt"
	"log"

	"github.com/ezrec/genmterp/script"
)

// OutputName returns the name of the generated source of an architecture.
func OutputName(arch string) string {
	return "mterp_" + arch + ".S"
}

// FileSink collects the output of an architecture, and writes it to a file
// when the program is finalized.
type FileSink struct {
	Verbose bool     // If set, logs the written file.
	FS      CreateFS // Destination file system.
	Name    string   // Destination file name.

	buffer    bytes.Buffer
	finalized bool
	written   bool // Set once the destination file is created.
}

// NewFileSink returns a sink writing the source of an architecture.
func NewFileSink(filesys CreateFS, arch string) *FileSink {
	return &FileSink{
		FS:   filesys,
		Name: OutputName(arch),
	}
}

// EmitOpcodeEntry writes the label of an opcode. Entries of the primary table
// are followed by the body emitted by the opcode handler.
func (sink *FileSink) EmitOpcodeEntry(entry script.OpcodeEntry) (err error) {
	if sink.finalized {
		return script.ErrFinalized
	}

	label := entry.Label
	if entry.IsAlt {
		label += "_alt"
	}
	fmt.Fprintf(&sink.buffer, "%v: /* 0x%02x */\n", label, entry.Index)

	if entry.IsAlt {
		return
	}

	return entry.Handler.Call()
}

// EmitLine appends a line to the output.
func (sink *FileSink) EmitLine(text string) (err error) {
	if sink.finalized {
		return script.ErrFinalized
	}

	sink.buffer.WriteString(text)
	sink.buffer.WriteByte('\n')
	return
}

// Finalize writes the collected output.
func (sink *FileSink) Finalize() (err error) {
	if sink.finalized {
		return script.ErrFinalized
	}
	sink.finalized = true

	ouf, err := sink.FS.Create(sink.Name)
	if err != nil {
		return
	}
	sink.written = true

	_, err = ouf.Write(sink.buffer.Bytes())
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	if err != nil {
		return
	}

	if sink.Verbose {
		log.Printf("%v: %d bytes", sink.Name, sink.buffer.Len())
	}

	return
}

// Discard drops the collected output, and removes the destination file if it
// was already written.
func (sink *FileSink) Discard() (err error) {
	sink.buffer.Reset()
	if !sink.written {
		return
	}
	sink.written = false

	if sink.Verbose {
		log.Printf("%v: discarded", sink.Name)
	}

	return sink.FS.Remove(sink.Name)
}
