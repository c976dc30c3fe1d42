// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package template

import (
	"strings"
)

type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_CONTROL = Kind(0) // control
	KIND_EMIT    = Kind(1) // emit
)

// Source is the template line a statement was translated from.
type Source struct {
	File   string // Fragment name.
	LineNo int    // Line number, starting at 1.
	Text   string // Line text, trailing whitespace removed.
}

// Statement is a translated template line, either a *Control or an *Emit.
type Statement interface {
	Kind() Kind
	Where() Source
}

// Control is a control-language line carried through verbatim.
type Control struct {
	At     Source
	Indent int    // Indentation, in spaces.
	Code   string // Control code, without marker or indentation.
}

func (ctl *Control) Kind() Kind {
	return KIND_CONTROL
}

func (ctl *Control) Where() Source {
	return ctl.At
}

// Opens reports if the control line opens a new block.
func (ctl *Control) Opens() bool {
	return strings.HasSuffix(ctl.Code, BLOCK_OPENER)
}

// Segment is either a literal run of text, or a variable whose value is
// spliced in when the line is emitted.
type Segment struct {
	Text     string // Literal text, or variable name.
	Variable bool   // If set, Text names a variable.
}

// Emit requests the emission of one line of output.
type Emit struct {
	At       Source
	Indent   int // Indentation of the enclosing control block, in spaces.
	Segments []Segment
}

func (emit *Emit) Kind() Kind {
	return KIND_EMIT
}

func (emit *Emit) Where() Source {
	return emit.At
}

// Variables returns the names of the variables spliced into the line.
func (emit *Emit) Variables() (names []string) {
	for _, seg := range emit.Segments {
		if seg.Variable {
			names = append(names, seg.Text)
		}
	}
	return
}

// Fragment is a translated template file.
type Fragment struct {
	Name       string
	Statements []Statement
}
