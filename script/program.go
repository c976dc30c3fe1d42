// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"github.com/ezrec/genmterp/catalog"
	"github.com/ezrec/genmterp/template"
)

// Node is one element of an assembled program.
type Node interface {
	node()
}

// Comment is a comment line in the program.
type Comment struct {
	Text string
}

// Bind binds a string value to a global name.
type Bind struct {
	Name  string
	Value string
}

// Prelude is control-language source included verbatim.
type Prelude struct {
	Name string // Name reported in diagnostics.
	Text string
}

// OpcodeTable is a procedure that emits one opcode table entry per catalog
// index. The procedure takes a single alternate-mode flag parameter.
type OpcodeTable struct {
	Name    string
	Param   string
	Catalog catalog.Catalog
}

// Body is a translated template fragment.
type Body struct {
	*template.Fragment
}

// Invoke is a call of a parameterless procedure.
type Invoke struct {
	Name string
}

func (*Comment) node()     {}
func (*Bind) node()        {}
func (*Prelude) node()     {}
func (*OpcodeTable) node() {}
func (*Body) node()        {}
func (*Invoke) node()      {}

// Program is the assembled program of one architecture.
type Program struct {
	Arch  string
	Nodes []Node
}

// Fragments returns the names of the fragments in the program, in order.
func (prog *Program) Fragments() (names []string) {
	for _, node := range prog.Nodes {
		if body, ok := node.(*Body); ok {
			names = append(names, body.Name)
		}
	}
	return
}
