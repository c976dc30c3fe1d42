// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"log"
	"slices"
	"strings"

	"github.com/ezrec/genmterp/catalog"
	"github.com/ezrec/genmterp/template"
)

const (
	DISCLAIMER   = "DO NOT EDIT: This file was generated by genmterp."
	ARCH_VAR     = "arch"    // Global bound to the architecture name.
	OPCODES_PROC = "opcodes" // Opcode table procedure.
	OPCODES_ALT  = "is_alt"  // Alternate mode parameter of the opcode table.
)

// Assembler composes the program of an architecture.
type Assembler struct {
	Verbose bool            // If set, logs the assembled fragments.
	Catalog catalog.Catalog // Opcode catalog, shared by all architectures.
	Prelude Prelude         // Setup code, shared by all architectures.
}

// Assemble builds the program of an architecture from its fragments.
// Fragments are placed in file name order.
func (asm *Assembler) Assemble(arch string, fragments []*template.Fragment) (prog *Program) {
	prelude := asm.Prelude

	prog = &Program{
		Arch: arch,
		Nodes: []Node{
			&Comment{Text: DISCLAIMER},
			&Bind{Name: ARCH_VAR, Value: arch},
			&prelude,
			&OpcodeTable{Name: OPCODES_PROC, Param: OPCODES_ALT, Catalog: asm.Catalog},
		},
	}

	sorted := slices.SortedStableFunc(slices.Values(fragments), func(a, b *template.Fragment) int {
		return strings.Compare(a.Name, b.Name)
	})
	for _, frag := range sorted {
		prog.Nodes = append(prog.Nodes, &Body{Fragment: frag})
	}

	if asm.Verbose {
		log.Printf("%v: fragments %v", arch, prog.Fragments())
	}

	prog.Nodes = append(prog.Nodes, &Invoke{Name: PRIMITIVE_FINALIZE})

	return
}
