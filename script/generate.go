package script

import (
	"github.com/ezrec/genmterp/catalog"
	"github.com/ezrec/genmterp/template"
)

// Generate assembles and executes the program of one architecture. The
// sink receives every primitive call of the program; the assembled program
// is returned even when execution fails.
func Generate(cat catalog.Catalog, prelude Prelude, arch string, fragments []*template.Fragment, sink Sink) (prog *Program, err error) {
	asm := &Assembler{Catalog: cat, Prelude: prelude}
	prog = asm.Assemble(arch, fragments)

	ex := &Executor{Sink: sink}
	err = ex.Execute(prog)

	return
}
