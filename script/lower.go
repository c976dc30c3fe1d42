// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"fmt"
	"iter"
	"strings"

	"go.starlark.net/syntax"

	"github.com/ezrec/genmterp/internal"
	"github.com/ezrec/genmterp/template"
)

// scriptLine is a line of lowered source, and the template line it came from.
type scriptLine struct {
	text string
	at   template.Source
}

// Script is a program lowered to control-language source.
type Script struct {
	Filename string // Name reported by the interpreter.
	Source   []byte

	origins []template.Source
}

// ScriptName returns the name of the lowered script of an architecture.
func ScriptName(arch string) string {
	return "mterp_" + arch + ".star"
}

// Origin returns the template or prelude line that produced a line of the
// script. Lines generated by the assembler have no origin.
func (sc *Script) Origin(lineno int) (at template.Source, ok bool) {
	if lineno < 1 || lineno > len(sc.origins) {
		return
	}
	at = sc.origins[lineno-1]
	ok = len(at.File) != 0
	return
}

// Lines returns the number of lines in the script.
func (sc *Script) Lines() int {
	return len(sc.origins)
}

// Lower renders a program as control-language source.
func Lower(prog *Program) (sc *Script) {
	seqs := make([]iter.Seq[scriptLine], 0, len(prog.Nodes))
	for _, node := range prog.Nodes {
		seqs = append(seqs, lowerNode(node))
	}

	sc = &Script{Filename: ScriptName(prog.Arch)}

	var sb strings.Builder
	for line := range internal.IterSeqConcat(seqs...) {
		sb.WriteString(line.text)
		sb.WriteByte('\n')
		sc.origins = append(sc.origins, line.at)
	}
	sc.Source = []byte(sb.String())

	return
}

func generated(text string) scriptLine {
	return scriptLine{text: text}
}

func lowerNode(node Node) iter.Seq[scriptLine] {
	return func(yield func(scriptLine) bool) {
		switch n := node.(type) {
		case *Comment:
			yield(generated("# " + n.Text))
		case *Bind:
			yield(generated(n.Name + " = " + syntax.Quote(n.Value, false)))
		case *Prelude:
			if len(n.Text) == 0 {
				return
			}
			for lineno, text := range strings.Split(strings.TrimSuffix(n.Text, "\n"), "\n") {
				at := template.Source{File: n.Name, LineNo: lineno + 1, Text: text}
				if !yield(scriptLine{text: text, at: at}) {
					return
				}
			}
		case *OpcodeTable:
			if !yield(generated(fmt.Sprintf("def %v(%v):", n.Name, n.Param))) {
				return
			}
			if len(n.Catalog) == 0 {
				yield(generated("  pass"))
				return
			}
			for index, symbol := range n.Catalog.All() {
				text := fmt.Sprintf("  %v(%d, %v, %v, %v)",
					PRIMITIVE_OPCODE, index, syntax.Quote(symbol, false), symbol, n.Param)
				if !yield(generated(text)) {
					return
				}
			}
		case *Body:
			for _, stmt := range n.Statements {
				if !yield(scriptLine{text: lowerStatement(stmt), at: stmt.Where()}) {
					return
				}
			}
			// Fragments are always separated by a blank line.
			yield(generated(""))
		case *Invoke:
			yield(generated(n.Name + "()"))
		}
	}
}

func lowerStatement(stmt template.Statement) string {
	switch st := stmt.(type) {
	case *template.Control:
		return strings.Repeat(" ", st.Indent) + st.Code
	case *template.Emit:
		args := make([]string, 0, len(st.Segments))
		for _, seg := range st.Segments {
			if seg.Variable {
				args = append(args, seg.Text)
			} else {
				args = append(args, syntax.Quote(seg.Text, false))
			}
		}
		return strings.Repeat(" ", st.Indent) + PRIMITIVE_LINE + "(" + strings.Join(args, ", ") + ")"
	}
	return ""
}
