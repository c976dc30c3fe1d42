// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package template

import (
	"bufio"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"
	"unicode"
)

const (
	CONTROL_MARKER  = "%" // Prefix of a control line.
	VARIABLE_MARKER = '$' // Prefix of a variable reference.
	BLOCK_OPENER    = ":" // Suffix of a control line that opens a block.
	BLOCK_INDENT    = 2   // Indentation added inside an opened block.
)

// Translator converts template fragments into statements.
type Translator struct {
	Verbose bool // If set, logs each translated fragment.
}

// Translate translates a single template fragment.
func Translate(name string, input io.Reader) (frag *Fragment, err error) {
	tr := &Translator{}
	return tr.Translate(name, input)
}

// TranslateLines translates a template fragment already split into lines.
func TranslateLines(name string, lines []string) (frag *Fragment, err error) {
	tr := &Translator{}
	return tr.TranslateLines(name, lines)
}

// TranslateDir translates every file of a template directory, in
// lexicographic file name order. Subdirectories are skipped.
func (tr *Translator) TranslateDir(fsys fs.FS, dir string) (frags []*Fragment, err error) {
	// fs.ReadDir returns the entries sorted by file name.
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			if tr.Verbose {
				log.Printf("%v: skipping directory %v", dir, entry.Name())
			}
			continue
		}

		var frag *Fragment
		frag, err = tr.translateFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			frags = nil
			return
		}
		frags = append(frags, frag)
	}

	return
}

func (tr *Translator) translateFile(fsys fs.FS, name string) (frag *Fragment, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return tr.Translate(name, inf)
}

// Translate translates a single template fragment.
func (tr *Translator) Translate(name string, input io.Reader) (frag *Fragment, err error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		err = &ErrSyntax{File: name, Err: err}
		return
	}

	return tr.TranslateLines(name, lines)
}

// TranslateLines translates a template fragment already split into lines.
func (tr *Translator) TranslateLines(name string, lines []string) (frag *Fragment, err error) {
	frag = &Fragment{Name: name}

	// Indentation of emitted lines; follows the most recent control line.
	indent := 0

	for n, text := range lines {
		line := strings.TrimRightFunc(text, unicode.IsSpace)
		at := Source{File: name, LineNo: n + 1, Text: line}

		var stmt Statement
		if strings.HasPrefix(line, CONTROL_MARKER) {
			var ctl *Control
			ctl, err = parseControl(at)
			if err != nil {
				break
			}
			indent = ctl.Indent
			if ctl.Opens() {
				indent += BLOCK_INDENT
			}
			stmt = ctl
		} else {
			var segs []Segment
			segs, err = parseSegments(line)
			if err != nil {
				break
			}
			emit := &Emit{At: at, Indent: indent, Segments: segs}
			if tr.Verbose {
				if vars := emit.Variables(); len(vars) != 0 {
					log.Printf("%v:%d: references %v", name, at.LineNo, vars)
				}
			}
			stmt = emit
		}

		frag.Statements = append(frag.Statements, stmt)
	}

	if err != nil {
		bad := len(frag.Statements)
		err = &ErrSyntax{File: name, LineNo: bad + 1, Line: strings.TrimRightFunc(lines[bad], unicode.IsSpace), Err: err}
		frag = nil
		return
	}

	if tr.Verbose {
		log.Printf("%v: %d statements", name, len(frag.Statements))
	}

	return
}

// parseControl strips the marker run from a control line; the spaces that
// follow it are the statement's own indentation.
func parseControl(at Source) (ctl *Control, err error) {
	code := strings.TrimLeft(at.Text, CONTROL_MARKER)
	body := strings.TrimLeft(code, " ")
	lead := code[:len(code)-len(strings.TrimLeft(code, " \t"))]
	if strings.ContainsRune(lead, '\t') {
		err = ErrIndent(lead)
		return
	}

	ctl = &Control{
		At:     at,
		Indent: len(code) - len(body),
		Code:   body,
	}
	return
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// parseSegments splits a literal line into literal runs and variable
// references. $$ is a literal $, $name and ${name} are references.
func parseSegments(line string) (segs []Segment, err error) {
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(line); {
		c := line[i]
		if c != VARIABLE_MARKER {
			lit.WriteByte(c)
			i++
			continue
		}

		rest := line[i+1:]
		switch {
		case strings.HasPrefix(rest, string(VARIABLE_MARKER)):
			lit.WriteByte(VARIABLE_MARKER)
			i += 2
		case strings.HasPrefix(rest, "{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				err = ErrReference(line[i:])
				return
			}
			name := rest[1:end]
			if !validName(name) {
				err = ErrReference(line[i : i+1+end+1])
				return
			}
			flush()
			segs = append(segs, Segment{Text: name, Variable: true})
			i += 1 + end + 1
		case len(rest) > 0 && isIdent(rest[0]):
			j := 0
			for j < len(rest) && isIdent(rest[j]) {
				j++
			}
			name := rest[:j]
			if !isIdentStart(name[0]) {
				err = ErrReference(line[i : i+1+j])
				return
			}
			flush()
			segs = append(segs, Segment{Text: name, Variable: true})
			i += 1 + j
		default:
			// A lone marker is literal text.
			lit.WriteByte(VARIABLE_MARKER)
			i++
		}
	}

	flush()

	if len(segs) == 0 {
		segs = []Segment{{Text: ""}}
	}

	return
}

func validName(name string) bool {
	if len(name) == 0 || !isIdentStart(name[0]) {
		return false
	}
	for n := range len(name) {
		if !isIdent(name[n]) {
			return false
		}
	}
	return true
}
