// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log"
	"regexp"
	"strings"
)

const (
	PACKED_OPCODES = 256   // Number of opcodes in the packed opcode table.
	OPCODE_PREFIX  = "op_" // Prefix of every opcode symbol.
)

// declRe matches the goto table declaration macro: V(0x00, NOP, ...)
var declRe = regexp.MustCompile(`^\s*V\((....), (\w+),`)

// Catalog is the ordered list of opcode symbols, indexed by opcode value.
type Catalog []string

// Len returns the number of opcodes in the catalog.
func (cat Catalog) Len() int {
	return len(cat)
}

// All iterates over the opcode values and symbols, in opcode order.
func (cat Catalog) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for n, symbol := range cat {
			if !yield(n, symbol) {
				return
			}
		}
	}
}

// Extractor scans an instruction list for opcode declarations.
type Extractor struct {
	Verbose bool   // If set, logs each extracted opcode.
	Count   int    // Expected number of opcodes.
	Prefix  string // Prefix of each symbol.
}

// NewExtractor returns an extractor for the packed opcode table.
func NewExtractor() *Extractor {
	return &Extractor{
		Count:  PACKED_OPCODES,
		Prefix: OPCODE_PREFIX,
	}
}

// Extract reads the packed opcode table catalog from an instruction list.
func Extract(input io.Reader) (cat Catalog, err error) {
	return NewExtractor().Extract(input)
}

// ExtractFile reads the catalog from a named file in a file system.
func (ex *Extractor) ExtractFile(fsys fs.FS, name string) (cat Catalog, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	cat, err = ex.Extract(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
	}

	return
}

// Extract reads the catalog from an instruction list. The catalog is only
// returned if it holds exactly Count opcodes.
func (ex *Extractor) Extract(input io.Reader) (cat Catalog, err error) {
	if ex.Count < 1 {
		err = ErrCatalogCount
		return
	}

	var opcodes Catalog

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		match := declRe.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		symbol := ex.Prefix + strings.ToLower(match[2])
		if ex.Verbose {
			log.Printf("%v: %v", len(opcodes), symbol)
		}
		opcodes = append(opcodes, symbol)
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	if len(opcodes) != ex.Count {
		err = &ErrCatalogSize{Expected: ex.Count, Actual: len(opcodes)}
		return
	}

	cat = opcodes
	return
}
