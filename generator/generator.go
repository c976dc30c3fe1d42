// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package generator drives the generation of the interpreter sources of every
// configured architecture.
package generator

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/genmterp/catalog"
	"github.com/ezrec/genmterp/config"
	"github.com/ezrec/genmterp/output"
	"github.com/ezrec/genmterp/script"
	"github.com/ezrec/genmterp/template"
)

// Generator generates the sources of a set of architectures. The catalog and
// prelude are shared, read-only, by every architecture.
type Generator struct {
	Verbose       bool            // If set, logs generation progress.
	Catalog       catalog.Catalog // Opcode catalog.
	Prelude       script.Prelude  // Setup code.
	Templates     fs.FS           // Holds one template directory per architecture.
	Architectures []string        // Architectures to generate, in order.

	// Sink returns the sink of an architecture.
	Sink func(arch string) (sink script.Sink, err error)
	// Dump, if set, receives the lowered script of each architecture.
	Dump output.CreateFS
}

// Load reads the catalog and prelude of a configuration. The run is aborted
// here if the catalog is not exactly the configured size.
func Load(cfg *config.Config, verbose bool) (gen *Generator, err error) {
	ex := &catalog.Extractor{
		Verbose: verbose,
		Count:   cfg.Opcodes,
		Prefix:  cfg.Prefix,
	}
	path := cfg.Path(cfg.Catalog)
	cat, err := ex.ExtractFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return
	}

	prelude := script.Prelude{Name: cfg.Prelude}
	if len(cfg.Prelude) != 0 {
		var data []byte
		data, err = os.ReadFile(cfg.Path(cfg.Prelude))
		if err != nil {
			return
		}
		prelude.Text = string(data)
	}

	gen = &Generator{
		Verbose:       verbose,
		Catalog:       cat,
		Prelude:       prelude,
		Templates:     os.DirFS(cfg.Path(cfg.Templates)),
		Architectures: cfg.Architectures,
	}

	return
}

// Run generates every architecture in order, stopping at the first failure.
func (gen *Generator) Run() (err error) {
	for _, arch := range gen.Architectures {
		err = gen.Generate(arch)
		if err != nil {
			return
		}
	}
	return
}

// Generate translates, assembles and executes the templates of one
// architecture.
func (gen *Generator) Generate(arch string) (err error) {
	if gen.Verbose {
		log.Printf("%v: generating", arch)
	}

	tr := &template.Translator{Verbose: gen.Verbose}
	frags, err := tr.TranslateDir(gen.Templates, arch)
	if err != nil {
		err = &script.ErrArch{Arch: arch, Err: err}
		return
	}

	asm := &script.Assembler{
		Verbose: gen.Verbose,
		Catalog: gen.Catalog,
		Prelude: gen.Prelude,
	}
	sc := script.Lower(asm.Assemble(arch, frags))

	if gen.Dump != nil {
		err = gen.dump(sc)
		if err != nil {
			err = &script.ErrArch{Arch: arch, Err: err}
			return
		}
	}

	sink, err := gen.Sink(arch)
	if err != nil {
		err = &script.ErrArch{Arch: arch, Err: err}
		return
	}

	ex := &script.Executor{Verbose: gen.Verbose, Sink: sink}
	err = ex.ExecuteScript(arch, sc)
	if err != nil {
		if d, ok := sink.(discarder); ok {
			derr := d.Discard()
			if derr != nil {
				log.Printf("%v: %v", arch, derr)
			}
		}
		return
	}

	return
}

// discarder is a sink that can withdraw the output of a failed architecture.
type discarder interface {
	Discard() (err error)
}

// dump writes a lowered script, for debugging.
func (gen *Generator) dump(sc *script.Script) (err error) {
	ouf, err := gen.Dump.Create(sc.Filename)
	if err != nil {
		return
	}

	_, err = ouf.Write(sc.Source)
	if err != nil {
		ouf.Close()
		return
	}

	return ouf.Close()
}
