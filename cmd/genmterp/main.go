// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/genmterp/config"
	"github.com/ezrec/genmterp/generator"
	"github.com/ezrec/genmterp/output"
	"github.com/ezrec/genmterp/script"
	"github.com/ezrec/genmterp/translate"
)

func main() {
	var dir string
	var archs string
	var outdir string
	var dump string
	var trace bool
	var lang string
	var verbose bool

	flag.StringVar(&dir, "c", ".", "Directory holding "+config.FILENAME)
	flag.StringVar(&archs, "a", "", "Comma separated architectures to generate")
	flag.StringVar(&outdir, "o", "", "Output directory (overrides the configuration)")
	flag.StringVar(&dump, "d", "", "Directory to dump generated scripts to")
	flag.BoolVar(&trace, "t", false, "Trace primitive calls to stdout, do not write files")
	flag.StringVar(&lang, "l", "", "Message language (defaults to the locale)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		err := translate.Use(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		log.Fatal(err)
	}

	if len(archs) != 0 {
		err = cfg.Select(strings.Split(archs, ","))
		if err != nil {
			log.Fatal(err)
		}
	}

	if len(outdir) == 0 {
		outdir = cfg.Path(cfg.Output)
	}
	if len(dump) == 0 {
		dump = cfg.Path(cfg.Dump)
	}

	gen, err := generator.Load(cfg, verbose)
	if err != nil {
		log.Fatal(err)
	}

	if len(dump) != 0 {
		gen.Dump, err = createDir(dump)
		if err != nil {
			log.Fatalf("%v: %v", dump, err)
		}
	}

	if trace {
		gen.Sink = func(arch string) (script.Sink, error) {
			return &tracer{arch: arch}, nil
		}
	} else {
		filesys, err := createDir(outdir)
		if err != nil {
			log.Fatalf("%v: %v", outdir, err)
		}
		gen.Sink = func(arch string) (script.Sink, error) {
			sink := output.NewFileSink(filesys, arch)
			sink.Verbose = verbose
			return sink, nil
		}
	}

	err = gen.Run()
	if err != nil {
		log.Fatal(err)
	}
}

// createDir returns the file system of a directory, creating the directory
// if its parent exists.
func createDir(dir string) (filesys output.CreateFS, err error) {
	return output.SubDir(output.DirFS(filepath.Dir(dir)), filepath.Base(dir))
}

// tracer records the primitive calls of an architecture, and prints them
// when the program is finalized.
type tracer struct {
	output.Recorder
	arch string
}

func (tr *tracer) Finalize() (err error) {
	err = tr.Recorder.Finalize()
	if err != nil {
		return
	}

	log.Printf("%v: %d calls", tr.arch, len(tr.Calls))
	return tr.Dump(os.Stdout)
}
