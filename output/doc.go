// Package output implements the sinks that receive the primitive calls of
// generated programs: a FileSink that writes the interpreter source of an
// architecture, and a Recorder that keeps the calls for inspection.
package output
