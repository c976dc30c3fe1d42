// Package script assembles translated fragments into a program, lowers it to
// Starlark, and executes it against a Sink.
package script
