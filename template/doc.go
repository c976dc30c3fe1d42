// Package template translates mterp template fragments into typed statements.
//
// A line starting with "%" in its first column is control code, executed by
// the generator. Any other line is emitted text, in which "$name" or "${name}"
// is replaced by the value of the variable, and "$$" is a literal "$".
package template
