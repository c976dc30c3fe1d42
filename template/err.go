package template

import (
	"errors"

	"github.com/ezrec/genmterp/translate"
)

var f = translate.From

var (
	ErrMalformedTemplateLine = errors.New(f("malformed template line"))
)

// ErrReference describes a variable reference that cannot be spliced.
type ErrReference string

func (err ErrReference) Error() string {
	return f("bad reference '%v'", string(err))
}

func (err ErrReference) Unwrap() error {
	return ErrMalformedTemplateLine
}

// ErrIndent describes a control line indented with something other than spaces.
type ErrIndent string

func (err ErrIndent) Error() string {
	return f("control line indentation %q is not spaces", string(err))
}

func (err ErrIndent) Unwrap() error {
	return ErrMalformedTemplateLine
}

// ErrSyntax locates an error at a line of a template fragment.
type ErrSyntax struct {
	File   string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	if err.LineNo == 0 {
		return f("%v: %v", err.File, err.Err)
	}
	return f("%v:%d '%v' %v", err.File, err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
