package catalog

import (
	"errors"

	"github.com/ezrec/genmterp/translate"
)

var f = translate.From

var (
	ErrCatalogSizeMismatch = errors.New(f("opcode catalog size mismatch"))
	ErrCatalogCount        = errors.New(f("opcode count must be positive"))
)

// ErrCatalogSize reports the number of declarations found against the number
// expected.
type ErrCatalogSize struct {
	Expected int
	Actual   int
}

func (err *ErrCatalogSize) Error() string {
	return f("found %d opcodes (expected %d)", err.Actual, err.Expected)
}

func (err *ErrCatalogSize) Unwrap() error {
	return ErrCatalogSizeMismatch
}
