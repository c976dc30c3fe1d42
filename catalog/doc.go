// Package catalog extracts the ordered opcode catalog of the virtual machine.
//
// The catalog is read from the instruction list header, where each packed
// opcode is declared by a V(0xNN, NAME, ...) macro line. The position of a
// name in the catalog is its numeric opcode value, so the catalog must hold
// exactly the expected number of entries.
package catalog
