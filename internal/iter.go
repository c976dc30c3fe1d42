// Package internal holds iterator helpers shared by the generator packages.
package internal

import (
	"iter"
)

// IterSeqConcat concatenates multiple iterators into a single iterator
// sequence. The sequences are drained in argument order.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return
				}
			}
		}
	}
}
