// Package shuffle randomizes the order of serialized records before they
// are written out for model training. Records are opaque byte slices; the
// package never inspects or modifies their contents.
//
// Each record is paired with an independent random key drawn uniformly
// from [0, 1), records are reordered by ascending key and the keys are
// discarded. The output is always a permutation of the input: no record
// is dropped, duplicated or mutated.
//
// Basic usage:
//
//	rnd := rand.New(rand.NewSource(42))
//	for record := range shuffle.Records(recordio.Seq(f), rnd) {
//	    // write record
//	}
package shuffle
