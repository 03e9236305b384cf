// Package recordio implements the binary container format for serialized
// training examples. Each record is an opaque payload framed with magic
// bytes and a length prefix, so files can be validated and read back
// without interpreting the payload. A Writer adds optional gzip
// compression for the shard files written at the end of preprocessing.
//
// Basic usage:
//
//	w := recordio.NewWriter(f, true)
//	if err := w.Write(serialized); err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Close(); err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := recordio.NewReader(f2, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for record := range recordio.Seq(r) {
//	    // use record
//	}
package recordio
