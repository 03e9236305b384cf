package shuffle_test

import (
	"fmt"
	"math/rand"

	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/shuffle"
)

// ExampleSlice demonstrates shuffling a batch of serialized records. A
// source with a fixed key sequence keeps the output reproducible; in
// production any seeded rand.Source works.
func ExampleSlice() {
	records := [][]byte{
		[]byte("example-1"),
		[]byte("example-2"),
		[]byte("example-3"),
		[]byte("example-4"),
	}

	rnd := rand.New(&stubSource{keys: []float64{0.9, 0.3, 0.5, 0.1}})
	for _, record := range shuffle.Slice(records, rnd) {
		fmt.Println(string(record))
	}

	// Output:
	// example-4
	// example-2
	// example-3
	// example-1
}
