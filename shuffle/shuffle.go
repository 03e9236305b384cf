package shuffle

import (
	"iter"
	"math/rand"
	"sort"
)

// keyedRecord pairs a record with its random sort key. Keyed records
// exist only for the duration of a single shuffle and are discarded once
// the records have been reordered.
type keyedRecord struct {
	key    float64
	record []byte
}

// Records returns an iterator over the same records in randomized order.
// The input iterator is fully consumed before the first record is
// yielded. If rnd is nil the shared global source is used; pass a seeded
// *rand.Rand for reproducible order.
func Records(records iter.Seq[[]byte], rnd *rand.Rand) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		keyed := pair(records, rnd)
		sort.Slice(keyed, func(i, j int) bool {
			return keyed[i].key < keyed[j].key
		})
		for _, kr := range keyed {
			if !yield(kr.record) {
				return
			}
		}
	}
}

// Slice returns a new slice containing the same records in randomized
// order. The input slice is left untouched.
func Slice(records [][]byte, rnd *rand.Rand) [][]byte {
	keyed := make([]keyedRecord, 0, len(records))
	for _, record := range records {
		keyed = append(keyed, keyedRecord{key: random(rnd), record: record})
	}
	sort.Slice(keyed, func(i, j int) bool {
		return keyed[i].key < keyed[j].key
	})
	out := make([][]byte, 0, len(keyed))
	for _, kr := range keyed {
		out = append(out, kr.record)
	}
	return out
}

func pair(records iter.Seq[[]byte], rnd *rand.Rand) []keyedRecord {
	var keyed []keyedRecord
	for record := range records {
		keyed = append(keyed, keyedRecord{key: random(rnd), record: record})
	}
	return keyed
}

func random(rnd *rand.Rand) float64 {
	if rnd == nil {
		return rand.Float64()
	}
	return rnd.Float64()
}
