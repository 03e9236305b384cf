package transform

import (
	"cmp"

	"github.com/google/btree"
)

// Entry is one vocabulary term with its training-set frequency.
type Entry struct {
	Term  string
	Count int64
}

// entryLess orders entries by descending count, then ascending term so
// vocabulary indexes are stable across runs.
func entryLess(a, b Entry) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return cmp.Less(a.Term, b.Term)
}

// Vocabulary accumulates term frequencies for one categorical feature.
type Vocabulary struct {
	counts    map[string]int64
	threshold int64
}

// NewVocabulary returns an empty accumulator. Terms seen fewer than
// threshold times are dropped when the vocabulary is frozen.
func NewVocabulary(threshold int64) *Vocabulary {
	return &Vocabulary{
		counts:    make(map[string]int64),
		threshold: threshold,
	}
}

// Add records one occurrence of term.
func (v *Vocabulary) Add(term string) {
	v.counts[term]++
}

// Entries freezes the vocabulary: terms at or above the frequency
// threshold, ordered by descending count then ascending term. The
// position of an entry is its vocabulary index.
func (v *Vocabulary) Entries() []Entry {
	tree := btree.NewG(2, entryLess)
	for term, count := range v.counts {
		if count < v.threshold {
			continue
		}
		tree.ReplaceOrInsert(Entry{Term: term, Count: count})
	}

	entries := make([]Entry, 0, tree.Len())
	tree.Ascend(func(e Entry) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

// Lookup maps terms to vocabulary indexes. Out-of-vocabulary terms map
// to OOVIndex.
type Lookup struct {
	entries []Entry
	index   map[string]int64
}

// OOVIndex is the index assigned to terms absent from the vocabulary.
const OOVIndex int64 = -1

// NewLookup builds a lookup from frozen vocabulary entries.
func NewLookup(entries []Entry) *Lookup {
	index := make(map[string]int64, len(entries))
	for i, e := range entries {
		index[e.Term] = int64(i)
	}
	return &Lookup{entries: entries, index: index}
}

// Index returns the vocabulary index of term, or OOVIndex.
func (l *Lookup) Index(term string) int64 {
	if i, ok := l.index[term]; ok {
		return i
	}
	return OOVIndex
}

// Entries returns the frozen vocabulary in index order.
func (l *Lookup) Entries() []Entry {
	return l.entries
}

// Len returns the vocabulary size.
func (l *Lookup) Len() int {
	return len(l.entries)
}
