package transform

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
)

// Artifact file layout under the transform directory.
const (
	numericStatsFile = "numeric.yaml"
	vocabFilePrefix  = "vocab_"
	vocabFileSuffix  = ".txt"
)

type numericArtifact struct {
	Stats      NumericStats `yaml:"stats"`
	Boundaries []float64    `yaml:"boundaries"`
}

type fnArtifact struct {
	NumBuckets int                        `yaml:"num_buckets"`
	Numeric    map[string]numericArtifact `yaml:"numeric"`
}

// Save writes the fitted transform under dir: one vocabulary file per
// categorical feature (term and count per line, line number is the
// vocabulary index) and a YAML file with the numeric statistics and
// bucket boundaries.
func (fn *Fn) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("transform: failed to create %s: %w", dir, err)
	}

	for name, lookup := range fn.vocabs {
		var buf bytes.Buffer
		for _, e := range lookup.Entries() {
			fmt.Fprintf(&buf, "%s\t%d\n", e.Term, e.Count)
		}
		path := filepath.Join(dir, vocabFilePrefix+name+vocabFileSuffix)
		if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
			return fmt.Errorf("transform: failed to write vocabulary %q: %w", name, err)
		}
	}

	art := fnArtifact{
		NumBuckets: fn.numBuckets,
		Numeric:    make(map[string]numericArtifact, len(fn.stats)),
	}
	for name, stats := range fn.stats {
		art.Numeric[name] = numericArtifact{
			Stats:      *stats,
			Boundaries: fn.bounds[name],
		}
	}

	b, err := yaml.Marshal(art)
	if err != nil {
		return fmt.Errorf("transform: failed to marshal numeric stats: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, numericStatsFile), b, 0o600); err != nil {
		return fmt.Errorf("transform: failed to write numeric stats: %w", err)
	}
	return nil
}

// Load restores a transform saved with Save for the given schema.
func Load(dir string, s schema.Schema) (*Fn, error) {
	b, err := os.ReadFile(filepath.Join(dir, numericStatsFile))
	if err != nil {
		return nil, fmt.Errorf("transform: failed to read numeric stats: %w", err)
	}
	var art fnArtifact
	if err := yaml.Unmarshal(b, &art); err != nil {
		return nil, fmt.Errorf("transform: failed to parse numeric stats: %w", err)
	}

	fn := &Fn{
		schema:     s,
		numBuckets: art.NumBuckets,
		vocabs:     make(map[string]*Lookup),
		stats:      make(map[string]*NumericStats),
		bounds:     make(map[string][]float64),
	}

	for _, f := range s.Features {
		switch f.Kind {
		case schema.KindCategorical:
			entries, err := readVocabulary(filepath.Join(dir, vocabFilePrefix+f.Name+vocabFileSuffix))
			if err != nil {
				return nil, err
			}
			fn.vocabs[f.Name] = NewLookup(entries)
		case schema.KindNumeric:
			a, ok := art.Numeric[f.Name]
			if !ok {
				return nil, fmt.Errorf("transform: no fitted stats for numeric feature %q", f.Name)
			}
			stats := a.Stats
			fn.stats[f.Name] = &stats
			fn.bounds[f.Name] = a.Boundaries
		}
	}
	return fn, nil
}

func readVocabulary(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transform: failed to open vocabulary: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		term, countField, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("transform: malformed vocabulary line %q in %s", line, path)
		}
		count, err := strconv.ParseInt(countField, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transform: malformed vocabulary count in %s: %w", path, err)
		}
		entries = append(entries, Entry{Term: term, Count: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("transform: failed to read vocabulary %s: %w", path, err)
	}
	return entries, nil
}
