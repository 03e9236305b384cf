// Package csvcoder decodes headerless CSV rows of click-prediction data
// into examples according to a schema.
package csvcoder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/example"
	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
)

// ErrColumnCount is returned when a row does not match the schema's
// column count.
var ErrColumnCount = errors.New("csvcoder: unexpected column count")

// Decoder converts CSV rows into examples. The column order is the
// schema's feature order for the decoder's mode.
type Decoder struct {
	columns []schema.Feature
}

// NewDecoder returns a decoder for the given schema and mode. In predict
// mode the label column is absent from the input.
func NewDecoder(s schema.Schema, mode schema.Mode) *Decoder {
	return &Decoder{columns: s.Columns(mode)}
}

// Decode converts one CSV row into an example. Empty fields decode as
// missing values for numeric features and as the empty term for
// categorical features.
func (d *Decoder) Decode(row []string) (example.Example, error) {
	if len(row) != len(d.columns) {
		return nil, fmt.Errorf("%w: got %d, schema expects %d", ErrColumnCount, len(row), len(d.columns))
	}

	ex := make(example.Example, len(d.columns))
	for i, f := range d.columns {
		field := row[i]
		switch f.Kind {
		case schema.KindNumeric:
			if field == "" {
				ex[f.Name] = example.Value{}
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("csvcoder: column %q: invalid numeric value %q: %w", f.Name, field, err)
			}
			ex[f.Name] = example.Float(v)
		case schema.KindLabel:
			if field == "" {
				ex[f.Name] = example.Value{}
				continue
			}
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("csvcoder: column %q: invalid label value %q: %w", f.Name, field, err)
			}
			ex[f.Name] = example.Int(v)
		case schema.KindCategorical:
			ex[f.Name] = example.Str(field)
		}
	}
	return ex, nil
}

// Read streams examples decoded from CSV data. Iteration stops at the
// first error; the error is yielded with a nil example and carries the
// offending record number.
func Read(r io.Reader, dec *Decoder) iter.Seq2[example.Example, error] {
	return func(yield func(example.Example, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true

		for n := 1; ; n++ {
			row, err := cr.Read()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				yield(nil, fmt.Errorf("csvcoder: record %d: %w", n, err))
				return
			}

			ex, err := dec.Decode(row)
			if err != nil {
				yield(nil, fmt.Errorf("csvcoder: record %d: %w", n, err))
				return
			}
			if !yield(ex, nil) {
				return
			}
		}
	}
}
