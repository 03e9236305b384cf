// Package example models a single training example as named feature
// values and provides the serialized wire form the rest of the pipeline
// carries as opaque record bytes.
package example

import (
	"errors"
	"fmt"
)

// ErrMixedValue is returned when a value carries more than one kind of
// list.
var ErrMixedValue = errors.New("example: value must hold at most one kind of list")

// Value is the content of one feature: an int64, float64 or string list.
// At most one of the lists is set; a zero Value is a missing feature.
type Value struct {
	Ints   []int64
	Floats []float64
	Strs   []string
}

// Int returns a single-element int64 value.
func Int(v int64) Value { return Value{Ints: []int64{v}} }

// Float returns a single-element float64 value.
func Float(v float64) Value { return Value{Floats: []float64{v}} }

// Str returns a single-element string value.
func Str(v string) Value { return Value{Strs: []string{v}} }

// Missing reports whether the value carries no content.
func (v Value) Missing() bool {
	return len(v.Ints) == 0 && len(v.Floats) == 0 && len(v.Strs) == 0
}

func (v Value) validate() error {
	set := 0
	if len(v.Ints) > 0 {
		set++
	}
	if len(v.Floats) > 0 {
		set++
	}
	if len(v.Strs) > 0 {
		set++
	}
	if set > 1 {
		return ErrMixedValue
	}
	return nil
}

// Example is one training example: a mapping from feature name to value.
type Example map[string]Value

// Validate checks every value holds a single kind of list.
func (ex Example) Validate() error {
	for name, v := range ex {
		if err := v.validate(); err != nil {
			return fmt.Errorf("%w: feature %q", err, name)
		}
	}
	return nil
}
