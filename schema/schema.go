// Package schema describes the tabular layout of the click-prediction
// training data: one feature per CSV column, each either numeric,
// categorical or the label.
package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Common errors returned when validating or loading a schema.
var (
	ErrNoFeatures    = errors.New("schema: no features defined")
	ErrDuplicateName = errors.New("schema: duplicate feature name")
	ErrLabelCount    = errors.New("schema: exactly one label feature required")
	ErrUnknownKind   = errors.New("schema: unknown feature kind")
)

// Kind classifies how a feature's raw CSV value is interpreted.
type Kind int

const (
	// KindNumeric is a real-valued feature.
	KindNumeric Kind = iota
	// KindCategorical is a string-valued feature mapped through a
	// vocabulary.
	KindCategorical
	// KindLabel is the binary click label.
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindLabel:
		return "label"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts the textual form used in schema files back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "numeric":
		return KindNumeric, nil
	case "categorical":
		return KindCategorical, nil
	case "label":
		return KindLabel, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Feature is a single column of the input data.
type Feature struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
}

// Mode selects which columns a dataset carries. Prediction inputs have no
// label column.
type Mode int

const (
	ModeTrain Mode = iota
	ModeEval
	ModePredict
)

// Schema is an ordered list of features; the order is the CSV column
// order.
type Schema struct {
	Features []Feature `yaml:"features"`
}

// Columns returns the features present in the given mode, in CSV column
// order.
func (s Schema) Columns(mode Mode) []Feature {
	if mode != ModePredict {
		return s.Features
	}
	columns := make([]Feature, 0, len(s.Features))
	for _, f := range s.Features {
		if f.Kind == KindLabel {
			continue
		}
		columns = append(columns, f)
	}
	return columns
}

// Feature returns the named feature.
func (s Schema) Feature(name string) (Feature, bool) {
	for _, f := range s.Features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// Label returns the label feature.
func (s Schema) Label() (Feature, bool) {
	for _, f := range s.Features {
		if f.Kind == KindLabel {
			return f, true
		}
	}
	return Feature{}, false
}

// Validate checks that the schema is usable for training: at least one
// feature, unique names and exactly one label.
func (s Schema) Validate() error {
	if len(s.Features) == 0 {
		return ErrNoFeatures
	}

	seen := make(map[string]struct{}, len(s.Features))
	labels := 0
	for _, f := range s.Features {
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Kind == KindLabel {
			labels++
		}
	}
	if labels != 1 {
		return fmt.Errorf("%w: found %d", ErrLabelCount, labels)
	}
	return nil
}

// Load reads a schema from a YAML file.
func Load(path string) (Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: failed to read %s: %w", path, err)
	}

	var s Schema
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Schema{}, fmt.Errorf("schema: failed to parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Save writes the schema to a YAML file.
func (s Schema) Save(path string) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("schema: failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("schema: failed to write %s: %w", path, err)
	}
	return nil
}
