package example

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names used inside the serialized form to keep the three list
// kinds apart.
const (
	intsField   = "ints"
	floatsField = "floats"
	strsField   = "strs"
)

// Encode serializes the example into its opaque wire form: a protobuf
// Struct keyed by feature name. Downstream stages (shuffle, recordio,
// storage) never look inside the returned bytes.
func Encode(ex Example) ([]byte, error) {
	if err := ex.Validate(); err != nil {
		return nil, err
	}

	fields := make(map[string]*structpb.Value, len(ex))
	for name, v := range ex {
		fields[name] = valueProto(v)
	}

	b, err := proto.Marshal(&structpb.Struct{Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("example: failed to marshal: %w", err)
	}
	return b, nil
}

// Decode restores an example from its serialized form.
func Decode(b []byte) (Example, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("example: failed to unmarshal: %w", err)
	}

	ex := make(Example, len(st.GetFields()))
	for name, pv := range st.GetFields() {
		v, err := valueFromProto(pv)
		if err != nil {
			return nil, fmt.Errorf("example: feature %q: %w", name, err)
		}
		ex[name] = v
	}
	return ex, nil
}

func valueProto(v Value) *structpb.Value {
	fields := make(map[string]*structpb.Value, 1)

	switch {
	case len(v.Ints) > 0:
		values := make([]*structpb.Value, 0, len(v.Ints))
		for _, i := range v.Ints {
			values = append(values, structpb.NewNumberValue(float64(i)))
		}
		fields[intsField] = structpb.NewListValue(&structpb.ListValue{Values: values})
	case len(v.Floats) > 0:
		values := make([]*structpb.Value, 0, len(v.Floats))
		for _, f := range v.Floats {
			values = append(values, structpb.NewNumberValue(f))
		}
		fields[floatsField] = structpb.NewListValue(&structpb.ListValue{Values: values})
	case len(v.Strs) > 0:
		values := make([]*structpb.Value, 0, len(v.Strs))
		for _, s := range v.Strs {
			values = append(values, structpb.NewStringValue(s))
		}
		fields[strsField] = structpb.NewListValue(&structpb.ListValue{Values: values})
	}

	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

func valueFromProto(pv *structpb.Value) (Value, error) {
	st := pv.GetStructValue()
	if st == nil {
		return Value{}, fmt.Errorf("unexpected value kind %T", pv.GetKind())
	}

	var v Value
	if lv := st.GetFields()[intsField].GetListValue(); lv != nil {
		v.Ints = make([]int64, 0, len(lv.GetValues()))
		for _, n := range lv.GetValues() {
			v.Ints = append(v.Ints, int64(math.Round(n.GetNumberValue())))
		}
	}
	if lv := st.GetFields()[floatsField].GetListValue(); lv != nil {
		v.Floats = make([]float64, 0, len(lv.GetValues()))
		for _, n := range lv.GetValues() {
			v.Floats = append(v.Floats, n.GetNumberValue())
		}
	}
	if lv := st.GetFields()[strsField].GetListValue(); lv != nil {
		v.Strs = make([]string, 0, len(lv.GetValues()))
		for _, s := range lv.GetValues() {
			v.Strs = append(v.Strs, s.GetStringValue())
		}
	}

	if err := v.validate(); err != nil {
		return Value{}, err
	}
	return v, nil
}
