package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// MarshalJSON renders v as standard JSON. Int and Float both render as
// JSON numbers (JSON has no integer/float distinction on the wire); the
// distinction is recovered on decode by UnmarshalJSON inspecting whether
// the literal contains a '.', 'e', or 'E'.
func (v V) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		if v.B {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case KindInt:
		return []byte(fmt.Sprintf("%d", v.I)), nil
	case KindFloat:
		if math.IsNaN(v.F) || math.IsInf(v.F, 0) {
			return nil, fmt.Errorf("value: cannot encode non-finite float %v as JSON", v.F)
		}
		return json.Marshal(v.F)
	case KindString:
		return json.Marshal(v.S)
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range v.L {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMap:
		var buf bytes.Buffer
		buf.WriteByte('{')
		first := true
		for k, e := range v.M {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("value: unserializable kind %s", v.Kind)
	}
}

// UnmarshalJSON decodes standard JSON into V, using json.Number to tell
// integer literals from float literals apart.
func (v *V) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out, err := fromRaw(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromRaw(raw interface{}) (V, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			if err := ValidateInt(i); err != nil {
				return V{}, err
			}
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return V{}, fmt.Errorf("value: cannot decode number %q: %w", t.String(), err)
		}
		return Float(f), nil
	case []interface{}:
		out := make([]V, len(t))
		for i, e := range t {
			ev, err := fromRaw(e)
			if err != nil {
				return V{}, err
			}
			out[i] = ev
		}
		return V{Kind: KindList, L: out}, nil
	case map[string]interface{}:
		out := make(map[string]V, len(t))
		for k, e := range t {
			ev, err := fromRaw(e)
			if err != nil {
				return V{}, err
			}
			out[k] = ev
		}
		return V{Kind: KindMap, M: out}, nil
	default:
		return V{}, fmt.Errorf("value: unsupported decoded type %T", raw)
	}
}
