package value

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMsgpack/DecodeMsgpack give command framing a compact, type-
// preserving encoding of V: msgpack's distinct integer and float tags
// mean the int64-vs-float64 distinction round-trips without the
// json.Number dance MarshalJSON needs.
func EncodeMsgpack(enc *msgpack.Encoder, v V) error {
	switch v.Kind {
	case KindNull:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.B)
	case KindInt:
		return enc.EncodeInt64(v.I)
	case KindFloat:
		return enc.EncodeFloat64(v.F)
	case KindString:
		return enc.EncodeString(v.S)
	case KindList:
		if err := enc.EncodeArrayLen(len(v.L)); err != nil {
			return err
		}
		for _, e := range v.L {
			if err := EncodeMsgpack(enc, e); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := enc.EncodeMapLen(len(v.M)); err != nil {
			return err
		}
		for k, e := range v.M {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := EncodeMsgpack(enc, e); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("value: unserializable kind %s", v.Kind)
	}
}

func DecodeMsgpack(dec *msgpack.Decoder) (V, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return V{}, err
	}
	switch {
	case msgpack.IsFixedMap(code) || code == msgpack.CodeMap16 || code == msgpack.CodeMap32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return V{}, err
		}
		m := make(map[string]V, n)
		for i := 0; i < n; i++ {
			k, err := dec.DecodeString()
			if err != nil {
				return V{}, err
			}
			e, err := DecodeMsgpack(dec)
			if err != nil {
				return V{}, err
			}
			m[k] = e
		}
		return V{Kind: KindMap, M: m}, nil
	case msgpack.IsFixedArray(code) || code == msgpack.CodeArray16 || code == msgpack.CodeArray32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return V{}, err
		}
		l := make([]V, n)
		for i := 0; i < n; i++ {
			e, err := DecodeMsgpack(dec)
			if err != nil {
				return V{}, err
			}
			l[i] = e
		}
		return V{Kind: KindList, L: l}, nil
	case code == msgpack.CodeNil:
		if err := dec.DecodeNil(); err != nil {
			return V{}, err
		}
		return Null(), nil
	default:
		return decodeScalarMsgpack(dec)
	}
}

func decodeScalarMsgpack(dec *msgpack.Decoder) (V, error) {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return V{}, err
	}
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case []byte:
		return String(string(t)), nil
	case int8:
		return newInt(int64(t))
	case int16:
		return newInt(int64(t))
	case int32:
		return newInt(int64(t))
	case int64:
		return newInt(t)
	case int:
		return newInt(int64(t))
	case uint8:
		return newInt(int64(t))
	case uint16:
		return newInt(int64(t))
	case uint32:
		return newInt(int64(t))
	case uint64:
		return newInt(int64(t))
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	default:
		return V{}, fmt.Errorf("value: unsupported msgpack scalar type %T", raw)
	}
}

// newInt constructs an Int, rejecting it if it exceeds MaxIntDigits —
// the point at which a journal frame's decoded value would otherwise
// re-enter the document unchecked.
func newInt(i int64) (V, error) {
	if err := ValidateInt(i); err != nil {
		return V{}, err
	}
	return Int(i), nil
}
