// Package value implements the recursive document value type V used
// throughout the journaled document store: null, bool, int64, float64,
// string, list, and map. A flat tagged variant is used instead of an
// interface-per-kind hierarchy so the path package's directive table can
// switch on Kind without type assertions scattered across call sites.
package value

import (
	"fmt"
	"strconv"

	"github.com/tsukiyo-oss/journaldoc/internal/domain/apperr"
)

// Kind identifies which variant of V is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap

	// MaxIntDigits bounds integer values to the 15-decimal-digit safe JSON
	// range, matching the document model's stated integer limit. Enforced
	// by ValidateInt/ValidateIntLimits below.
	MaxIntDigits = 15
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// V is the recursive value type. Only the field matching Kind is
// meaningful; the rest are zero. Construct with the Null/Bool/Int/...
// helpers rather than building a literal directly.
type V struct {
	Kind Kind
	B    bool
	I    int64
	F    float64
	S    string
	L    []V
	M    map[string]V
}

func Null() V              { return V{Kind: KindNull} }
func Bool(b bool) V        { return V{Kind: KindBool, B: b} }
func Int(i int64) V        { return V{Kind: KindInt, I: i} }
func Float(f float64) V    { return V{Kind: KindFloat, F: f} }
func String(s string) V    { return V{Kind: KindString, S: s} }
func List(items ...V) V    { return V{Kind: KindList, L: items} }
func Map(m map[string]V) V { return V{Kind: KindMap, M: m} }

// EmptyList and EmptyMap construct fresh, independently-owned containers.
// Used by the path modify algorithm when it must fill in a missing parent.
func EmptyList() V { return V{Kind: KindList, L: []V{}} }
func EmptyMap() V  { return V{Kind: KindMap, M: map[string]V{}} }

func (v V) IsNull() bool { return v.Kind == KindNull }
func (v V) IsMap() bool  { return v.Kind == KindMap }
func (v V) IsList() bool { return v.Kind == KindList }

// ValidateInt rejects an integer whose decimal magnitude exceeds
// MaxIntDigits digits.
func ValidateInt(i int64) error {
	s := strconv.FormatInt(i, 10)
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if len(s) > MaxIntDigits {
		return fmt.Errorf("%w: integer %d exceeds the %d-digit limit", apperr.ErrInvalidPath, i, MaxIntDigits)
	}
	return nil
}

// ValidateIntLimits walks v and applies ValidateInt to every Int it
// contains. This is the entry-point check: it runs wherever a value is
// about to become part of the document, whether freshly decoded from
// JSON/msgpack or supplied directly by a caller.
func ValidateIntLimits(v V) error {
	switch v.Kind {
	case KindInt:
		return ValidateInt(v.I)
	case KindList:
		for _, e := range v.L {
			if err := ValidateIntLimits(e); err != nil {
				return err
			}
		}
	case KindMap:
		for _, e := range v.M {
			if err := ValidateIntLimits(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsNumeric reports whether v is an Int or a Float, the two kinds
// eligible for the path language's numeric-add operation.
func (v V) IsNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// Clone performs a deep copy so a caller can read V trees without aliasing
// the document's live containers.
func Clone(v V) V {
	switch v.Kind {
	case KindList:
		out := make([]V, len(v.L))
		for i, e := range v.L {
			out[i] = Clone(e)
		}
		return V{Kind: KindList, L: out}
	case KindMap:
		out := make(map[string]V, len(v.M))
		for k, e := range v.M {
			out[k] = Clone(e)
		}
		return V{Kind: KindMap, M: out}
	default:
		return v
	}
}

// AsFloat returns v's numeric value widened to float64. ok is false for
// non-numeric kinds.
func (v V) AsFloat() (f float64, ok bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindFloat:
		return v.F, true
	default:
		return 0, false
	}
}

// Add implements the path language's numeric-add semantics: int+int stays
// an int, anything else involving a float promotes to float64.
func Add(existing, delta V) (V, error) {
	if !existing.IsNumeric() || !delta.IsNumeric() {
		return V{}, fmt.Errorf("value: cannot add %s to %s", delta.Kind, existing.Kind)
	}
	if existing.Kind == KindInt && delta.Kind == KindInt {
		return Int(existing.I + delta.I), nil
	}
	ef, _ := existing.AsFloat()
	df, _ := delta.AsFloat()
	return Float(ef + df), nil
}

// Equal performs a structural comparison, used by tests asserting document
// shape after a sequence of mutations.
func Equal(a, b V) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.B == b.B
	case KindInt:
		return a.I == b.I
	case KindFloat:
		return a.F == b.F
	case KindString:
		return a.S == b.S
	case KindList:
		if len(a.L) != len(b.L) {
			return false
		}
		for i := range a.L {
			if !Equal(a.L[i], b.L[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.M) != len(b.M) {
			return false
		}
		for k, av := range a.M {
			bv, ok := b.M[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
