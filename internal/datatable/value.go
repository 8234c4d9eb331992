// Package datatable implements the immutable columnar store that backs
// every query result: typed cells, column schema metadata, and the
// single-pass type inference that promotes a column from String to a
// narrower type once its samples agree.
package datatable

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a DataValue, and doubles as a column's
// inferred data_type (plus Mixed, which has no corresponding DataValue
// variant).
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindDateTime
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBoolean:
		return "Boolean"
	case KindDateTime:
		return "DateTime"
	case KindMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}

// Merge implements the type-inference least-upper-bound rule from
// spec §4.1: Null merges to the other kind, Integer+Float promote to
// Float, identical kinds are stable, everything else degrades to Mixed.
func (k Kind) Merge(other Kind) Kind {
	if k == other {
		return k
	}
	switch {
	case k == KindNull:
		return other
	case other == KindNull:
		return k
	case (k == KindInteger && other == KindFloat) || (k == KindFloat && other == KindInteger):
		return KindFloat
	default:
		return KindMixed
	}
}

// Value is the tagged union described in spec §3.1. Only one of the
// typed fields is meaningful, selected by Kind; Str backs both String
// and DateTime, the latter stored textually.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	F64  float64
	Bool bool
	// Interned marks a String value that was deduplicated by the
	// advanced CSV loader (spec §4.2). Downstream code never inspects
	// this flag — it is exactly equivalent to a plain String.
	Interned bool
}

// Null is the zero DataValue.
var Null = Value{Kind: KindNull}

func NewString(s string) Value   { return Value{Kind: KindString, Str: s} }
func NewInterned(s string) Value { return Value{Kind: KindString, Str: s, Interned: true} }
func NewInt(i int64) Value       { return Value{Kind: KindInteger, Int: i} }
func NewFloat(f float64) Value   { return Value{Kind: KindFloat, F64: f} }
func NewBool(b bool) Value       { return Value{Kind: KindBoolean, Bool: b} }
func NewDateTime(s string) Value { return Value{Kind: KindDateTime, Str: s} }

// IsNull reports whether v is the Null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value the way a rendered cell or an exported CSV
// field would: no quoting, no type decoration.
func (v Value) String() string {
	switch v.Kind {
	case KindString, KindDateTime:
		return v.Str
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindNull:
		return ""
	default:
		return fmt.Sprintf("%v", v.Str)
	}
}

// Equal is structural equality: values of different kinds are never
// equal, even if their string forms coincide.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString, KindDateTime:
		return v.Str == other.Str
	case KindInteger:
		return v.Int == other.Int
	case KindFloat:
		// NaN treated as equal to NaN for total-sort stability (spec §3.1).
		if math.IsNaN(v.F64) && math.IsNaN(other.F64) {
			return true
		}
		return v.F64 == other.F64
	case KindBoolean:
		return v.Bool == other.Bool
	case KindNull:
		return true
	default:
		return false
	}
}

// Compare orders two values of the same kind. The second return value
// is false when the values are of different kinds (spec §3.1:
// cross-kind comparisons "degrade to not equal / not ordered").
func (v Value) Compare(other Value) (cmp int, ordered bool) {
	if v.Kind != other.Kind {
		return 0, false
	}
	switch v.Kind {
	case KindString, KindDateTime:
		return strings.Compare(v.Str, other.Str), true
	case KindInteger:
		switch {
		case v.Int < other.Int:
			return -1, true
		case v.Int > other.Int:
			return 1, true
		default:
			return 0, true
		}
	case KindFloat:
		return compareFloat(v.F64, other.F64), true
	case KindBoolean:
		if v.Bool == other.Bool {
			return 0, true
		}
		if !v.Bool {
			return -1, true
		}
		return 1, true
	case KindNull:
		return 0, true
	default:
		return 0, false
	}
}

// compareFloat gives NaN a total order (equal to itself, greater than
// every other value) so sorts stay stable instead of panicking on
// inconsistent comparator results.
func compareFloat(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AsFloat returns the value coerced to float64 for numeric comparison,
// promoting Integer as spec §4.3 requires ("Numeric comparison between
// Integer and Float promotes to Float").
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindFloat:
		return v.F64, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
