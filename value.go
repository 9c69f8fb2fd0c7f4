package wexpr

// Kind tags the variant held by a Value.
type Kind int

const (
	// KindInvalid marks a zero-value Value and any host value the encoder
	// cannot represent (the Go equivalent of an opaque/function type).
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindBinary
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Key identifies a Map entry. A map key is either a string (the common
// case) or a number: the encoder must be able to tell a numeric key from
// a string that merely looks numeric, so the two are kept as distinct,
// comparable forms rather than collapsing everything to strings up front.
type Key struct {
	Numeric bool
	Str     string
	Num     float64
}

// StringKey builds a string-valued map key.
func StringKey(s string) Key { return Key{Str: s} }

// NumberKey builds a numeric map key.
func NumberKey(n float64) Key { return Key{Numeric: true, Num: n} }

// Value is the tagged variant every decoded document and every value fed
// to the encoder is built from. Only the fields relevant to Kind are
// meaningful; the rest are zero.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string // String payload; unused for Binary, which holds its bytes in Bin
	Bin  []byte
	Arr  []Value
	Map  map[Key]Value
}

// Null is the shared null sentinel value.
func Null() Value { return Value{Kind: KindNull} }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number wraps a float64 scalar.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// String wraps a UTF-8 string scalar.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Binary wraps a byte-blob scalar.
func Binary(b []byte) Value { return Value{Kind: KindBinary, Bin: b} }

// NewArray builds an empty array value.
func NewArray() Value { return Value{Kind: KindArray} }

// NewMap builds an empty map value.
func NewMap() Value { return Value{Kind: KindMap, Map: map[Key]Value{}} }

// IsContainer reports whether v is an Array or a Map.
func (v Value) IsContainer() bool { return v.Kind == KindArray || v.Kind == KindMap }

// Equal reports whether two values are structurally equal. Map key
// ordering never affects equality; array order always does.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull, KindInvalid:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindBinary:
		if len(v.Bin) != len(o.Bin) {
			return false
		}
		for i := range v.Bin {
			if v.Bin[i] != o.Bin[i] {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.Arr) != len(o.Arr) {
			return false
		}
		for i := range v.Arr {
			if !v.Arr[i].Equal(o.Arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Map) != len(o.Map) {
			return false
		}
		for k, val := range v.Map {
			ov, ok := o.Map[k]
			if !ok || !val.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
