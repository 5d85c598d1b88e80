package value

import (
	"encoding/base64"
	"fmt"
)

// Kind enumerates the shapes a field value can take. The set is closed:
// every consumer dispatches exhaustively over it.
type Kind uint8

const (
	KindNumber Kind = iota
	KindColor
	KindText
	KindBool
	KindEnum
	KindBlob
)

var kindNames = map[Kind]string{
	KindNumber: "number",
	KindColor:  "color",
	KindText:   "text",
	KindBool:   "bool",
	KindEnum:   "enum",
	KindBlob:   "blob",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind reads the String form back.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown value kind %q", s)
}

// Value is a tagged union over the field value kinds. Values are
// immutable; the zero Value is the number 0.
type Value struct {
	kind Kind
	num  float64
	col  RGBA
	str  string
	flag bool
	idx  int
	blob []byte
}

// Number returns a scalar value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Color returns a color value.
func Color(c RGBA) Value {
	return Value{kind: KindColor, col: c}
}

// Text returns a string value.
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Enum returns an index into a field's item list.
func Enum(i int) Value {
	return Value{kind: KindEnum, idx: i}
}

// Blob returns an opaque byte value. The bytes are copied so later
// mutation of b cannot reach stored state.
func Blob(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBlob, blob: cp}
}

// Kind reports which shape the value holds.
func (v Value) Kind() Kind { return v.kind }

// Float returns the scalar, or 0 for other kinds.
func (v Value) Float() float64 { return v.num }

// Color returns the color, or the zero RGBA for other kinds.
func (v Value) Color() RGBA { return v.col }

// Text returns the string, or "" for other kinds.
func (v Value) Text() string { return v.str }

// Bool returns the flag, or false for other kinds.
func (v Value) Bool() bool { return v.flag }

// Enum returns the index, or 0 for other kinds.
func (v Value) Enum() int { return v.idx }

// Blob returns a copy of the bytes, or nil for other kinds.
func (v Value) Blob() []byte {
	if v.blob == nil {
		return nil
	}
	cp := make([]byte, len(v.blob))
	copy(cp, v.blob)
	return cp
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindColor:
		return v.col == o.col
	case KindText:
		return v.str == o.str
	case KindBool:
		return v.flag == o.flag
	case KindEnum:
		return v.idx == o.idx
	case KindBlob:
		if len(v.blob) != len(o.blob) {
			return false
		}
		for i := range v.blob {
			if v.blob[i] != o.blob[i] {
				return false
			}
		}
		return true
	}
	return false
}

// Lerp blends two values at progress d. Numbers blend linearly, colors
// per channel; the discrete kinds have no defined blend and hold a.
// Mixed kinds hold a; kind agreement is enforced upstream at the field
// boundary, so this is a guard rather than an error path.
func Lerp(a, b Value, d float64) Value {
	if a.kind != b.kind {
		return a
	}
	switch a.kind {
	case KindNumber:
		return Number(lerp(a.num, b.num, d))
	case KindColor:
		return Color(a.col.Lerp(b.col, d))
	default:
		return a
	}
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Primitive converts v to a YAML-safe primitive: float64, hex string,
// string, bool, int, or base64 string by kind.
func (v Value) Primitive() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindColor:
		return v.col.Hex()
	case KindText:
		return v.str
	case KindBool:
		return v.flag
	case KindEnum:
		return v.idx
	case KindBlob:
		return base64.StdEncoding.EncodeToString(v.blob)
	}
	return nil
}

// FromPrimitive rebuilds a value of kind k from its Primitive form.
// This is the validation boundary for data read from project files, so
// it is the one place a shape mismatch surfaces as an error.
func FromPrimitive(k Kind, p any) (Value, error) {
	switch k {
	case KindNumber:
		switch n := p.(type) {
		case float64:
			return Number(n), nil
		case int:
			return Number(float64(n)), nil
		case int64:
			return Number(float64(n)), nil
		}
	case KindColor:
		if s, ok := p.(string); ok {
			c, err := ParseHex(s)
			if err != nil {
				return Value{}, err
			}
			return Color(c), nil
		}
	case KindText:
		if s, ok := p.(string); ok {
			return Text(s), nil
		}
	case KindBool:
		if b, ok := p.(bool); ok {
			return Bool(b), nil
		}
	case KindEnum:
		switch n := p.(type) {
		case int:
			return Enum(n), nil
		case int64:
			return Enum(int(n)), nil
		}
	case KindBlob:
		if s, ok := p.(string); ok {
			raw, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return Value{}, fmt.Errorf("decode blob: %w", err)
			}
			return Blob(raw), nil
		}
	default:
		return Value{}, fmt.Errorf("unknown value kind %q", k)
	}
	return Value{}, fmt.Errorf("cannot decode %T as %s", p, k)
}
