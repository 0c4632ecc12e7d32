// Package value implements the scalar runtime datum of the query engine:
// a tagged union of boolean, integer, floating-point, text, and blob
// values, plus the coercion lattice that defines which kind pairs may be
// unified for binary operators and how casts behave.
//
// Values are immutable. Every operation returns a fresh value and never
// mutates its operands, so values may be shared freely across results.
package value

import (
	"bytes"
	"encoding/hex"
	"strconv"
)

// Value is a sealed interface representing a scalar runtime datum.
// Only Boolean, Unsigned, Signed, Real, Text, and Blob implement it.
type Value interface {
	// Kind returns the runtime tag of the value. Total, never fails.
	Kind() Kind

	scalar() // Sealed - only these types implement it
}

// Boolean is a truth value.
type Boolean bool

func (Boolean) scalar()    {}
func (Boolean) Kind() Kind { return KindBoolean }

// Unsigned is an unsigned integer value.
type Unsigned uint64

func (Unsigned) scalar()    {}
func (Unsigned) Kind() Kind { return KindUnsigned }

// Signed is a signed integer value.
type Signed int64

func (Signed) scalar()    {}
func (Signed) Kind() Kind { return KindSigned }

// Real is an IEEE 754 double-precision (binary64) value.
type Real float64

func (Real) scalar()    {}
func (Real) Kind() Kind { return KindReal }

// Text is a UTF-8 text value.
type Text string

func (Text) scalar()    {}
func (Text) Kind() Kind { return KindText }

// Blob is an arbitrary binary value.
type Blob []byte

func (Blob) scalar()    {}
func (Blob) Kind() Kind { return KindBlob }

// Kind is the runtime tag of a Value.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindUnsigned
	KindSigned
	KindReal
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindUnsigned:
		return "unsigned"
	case KindSigned:
		return "signed"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Unify returns the lattice join of two kinds: the common kind both
// operands of a binary operator are cast to.
//
//   - Identical kinds unify to themselves.
//   - Unsigned and Signed unify to Signed.
//   - Unsigned or Signed with Real unify to Real.
//   - Boolean, Text, and Blob unify only with themselves.
//
// Returns ok=false for every other pair.
func Unify(a, b Kind) (Kind, bool) {
	if a == b {
		return a, true
	}
	switch {
	case (a == KindUnsigned && b == KindSigned) || (a == KindSigned && b == KindUnsigned):
		return KindSigned, true
	case (a == KindUnsigned || a == KindSigned) && b == KindReal:
		return KindReal, true
	case a == KindReal && (b == KindUnsigned || b == KindSigned):
		return KindReal, true
	default:
		return 0, false
	}
}

// Equal reports strict equality: same kind and same value, no coercion.
// Unsigned(1) and Signed(1) are NOT equal.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if ab, ok := a.(Blob); ok {
		return bytes.Equal(ab, b.(Blob))
	}
	return a == b
}

// Render returns the canonical string rendering of a value. This is the
// rendering used when casting scalars to Text columns, so it must stay
// stable across releases.
func Render(v Value) string {
	switch val := v.(type) {
	case Boolean:
		return strconv.FormatBool(bool(val))
	case Unsigned:
		return strconv.FormatUint(uint64(val), 10)
	case Signed:
		return strconv.FormatInt(int64(val), 10)
	case Real:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Text:
		return string(val)
	case Blob:
		return "0x" + hex.EncodeToString(val)
	default:
		return "unknown"
	}
}

// Clone returns an independent copy of a value. Only Blob carries
// aliasable storage; everything else is returned as-is.
func Clone(v Value) Value {
	if b, ok := v.(Blob); ok {
		return Blob(bytes.Clone(b))
	}
	return v
}
