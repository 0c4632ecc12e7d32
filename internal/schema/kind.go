package schema

import (
	"fmt"
	"strings"
)

// FieldKind is a sealed interface describing the declared type of a table
// column. Only Integer, Real, Text, Blob, and ForeignKey implement it.
//
// FieldKind is schema-level: it annotates stored columns. Runtime data is
// tagged with value.Kind instead, and the two meet only when a literal is
// bound to a declared column (value.CastToFieldKind).
type FieldKind interface {
	fieldKind() // Marker method - seals interface to this package
}

// Integer declares a fixed-width integer column.
type Integer struct {
	Size   IntSize
	Signed bool
}

func (Integer) fieldKind() {}

// Real declares an IEEE 754 double-precision (binary64) column.
type Real struct{}

func (Real) fieldKind() {}

// Text declares a UTF-8 text column.
type Text struct{}

func (Text) fieldKind() {}

// Blob declares an arbitrary binary data column.
type Blob struct{}

func (Blob) fieldKind() {}

// ForeignKey declares a column referencing another table's key.
type ForeignKey struct {
	Table string
}

func (ForeignKey) fieldKind() {}

// IntSize is the storage width of an Integer column.
type IntSize uint8

const (
	N8  IntSize = iota // [iu]8
	N16                // [iu]16
	N32                // [iu]32
	N64                // [iu]64
)

// SizeBytes returns the storage width in bytes.
func (s IntSize) SizeBytes() uint8 {
	switch s {
	case N8:
		return 1
	case N16:
		return 2
	case N32:
		return 4
	case N64:
		return 8
	default:
		panic(fmt.Sprintf("unknown IntSize: %d", s))
	}
}

// Bits returns the storage width in bits.
func (s IntSize) Bits() uint8 {
	return s.SizeBytes() * 8
}

// ConstantSizeBytes returns the fixed byte width of a field kind.
// Only Integer columns have a constant width; all other kinds return
// ok=false.
func ConstantSizeBytes(k FieldKind) (uint8, bool) {
	if i, ok := k.(Integer); ok {
		return i.Size.SizeBytes(), true
	}
	return 0, false
}

// KindString renders a field kind as its schema keyword, e.g. "u64",
// "i32", "real", "text", "blob", "->Companies". Used in diagnostics and
// by the schema compiler's keyword table.
func KindString(k FieldKind) string {
	switch fk := k.(type) {
	case Integer:
		if fk.Signed {
			return fmt.Sprintf("i%d", fk.Size.Bits())
		}
		return fmt.Sprintf("u%d", fk.Size.Bits())
	case Real:
		return "real"
	case Text:
		return "text"
	case Blob:
		return "blob"
	case ForeignKey:
		return "->" + fk.Table
	default:
		return fmt.Sprintf("unknown(%T)", k)
	}
}

// ParseKind parses a schema keyword back into a field kind. It accepts
// exactly the strings KindString produces.
func ParseKind(s string) (FieldKind, error) {
	switch s {
	case "u8":
		return Integer{Size: N8}, nil
	case "u16":
		return Integer{Size: N16}, nil
	case "u32":
		return Integer{Size: N32}, nil
	case "u64":
		return Integer{Size: N64}, nil
	case "i8":
		return Integer{Size: N8, Signed: true}, nil
	case "i16":
		return Integer{Size: N16, Signed: true}, nil
	case "i32":
		return Integer{Size: N32, Signed: true}, nil
	case "i64":
		return Integer{Size: N64, Signed: true}, nil
	case "real":
		return Real{}, nil
	case "text":
		return Text{}, nil
	case "blob":
		return Blob{}, nil
	}
	if table, ok := strings.CutPrefix(s, "->"); ok && table != "" {
		return ForeignKey{Table: table}, nil
	}
	return nil, fmt.Errorf("unknown field kind %q", s)
}
