package value

import (
	"fmt"
	"math"

	"github.com/tuubasoft/srimdb/internal/schema"
)

// IncompatibleTypesError reports a cast or binary operation over kinds
// that the coercion lattice does not relate.
type IncompatibleTypesError struct {
	From Kind
	To   string // target kind, field kind keyword, or right operand kind
}

func (e *IncompatibleTypesError) Error() string {
	return fmt.Sprintf("incompatible types: %s and %s", e.From, e.To)
}

func incompatible(from Kind, to string) error {
	return &IncompatibleTypesError{From: from, To: to}
}

// CastTo converts a value to the target runtime kind.
//
//   - Identity if the value already has that kind.
//   - Unsigned and Signed convert to each other by bit reinterpretation
//     (wrap-style, never a bounds failure).
//   - Unsigned and Signed convert to Real numerically.
//   - Casting to Boolean, or any pair outside the lattice, fails.
func CastTo(v Value, to Kind) (Value, error) {
	if v.Kind() == to {
		return v, nil
	}
	switch val := v.(type) {
	case Unsigned:
		switch to {
		case KindSigned:
			return Signed(int64(val)), nil
		case KindReal:
			return Real(float64(val)), nil
		}
	case Signed:
		switch to {
		case KindUnsigned:
			return Unsigned(uint64(val)), nil
		case KindReal:
			return Real(float64(val)), nil
		}
	}
	return nil, incompatible(v.Kind(), to.String())
}

// CastToFieldKind converts a value to a declared column type. This is the
// schema-level cast used when binding literals to declared columns.
//
//   - Integer columns accept Unsigned, Signed (reinterpreted to match the
//     declared signedness), and Real when the column is signed
//     (truncated).
//   - Real columns accept any numeric value.
//   - Text columns accept any scalar with a canonical string rendering:
//     numerics, booleans, and text itself. Blob has no canonical text
//     form and fails.
//   - Everything else fails.
//
// Declared integer widths do not bound the runtime value; width is a
// storage annotation, not a range check.
func CastToFieldKind(v Value, to schema.FieldKind) (Value, error) {
	switch fk := to.(type) {
	case schema.Integer:
		switch val := v.(type) {
		case Unsigned:
			if fk.Signed {
				return Signed(int64(val)), nil
			}
			return val, nil
		case Signed:
			if fk.Signed {
				return val, nil
			}
			return Unsigned(uint64(val)), nil
		case Real:
			if fk.Signed {
				return Signed(int64(val)), nil
			}
		}
	case schema.Real:
		switch val := v.(type) {
		case Unsigned:
			return Real(float64(val)), nil
		case Signed:
			return Real(float64(val)), nil
		case Real:
			return val, nil
		}
	case schema.Text:
		switch v.(type) {
		case Boolean, Unsigned, Signed, Real, Text:
			return Text(Render(v)), nil
		}
	}
	return nil, incompatible(v.Kind(), schema.KindString(to))
}

// BinopAdd combines two values under the "add" operator family: the kinds
// are unified, both operands are cast to the unified kind, and the result
// is combined per kind:
//
//   - Boolean: logical OR.
//   - Unsigned, Signed: saturating addition. Overflow clamps to the
//     type's bound; it never wraps and never panics. An embedded engine
//     must not abort on data-controlled arithmetic, and clamping is the
//     auditable failure mode.
//   - Real: IEEE addition.
//   - Text: concatenation.
//   - Blob: byte-sequence concatenation.
//
// Fails with IncompatibleTypesError when the kinds do not unify.
func BinopAdd(a, b Value) (Value, error) {
	kind, ok := Unify(a.Kind(), b.Kind())
	if !ok {
		return nil, incompatible(a.Kind(), b.Kind().String())
	}

	left, err := CastTo(a, kind)
	if err != nil {
		return nil, err
	}
	right, err := CastTo(b, kind)
	if err != nil {
		return nil, err
	}

	switch l := left.(type) {
	case Boolean:
		return Boolean(bool(l) || bool(right.(Boolean))), nil
	case Unsigned:
		return addUnsignedSaturating(l, right.(Unsigned)), nil
	case Signed:
		return addSignedSaturating(l, right.(Signed)), nil
	case Real:
		return Real(float64(l) + float64(right.(Real))), nil
	case Text:
		return Text(string(l) + string(right.(Text))), nil
	case Blob:
		r := right.(Blob)
		out := make(Blob, 0, len(l)+len(r))
		out = append(out, l...)
		out = append(out, r...)
		return out, nil
	default:
		return nil, incompatible(kind, kind.String())
	}
}

func addUnsignedSaturating(a, b Unsigned) Unsigned {
	sum := uint64(a) + uint64(b)
	if sum < uint64(a) {
		return Unsigned(math.MaxUint64)
	}
	return Unsigned(sum)
}

func addSignedSaturating(a, b Signed) Signed {
	sum := int64(a) + int64(b)
	if a > 0 && b > 0 && sum <= 0 {
		return Signed(math.MaxInt64)
	}
	if a < 0 && b < 0 && sum >= 0 {
		return Signed(math.MinInt64)
	}
	return Signed(sum)
}
