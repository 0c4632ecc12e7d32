package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuubasoft/srimdb/internal/schema"
)

var allKinds = []Kind{KindBoolean, KindUnsigned, KindSigned, KindReal, KindText, KindBlob}

// sampleOf returns a representative value for each kind.
func sampleOf(k Kind) Value {
	switch k {
	case KindBoolean:
		return Boolean(true)
	case KindUnsigned:
		return Unsigned(7)
	case KindSigned:
		return Signed(-7)
	case KindReal:
		return Real(1.5)
	case KindText:
		return Text("hi")
	case KindBlob:
		return Blob{0x01, 0x02}
	default:
		panic("unknown kind")
	}
}

func TestUnifyLattice(t *testing.T) {
	tests := []struct {
		a, b Kind
		want Kind
		ok   bool
	}{
		{KindUnsigned, KindSigned, KindSigned, true},
		{KindSigned, KindUnsigned, KindSigned, true},
		{KindUnsigned, KindReal, KindReal, true},
		{KindReal, KindUnsigned, KindReal, true},
		{KindSigned, KindReal, KindReal, true},
		{KindReal, KindSigned, KindReal, true},
		{KindBoolean, KindText, 0, false},
		{KindText, KindBlob, 0, false},
		{KindBoolean, KindUnsigned, 0, false},
		{KindBlob, KindReal, 0, false},
	}
	for _, tt := range tests {
		got, ok := Unify(tt.a, tt.b)
		assert.Equal(t, tt.ok, ok, "Unify(%s, %s)", tt.a, tt.b)
		if ok {
			assert.Equal(t, tt.want, got, "Unify(%s, %s)", tt.a, tt.b)
		}
	}

	// Identical kinds always unify to themselves.
	for _, k := range allKinds {
		got, ok := Unify(k, k)
		require.True(t, ok, "Unify(%s, %s)", k, k)
		assert.Equal(t, k, got)
	}
}

// For every pair with a defined unification target, casting both operands
// to the target and combining must not fail; for every undefined pair,
// BinopAdd must fail with IncompatibleTypesError.
func TestUnifyBinopAddAgreement(t *testing.T) {
	for _, a := range allKinds {
		for _, b := range allKinds {
			target, ok := Unify(a, b)
			_, err := BinopAdd(sampleOf(a), sampleOf(b))
			if ok {
				assert.NoError(t, err, "BinopAdd(%s, %s)", a, b)

				_, lerr := CastTo(sampleOf(a), target)
				_, rerr := CastTo(sampleOf(b), target)
				assert.NoError(t, lerr, "CastTo(%s, %s)", a, target)
				assert.NoError(t, rerr, "CastTo(%s, %s)", b, target)
			} else {
				var ite *IncompatibleTypesError
				assert.ErrorAs(t, err, &ite, "BinopAdd(%s, %s)", a, b)
			}
		}
	}
}

func TestBinopAddSemantics(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{"unsigned", Unsigned(2), Unsigned(3), Unsigned(5)},
		{"signed", Signed(2), Signed(-4), Signed(-2)},
		{"mixed_int_promotes_signed", Unsigned(2), Signed(-4), Signed(-2)},
		{"signed_real_promotes_real", Signed(1), Real(0.5), Real(1.5)},
		{"real", Real(1.25), Real(0.25), Real(1.5)},
		{"boolean_or_true", Boolean(false), Boolean(true), Boolean(true)},
		{"boolean_or_false", Boolean(false), Boolean(false), Boolean(false)},
		{"text_concat", Text("foo"), Text("bar"), Text("foobar")},
		{"blob_concat", Blob{1, 2}, Blob{3}, Blob{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinopAdd(tt.a, tt.b)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestBinopAddSaturates(t *testing.T) {
	// Maximum plus any positive value clamps to the maximum; never wraps.
	got, err := BinopAdd(Unsigned(math.MaxUint64), Unsigned(1))
	require.NoError(t, err)
	assert.Equal(t, Unsigned(math.MaxUint64), got)

	got, err = BinopAdd(Signed(math.MaxInt64), Signed(1))
	require.NoError(t, err)
	assert.Equal(t, Signed(math.MaxInt64), got)

	got, err = BinopAdd(Signed(math.MinInt64), Signed(-1))
	require.NoError(t, err)
	assert.Equal(t, Signed(math.MinInt64), got)

	got, err = BinopAdd(Signed(math.MaxInt64), Signed(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, Signed(math.MaxInt64), got)
}

func TestCastToReinterpretsIntegers(t *testing.T) {
	// Unsigned <-> Signed is bit reinterpretation, not a bounds check.
	got, err := CastTo(Unsigned(math.MaxUint64), KindSigned)
	require.NoError(t, err)
	assert.Equal(t, Signed(-1), got)

	got, err = CastTo(Signed(-1), KindUnsigned)
	require.NoError(t, err)
	assert.Equal(t, Unsigned(math.MaxUint64), got)
}

func TestCastToBooleanFails(t *testing.T) {
	for _, k := range allKinds {
		if k == KindBoolean {
			continue
		}
		_, err := CastTo(sampleOf(k), KindBoolean)
		var ite *IncompatibleTypesError
		assert.ErrorAs(t, err, &ite, "CastTo(%s, boolean)", k)
	}
}

func TestCastToFieldKind(t *testing.T) {
	tests := []struct {
		name    string
		v       Value
		to      schema.FieldKind
		want    Value
		wantErr bool
	}{
		{"unsigned_to_signed_column", Unsigned(5), schema.Integer{Size: schema.N32, Signed: true}, Signed(5), false},
		{"signed_to_unsigned_column", Signed(-1), schema.Integer{Size: schema.N64, Signed: false}, Unsigned(math.MaxUint64), false},
		{"real_to_signed_column", Real(3.9), schema.Integer{Size: schema.N64, Signed: true}, Signed(3), false},
		{"real_to_unsigned_column_fails", Real(3.9), schema.Integer{Size: schema.N64, Signed: false}, nil, true},
		{"signed_to_real_column", Signed(2), schema.Real{}, Real(2), false},
		{"unsigned_to_text_column", Unsigned(42), schema.Text{}, Text("42"), false},
		{"boolean_to_text_column", Boolean(true), schema.Text{}, Text("true"), false},
		{"real_to_text_column", Real(1.5), schema.Text{}, Text("1.5"), false},
		{"blob_to_text_column_fails", Blob{1}, schema.Text{}, nil, true},
		{"text_to_integer_column_fails", Text("5"), schema.Integer{Size: schema.N8}, nil, true},
		{"anything_to_blob_column_fails", Text("x"), schema.Blob{}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CastToFieldKind(tt.v, tt.to)
			if tt.wantErr {
				var ite *IncompatibleTypesError
				assert.ErrorAs(t, err, &ite)
				return
			}
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestEqualIsStrict(t *testing.T) {
	assert.True(t, Equal(Unsigned(1), Unsigned(1)))
	assert.True(t, Equal(Blob{1, 2}, Blob{1, 2}))
	assert.False(t, Equal(Unsigned(1), Signed(1)), "no coercion in strict equality")
	assert.False(t, Equal(Blob{1}, Blob{1, 2}))
	assert.False(t, Equal(Text("1"), Unsigned(1)))
}

func TestRender(t *testing.T) {
	assert.Equal(t, "true", Render(Boolean(true)))
	assert.Equal(t, "42", Render(Unsigned(42)))
	assert.Equal(t, "-7", Render(Signed(-7)))
	assert.Equal(t, "1.5", Render(Real(1.5)))
	assert.Equal(t, "1", Render(Real(1)))
	assert.Equal(t, "hi", Render(Text("hi")))
	assert.Equal(t, "0x0102", Render(Blob{0x01, 0x02}))
}

func TestRowPickColumns(t *testing.T) {
	row := NewRow(Unsigned(0), Text("a"), Text("b"))
	picked := row.PickColumns([]int{2, 0})
	assert.True(t, picked.Equal(NewRow(Text("b"), Unsigned(0))))
	// Source row untouched
	assert.True(t, row.Equal(NewRow(Unsigned(0), Text("a"), Text("b"))))
}

func TestRowEqual(t *testing.T) {
	a := NewRow(Unsigned(1), Text("x"))
	assert.True(t, a.Equal(NewRow(Unsigned(1), Text("x"))))
	assert.False(t, a.Equal(NewRow(Unsigned(1))))
	assert.False(t, a.Equal(NewRow(Signed(1), Text("x"))))
}

func TestCloneBlobIndependent(t *testing.T) {
	orig := Blob{1, 2, 3}
	cloned := Clone(orig).(Blob)
	cloned[0] = 9
	assert.Equal(t, Blob{1, 2, 3}, orig)
}
