package query

import (
	"fmt"

	"github.com/tuubasoft/srimdb/internal/value"
)

// Condition is a sealed interface over boolean-producing expressions used
// by the Select operator: a literal value, a field reference, or a
// function call.
type Condition interface {
	condition() // Marker method - seals interface to this package
}

// ValueCondition is a literal condition. Only a Boolean value reduces;
// any other kind fails NOT_BOOLEAN.
type ValueCondition struct {
	Value value.Value
}

func (ValueCondition) condition() {}

// FieldCondition resolves a field reference and re-tests the resulting
// value as a literal.
type FieldCondition struct {
	Field Field
}

func (FieldCondition) condition() {}

// CallCondition resolves a call's arguments, applies it, and re-tests the
// resulting value as a literal.
type CallCondition struct {
	Call *FunctionCall
}

func (CallCondition) condition() {}

// Test reduces a condition to a boolean within the given resolution
// context. A condition that reduces to a non-boolean value fails with
// NOT_BOOLEAN.
func Test(cond Condition, functions Registry, r Resolver) (bool, error) {
	switch c := cond.(type) {
	case ValueCondition:
		b, ok := c.Value.(value.Boolean)
		if !ok {
			return false, newNotBoolean(c.Value.Kind())
		}
		return bool(b), nil

	case FieldCondition:
		v, err := r.Resolve(c.Field)
		if err != nil {
			return false, err
		}
		return Test(ValueCondition{Value: v}, functions, r)

	case CallCondition:
		resolved, err := c.Call.ResolveArgs(r)
		if err != nil {
			return false, err
		}
		v, err := resolved.Apply(functions)
		if err != nil {
			return false, err
		}
		return Test(ValueCondition{Value: v}, functions, r)

	default:
		panic(fmt.Sprintf("unknown condition form: %T", cond))
	}
}
