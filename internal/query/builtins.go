package query

import (
	"github.com/tuubasoft/srimdb/internal/value"
)

// Builtins returns a fresh registry holding the built-in native
// functions. The registry is built per engine instance at construction
// time, never shared as process-wide state, so independent engines can
// extend their registries without affecting each other.
//
// Built-in functions:
//   - strict_eq: true if fewer than 2 arguments; otherwise true iff every
//     argument equals the first by value and kind, with no coercion.
//   - add: left-folds the saturating add operator family over all
//     arguments; empty argument lists fail NOT_ENOUGH_ARGUMENTS.
func Builtins() Registry {
	return Registry{
		"strict_eq": Native(strictEq),
		"add":       Native(addAll),
	}
}

func strictEq(values []value.Value) (value.Value, error) {
	if len(values) < 2 {
		return value.Boolean(true), nil
	}
	reference := values[0]
	for _, v := range values[1:] {
		if !value.Equal(v, reference) {
			return value.Boolean(false), nil
		}
	}
	return value.Boolean(true), nil
}

func addAll(values []value.Value) (value.Value, error) {
	if len(values) < 1 {
		return nil, newNotEnoughArguments(1)
	}
	acc := values[0]
	for _, v := range values[1:] {
		var err error
		acc, err = value.BinopAdd(acc, v)
		if err != nil {
			return nil, newIncompatibleTypes(err)
		}
	}
	return acc, nil
}
