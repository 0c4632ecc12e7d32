package query

import (
	"errors"

	"github.com/tuubasoft/srimdb/internal/value"
)

// Function is an applicable function in the registry.
//
// Function kinds:
//   - Native: fixed host-provided behavior over resolved values.
//   - Composed: declared in terms of another call. Application is not
//     implemented; calling one yields UNSUPPORTED_FUNCTION_KIND rather
//     than aborting the process.
type Function interface {
	// Call applies the function to fully resolved argument values.
	Call(args []value.Value) (value.Value, error)
}

// Native is a host-registered pure function.
type Native func(args []value.Value) (value.Value, error)

// Call applies the native implementation.
func (f Native) Call(args []value.Value) (value.Value, error) {
	return f(args)
}

// Composed is a function defined as a stored call template whose
// field-shaped arguments act as positional placeholders. The substitution
// semantics are an extension point; until they are implemented, applying
// a composed function fails with UNSUPPORTED_FUNCTION_KIND.
type Composed struct {
	Template *FunctionCall
}

// Call always fails: composed application is unsupported.
func (f Composed) Call(args []value.Value) (value.Value, error) {
	return nil, &Error{
		Code:    ErrCodeUnsupportedFunctionKind,
		Message: "composed function application is not supported",
	}
}

// Registry maps function names to functions. Each engine instance owns
// its registry; one evaluation works against a single snapshot of it.
type Registry map[string]Function

// Resolver turns a field reference into a concrete value within one
// evaluation context.
//
// Implementations:
//   - NoRowContext: fails every reference (literal operators have no row
//     to resolve against).
//   - RowContext: indexes the current row of a result.
type Resolver interface {
	Resolve(f Field) (value.Value, error)
}

// NoRowContext is the Resolver for contexts without a current row. Every
// field reference fails with NO_SUCH_FIELD.
type NoRowContext struct{}

// Resolve always fails: a call with no row context cannot reference
// fields.
func (NoRowContext) Resolve(f Field) (value.Value, error) {
	return nil, &Error{
		Code:    ErrCodeNoSuchField,
		Message: "field reference outside row context",
		Field:   f,
	}
}

// Argument is a sealed interface over the three argument forms of a
// function call: a literal value, a nested call, or an unresolved field
// reference.
type Argument interface {
	argument() // Marker method - seals interface to this package
}

// ValueArg is a literal value argument.
type ValueArg struct {
	Value value.Value
}

func (ValueArg) argument() {}

// CallArg is a nested function call argument.
type CallArg struct {
	Call *FunctionCall
}

func (CallArg) argument() {}

// FieldArg is an unresolved field reference argument. It must be replaced
// by a value (ResolveArgs) before the call can be applied.
type FieldArg struct {
	Field Field
}

func (FieldArg) argument() {}

// FunctionCall is a call expression: a target function name plus ordered
// arguments.
type FunctionCall struct {
	Target    string
	Arguments []Argument
}

// NewCall creates a call expression.
func NewCall(target string, args ...Argument) *FunctionCall {
	return &FunctionCall{Target: target, Arguments: args}
}

// ResolveArgs walks the arguments depth-first and returns a new call in
// which every field reference has been replaced by the value the resolver
// produced for it. Literal values pass through unchanged; nested calls
// are resolved recursively. The receiver is not modified.
//
// A call still containing a field reference after this step is a
// programming error, not a user error; Apply rejects it.
func (c *FunctionCall) ResolveArgs(r Resolver) (*FunctionCall, error) {
	args := make([]Argument, len(c.Arguments))
	for i, arg := range c.Arguments {
		switch a := arg.(type) {
		case ValueArg:
			args[i] = a
		case CallArg:
			resolved, err := a.Call.ResolveArgs(r)
			if err != nil {
				return nil, err
			}
			args[i] = CallArg{Call: resolved}
		case FieldArg:
			v, err := r.Resolve(a.Field)
			if err != nil {
				return nil, err
			}
			args[i] = ValueArg{Value: v}
		}
	}
	return NewCall(c.Target, args...), nil
}

// Apply evaluates the call against a function registry. All arguments
// must already be resolved to values; a remaining field reference fails
// with UNRESOLVED_FIELD. Arguments are evaluated left to right, nested
// calls first, and the target is then looked up and invoked.
func (c *FunctionCall) Apply(functions Registry) (value.Value, error) {
	args := make([]value.Value, len(c.Arguments))
	for i, arg := range c.Arguments {
		switch a := arg.(type) {
		case ValueArg:
			args[i] = a.Value
		case CallArg:
			v, err := a.Call.Apply(functions)
			if err != nil {
				return nil, err
			}
			args[i] = v
		case FieldArg:
			return nil, newUnresolvedField(c.Target, a.Field)
		}
	}

	fn, ok := functions[c.Target]
	if !ok {
		return nil, newNoSuchFunction(c.Target)
	}

	result, err := fn.Call(args)
	if err != nil {
		var qe *Error
		if errors.As(err, &qe) && qe.Code == ErrCodeUnsupportedFunctionKind && qe.Function == "" {
			qe.Function = c.Target
		}
		return nil, err
	}
	return result, nil
}
