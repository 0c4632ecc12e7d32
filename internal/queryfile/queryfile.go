// Package queryfile parses YAML operator trees into executable queries.
//
// A queryfile is a nested map in which every node is a single-key map
// naming the operator, mirroring the operator tree one to one:
//
//	select:
//	  where:
//	    call:
//	      function: strict_eq
//	      args:
//	        - field: Companies.city
//	        - value: {text: "Oulu"}
//	  from:
//	    table: Companies
//
// Decoding is strict: unknown operators, unknown keys, and missing
// required keys are errors, each reported with the source line and
// column.
package queryfile

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tuubasoft/srimdb/internal/query"
	"github.com/tuubasoft/srimdb/internal/schema"
	"github.com/tuubasoft/srimdb/internal/value"
)

// DecodeError reports a malformed queryfile with source position.
type DecodeError struct {
	Message string
	Line    int
	Column  int
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func newError(node *yaml.Node, format string, args ...any) *DecodeError {
	e := &DecodeError{Message: fmt.Sprintf(format, args...)}
	if node != nil {
		e.Line = node.Line
		e.Column = node.Column
	}
	return e
}

// Parse decodes a queryfile document into an operator tree.
func Parse(data []byte) (query.Query, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse queryfile: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, newError(&doc, "queryfile is empty")
	}
	return decodeQuery(doc.Content[0])
}

// ParseFile decodes the queryfile at the given path.
func ParseFile(path string) (query.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queryfile: %w", err)
	}
	q, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

// Decode decodes one operator node. Useful when a queryfile tree is
// embedded in a larger YAML document, as in harness scenarios.
func Decode(node *yaml.Node) (query.Query, error) {
	return decodeQuery(node)
}

// DecodeValue decodes one tagged literal node.
func DecodeValue(node *yaml.Node) (value.Value, error) {
	return decodeValue(node)
}

func decodeQuery(node *yaml.Node) (query.Query, error) {
	op, body, err := singleKey(node, "query operator")
	if err != nil {
		return nil, err
	}

	switch op {
	case "empty":
		fields, err := mapping(body, "fields")
		if err != nil {
			return nil, err
		}
		names, err := stringList(fields["fields"])
		if err != nil {
			return nil, err
		}
		return query.Empty{Fields: names}, nil

	case "table":
		name, err := scalarString(body)
		if err != nil {
			return nil, err
		}
		return query.Table{Name: name}, nil

	case "from_value":
		keys, err := mapping(body, "field", "value")
		if err != nil {
			return nil, err
		}
		field, err := decodeTableField(keys["field"])
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(keys["value"])
		if err != nil {
			return nil, err
		}
		return query.FromValue{Field: field, Value: v}, nil

	case "from_call":
		keys, err := mapping(body, "field", "call")
		if err != nil {
			return nil, err
		}
		field, err := decodeTableField(keys["field"])
		if err != nil {
			return nil, err
		}
		call, err := decodeCall(keys["call"])
		if err != nil {
			return nil, err
		}
		return query.FromFunctionCall{Field: field, Call: call}, nil

	case "union", "intersection", "difference":
		keys, err := mapping(body, "left", "right")
		if err != nil {
			return nil, err
		}
		left, err := decodeQuery(keys["left"])
		if err != nil {
			return nil, err
		}
		right, err := decodeQuery(keys["right"])
		if err != nil {
			return nil, err
		}
		switch op {
		case "union":
			return query.Union{Left: left, Right: right}, nil
		case "intersection":
			return query.Intersection{Left: left, Right: right}, nil
		default:
			return query.Difference{Left: left, Right: right}, nil
		}

	case "distinct":
		keys, err := mapping(body, "from")
		if err != nil {
			return nil, err
		}
		from, err := decodeQuery(keys["from"])
		if err != nil {
			return nil, err
		}
		return query.Distinct{From: from}, nil

	case "project":
		keys, err := mapping(body, "fields", "from")
		if err != nil {
			return nil, err
		}
		names, err := stringList(keys["fields"])
		if err != nil {
			return nil, err
		}
		fields := make([]query.Field, len(names))
		for i, name := range names {
			fields[i] = parseFieldRef(name)
		}
		from, err := decodeQuery(keys["from"])
		if err != nil {
			return nil, err
		}
		return query.Project{Fields: fields, From: from}, nil

	case "select":
		keys, err := mapping(body, "where", "from")
		if err != nil {
			return nil, err
		}
		where, err := decodeCondition(keys["where"])
		if err != nil {
			return nil, err
		}
		from, err := decodeQuery(keys["from"])
		if err != nil {
			return nil, err
		}
		return query.Select{Where: where, From: from}, nil

	case "rename":
		keys, err := mapping(body, "from", "to", "in")
		if err != nil {
			return nil, err
		}
		from, err := scalarString(keys["from"])
		if err != nil {
			return nil, err
		}
		to, err := scalarString(keys["to"])
		if err != nil {
			return nil, err
		}
		in, err := decodeQuery(keys["in"])
		if err != nil {
			return nil, err
		}
		return query.Rename{From: parseFieldRef(from), To: to, In: in}, nil

	default:
		return nil, newError(node, "unknown query operator %q", op)
	}
}

func decodeCondition(node *yaml.Node) (query.Condition, error) {
	form, body, err := singleKey(node, "condition")
	if err != nil {
		return nil, err
	}
	switch form {
	case "value":
		v, err := decodeValue(body)
		if err != nil {
			return nil, err
		}
		return query.ValueCondition{Value: v}, nil
	case "field":
		name, err := scalarString(body)
		if err != nil {
			return nil, err
		}
		return query.FieldCondition{Field: parseFieldRef(name)}, nil
	case "call":
		call, err := decodeCall(body)
		if err != nil {
			return nil, err
		}
		return query.CallCondition{Call: call}, nil
	default:
		return nil, newError(node, "unknown condition form %q", form)
	}
}

func decodeCall(node *yaml.Node) (*query.FunctionCall, error) {
	keys, err := mappingAllow(node, []string{"function"}, []string{"args"})
	if err != nil {
		return nil, err
	}
	target, err := scalarString(keys["function"])
	if err != nil {
		return nil, err
	}

	var args []query.Argument
	if argsNode, ok := keys["args"]; ok {
		if argsNode.Kind != yaml.SequenceNode {
			return nil, newError(argsNode, "args must be a list")
		}
		for _, item := range argsNode.Content {
			arg, err := decodeArgument(item)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	return query.NewCall(target, args...), nil
}

func decodeArgument(node *yaml.Node) (query.Argument, error) {
	form, body, err := singleKey(node, "argument")
	if err != nil {
		return nil, err
	}
	switch form {
	case "value":
		v, err := decodeValue(body)
		if err != nil {
			return nil, err
		}
		return query.ValueArg{Value: v}, nil
	case "field":
		name, err := scalarString(body)
		if err != nil {
			return nil, err
		}
		return query.FieldArg{Field: parseFieldRef(name)}, nil
	case "call":
		call, err := decodeCall(body)
		if err != nil {
			return nil, err
		}
		return query.CallArg{Call: call}, nil
	default:
		return nil, newError(node, "unknown argument form %q", form)
	}
}

func decodeTableField(node *yaml.Node) (schema.TableField, error) {
	keys, err := mapping(node, "name", "kind")
	if err != nil {
		return schema.TableField{}, err
	}
	name, err := scalarString(keys["name"])
	if err != nil {
		return schema.TableField{}, err
	}
	keyword, err := scalarString(keys["kind"])
	if err != nil {
		return schema.TableField{}, err
	}
	kind, err := schema.ParseKind(keyword)
	if err != nil {
		return schema.TableField{}, newError(keys["kind"], "%v", err)
	}
	return schema.NewTableField(name, kind), nil
}

// decodeValue decodes a tagged literal. Integers are parsed from the
// scalar text, never through float64, so full 64-bit values round-trip.
func decodeValue(node *yaml.Node) (value.Value, error) {
	tag, body, err := singleKey(node, "value")
	if err != nil {
		return nil, err
	}
	text, err := scalarString(body)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "boolean":
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, newError(body, "invalid boolean %q", text)
		}
		return value.Boolean(b), nil
	case "unsigned":
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, newError(body, "invalid unsigned %q", text)
		}
		return value.Unsigned(n), nil
	case "signed":
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, newError(body, "invalid signed %q", text)
		}
		return value.Signed(n), nil
	case "real":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, newError(body, "invalid real %q", text)
		}
		return value.Real(f), nil
	case "text":
		return value.Text(text), nil
	case "blob":
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, newError(body, "invalid base64 blob")
		}
		return value.Blob(b), nil
	default:
		return nil, newError(node, "unknown value kind %q", tag)
	}
}

// parseFieldRef parses "name" or "Table.name" into a field reference.
// Only the first dot separates the qualifier.
func parseFieldRef(s string) query.Field {
	if table, name, ok := strings.Cut(s, "."); ok && table != "" && name != "" {
		return query.NewField(name).FromTable(table)
	}
	return query.NewField(s)
}

// singleKey unwraps the single-key map every tree node must be.
func singleKey(node *yaml.Node, what string) (string, *yaml.Node, error) {
	if node == nil {
		return "", nil, newError(nil, "missing %s", what)
	}
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, newError(node, "%s must be a single-key map", what)
	}
	return node.Content[0].Value, node.Content[1], nil
}

// mapping decodes a map with exactly the required keys.
func mapping(node *yaml.Node, required ...string) (map[string]*yaml.Node, error) {
	return mappingAllow(node, required, nil)
}

// mappingAllow decodes a map with required and optional keys, rejecting
// anything else.
func mappingAllow(node *yaml.Node, required, optional []string) (map[string]*yaml.Node, error) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, newError(node, "expected a map")
	}

	allowed := make(map[string]bool, len(required)+len(optional))
	for _, k := range required {
		allowed[k] = true
	}
	for _, k := range optional {
		allowed[k] = true
	}

	keys := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if !allowed[name] {
			return nil, newError(node.Content[i], "unknown key %q", name)
		}
		if _, dup := keys[name]; dup {
			return nil, newError(node.Content[i], "duplicate key %q", name)
		}
		keys[name] = node.Content[i+1]
	}

	for _, k := range required {
		if _, ok := keys[k]; !ok {
			return nil, newError(node, "missing key %q", k)
		}
	}
	return keys, nil
}

func scalarString(node *yaml.Node) (string, error) {
	if node == nil || node.Kind != yaml.ScalarNode {
		return "", newError(node, "expected a scalar")
	}
	return node.Value, nil
}

func stringList(node *yaml.Node) ([]string, error) {
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil, newError(node, "expected a list")
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		s, err := scalarString(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
