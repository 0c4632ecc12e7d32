package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tuubasoft/srimdb/internal/schema"
	"github.com/tuubasoft/srimdb/internal/value"
)

// Snapshot serialization uses tagged JSON TEXT. A value is a single-key
// object whose key names the runtime kind; integers are stored as
// decimal strings so that full 64-bit values survive any JSON reader
// that would otherwise round them through float64.

type fieldJSON struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Key  bool   `json:"key"`
}

type tableJSON struct {
	Name   string      `json:"name"`
	Fields []fieldJSON `json:"fields"`
}

// marshalTable converts a table declaration to JSON TEXT for storage.
func marshalTable(table schema.Table) (string, error) {
	mask := table.KeyFieldMask()
	out := tableJSON{Name: table.Name()}
	for i, f := range table.Fields() {
		out.Fields = append(out.Fields, fieldJSON{
			Name: f.Name,
			Kind: schema.KindString(f.Kind),
			Key:  mask[i],
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal table %q: %w", table.Name(), err)
	}
	return string(data), nil
}

// unmarshalTable parses JSON TEXT back into a table declaration.
func unmarshalTable(data string) (schema.Table, error) {
	var in tableJSON
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return schema.Table{}, fmt.Errorf("unmarshal table: %w", err)
	}

	fields := make([]schema.TableField, 0, len(in.Fields))
	var keyNames []string
	for _, f := range in.Fields {
		kind, err := schema.ParseKind(f.Kind)
		if err != nil {
			return schema.Table{}, fmt.Errorf("unmarshal table %q: %w", in.Name, err)
		}
		fields = append(fields, schema.NewTableField(f.Name, kind))
		if f.Key {
			keyNames = append(keyNames, f.Name)
		}
	}

	table, err := schema.NewTable(in.Name, fields).WithKeyFields(keyNames...)
	if err != nil {
		return schema.Table{}, fmt.Errorf("unmarshal table %q: %w", in.Name, err)
	}
	return table, nil
}

// marshalRow converts a row to a JSON array of tagged values.
func marshalRow(row value.Row) (string, error) {
	values := make([]json.RawMessage, 0, len(row))
	for _, v := range row {
		raw, err := marshalValue(v)
		if err != nil {
			return "", err
		}
		values = append(values, raw)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal row: %w", err)
	}
	return string(data), nil
}

// unmarshalRow parses a JSON array of tagged values back into a row.
func unmarshalRow(data string) (value.Row, error) {
	var values []json.RawMessage
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal row: %w", err)
	}
	row := make(value.Row, 0, len(values))
	for _, raw := range values {
		v, err := unmarshalValue(raw)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	return row, nil
}

func marshalValue(v value.Value) (json.RawMessage, error) {
	var tagged any
	switch x := v.(type) {
	case value.Boolean:
		tagged = map[string]bool{"boolean": bool(x)}
	case value.Unsigned:
		tagged = map[string]string{"unsigned": strconv.FormatUint(uint64(x), 10)}
	case value.Signed:
		tagged = map[string]string{"signed": strconv.FormatInt(int64(x), 10)}
	case value.Real:
		tagged = map[string]string{"real": strconv.FormatFloat(float64(x), 'g', -1, 64)}
	case value.Text:
		tagged = map[string]string{"text": string(x)}
	case value.Blob:
		tagged = map[string]string{"blob": base64.StdEncoding.EncodeToString(x)}
	default:
		return nil, fmt.Errorf("marshal value: unknown kind %T", v)
	}
	data, err := json.Marshal(tagged)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return data, nil
}

func unmarshalValue(raw json.RawMessage) (value.Value, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("unmarshal value: expected one kind tag, got %d", len(tagged))
	}

	for tag, body := range tagged {
		switch tag {
		case "boolean":
			var b bool
			if err := json.Unmarshal(body, &b); err != nil {
				return nil, fmt.Errorf("unmarshal boolean: %w", err)
			}
			return value.Boolean(b), nil
		case "unsigned":
			s, err := unmarshalString(body, tag)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal unsigned: %w", err)
			}
			return value.Unsigned(n), nil
		case "signed":
			s, err := unmarshalString(body, tag)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal signed: %w", err)
			}
			return value.Signed(n), nil
		case "real":
			s, err := unmarshalString(body, tag)
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal real: %w", err)
			}
			return value.Real(f), nil
		case "text":
			s, err := unmarshalString(body, tag)
			if err != nil {
				return nil, err
			}
			return value.Text(s), nil
		case "blob":
			s, err := unmarshalString(body, tag)
			if err != nil {
				return nil, err
			}
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("unmarshal blob: %w", err)
			}
			return value.Blob(b), nil
		default:
			return nil, fmt.Errorf("unmarshal value: unknown kind tag %q", tag)
		}
	}
	panic("unreachable")
}

func unmarshalString(body json.RawMessage, tag string) (string, error) {
	var s string
	if err := json.Unmarshal(body, &s); err != nil {
		return "", fmt.Errorf("unmarshal %s: %w", tag, err)
	}
	return s, nil
}
