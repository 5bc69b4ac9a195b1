// Package jsonvalue implements the JSON mapping of spec §6.5 between
// value.Value and JSON text: the generic encode/decode direction shared
// by the trigger registry's HTTP response serialization and the native
// json module's encode()/decode() functions.
//
// gjson/sjson (wired in internal/native/modules_json.go) are path-query
// and path-patch tools over an existing JSON document, not generic tree
// marshalers; there is no pack library for the generic Value<->JSON
// mapping this package performs, so it is built on stdlib encoding/json
// against an intermediate `any` tree.
package jsonvalue

import (
	"encoding/json"
	"math"
	"sort"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

// ToAny converts a Value into a plain Go value suitable for
// encoding/json, per spec §6.5's mapping table.
func ToAny(v value.Value) (any, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case *value.String:
		return vv.Go(), nil
	case value.Bool:
		return bool(vv), nil
	case value.Int:
		return int64(vv), nil
	case value.Float:
		f := float64(vv)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, berrors.NewJsonError("cannot encode non-finite float")
		}
		return f, nil
	case *value.List:
		items := vv.Snapshot()
		out := make([]any, len(items))
		for i, it := range items {
			a, err := ToAny(it)
			if err != nil {
				return nil, err
			}
			out[i] = a
		}
		return out, nil
	case *value.Tuple:
		items := vv.Items()
		out := make([]any, len(items))
		for i, it := range items {
			a, err := ToAny(it)
			if err != nil {
				return nil, err
			}
			out[i] = a
		}
		return out, nil
	case *value.Dict:
		out := make(map[string]any, vv.Len())
		for _, entry := range vv.Items() {
			a, err := ToAny(entry.Value)
			if err != nil {
				return nil, err
			}
			out[entry.Key] = a
		}
		return out, nil
	default:
		if vv == value.None {
			return nil, nil
		}
		return nil, berrors.NewJsonError("value of type %s is not JSON-serializable", value.TypeName(v))
	}
}

// FromAny converts a decoded JSON tree (as produced by encoding/json's
// default unmarshal-into-any) into a Value, inserting Dict keys in sorted
// order (JSON objects carry no order of their own once decoded through
// encoding/json's map[string]any, so the document's key order is lost).
func FromAny(a any) value.Value {
	switch av := a.(type) {
	case nil:
		return value.None
	case bool:
		return value.Bool(av)
	case string:
		return value.NewString(av)
	case float64:
		if av == math.Trunc(av) && !math.IsInf(av, 0) {
			return value.Int(int64(av))
		}
		return value.Float(av)
	case []any:
		items := make([]value.Value, len(av))
		for i, it := range av {
			items[i] = FromAny(it)
		}
		return value.NewList(items)
	case map[string]any:
		keys := make([]string, 0, len(av))
		for k := range av {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := value.NewDict()
		for _, k := range keys {
			d.Set(k, FromAny(av[k]))
		}
		return d
	default:
		return value.None
	}
}

// Encode renders v as a JSON document (spec §6.5, Non-finite floats
// raise JsonError).
func Encode(v value.Value) (string, error) {
	a, err := ToAny(v)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", berrors.NewJsonError("%s", err.Error())
	}
	return string(b), nil
}

// Decode parses a JSON document into a Value.
func Decode(text string) (value.Value, error) {
	var a any
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return nil, berrors.NewJsonError("%s", err.Error())
	}
	return FromAny(a), nil
}
