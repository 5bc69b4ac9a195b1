package value

import berrors "github.com/cwbudde/blueprint/internal/errors"

// AsInt coerces v to an int64, accepting Int and Bool (True/False as 1/0),
// matching the reference evaluator's as_int() used for subscripts and
// shift/bitwise operands.
func AsInt(v Value) (int64, error) {
	switch vv := v.(type) {
	case Int:
		return int64(vv), nil
	case Bool:
		if vv {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, berrors.NewTypeError("int", TypeName(v))
	}
}

// AsFloat coerces v to a float64, accepting both Int and Float.
func AsFloat(v Value) (float64, error) {
	switch vv := v.(type) {
	case Float:
		return float64(vv), nil
	case Int:
		return float64(vv), nil
	default:
		return 0, berrors.NewTypeError("float", TypeName(v))
	}
}

// AsString coerces v to a Go string, requiring a String value.
func AsString(v Value) (string, error) {
	s, ok := v.(*String)
	if !ok {
		return "", berrors.NewTypeError("str", TypeName(v))
	}
	return s.Go(), nil
}
