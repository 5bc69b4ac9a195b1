package eval

import (
	"strconv"
	"strings"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

func evalUnaryMinus(v value.Value) (value.Value, error) {
	switch vv := v.(type) {
	case value.Int:
		return -vv, nil
	case value.Float:
		return -vv, nil
	default:
		return nil, berrors.NewTypeError("number", value.TypeName(v))
	}
}

func evalBinaryOp(op string, left, right value.Value) (value.Value, error) {
	switch op {
	case "+":
		return evalAdd(left, right)
	case "-":
		return evalSub(left, right)
	case "*":
		return evalMul(left, right)
	case "/":
		return evalDiv(left, right)
	case "//":
		return evalFloorDiv(left, right)
	case "%":
		return evalMod(left, right)
	case "==":
		return value.Bool(value.Equal(left, right)), nil
	case "!=":
		return value.Bool(!value.Equal(left, right)), nil
	case "<":
		return evalCompare(left, right, func(c int) bool { return c < 0 })
	case "<=":
		return evalCompare(left, right, func(c int) bool { return c <= 0 })
	case ">":
		return evalCompare(left, right, func(c int) bool { return c > 0 })
	case ">=":
		return evalCompare(left, right, func(c int) bool { return c >= 0 })
	case "&":
		return evalBitAnd(left, right)
	case "|":
		return evalBitOr(left, right)
	case "^":
		return evalBitXor(left, right)
	case "<<":
		return evalLeftShift(left, right)
	case ">>":
		return evalRightShift(left, right)
	default:
		return nil, berrors.NewInternalError("unknown binary operator %q", op)
	}
}

func applyAssignOp(op string, left, right value.Value) (value.Value, error) {
	base := strings.TrimSuffix(op, "=")
	return evalBinaryOp(base, left, right)
}

func evalAdd(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return l + r, nil
		case value.Float:
			return value.Float(float64(l)) + r, nil
		}
	case value.Float:
		switch r := right.(type) {
		case value.Float:
			return l + r, nil
		case value.Int:
			return l + value.Float(float64(r)), nil
		}
	case *value.String:
		if r, ok := right.(*value.String); ok {
			return value.NewString(l.Go() + r.Go()), nil
		}
	case *value.List:
		if r, ok := right.(*value.List); ok {
			out := append(append([]value.Value{}, l.Snapshot()...), r.Snapshot()...)
			return value.NewList(out), nil
		}
	}
	return nil, berrors.NewTypeError("compatible types for +", value.TypeName(left)+" and "+value.TypeName(right))
}

func evalSub(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return l - r, nil
		case value.Float:
			return value.Float(float64(l)) - r, nil
		}
	case value.Float:
		switch r := right.(type) {
		case value.Float:
			return l - r, nil
		case value.Int:
			return l - value.Float(float64(r)), nil
		}
	}
	return nil, berrors.NewTypeError("numbers", value.TypeName(left)+" and "+value.TypeName(right))
}

func evalMul(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return l * r, nil
		case value.Float:
			return value.Float(float64(l)) * r, nil
		case *value.String:
			return repeatString(r.Go(), int64(l)), nil
		}
	case value.Float:
		switch r := right.(type) {
		case value.Float:
			return l * r, nil
		case value.Int:
			return l * value.Float(float64(r)), nil
		}
	case *value.String:
		if r, ok := right.(value.Int); ok {
			return repeatString(l.Go(), int64(r)), nil
		}
	case *value.List:
		if r, ok := right.(value.Int); ok {
			return repeatList(l, int64(r)), nil
		}
	}
	if r, ok := right.(*value.List); ok {
		if n, ok := left.(value.Int); ok {
			return repeatList(r, int64(n)), nil
		}
	}
	return nil, berrors.NewTypeError("compatible types for *", value.TypeName(left)+" and "+value.TypeName(right))
}

func repeatString(s string, n int64) value.Value {
	if n <= 0 {
		return value.NewString("")
	}
	return value.NewString(strings.Repeat(s, int(n)))
}

func repeatList(l *value.List, n int64) value.Value {
	if n <= 0 {
		return value.NewList(nil)
	}
	items := l.Snapshot()
	out := make([]value.Value, 0, len(items)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, items...)
	}
	return value.NewList(out)
}

func asNumeric(v value.Value) (f float64, isFloat bool, ok bool) {
	switch vv := v.(type) {
	case value.Int:
		return float64(vv), false, true
	case value.Float:
		return float64(vv), true, true
	default:
		return 0, false, false
	}
}

func evalDiv(left, right value.Value) (value.Value, error) {
	lf, _, lok := asNumeric(left)
	rf, _, rok := asNumeric(right)
	if !lok || !rok {
		return nil, berrors.NewTypeError("numbers", value.TypeName(left)+" and "+value.TypeName(right))
	}
	if rf == 0 {
		return nil, berrors.NewDivisionByZero()
	}
	return value.Float(lf / rf), nil
}

func evalFloorDiv(left, right value.Value) (value.Value, error) {
	li, liok := left.(value.Int)
	ri, riok := right.(value.Int)
	if liok && riok {
		if ri == 0 {
			return nil, berrors.NewDivisionByZero()
		}
		return value.Int(floorDivInt(int64(li), int64(ri))), nil
	}
	lf, _, lok := asNumeric(left)
	rf, _, rok := asNumeric(right)
	if !lok || !rok {
		return nil, berrors.NewTypeError("numbers", value.TypeName(left)+" and "+value.TypeName(right))
	}
	if rf == 0 {
		return nil, berrors.NewDivisionByZero()
	}
	return value.Float(mathFloor(lf / rf)), nil
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mathFloor(f float64) float64 {
	i := float64(int64(f))
	if f < 0 && f != i {
		return i - 1
	}
	return i
}

func evalMod(left, right value.Value) (value.Value, error) {
	if li, ok := left.(value.Int); ok {
		if ri, ok := right.(value.Int); ok {
			if ri == 0 {
				return nil, berrors.NewDivisionByZero()
			}
			return value.Int(floorModInt(int64(li), int64(ri))), nil
		}
	}
	if s, ok := left.(*value.String); ok {
		return formatString(s.Go(), right)
	}
	lf, _, lok := asNumeric(left)
	rf, _, rok := asNumeric(right)
	if !lok || !rok {
		return nil, berrors.NewTypeError("numbers or string formatting", value.TypeName(left)+" and "+value.TypeName(right))
	}
	if rf == 0 {
		return nil, berrors.NewDivisionByZero()
	}
	m := lf - mathFloor(lf/rf)*rf
	return value.Float(m), nil
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

func formatString(format string, args value.Value) (value.Value, error) {
	var argList []value.Value
	if t, ok := args.(*value.Tuple); ok {
		argList = t.Items()
	} else {
		argList = []value.Value{args}
	}

	var sb strings.Builder
	argIdx := 0
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '%' {
			sb.WriteRune(c)
			continue
		}
		i++
		if i >= len(runes) {
			return nil, berrors.NewValueError("incomplete format")
		}
		if runes[i] == '%' {
			sb.WriteRune('%')
			continue
		}
		for i < len(runes) && strings.ContainsRune("0123456789-+. ", runes[i]) {
			i++
		}
		if i >= len(runes) {
			return nil, berrors.NewValueError("incomplete format")
		}
		spec := runes[i]

		if argIdx >= len(argList) {
			return nil, berrors.NewValueError("not enough arguments for format string")
		}
		arg := argList[argIdx]
		argIdx++

		switch spec {
		case 's':
			sb.WriteString(arg.Display())
		case 'd', 'i':
			n, err := value.AsInt(arg)
			if err != nil {
				return nil, err
			}
			sb.WriteString(strconv.FormatInt(n, 10))
		case 'f':
			f, err := value.AsFloat(arg)
			if err != nil {
				return nil, err
			}
			sb.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		case 'r':
			sb.WriteString(arg.Repr())
		default:
			return nil, berrors.NewValueError("unsupported format character: %c", spec)
		}
	}
	return value.NewString(sb.String()), nil
}

func evalCompare(left, right value.Value, cmp func(int) bool) (value.Value, error) {
	if lf, lIsFloat, lok := asNumeric(left); lok {
		if rf, _, rok := asNumeric(right); rok {
			switch {
			case lf < rf:
				return value.Bool(cmp(-1)), nil
			case lf > rf:
				return value.Bool(cmp(1)), nil
			default:
				return value.Bool(cmp(0)), nil
			}
		}
		_ = lIsFloat
	}
	if ls, ok := left.(*value.String); ok {
		if rs, ok := right.(*value.String); ok {
			return value.Bool(cmp(strings.Compare(ls.Go(), rs.Go()))), nil
		}
	}
	return nil, berrors.NewTypeError("comparable types", value.TypeName(left)+" and "+value.TypeName(right))
}

func evalIn(left, right value.Value) (value.Value, error) {
	switch r := right.(type) {
	case *value.List:
		for _, it := range r.Snapshot() {
			if value.Equal(it, left) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case *value.Tuple:
		for _, it := range r.Items() {
			if value.Equal(it, left) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case *value.Dict:
		key, err := valueToDictKey(left)
		if err != nil {
			return nil, err
		}
		_, ok := r.Get(key)
		return value.Bool(ok), nil
	case *value.String:
		needle, err := value.AsString(left)
		if err != nil {
			return nil, err
		}
		return value.Bool(strings.Contains(r.Go(), needle)), nil
	case *value.Set:
		return value.Bool(r.Contains(left)), nil
	default:
		return nil, berrors.NewTypeError("iterable", value.TypeName(right))
	}
}

func evalBitAnd(left, right value.Value) (value.Value, error) {
	li, lok := left.(value.Int)
	ri, rok := right.(value.Int)
	if !lok || !rok {
		return nil, berrors.NewTypeError("integers", value.TypeName(left)+" and "+value.TypeName(right))
	}
	return li & ri, nil
}

func evalBitOr(left, right value.Value) (value.Value, error) {
	li, lok := left.(value.Int)
	ri, rok := right.(value.Int)
	if !lok || !rok {
		return nil, berrors.NewTypeError("integers", value.TypeName(left)+" and "+value.TypeName(right))
	}
	return li | ri, nil
}

func evalBitXor(left, right value.Value) (value.Value, error) {
	li, lok := left.(value.Int)
	ri, rok := right.(value.Int)
	if !lok || !rok {
		return nil, berrors.NewTypeError("integers", value.TypeName(left)+" and "+value.TypeName(right))
	}
	return li ^ ri, nil
}

func evalLeftShift(left, right value.Value) (value.Value, error) {
	li, lok := left.(value.Int)
	ri, rok := right.(value.Int)
	if !lok || !rok {
		return nil, berrors.NewTypeError("integers", value.TypeName(left)+" and "+value.TypeName(right))
	}
	if ri < 0 {
		return nil, berrors.NewValueError("negative shift count")
	}
	return li << uint(ri), nil
}

func evalRightShift(left, right value.Value) (value.Value, error) {
	li, lok := left.(value.Int)
	ri, rok := right.(value.Int)
	if !lok || !rok {
		return nil, berrors.NewTypeError("integers", value.TypeName(left)+" and "+value.TypeName(right))
	}
	if ri < 0 {
		return nil, berrors.NewValueError("negative shift count")
	}
	return li >> uint(ri), nil
}

// valueToDictKey normalizes any hashable Value into the string key Dict
// uses internally (spec §3.1 restricts dict keys to hashable variants).
func valueToDictKey(v value.Value) (string, error) {
	if !value.Hashable(v) {
		return "", berrors.NewTypeError("hashable", value.TypeName(v))
	}
	if s, ok := v.(*value.String); ok {
		return s.Go(), nil
	}
	return value.NormalizeKey(v), nil
}

func evalIndex(target, index value.Value) (value.Value, error) {
	switch t := target.(type) {
	case *value.List:
		idx, err := value.AsInt(index)
		if err != nil {
			return nil, err
		}
		items := t.Snapshot()
		actual := normalizeIdx(idx, int64(len(items)))
		if actual < 0 || actual >= int64(len(items)) {
			return nil, berrors.NewIndexError("list index %d out of range (len=%d)", idx, len(items))
		}
		return items[actual], nil
	case *value.Tuple:
		idx, err := value.AsInt(index)
		if err != nil {
			return nil, err
		}
		items := t.Items()
		actual := normalizeIdx(idx, int64(len(items)))
		if actual < 0 || actual >= int64(len(items)) {
			return nil, berrors.NewIndexError("tuple index %d out of range (len=%d)", idx, len(items))
		}
		return items[actual], nil
	case *value.String:
		idx, err := value.AsInt(index)
		if err != nil {
			return nil, err
		}
		runes := []rune(t.Go())
		actual := normalizeIdx(idx, int64(len(runes)))
		if actual < 0 || actual >= int64(len(runes)) {
			return nil, berrors.NewIndexError("string index %d out of range (len=%d)", idx, len(runes))
		}
		return value.NewString(string(runes[actual])), nil
	case *value.Dict:
		key, err := valueToDictKey(index)
		if err != nil {
			return nil, err
		}
		v, ok := t.Get(key)
		if !ok {
			return nil, berrors.NewKeyError(key)
		}
		return v, nil
	case *value.Generator, *value.Iterator:
		return nil, berrors.NewTypeError("subscriptable (use list() to materialize generator first)", value.TypeName(target))
	default:
		return nil, berrors.NewTypeError("subscriptable", value.TypeName(target))
	}
}

func normalizeIdx(idx, length int64) int64 {
	if idx < 0 {
		return length + idx
	}
	return idx
}

func normalizeSliceIndices(low, high value.Value, length int64) (int64, int64, error) {
	start, err := normalizeBound(low, 0, length)
	if err != nil {
		return 0, 0, err
	}
	end, err := normalizeBound(high, length, length)
	if err != nil {
		return 0, 0, err
	}
	if start > end {
		start = end
	}
	return start, end, nil
}

func normalizeBound(v value.Value, def, length int64) (int64, error) {
	if v == nil || v.Kind() == value.KindNone {
		return clamp(def, 0, length), nil
	}
	i, ok := v.(value.Int)
	if !ok {
		return 0, berrors.NewTypeError("int or None", value.TypeName(v))
	}
	n := int64(i)
	if n < 0 {
		n = length + n
		if n < 0 {
			n = 0
		}
	} else if n > length {
		n = length
	}
	return n, nil
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func evalSlice(target, low, high value.Value) (value.Value, error) {
	switch t := target.(type) {
	case *value.List:
		items := t.Snapshot()
		s, e, err := normalizeSliceIndices(low, high, int64(len(items)))
		if err != nil {
			return nil, err
		}
		return value.NewList(append([]value.Value{}, items[s:e]...)), nil
	case *value.String:
		runes := []rune(t.Go())
		s, e, err := normalizeSliceIndices(low, high, int64(len(runes)))
		if err != nil {
			return nil, err
		}
		return value.NewString(string(runes[s:e])), nil
	case *value.Tuple:
		items := t.Items()
		s, e, err := normalizeSliceIndices(low, high, int64(len(items)))
		if err != nil {
			return nil, err
		}
		return value.NewTuple(append([]value.Value{}, items[s:e]...)), nil
	default:
		return nil, berrors.NewTypeError("sliceable", value.TypeName(target))
	}
}

func evalSliceWithStep(target, low, high, step value.Value) (value.Value, error) {
	stepVal := int64(1)
	if step != nil && step.Kind() != value.KindNone {
		si, ok := step.(value.Int)
		if !ok {
			return nil, berrors.NewTypeError("int or None", value.TypeName(step))
		}
		if si == 0 {
			return nil, berrors.NewValueError("slice step cannot be zero")
		}
		stepVal = int64(si)
	}

	if stepVal == 1 {
		return evalSlice(target, low, high)
	}

	switch t := target.(type) {
	case *value.List:
		items := t.Snapshot()
		s, e, err := stepIndices(low, high, stepVal, int64(len(items)))
		if err != nil {
			return nil, err
		}
		return value.NewList(collectWithStep(items, s, e, stepVal)), nil
	case *value.String:
		runes := []rune(t.Go())
		items := make([]value.Value, len(runes))
		for i, r := range runes {
			items[i] = value.NewString(string(r))
		}
		s, e, err := stepIndices(low, high, stepVal, int64(len(runes)))
		if err != nil {
			return nil, err
		}
		picked := collectWithStep(items, s, e, stepVal)
		var sb strings.Builder
		for _, v := range picked {
			sb.WriteString(v.(*value.String).Go())
		}
		return value.NewString(sb.String()), nil
	case *value.Tuple:
		items := t.Items()
		s, e, err := stepIndices(low, high, stepVal, int64(len(items)))
		if err != nil {
			return nil, err
		}
		return value.NewTuple(collectWithStep(items, s, e, stepVal)), nil
	default:
		return nil, berrors.NewTypeError("sliceable", value.TypeName(target))
	}
}

func stepIndices(low, high value.Value, step, length int64) (int64, int64, error) {
	defStart, defEnd := int64(0), length
	if step < 0 {
		defStart, defEnd = length-1, -length-1
	}

	start, err := stepBound(low, defStart, step, length)
	if err != nil {
		return 0, 0, err
	}
	end, err := stepBound(high, defEnd, step, length)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func stepBound(v value.Value, def, step, length int64) (int64, error) {
	if v == nil || v.Kind() == value.KindNone {
		return def, nil
	}
	i, ok := v.(value.Int)
	if !ok {
		return 0, berrors.NewTypeError("int or None", value.TypeName(v))
	}
	n := int64(i)
	if n < 0 {
		n = length + n
		if step > 0 && n < 0 {
			n = 0
		} else if step < 0 && n < -1 {
			n = -1
		}
	} else if n > length {
		n = length
	}
	return n, nil
}

func collectWithStep(items []value.Value, start, end, step int64) []value.Value {
	var out []value.Value
	i := start
	if step > 0 {
		for i < end && i >= 0 && i < int64(len(items)) {
			out = append(out, items[i])
			i += step
		}
	} else {
		for i > end && i >= 0 && i < int64(len(items)) {
			out = append(out, items[i])
			i += step
		}
	}
	return out
}
