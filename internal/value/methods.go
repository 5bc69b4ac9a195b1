package value

import (
	"context"
	"sort"
	"strings"

	berrors "github.com/cwbudde/blueprint/internal/errors"
)

// itemsOf extracts a plain Value slice out of anything list-like, used by
// the methods below that accept "list or tuple" per the reference
// engine's value/methods/*.rs (join, extend, union, ...).
func itemsOf(v Value) ([]Value, bool) {
	switch vv := v.(type) {
	case *List:
		return vv.Snapshot(), true
	case *Tuple:
		return vv.Items(), true
	case *Set:
		return vv.Snapshot(), true
	default:
		return nil, false
	}
}

func argErr(name string, want string, got int) error {
	return berrors.NewArgumentError("%s() takes %s argument (%d given)", name, want, got)
}

func method(name string, fn NativeFn) *NativeFunction {
	return NewNativeFunction(name, fn)
}

// GetAttr resolves a bound string method (spec §4.2's "methods for
// string/list/dict/set"), grounded on the reference engine's
// value/methods/string.rs.
func (s *String) GetAttr(name string) (Value, bool) {
	text := s.s
	switch name {
	case "upper":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			return NewString(strings.ToUpper(text)), nil
		}), true
	case "lower":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			return NewString(strings.ToLower(text)), nil
		}), true
	case "strip":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			return NewString(strings.TrimSpace(text)), nil
		}), true
	case "split":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			var parts []string
			if len(args) == 0 {
				parts = strings.Fields(text)
			} else {
				parts = strings.Split(text, displayArg(args[0]))
			}
			out := make([]Value, len(parts))
			for i, p := range parts {
				out[i] = NewString(p)
			}
			return NewList(out), nil
		}), true
	case "join":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) == 0 {
				return nil, argErr("join", "1", 0)
			}
			items, ok := itemsOf(args[0])
			if !ok {
				return nil, berrors.NewTypeError("list or tuple", TypeName(args[0]))
			}
			parts := make([]string, len(items))
			for i, it := range items {
				parts[i] = it.Display()
			}
			return NewString(strings.Join(parts, text)), nil
		}), true
	case "replace":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) < 2 {
				return nil, argErr("replace", "2", len(args))
			}
			return NewString(strings.ReplaceAll(text, displayArg(args[0]), displayArg(args[1]))), nil
		}), true
	case "startswith":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) == 0 {
				return nil, argErr("startswith", "1", 0)
			}
			return Bool(strings.HasPrefix(text, displayArg(args[0]))), nil
		}), true
	case "endswith":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) == 0 {
				return nil, argErr("endswith", "1", 0)
			}
			return Bool(strings.HasSuffix(text, displayArg(args[0]))), nil
		}), true
	case "find":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) == 0 {
				return nil, argErr("find", "1", 0)
			}
			return Int(strings.Index(text, displayArg(args[0]))), nil
		}), true
	case "format":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			result := text
			for _, a := range args {
				if pos := strings.Index(result, "{}"); pos >= 0 {
					result = result[:pos] + a.Display() + result[pos+2:]
				}
			}
			return NewString(result), nil
		}), true
	default:
		return nil, false
	}
}

func displayArg(v Value) string { return v.Display() }

// GetAttr resolves a bound list method, grounded on value/methods/list.rs.
func (l *List) GetAttr(name string) (Value, bool) {
	switch name {
	case "append":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, argErr("append", "exactly 1", len(args))
			}
			l.Append(args[0])
			return None, nil
		}), true
	case "extend":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, argErr("extend", "exactly 1", len(args))
			}
			items, ok := itemsOf(args[0])
			if !ok {
				return nil, berrors.NewTypeError("list or tuple", TypeName(args[0]))
			}
			l.Append(items...)
			return None, nil
		}), true
	case "insert":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 2 {
				return nil, argErr("insert", "exactly 2", len(args))
			}
			idx, err := AsInt(args[0])
			if err != nil {
				return nil, err
			}
			l.mu.Lock()
			defer l.mu.Unlock()
			i := int(idx)
			if i < 0 {
				i = 0
			}
			if i > len(l.items) {
				i = len(l.items)
			}
			l.items = append(l.items, nil)
			copy(l.items[i+1:], l.items[i:])
			l.items[i] = args[1]
			return None, nil
		}), true
	case "pop":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) > 1 {
				return nil, argErr("pop", "at most 1", len(args))
			}
			l.mu.Lock()
			defer l.mu.Unlock()
			if len(l.items) == 0 {
				return nil, berrors.NewIndexError("pop from empty list")
			}
			idx := len(l.items) - 1
			if len(args) == 1 {
				n, err := AsInt(args[0])
				if err != nil {
					return nil, err
				}
				idx = int(n)
				if idx < 0 {
					idx += len(l.items)
				}
			}
			if idx < 0 || idx >= len(l.items) {
				return nil, berrors.NewIndexError("pop index %d out of range", idx)
			}
			v := l.items[idx]
			l.items = append(l.items[:idx], l.items[idx+1:]...)
			return v, nil
		}), true
	case "remove":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, argErr("remove", "exactly 1", len(args))
			}
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, it := range l.items {
				if Equal(it, args[0]) {
					l.items = append(l.items[:i], l.items[i+1:]...)
					return None, nil
				}
			}
			return nil, berrors.NewValueError("value not in list")
		}), true
	case "clear":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			l.mu.Lock()
			l.items = l.items[:0]
			l.mu.Unlock()
			return None, nil
		}), true
	case "index":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) == 0 || len(args) > 3 {
				return nil, argErr("index", "1 to 3", len(args))
			}
			snap := l.Snapshot()
			start, end := 0, len(snap)
			if len(args) > 1 {
				n, err := AsInt(args[1])
				if err != nil {
					return nil, err
				}
				start = int(n)
			}
			if len(args) > 2 {
				n, err := AsInt(args[2])
				if err != nil {
					return nil, err
				}
				end = int(n)
			}
			for i := start; i < end && i < len(snap); i++ {
				if Equal(snap[i], args[0]) {
					return Int(i), nil
				}
			}
			return nil, berrors.NewValueError("value not in list")
		}), true
	case "count":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, argErr("count", "exactly 1", len(args))
			}
			n := 0
			for _, it := range l.Snapshot() {
				if Equal(it, args[0]) {
					n++
				}
			}
			return Int(n), nil
		}), true
	case "reverse":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			l.mu.Lock()
			for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
				l.items[i], l.items[j] = l.items[j], l.items[i]
			}
			l.mu.Unlock()
			return None, nil
		}), true
	case "copy":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			return NewList(l.Snapshot()), nil
		}), true
	default:
		return nil, false
	}
}

// GetAttr resolves a bound dict method, grounded on value/methods/dict.rs
// (only reached once the evaluator's own key lookup misses, see
// internal/eval/expressions.go's Dot case).
func (d *Dict) GetAttr(name string) (Value, bool) {
	switch name {
	case "get":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) == 0 || len(args) > 2 {
				return nil, argErr("get", "1 or 2", len(args))
			}
			key, err := AsString(args[0])
			if err != nil {
				return nil, err
			}
			if v, ok := d.Get(key); ok {
				return v, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return None, nil
		}), true
	case "keys":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			ks := d.Keys()
			out := make([]Value, len(ks))
			for i, k := range ks {
				out[i] = NewString(k)
			}
			return NewList(out), nil
		}), true
	case "values":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			items := d.Items()
			out := make([]Value, len(items))
			for i, it := range items {
				out[i] = it.Value
			}
			return NewList(out), nil
		}), true
	case "items":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			items := d.Items()
			out := make([]Value, len(items))
			for i, it := range items {
				out[i] = NewTuple([]Value{NewString(it.Key), it.Value})
			}
			return NewList(out), nil
		}), true
	default:
		return nil, false
	}
}

// GetAttr resolves a bound set method, grounded on value/methods/set.rs.
func (s *Set) GetAttr(name string) (Value, bool) {
	switch name {
	case "add":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, argErr("add", "exactly 1", len(args))
			}
			s.Add(args[0])
			return None, nil
		}), true
	case "remove":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, argErr("remove", "exactly 1", len(args))
			}
			if !s.Remove(args[0]) {
				return nil, berrors.NewKeyError(args[0].Display())
			}
			return None, nil
		}), true
	case "discard":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, argErr("discard", "exactly 1", len(args))
			}
			s.Remove(args[0])
			return None, nil
		}), true
	case "pop":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if len(s.items) == 0 {
				return nil, berrors.NewKeyError("pop from an empty set")
			}
			v := s.items[0]
			s.items = s.items[1:]
			return v, nil
		}), true
	case "clear":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			s.mu.Lock()
			s.items = s.items[:0]
			s.mu.Unlock()
			return None, nil
		}), true
	case "copy":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			cp := NewSet()
			for _, it := range s.Snapshot() {
				cp.Add(it)
			}
			return cp, nil
		}), true
	case "union":
		return s.setCombine(name, func(a, b []Value) []Value {
			out := append(append([]Value{}, a...), b...)
			return out
		}), true
	case "intersection":
		return s.setCombine(name, func(a, b []Value) []Value {
			var out []Value
			for _, it := range a {
				if containsValue(b, it) {
					out = append(out, it)
				}
			}
			return out
		}), true
	case "difference":
		return s.setCombine(name, func(a, b []Value) []Value {
			var out []Value
			for _, it := range a {
				if !containsValue(b, it) {
					out = append(out, it)
				}
			}
			return out
		}), true
	case "symmetric_difference":
		return s.setCombine(name, func(a, b []Value) []Value {
			var out []Value
			for _, it := range a {
				if !containsValue(b, it) {
					out = append(out, it)
				}
			}
			for _, it := range b {
				if !containsValue(a, it) {
					out = append(out, it)
				}
			}
			return out
		}), true
	case "issubset":
		return s.setPredicate(name, func(a, b []Value) bool {
			for _, it := range a {
				if !containsValue(b, it) {
					return false
				}
			}
			return true
		}), true
	case "issuperset":
		return s.setPredicate(name, func(a, b []Value) bool {
			for _, it := range b {
				if !containsValue(a, it) {
					return false
				}
			}
			return true
		}), true
	case "isdisjoint":
		return s.setPredicate(name, func(a, b []Value) bool {
			for _, it := range a {
				if containsValue(b, it) {
					return false
				}
			}
			return true
		}), true
	case "update":
		return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
			if len(args) != 1 {
				return nil, argErr("update", "exactly 1", len(args))
			}
			other, ok := itemsOf(args[0])
			if !ok {
				return nil, berrors.NewTypeError("set, list, or tuple", TypeName(args[0]))
			}
			for _, it := range other {
				s.Add(it)
			}
			return None, nil
		}), true
	default:
		return nil, false
	}
}

func containsValue(items []Value, v Value) bool {
	for _, it := range items {
		if Equal(it, v) {
			return true
		}
	}
	return false
}

func (s *Set) setCombine(name string, combine func(a, b []Value) []Value) *NativeFunction {
	return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
		if len(args) != 1 {
			return nil, argErr(name, "exactly 1", len(args))
		}
		other, ok := itemsOf(args[0])
		if !ok {
			return nil, berrors.NewTypeError("set, list, or tuple", TypeName(args[0]))
		}
		result := NewSet()
		for _, it := range combine(s.Snapshot(), other) {
			result.Add(it)
		}
		return result, nil
	})
}

func (s *Set) setPredicate(name string, pred func(a, b []Value) bool) *NativeFunction {
	return method(name, func(ctx context.Context, args []Value, kwargs map[string]Value) (Value, error) {
		if len(args) != 1 {
			return nil, argErr(name, "exactly 1", len(args))
		}
		other, ok := itemsOf(args[0])
		if !ok {
			return nil, berrors.NewTypeError("set, list, or tuple", TypeName(args[0]))
		}
		return Bool(pred(s.Snapshot(), other)), nil
	})
}

// SortValues stably sorts items in place using less. It needs no
// evaluator access; the sorted() builtin in internal/native does its own
// sorting and does not call it.
func SortValues(items []Value, less func(a, b Value) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
