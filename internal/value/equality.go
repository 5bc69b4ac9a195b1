package value

import (
	"hash/fnv"
	"strconv"
)

// Equal implements spec §3.1's equality rules: structural equality for
// scalars, strings, and tuples (with Int/Float numeric cross-equality);
// identity equality for containers, functions, and opaque handles.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case noneValue:
		_, ok := b.(noneValue)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv
		case Float:
			return Float(av) == bv
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Int:
			return av == Float(bv)
		case Float:
			return av == bv
		}
		return false
	case *String:
		bv, ok := b.(*String)
		return ok && av.s == bv.s
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.items) != len(bv.items) {
			return false
		}
		for i := range av.items {
			if !Equal(av.items[i], bv.items[i]) {
				return false
			}
		}
		return true
	default:
		// Containers, functions, struct instances, and opaque handles compare
		// by identity: same Go pointer behind the interface.
		return identicalPointer(a, b)
	}
}

func identicalPointer(a, b Value) bool {
	switch av := a.(type) {
	case *List:
		bv, ok := b.(*List)
		return ok && av == bv
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && av == bv
	case *Set:
		bv, ok := b.(*Set)
		return ok && av == bv
	case *UserFunction:
		bv, ok := b.(*UserFunction)
		return ok && av == bv
	case *Lambda:
		bv, ok := b.(*Lambda)
		return ok && av == bv
	case *NativeFunction:
		bv, ok := b.(*NativeFunction)
		return ok && av == bv
	case *StructType:
		bv, ok := b.(*StructType)
		return ok && av == bv
	case *StructInstance:
		bv, ok := b.(*StructInstance)
		return ok && av == bv
	case *Generator:
		bv, ok := b.(*Generator)
		return ok && av == bv
	case *Iterator:
		bv, ok := b.(*Iterator)
		return ok && av == bv
	case *HTTPResponse:
		bv, ok := b.(*HTTPResponse)
		return ok && av == bv
	case *ProcessResult:
		bv, ok := b.(*ProcessResult)
		return ok && av == bv
	}
	return false
}

// Hashable reports whether v may be used as a set element or dict key
// source (spec §3.1: immutable variants plus tuples).
func Hashable(v Value) bool {
	switch v.(type) {
	case noneValue, Bool, Int, Float, *String, *Tuple:
		return true
	default:
		return false
	}
}

// Hash computes a hash for a hashable value; non-hashable variants hash on
// their discriminant alone (spec §3.1), which is sufficient since they are
// never used as genuine map/set keys — only as a best-effort fallback for
// Display-adjacent bucketing.
func Hash(v Value) uint64 {
	h := fnv.New64a()
	switch vv := v.(type) {
	case noneValue:
		h.Write([]byte{0})
	case Bool:
		if vv {
			h.Write([]byte{1, 1})
		} else {
			h.Write([]byte{1, 0})
		}
	case Int:
		h.Write([]byte(strconv.FormatInt(int64(vv), 10)))
	case Float:
		h.Write([]byte(strconv.FormatFloat(float64(vv), 'g', -1, 64)))
	case *String:
		h.Write([]byte(vv.s))
	case *Tuple:
		for _, it := range vv.items {
			var buf [8]byte
			hv := Hash(it)
			for i := range buf {
				buf[i] = byte(hv >> (8 * uint(i)))
			}
			h.Write(buf[:])
		}
	default:
		h.Write([]byte(v.Kind().String()))
	}
	return h.Sum64()
}

// NormalizeKey converts an arbitrary hashable Value into the string key a
// Dict stores it under (spec §3.1: "Keys are string-normalized from
// arbitrary hashable values"). Strings map to themselves; everything else
// uses its Display form, which is injective enough for the scalar/tuple
// domain Hashable permits.
func NormalizeKey(v Value) string {
	if s, ok := v.(*String); ok {
		return s.s
	}
	return v.Display()
}
