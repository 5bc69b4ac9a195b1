// Package value implements the dynamic value model described in spec §3:
// a tagged variant with shared-mutable containers, structural equality on
// immutable data, and identity semantics on everything else.
package value

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Kind identifies which variant a Value holds. Kept as a small int rather
// than a type switch target everywhere, since most call sites only need to
// branch on kind before doing the type assertion.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTuple
	KindList
	KindDict
	KindSet
	KindUserFunction
	KindLambda
	KindNativeFunction
	KindStructType
	KindStructInstance
	KindGenerator
	KindIterator
	KindHTTPResponse
	KindProcessResult
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindTuple:
		return "tuple"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindSet:
		return "set"
	case KindUserFunction, KindLambda:
		return "function"
	case KindNativeFunction:
		return "builtin_function"
	case KindStructType:
		return "type"
	case KindStructInstance:
		return "struct"
	case KindGenerator:
		return "generator"
	case KindIterator:
		return "iterator"
	case KindHTTPResponse:
		return "Response"
	case KindProcessResult:
		return "Result"
	}
	return "unknown"
}

// Value is the dynamic runtime value every expression evaluates to. Every
// variant in spec §3.1 implements it; none of them uses the empty
// interface, so the evaluator is type-safe at the Go level even though the
// scripting language itself is dynamically typed.
type Value interface {
	Kind() Kind
	// Display renders the user-facing, unquoted form (spec §3.1).
	Display() string
	// Repr renders the debug form: strings are quoted, containers recurse
	// through Repr.
	Repr() string
}

// None is the unit value. It has a single instance; callers compare with
// ==.
var None Value = noneValue{}

type noneValue struct{}

func (noneValue) Kind() Kind      { return KindNone }
func (noneValue) Display() string { return "None" }
func (noneValue) Repr() string    { return "None" }

// Bool wraps a boolean scalar.
type Bool bool

func (b Bool) Kind() Kind { return KindBool }
func (b Bool) Display() string {
	if b {
		return "True"
	}
	return "False"
}
func (b Bool) Repr() string { return b.Display() }

// Int wraps a 64-bit signed integer scalar.
type Int int64

func (i Int) Kind() Kind      { return KindInt }
func (i Int) Display() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Repr() string    { return i.Display() }

// Float wraps an IEEE-754 double scalar.
type Float float64

func (f Float) Kind() Kind { return KindFloat }
func (f Float) Display() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}
func (f Float) Repr() string { return f.Display() }

// String is an immutable, reference-shared string scalar. It is a small
// wrapper (not a bare Go string) so multiple Values can cheaply alias the
// same backing data, matching spec §3.1's "shared by reference" note.
type String struct {
	s string
}

// NewString constructs a shared String value.
func NewString(s string) *String { return &String{s: s} }

func (s *String) Kind() Kind      { return KindString }
func (s *String) Display() string { return s.s }
func (s *String) Repr() string    { return strconv.Quote(s.s) }
func (s *String) Go() string      { return s.s }

// Tuple is an immutable ordered sequence, shared by reference.
type Tuple struct {
	items []Value
}

// NewTuple takes ownership of items; callers must not mutate the slice
// afterwards.
func NewTuple(items []Value) *Tuple { return &Tuple{items: items} }

func (t *Tuple) Kind() Kind    { return KindTuple }
func (t *Tuple) Len() int      { return len(t.items) }
func (t *Tuple) Items() []Value {
	return t.items
}
func (t *Tuple) Display() string { return displaySeq("(", ")", t.items, true) }
func (t *Tuple) Repr() string    { return reprSeq("(", ")", t.items, true) }

func displaySeq(open, close string, items []Value, trailingCommaForOne bool) string {
	var sb strings.Builder
	sb.WriteString(open)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(displayOrRepr(it, true))
	}
	if trailingCommaForOne && len(items) == 1 {
		sb.WriteString(",")
	}
	sb.WriteString(close)
	return sb.String()
}

func reprSeq(open, close string, items []Value, trailingCommaForOne bool) string {
	var sb strings.Builder
	sb.WriteString(open)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(it.Repr())
	}
	if trailingCommaForOne && len(items) == 1 {
		sb.WriteString(",")
	}
	sb.WriteString(close)
	return sb.String()
}

// displayOrRepr renders a nested element the way Python's repr() does for
// containers: nested strings are quoted even under Display of the outer
// container, everything else uses Display.
func displayOrRepr(v Value, nested bool) string {
	if !nested {
		return v.Display()
	}
	if s, ok := v.(*String); ok {
		return s.Repr()
	}
	return v.Display()
}

// List is an ordered, mutable sequence guarded by an interior read-write
// lock (spec §3.2). Value holders share the *List handle; cloning a Value
// clones the pointer, not the backing slice.
type List struct {
	mu    sync.RWMutex
	items []Value
}

// NewList takes ownership of items.
func NewList(items []Value) *List { return &List{items: items} }

func (l *List) Kind() Kind { return KindList }

// Display yields a placeholder if the write lock is currently held,
// matching spec §3.1's non-blocking display contract.
func (l *List) Display() string {
	if !l.mu.TryRLock() {
		return "[...]"
	}
	defer l.mu.RUnlock()
	return displaySeq("[", "]", l.items, true)
}

func (l *List) Repr() string {
	if !l.mu.TryRLock() {
		return "[...]"
	}
	defer l.mu.RUnlock()
	return reprSeq("[", "]", l.items, true)
}

// Len returns the current length under a read lock.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Snapshot returns a shallow copy of the backing slice under a read lock,
// safe for the caller to range over without holding any lock.
func (l *List) Snapshot() []Value {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Value, len(l.items))
	copy(out, l.items)
	return out
}

// At returns the element at index i (no negative-index handling; callers
// normalize indices before calling this).
func (l *List) At(i int) (Value, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

// SetAt replaces the element at index i.
func (l *List) SetAt(i int, v Value) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.items[i] = v
	return true
}

// Append adds values to the end of the list.
func (l *List) Append(vs ...Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, vs...)
}

// TryTruthy reports (truthy, ok), truthy meaning non-empty: ok is false if the read lock could not
// be acquired without blocking, in which case the non-blocking truthiness
// check (spec §3.1) should fall back to "truthy".
func (l *List) TryTruthy() (truthy bool, ok bool) {
	if !l.mu.TryRLock() {
		return true, false
	}
	defer l.mu.RUnlock()
	return len(l.items) > 0, true
}

// Truthy blocks for the true state, used by the async truthiness variant.
func (l *List) Truthy() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items) > 0
}

// Dict is an insertion-ordered string-keyed mapping, mutable and interior
// locked (spec §3.1). Keys are normalized strings; non-string hashable
// keys are string-normalized by the caller (see NormalizeKey).
type Dict struct {
	mu    sync.RWMutex
	order []string
	items map[string]Value
}

// NewDict constructs an empty dict.
func NewDict() *Dict {
	return &Dict{items: make(map[string]Value)}
}

func (d *Dict) Kind() Kind { return KindDict }

func (d *Dict) Display() string {
	if !d.mu.TryRLock() {
		return "{...}"
	}
	defer d.mu.RUnlock()
	return d.renderLocked(false)
}

func (d *Dict) Repr() string {
	if !d.mu.TryRLock() {
		return "{...}"
	}
	defer d.mu.RUnlock()
	return d.renderLocked(true)
}

func (d *Dict) renderLocked(repr bool) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range d.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		v := d.items[k]
		if repr {
			sb.WriteString(v.Repr())
		} else {
			sb.WriteString(displayOrRepr(v, true))
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// Get looks up a key, returning (value, found).
func (d *Dict) Get(key string) (Value, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.items[key]
	return v, ok
}

// Set inserts or overwrites a key, preserving first-insertion order.
func (d *Dict) Set(key string, v Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.items[key]; !exists {
		d.order = append(d.order, key)
	}
	d.items[key] = v
}

// Delete removes a key if present, reporting whether it existed.
func (d *Dict) Delete(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[key]; !ok {
		return false
	}
	delete(d.items, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Keys returns keys in insertion order.
func (d *Dict) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Items returns (key, value) pairs in insertion order.
func (d *Dict) Items() []DictEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]DictEntry, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, DictEntry{Key: k, Value: d.items[k]})
	}
	return out
}

// DictEntry is a single insertion-ordered (key, value) pair.
type DictEntry struct {
	Key   string
	Value Value
}

func (d *Dict) TryTruthy() (truthy bool, ok bool) {
	if !d.mu.TryRLock() {
		return true, false
	}
	defer d.mu.RUnlock()
	return len(d.order) > 0, true
}

func (d *Dict) Truthy() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order) > 0
}

// Set is an insertion-ordered set of Values, mutable and interior locked.
// Membership is decided by Equal (spec §3.1 equality rules); since Value
// is not comparable with ==, membership is an O(n) scan guarded by the
// same lock rather than a Go map keyed on Value.
type Set struct {
	mu    sync.RWMutex
	items []Value
}

// NewSet constructs an empty set.
func NewSet() *Set { return &Set{} }

func (s *Set) Kind() Kind { return KindSet }

func (s *Set) Display() string {
	if !s.mu.TryRLock() {
		return "{...}"
	}
	defer s.mu.RUnlock()
	if len(s.items) == 0 {
		return "set()"
	}
	return displaySeq("{", "}", s.items, false)
}

func (s *Set) Repr() string {
	if !s.mu.TryRLock() {
		return "{...}"
	}
	defer s.mu.RUnlock()
	if len(s.items) == 0 {
		return "set()"
	}
	return reprSeq("{", "}", s.items, false)
}

// Add inserts v if not already present (by Equal), reporting whether it
// was newly added.
func (s *Set) Add(v Value) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if Equal(it, v) {
			return false
		}
	}
	s.items = append(s.items, v)
	return true
}

// Contains reports set membership by Equal.
func (s *Set) Contains(v Value) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if Equal(it, v) {
			return true
		}
	}
	return false
}

// Remove deletes v if present, reporting whether it was removed.
func (s *Set) Remove(v Value) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if Equal(it, v) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of elements.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot returns the elements in insertion order.
func (s *Set) Snapshot() []Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Value, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Set) TryTruthy() (truthy bool, ok bool) {
	if !s.mu.TryRLock() {
		return true, false
	}
	defer s.mu.RUnlock()
	return len(s.items) > 0, true
}

func (s *Set) Truthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) > 0
}

// DeepCopy recursively allocates fresh containers for List/Dict/Tuple and
// returns everything else unchanged (spec §3.2). Functions, structs,
// generators and handles are returned as-is: they are not containers in
// the aliasing sense spec §3.2 describes.
func DeepCopy(v Value) Value {
	switch vv := v.(type) {
	case *List:
		src := vv.Snapshot()
		out := make([]Value, len(src))
		for i, it := range src {
			out[i] = DeepCopy(it)
		}
		return NewList(out)
	case *Dict:
		out := NewDict()
		for _, e := range vv.Items() {
			out.Set(e.Key, DeepCopy(e.Value))
		}
		return out
	case *Tuple:
		src := vv.Items()
		out := make([]Value, len(src))
		for i, it := range src {
			out[i] = DeepCopy(it)
		}
		return NewTuple(out)
	default:
		return v
	}
}

// Truthy implements spec §3.1's non-blocking truthiness check: containers
// whose lock cannot be acquired without blocking are treated as truthy.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case noneValue:
		return false
	case Bool:
		return bool(vv)
	case Int:
		return vv != 0
	case Float:
		return vv != 0
	case *String:
		return vv.s != ""
	case *Tuple:
		return len(vv.items) > 0
	case *List:
		t, _ := vv.TryTruthy()
		return t
	case *Dict:
		t, _ := vv.TryTruthy()
		return t
	case *Set:
		t, _ := vv.TryTruthy()
		return t
	default:
		return true
	}
}

// TruthyAsync always observes the true state of a container, blocking on
// its lock if necessary (spec §3.1's "async variant").
func TruthyAsync(v Value) bool {
	switch vv := v.(type) {
	case *List:
		return vv.Truthy()
	case *Dict:
		return vv.Truthy()
	case *Set:
		return vv.Truthy()
	default:
		return Truthy(v)
	}
}

// TypeName returns the spec's user-facing type name for error messages.
func TypeName(v Value) string {
	if v == nil {
		return "NoneType"
	}
	return v.Kind().String()
}

// SortDictKeysForDisplay returns a sorted copy of keys for callers that
// need a deterministic, non-insertion order (no native calls it); the
// default dict iteration order is always insertion order per spec §4.1's
// order-preserving contract and must never be reordered implicitly.
func SortDictKeysForDisplay(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)
	return out
}
