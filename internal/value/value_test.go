package value

import (
	"sync"
	"testing"
)

func TestEqualityScalars(t *testing.T) {
	if !Equal(Int(1), Float(1.0)) {
		t.Error("Int(1) should equal Float(1.0) under numeric cross-equality")
	}
	if Equal(Int(1), Int(2)) {
		t.Error("Int(1) should not equal Int(2)")
	}
	if !Equal(NewString("a"), NewString("a")) {
		t.Error("equal strings should be structurally equal")
	}
}

func TestEqualityContainersAreIdentity(t *testing.T) {
	a := NewList([]Value{Int(1)})
	b := NewList([]Value{Int(1)})
	if Equal(a, b) {
		t.Error("distinct list handles with equal contents must not be Equal")
	}
	if !Equal(a, a) {
		t.Error("a list handle must equal itself")
	}
}

func TestTupleStructuralEquality(t *testing.T) {
	a := NewTuple([]Value{Int(1), NewString("x")})
	b := NewTuple([]Value{Int(1), NewString("x")})
	if !Equal(a, b) {
		t.Error("tuples with equal elements must be structurally equal")
	}
}

func TestDeepCopyDoesNotAlias(t *testing.T) {
	inner := NewList([]Value{Int(1)})
	outer := NewList([]Value{inner})

	copied := DeepCopy(outer).(*List)
	copiedInner := copied.Snapshot()[0].(*List)

	copiedInner.Append(Int(2))
	if inner.Len() != 1 {
		t.Errorf("mutating the deep copy's inner list must not affect the original, got len=%d", inner.Len())
	}
}

func TestListTruthyNonBlockingFallback(t *testing.T) {
	l := NewList([]Value{})
	var wg sync.WaitGroup
	wg.Add(1)

	muHeld := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer wg.Done()
		l.mu.Lock()
		close(muHeld)
		<-done
		l.mu.Unlock()
	}()

	<-muHeld
	if !Truthy(l) {
		t.Error("truthiness on a write-locked empty list must fall back to truthy")
	}
	close(done)
	wg.Wait()
}

func TestDictOrderPreserved(t *testing.T) {
	d := NewDict()
	d.Set("z", Int(1))
	d.Set("a", Int(2))
	d.Set("m", Int(3))

	keys := d.Keys()
	want := []string{"z", "a", "m"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("dict must preserve insertion order, got %v", keys)
		}
	}
}

func TestSetMembershipByEqual(t *testing.T) {
	s := NewSet()
	s.Add(Int(1))
	added := s.Add(Float(1.0))
	if added {
		t.Error("adding a numerically-equal Float after an Int should be a no-op")
	}
	if s.Len() != 1 {
		t.Errorf("expected set length 1, got %d", s.Len())
	}
}

func TestStructInstantiateDefaultsAndTypeCheck(t *testing.T) {
	st := &StructType{
		Name: "Point",
		Fields: []StructField{
			{Name: "x", Type: Simple{"int"}},
			{Name: "y", Type: Simple{"int"}, Default: Int(0)},
		},
	}

	inst, err := st.Instantiate([]Value{Int(3)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	y, _ := inst.GetField("y")
	if y.(Int) != 0 {
		t.Errorf("expected default y=0, got %v", y)
	}

	if _, err := st.Instantiate([]Value{NewString("bad")}, nil); err == nil {
		t.Error("expected a type error for a string passed to an int field")
	}
}

func TestOptionalAnnotation(t *testing.T) {
	ann := Optional{Inner: Simple{"int"}}
	if !ann.Matches(None) {
		t.Error("Optional must match None")
	}
	if !ann.Matches(Int(5)) {
		t.Error("Optional must match its inner type")
	}
	if ann.Matches(NewString("x")) {
		t.Error("Optional must not match a mismatched inner type")
	}
}
