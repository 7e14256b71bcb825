package condagrub

import "testing"

func TestRangeContains(t *testing.T) {
	t.Parallel()

	v1 := mustVersion(t, "1.0")
	v2 := mustVersion(t, "2.0")
	v15 := mustVersion(t, "1.5")
	v25 := mustVersion(t, "2.5")

	r := BoundedRange(v1, true, v2, false)

	if !r.Contains(v1) {
		t.Fatal("expected inclusive lower bound to contain 1.0")
	}
	if !r.Contains(v15) {
		t.Fatal("expected range to contain 1.5")
	}
	if r.Contains(v2) {
		t.Fatal("expected exclusive upper bound to exclude 2.0")
	}
	if r.Contains(v25) {
		t.Fatal("expected range to exclude 2.5")
	}
}

func TestRangeNoneAndAny(t *testing.T) {
	t.Parallel()

	none := NoneRange[BuildNumber]()
	any := AnyRange[BuildNumber]()

	if !none.IsNone() || none.IsAny() {
		t.Fatal("NoneRange misclassified")
	}
	if !any.IsAny() || any.IsNone() {
		t.Fatal("AnyRange misclassified")
	}
	if none.Contains(BuildNumber(0)) {
		t.Fatal("NoneRange should contain nothing")
	}
	if !any.Contains(BuildNumber(12345)) {
		t.Fatal("AnyRange should contain everything")
	}

	if got := none.Intersection(any); !got.IsNone() {
		t.Fatalf("none ∩ any = %s, want none", got)
	}
	if got := any.Intersection(any); !got.IsAny() {
		t.Fatalf("any ∩ any = %s, want any", got)
	}
}

func TestRangeIntersection(t *testing.T) {
	t.Parallel()

	a := BoundedRange(mustVersion(t, "1.0"), true, mustVersion(t, "2.0"), false)
	b := BoundedRange(mustVersion(t, "1.5"), true, mustVersion(t, "3.0"), false)

	got := a.Intersection(b)
	want := BoundedRange(mustVersion(t, "1.5"), true, mustVersion(t, "2.0"), false)
	if !got.Equal(want) {
		t.Fatalf("intersection = %s, want %s", got, want)
	}

	// Commutative.
	if !b.Intersection(a).Equal(got) {
		t.Fatal("intersection is not commutative")
	}

	// Idempotent.
	if !a.Intersection(a).Equal(a) {
		t.Fatal("intersection is not idempotent")
	}

	// Disjoint ranges intersect to nothing.
	c := LowerBoundedRange(mustVersion(t, "5.0"), true)
	if got := a.Intersection(c); !got.IsNone() {
		t.Fatalf("disjoint intersection = %s, want none", got)
	}
}

func TestRangeUnionMergesAdjacent(t *testing.T) {
	t.Parallel()

	// [1.0, 2.0) and [2.0, 3.0) touch, so the union is one interval.
	a := BoundedRange(mustVersion(t, "1.0"), true, mustVersion(t, "2.0"), false)
	b := BoundedRange(mustVersion(t, "2.0"), true, mustVersion(t, "3.0"), false)

	got := a.Union(b)
	want := BoundedRange(mustVersion(t, "1.0"), true, mustVersion(t, "3.0"), false)
	if !got.Equal(want) {
		t.Fatalf("union = %s, want %s", got, want)
	}

	// Disjoint pieces stay separate.
	c := LowerBoundedRange(mustVersion(t, "5.0"), true)
	split := a.Union(c)
	if split.Contains(mustVersion(t, "4.0")) {
		t.Fatal("union should not cover the gap between its parts")
	}
	if !split.Contains(mustVersion(t, "1.5")) || !split.Contains(mustVersion(t, "6.0")) {
		t.Fatal("union lost one of its parts")
	}
}

func TestRangeNegateInvolution(t *testing.T) {
	t.Parallel()

	ranges := []Range[Version]{
		NoneRange[Version](),
		AnyRange[Version](),
		EqualRange(mustVersion(t, "1.2.3")),
		LowerBoundedRange(mustVersion(t, "1.0"), true),
		UpperBoundedRange(mustVersion(t, "2.0"), false),
		BoundedRange(mustVersion(t, "1.0"), true, mustVersion(t, "2.0"), false),
		EqualRange(mustVersion(t, "1.0")).Negate(),
	}

	for _, r := range ranges {
		if got := r.Negate().Negate(); !got.Equal(r) {
			t.Errorf("Negate involution broken: %s -> %s", r, got)
		}
		// A range and its negation partition the space.
		if got := r.Intersection(r.Negate()); !got.IsNone() {
			t.Errorf("range %s overlaps its negation: %s", r, got)
		}
		if got := r.Union(r.Negate()); !got.IsAny() {
			t.Errorf("range %s and negation do not cover everything: %s", r, got)
		}
	}
}

func TestRangeNegateBounds(t *testing.T) {
	t.Parallel()

	r := BoundedRange(mustVersion(t, "1.0"), true, mustVersion(t, "2.0"), false)
	neg := r.Negate()

	if neg.Contains(mustVersion(t, "1.0")) {
		t.Fatal("negation should exclude the inclusive lower bound")
	}
	if !neg.Contains(mustVersion(t, "2.0")) {
		t.Fatal("negation should include the exclusive upper bound")
	}
	if !neg.Contains(mustVersion(t, "0.5")) {
		t.Fatal("negation should include values below the range")
	}
}

func TestRangeCompareDeterministic(t *testing.T) {
	t.Parallel()

	a := EqualRange(mustVersion(t, "1.0"))
	b := EqualRange(mustVersion(t, "2.0"))

	if a.Compare(b) >= 0 {
		t.Fatal("expected ==1.0 to sort before ==2.0")
	}
	if b.Compare(a) <= 0 {
		t.Fatal("expected ==2.0 to sort after ==1.0")
	}
	if a.Compare(a) != 0 {
		t.Fatal("expected a range to compare equal to itself")
	}

	// Fewer intervals sort before a longer range sharing the prefix.
	split := a.Union(b)
	if a.Compare(split) >= 0 {
		t.Fatal("expected prefix range to sort before the longer range")
	}
}

func TestRangeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r        Range[Version]
		expected string
	}{
		{NoneRange[Version](), "∅"},
		{AnyRange[Version](), "*"},
		{EqualRange(mustVersion(t, "1.2.3")), "==1.2.3"},
		{LowerBoundedRange(mustVersion(t, "1.0"), true), ">=1.0"},
		{UpperBoundedRange(mustVersion(t, "2.0"), false), "<2.0"},
		{BoundedRange(mustVersion(t, "1.0"), true, mustVersion(t, "2.0"), false), ">=1.0,<2.0"},
		{EqualRange(mustVersion(t, "1.0")).Negate(), "<1.0|>1.0"},
	}

	for _, tt := range tests {
		if got := tt.r.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}
