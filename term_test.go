package condagrub

import "testing"

func TestTermSatisfiedBy(t *testing.T) {
	t.Parallel()

	term := TermFromMatchSpec(MustParseMatchSpec("foo >=1.0,<2.0"))

	inside := &PackageRecord{Name: MakeName("foo"), Version: MustParseVersion("1.5")}
	outside := &PackageRecord{Name: MakeName("foo"), Version: MustParseVersion("2.5")}

	if !term.SatisfiedBy(inside) {
		t.Fatal("positive term should match a record inside the constraint")
	}
	if term.SatisfiedBy(outside) {
		t.Fatal("positive term should reject a record outside the constraint")
	}
	if term.SatisfiedBy(nil) {
		t.Fatal("positive term is unsatisfied when nothing is selected")
	}

	negated := term.Negate()
	if negated.SatisfiedBy(inside) {
		t.Fatal("negative term should reject a record inside the constraint")
	}
	if !negated.SatisfiedBy(outside) {
		t.Fatal("negative term should match a record outside the constraint")
	}
	if !negated.SatisfiedBy(nil) {
		t.Fatal("negative term is satisfied when nothing is selected")
	}

	if !negated.Negate().IsPositive() {
		t.Fatal("double negation should restore polarity")
	}
}

func TestIncompatibilityFromDependency(t *testing.T) {
	t.Parallel()

	record := &PackageRecord{Name: MakeName("a"), Version: MustParseVersion("1.0")}
	dep := TermFromMatchSpec(MustParseMatchSpec("b >=2.0"))

	inc := NewIncompatibilityFromDependency(record, dep)

	if inc.Kind != KindFromDependency {
		t.Fatalf("Kind = %v, want KindFromDependency", inc.Kind)
	}
	if len(inc.Terms) != 2 {
		t.Fatalf("len(Terms) = %d, want 2", len(inc.Terms))
	}
	if !inc.Terms[0].Positive || inc.Terms[0].Name != record.Name {
		t.Fatalf("first term should be the positive depending record, got %s", inc.Terms[0])
	}
	if inc.Terms[1].Positive || inc.Terms[1].Name != dep.Name {
		t.Fatalf("second term should be the negated dependency, got %s", inc.Terms[1])
	}
	if !inc.Terms[0].Constraint.Contains(record) {
		t.Fatal("record term should match its own record")
	}
}

func TestIncompatibilityConflictDedupsTerms(t *testing.T) {
	t.Parallel()

	a := TermFromMatchSpec(MustParseMatchSpec("a >=1.0"))
	aAgain := TermFromMatchSpec(MustParseMatchSpec("a <2.0"))
	b := TermFromMatchSpec(MustParseMatchSpec("b ==1.0"))

	inc := NewIncompatibilityConflict([]Term{a, aAgain, b}, nil, nil)
	if len(inc.Terms) != 2 {
		t.Fatalf("len(Terms) = %d, want 2 after dedup", len(inc.Terms))
	}
}
