package condagrub

import "testing"

func testAlgebra() *Algebra {
	return NewAlgebra(NewComplementCache())
}

func TestPartialSolutionDecisionsAndLevels(t *testing.T) {
	t.Parallel()

	al := testAlgebra()
	rootRecord := &PackageRecord{Name: MakeName("$root"), Version: MustParseVersion("0")}
	ps := newPartialSolution(al, rootRecord.Name)

	ps.seedRoot(rootRecord)
	if ps.decisionLvl != 0 {
		t.Fatalf("seed must stay at level 0, got %d", ps.decisionLvl)
	}

	a := &PackageRecord{Name: MakeName("a"), Version: MustParseVersion("1.0")}
	b := &PackageRecord{Name: MakeName("b"), Version: MustParseVersion("2.0")}

	ps.addDecision(a)
	ps.addDecision(b)
	if ps.decisionLvl != 2 {
		t.Fatalf("expected decision level 2, got %d", ps.decisionLvl)
	}
	if !ps.hasDecision(a.Name) || !ps.hasDecision(b.Name) {
		t.Fatal("decisions not recorded")
	}

	ps.backtrack(1)
	if ps.hasDecision(b.Name) {
		t.Fatal("backtrack should remove the level-2 decision")
	}
	if !ps.hasDecision(a.Name) {
		t.Fatal("backtrack removed too much")
	}
	if ps.decisionLvl != 1 {
		t.Fatalf("expected decision level 1 after backtrack, got %d", ps.decisionLvl)
	}
}

func TestPartialSolutionAllowedSetNarrows(t *testing.T) {
	t.Parallel()

	al := testAlgebra()
	ps := newPartialSolution(al, MakeName("$root"))

	name := MakeName("a")
	wide := constraintFromSpec(t, "a >=1.0,<3.0")
	narrow := constraintFromSpec(t, "a >=2.0")

	if _, changed, err := ps.addDerivation(NewTerm(name, wide), nil); err != nil || !changed {
		t.Fatalf("first derivation: changed=%v err=%v", changed, err)
	}
	if _, changed, err := ps.addDerivation(NewTerm(name, narrow), nil); err != nil || !changed {
		t.Fatalf("second derivation: changed=%v err=%v", changed, err)
	}

	allowed := ps.allowedSet(name)
	want := constraintFromSpec(t, "a >=2.0,<3.0")
	if !allowed.Equal(want) {
		t.Fatalf("allowedSet = %s, want %s", allowed, want)
	}

	// A derivation that leaves nothing allowed must fail.
	outside := constraintFromSpec(t, "a >=5.0")
	if _, _, err := ps.addDerivation(NewTerm(name, outside), nil); err == nil {
		t.Fatal("expected errNoAllowedCandidates")
	}
}

func TestPartialSolutionNegativeDerivation(t *testing.T) {
	t.Parallel()

	al := testAlgebra()
	ps := newPartialSolution(al, MakeName("$root"))

	name := MakeName("a")
	wide := constraintFromSpec(t, "a >=1.0,<3.0")
	forbidden := constraintFromSpec(t, "a >=2.0")

	if _, _, err := ps.addDerivation(NewTerm(name, wide), nil); err != nil {
		t.Fatalf("positive derivation: %v", err)
	}
	if _, changed, err := ps.addDerivation(NewNegativeTerm(name, forbidden), nil); err != nil || !changed {
		t.Fatalf("negative derivation: changed=%v err=%v", changed, err)
	}

	allowed := ps.allowedSet(name)
	want := constraintFromSpec(t, "a >=1.0,<2.0")
	if !allowed.Equal(want) {
		t.Fatalf("allowedSet = %s, want %s", allowed, want)
	}
}

func TestPartialSolutionNextDecisionCandidate(t *testing.T) {
	t.Parallel()

	al := testAlgebra()
	rootRecord := &PackageRecord{Name: MakeName("$root"), Version: MustParseVersion("0")}
	ps := newPartialSolution(al, rootRecord.Name)
	ps.seedRoot(rootRecord)

	if _, ok := ps.nextDecisionCandidate(); ok {
		t.Fatal("root alone should leave nothing to decide")
	}
	if !ps.isComplete() {
		t.Fatal("root alone is a complete solution")
	}

	name := MakeName("a")
	if _, _, err := ps.addDerivation(NewTerm(name, constraintFromSpec(t, "a >=1.0")), nil); err != nil {
		t.Fatalf("derivation: %v", err)
	}

	next, ok := ps.nextDecisionCandidate()
	if !ok || next != name {
		t.Fatalf("nextDecisionCandidate = %v/%v, want a", next.Value(), ok)
	}
	if ps.isComplete() {
		t.Fatal("undecided package must leave the solution incomplete")
	}

	ps.addDecision(&PackageRecord{Name: name, Version: MustParseVersion("1.5")})
	if !ps.isComplete() {
		t.Fatal("solution should be complete after deciding a")
	}
}

func TestPartialSolutionBuildSolution(t *testing.T) {
	t.Parallel()

	al := testAlgebra()
	rootRecord := &PackageRecord{Name: MakeName("$root"), Version: MustParseVersion("0")}
	ps := newPartialSolution(al, rootRecord.Name)
	ps.seedRoot(rootRecord)

	a := &PackageRecord{Name: MakeName("a"), Version: MustParseVersion("1.0")}
	ps.addDecision(a)

	solution := ps.buildSolution()
	if len(solution) != 2 {
		t.Fatalf("solution size = %d, want 2 (root + a)", len(solution))
	}
	got, ok := solution.Get(a.Name)
	if !ok || got != a {
		t.Fatalf("solution.Get(a) = %v/%v", got, ok)
	}
}
