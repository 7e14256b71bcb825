package condagrub

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func requireRoot(t *testing.T, root *RootSource, spec string) {
	t.Helper()
	if err := root.Require(spec); err != nil {
		t.Fatalf("Require(%q): %v", spec, err)
	}
}

func checkSelected(t *testing.T, solution Solution, name, version string) {
	t.Helper()
	record, ok := solution.Get(MakeName(name))
	if !ok {
		t.Fatalf("expected %s in solution", name)
	}
	if record.Version.String() != version {
		t.Fatalf("expected %s to be %s, got %s", name, version, record.Version)
	}
}

func TestSolverSimpleGraph(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("a", "1.0.0", 0)
	source.AddPackage("a", "1.1.0", 0, "b >=2.0")
	source.AddPackage("b", "2.0.0", 0)
	source.AddPackage("b", "2.1.0", 0)

	root := NewRootSource()
	requireRoot(t, root, "a >=1.0,<2.0")

	solver := NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	checkSelected(t, solution, "a", "1.1.0")
	checkSelected(t, solution, "b", "2.1.0")
}

func TestSolverPrefersHighestBuildNumber(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("a", "1.0.0", 0)
	source.AddPackage("a", "1.0.0", 2)
	source.AddPackage("a", "1.0.0", 1)

	root := NewRootSource()
	requireRoot(t, root, "a ==1.0.0")

	solver := NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	record, ok := solution.Get(MakeName("a"))
	if !ok {
		t.Fatal("expected a in solution")
	}
	if record.BuildNumber != 2 {
		t.Fatalf("expected build number 2, got %d", record.BuildNumber)
	}
}

func TestSolverBuildNumberConstraint(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("a", "1.0.0", 0)
	source.AddPackage("a", "1.0.0", 1)

	root := NewRootSource()
	requireRoot(t, root, "a ==1.0.0[build_number=0]")

	solver := NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	record, _ := solution.Get(MakeName("a"))
	if record == nil || record.BuildNumber != 0 {
		t.Fatalf("expected pinned build number 0, got %v", record)
	}
}

func TestSolverConflictTracking(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("a", "1.0", 0, "b ==1.0")
	source.AddPackage("b", "1.0", 0)
	source.AddPackage("b", "2.0", 0)
	source.AddPackage("c", "1.0", 0, "b ==2.0")

	root := NewRootSource()
	requireRoot(t, root, "a ==1.0")
	requireRoot(t, root, "c ==1.0")

	solver := NewSolver(root, source).EnableIncompatibilityTracking()
	_, err := solver.Solve(root.Term())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	nsErr, ok := err.(*NoSolutionError)
	if !ok {
		t.Fatalf("expected *NoSolutionError, got %T", err)
	}

	if !strings.Contains(nsErr.Error(), "depends on") {
		t.Fatalf("unexpected error message: %v", nsErr.Error())
	}

	incomps := solver.GetIncompatibilities()
	if len(incomps) == 0 {
		t.Fatal("expected tracked incompatibilities, got 0")
	}
}

func TestSolverConflictNoTracking(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("foo", "1.0.0", 0, "bar ==2.0.0")
	source.AddPackage("bar", "1.0.0", 0)

	root := NewRootSource()
	requireRoot(t, root, "foo ==1.0.0")

	solver := NewSolver(root, source)
	_, err := solver.Solve(root.Term())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if _, ok := err.(ErrNoSolutionFound); !ok {
		t.Fatalf("expected ErrNoSolutionFound, got %T", err)
	}
}

func TestSolverBacktrackingChoosesAlternateRecord(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("a", "1.1.0", 0, "b >=1.0.0")
	source.AddPackage("b", "1.0.0", 0)
	source.AddPackage("b", "2.0.0", 0, "d ==1.0.0")

	root := NewRootSource()
	requireRoot(t, root, "a ==1.1.0")

	solver := NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	checkSelected(t, solution, "b", "1.0.0")
}

func TestSolverDiamondDependency(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("app", "1.0", 0, "left >=1.0", "right >=1.0")
	source.AddPackage("left", "1.0", 0, "base >=1.0,<2.0")
	source.AddPackage("right", "1.0", 0, "base >=1.5")
	source.AddPackage("base", "1.0", 0)
	source.AddPackage("base", "1.7", 0)
	source.AddPackage("base", "2.2", 0)

	root := NewRootSource()
	requireRoot(t, root, "app ==1.0")

	solver := NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	// Only 1.7 satisfies both [1.0, 2.0) and >=1.5.
	checkSelected(t, solution, "base", "1.7")

	var names []string
	for record := range solution.All() {
		if record.Name != MakeName(rootPackageName) {
			names = append(names, record.Name.Value())
		}
	}
	sort.Strings(names)
	want := []string{"app", "base", "left", "right"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("solution packages mismatch (-want +got):\n%s", diff)
	}
}

func TestSolverMissingPackage(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("a", "1.0", 0, "ghost >=1.0")

	root := NewRootSource()
	requireRoot(t, root, "a ==1.0")

	solver := NewSolver(root, source)
	_, err := solver.Solve(root.Term())
	if err == nil {
		t.Fatal("expected error for missing transitive dependency")
	}
	if _, ok := err.(ErrNoSolutionFound); !ok {
		t.Fatalf("expected ErrNoSolutionFound, got %T", err)
	}
}

func TestSolverOptionMaxSteps(t *testing.T) {
	root := NewRootSource()
	requireRoot(t, root, "ghost ==1.0.0")

	solver := NewSolverWithOptions([]Source{root}, WithMaxSteps(1))
	_, err := solver.Solve(root.Term())
	if err == nil {
		t.Fatal("expected iteration limit error")
	}
	if _, ok := err.(ErrIterationLimit); !ok {
		t.Fatalf("expected ErrIterationLimit, got %T", err)
	}
}

func TestSolverSharedComplementCache(t *testing.T) {
	cache := NewComplementCache()

	for i := 0; i < 2; i++ {
		source := &InMemorySource{}
		source.AddPackage("a", "1.1.0", 0, "b >=2.0")
		source.AddPackage("b", "2.1.0", 0)

		root := NewRootSource()
		requireRoot(t, root, "a ==1.1.0")

		solver := NewSolverWithOptions([]Source{root, source}, WithComplementCache(cache))
		if _, err := solver.Solve(root.Term()); err != nil {
			t.Fatalf("Solve %d returned error: %v", i, err)
		}
	}

	stats := cache.Stats()
	if stats.Lookups == 0 {
		t.Fatal("expected shared cache to be consulted")
	}
	if stats.Hits == 0 {
		t.Fatal("expected the second solve to hit cached complements")
	}
}

func TestSolverDeepChain(t *testing.T) {
	source := &InMemorySource{}
	source.AddPackage("p0", "1.0", 0, "p1 >=1.0")
	source.AddPackage("p1", "1.0", 0, "p2 >=1.0")
	source.AddPackage("p2", "1.0", 0, "p3 >=1.0")
	source.AddPackage("p3", "1.0", 0, "p4 >=1.0")
	source.AddPackage("p4", "1.0", 0)

	root := NewRootSource()
	requireRoot(t, root, "p0 ==1.0")

	solver := NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}

	for _, name := range []string{"p0", "p1", "p2", "p3", "p4"} {
		checkSelected(t, solution, name, "1.0")
	}
}
