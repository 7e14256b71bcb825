package condagrub_test

import (
	"fmt"

	condagrub "github.com/condakit/condagrub"
)

func ExampleSolver_Solve() {
	source := &condagrub.InMemorySource{}
	source.AddPackage("numpy", "1.21.0", 0, "python >=3.8,<3.11")
	source.AddPackage("numpy", "1.24.0", 0, "python >=3.9")
	source.AddPackage("python", "3.10.8", 0)
	source.AddPackage("python", "3.11.2", 0)

	root := condagrub.NewRootSource()
	if err := root.Require("numpy >=1.21"); err != nil {
		fmt.Println("bad spec:", err)
		return
	}

	solver := condagrub.NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		fmt.Println("no solution:", err)
		return
	}

	for _, name := range []string{"numpy", "python"} {
		record, _ := solution.Get(condagrub.MakeName(name))
		fmt.Printf("%s %s\n", name, record.Version)
	}
	// Output:
	// numpy 1.24.0
	// python 3.11.2
}

func ExampleParseMatchSpec() {
	spec, err := condagrub.ParseMatchSpec("numpy >=1.21,<2[build_number=1]")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	set := condagrub.ConstraintFromMatchSpec(spec)
	record := &condagrub.PackageRecord{
		Name:        condagrub.MakeName("numpy"),
		Version:     condagrub.MustParseVersion("1.21.5"),
		BuildNumber: 1,
	}

	fmt.Println(set.Contains(record))
	// Output:
	// true
}

func ExampleConstraintSet_Complement() {
	spec := condagrub.MustParseMatchSpec("foo >=1.0,<2.0")
	set := condagrub.ConstraintFromMatchSpec(spec)

	inside := &condagrub.PackageRecord{Version: condagrub.MustParseVersion("1.5")}
	outside := &condagrub.PackageRecord{Version: condagrub.MustParseVersion("2.5")}

	complement := set.Complement()
	fmt.Println(complement.Contains(inside))
	fmt.Println(complement.Contains(outside))
	// Output:
	// false
	// true
}
