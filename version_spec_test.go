package condagrub

import "testing"

func mustVersionSpec(t *testing.T, s string) Range[Version] {
	t.Helper()
	r, err := ParseVersionSpec(s)
	if err != nil {
		t.Fatalf("ParseVersionSpec(%q): %v", s, err)
	}
	return r
}

func TestParseVersionSpecContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec    string
		version string
		expect  bool
	}{
		{">=1.0", "1.0", true},
		{">=1.0", "0.9.9", false},
		{">1.0", "1.0", false},
		{">1.0", "1.0.1", true},
		{"<=2.0", "2.0", true},
		{"<2.0", "2.0", false},
		{"==1.5", "1.5", true},
		{"==1.5", "1.5.0", true},
		{"==1.5", "1.5.1", false},
		{"!=1.5", "1.5", false},
		{"!=1.5", "1.6", true},
		{">=1.0,<2.0", "1.5", true},
		{">=1.0,<2.0", "2.0", false},
		{"<1.0|>=2.0", "0.5", true},
		{"<1.0|>=2.0", "1.5", false},
		{"<1.0|>=2.0", "2.0", true},
		{"*", "17.4", true},
		{"1.2.*", "1.2", true},
		{"1.2.*", "1.2.3", true},
		{"1.2.*", "1.3", false},
		{"=1.2", "1.2.9", true},
		{"=1.2", "1.3", false},
		{"1.2.3", "1.2.3", true},
		{"1.2.3", "1.2.4", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec+" contains "+tt.version, func(t *testing.T) {
			r := mustVersionSpec(t, tt.spec)
			v := mustVersion(t, tt.version)
			if got := r.Contains(v); got != tt.expect {
				t.Fatalf("Contains(%s) = %v, want %v", tt.version, got, tt.expect)
			}
		})
	}
}

func TestParseVersionSpecErrors(t *testing.T) {
	t.Parallel()

	tests := []string{
		">=",
		">=1.0,,<2.0",
		"|>=1.0",
		">=1.*",
		"abc!def",
	}

	for _, input := range tests {
		t.Run("invalid "+input, func(t *testing.T) {
			if _, err := ParseVersionSpec(input); err == nil {
				t.Fatalf("ParseVersionSpec(%q) = nil error, want failure", input)
			}
		})
	}
}

func TestParseVersionSpecEquivalences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
	}{
		{"=1.2", "1.2.*"},
		{">=1.0, <2.0", ">=1.0,<2.0"},
		{"!=1.2.*", "<1.2|>=1.3"},
		{"", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.a+" == "+tt.b, func(t *testing.T) {
			a := mustVersionSpec(t, tt.a)
			b := mustVersionSpec(t, tt.b)
			if !a.Equal(b) {
				t.Fatalf("expected %q (%s) to equal %q (%s)", tt.a, a, tt.b, b)
			}
		})
	}
}

func TestParseVersionSpecContradictionIsNone(t *testing.T) {
	t.Parallel()

	r := mustVersionSpec(t, ">=2.0,<1.0")
	if !r.IsNone() {
		t.Fatalf("contradictory spec parsed to %s, want none", r)
	}
}
