package pep440

import "testing"

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"^1.3.1", false},
		{"~2.4", false},
		{"1.3.*", false},
		{"*", false},
		{"2.1.1", false},
		{"=2.1.1", false},
		{">=1.21.1,<3", false},
		{">=1.0 || >=2.0,<3.0", false},
		{"^1.3.1, not-a-version", true},
		{"", true},
		{"^", true},
		{">=1.0,,<2.0", true},
		{"|| >=1.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseConstraint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseConstraint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestConstraintCheck(t *testing.T) {
	tests := []struct {
		constraint string
		version    string
		want       bool
	}{
		{"^1.3.1", "1.3.1", true},
		{"^1.3.1", "1.9.0", true},
		{"^1.3.1", "2.0.0", false},
		{"^1.3.1", "1.3.0", false},
		{"^0.2.3", "0.2.9", true},
		{"^0.2.3", "0.3.0", false},
		{"^0.0.3", "0.0.3", true},
		{"^0.0.3", "0.0.4", false},
		{"~1.2.3", "1.2.9", true},
		{"~1.2.3", "1.3.0", false},
		{"~1.2", "1.2.9", true},
		{"~1.2", "1.3.0", false},
		{"~1", "1.9", true},
		{"~1", "2.0", false},
		{"1.3.*", "1.3.7", true},
		{"1.3.*", "1.4.0", false},
		{"*", "0.0.1", true},
		{"2.1.1", "2.1.1", true},
		{"2.1.1", "2.1.2", false},
		{">=1.0 || >=2.0,<3.0", "0.5", false},
		{">=1.0 || >=2.0,<3.0", "1.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.constraint+" "+tt.version, func(t *testing.T) {
			c, err := ParseConstraint(tt.constraint)
			if err != nil {
				t.Fatalf("ParseConstraint(%q) failed: %v", tt.constraint, err)
			}
			if got := c.Check(MustParse(tt.version)); got != tt.want {
				t.Errorf("Check(%s, %s) = %v, want %v", tt.constraint, tt.version, got, tt.want)
			}
		})
	}
}

func TestConstraintSatisfiable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"^3.10", true},
		{">=3.10,<3.13", true},
		{">=3.13,<3.10", false},
		{">=2.0,<1.0 || >=3.0", true}, // one branch suffices
		{"*", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := MustParseConstraint(tt.in)
			if got := c.Satisfiable(); got != tt.want {
				t.Errorf("Satisfiable(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConstraintNormalized(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"^1.3.1", ">=1.3.1,<2"},
		{"~1.2.3", ">=1.2.3,<1.3"},
		{"*", "*"},
		{"2.1.1", "==2.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := MustParseConstraint(tt.in).Normalized(); got != tt.want {
				t.Errorf("Normalized(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
