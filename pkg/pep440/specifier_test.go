package pep440

import "testing"

func TestParseSpecifier(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{">=1.3.1", false},
		{"==2.1.*", false},
		{"!=1.0", false},
		{"~=1.4.2", false},
		{"<2", false},
		{"~=1", true},   // needs two release segments
		{">=1.3.*", true}, // wildcard only with == and !=
		{"1.3.1", true},   // missing operator
		{">=", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseSpecifier(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSpecifier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestSpecifierCheck(t *testing.T) {
	tests := []struct {
		spec    string
		version string
		want    bool
	}{
		{">=1.3.1", "1.3.1", true},
		{">=1.3.1", "1.3.0", false},
		{"<2", "1.9.9", true},
		{"<2", "2.0", false},
		{"==2.1.*", "2.1.7", true},
		{"==2.1.*", "2.2.0", false},
		{"!=2.1.*", "2.2.0", true},
		{"~=1.4.2", "1.4.9", true},
		{"~=1.4.2", "1.5.0", false},
		{"~=1.4.2", "1.4.1", false},
		{"==1.0", "1.0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec+" "+tt.version, func(t *testing.T) {
			sp, err := ParseSpecifier(tt.spec)
			if err != nil {
				t.Fatalf("ParseSpecifier(%q) failed: %v", tt.spec, err)
			}
			if got := sp.Check(MustParse(tt.version)); got != tt.want {
				t.Errorf("Check(%s, %s) = %v, want %v", tt.spec, tt.version, got, tt.want)
			}
		})
	}
}

func TestSpecifierSetCheck(t *testing.T) {
	set, err := ParseSpecifierSet(">=1.21.1,<3")
	if err != nil {
		t.Fatalf("ParseSpecifierSet failed: %v", err)
	}
	if !set.Check(MustParse("2.2.1")) {
		t.Error("2.2.1 should satisfy >=1.21.1,<3")
	}
	if set.Check(MustParse("3.0")) {
		t.Error("3.0 should not satisfy >=1.21.1,<3")
	}
}

func TestSpecifierSetSatisfiable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{">=1.0,<2.0", true},
		{">=2.0,<1.0", false},
		{">=1.0,<=1.0", true},
		{">1.0,<1.0", false},
		{">=1.0", true},
		{"==1.5,>=1.0,<2.0", true},
		{"==2.5,<2.0", false},
		{"~=1.4.2,<1.4.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			set, err := ParseSpecifierSet(tt.in)
			if err != nil {
				t.Fatalf("ParseSpecifierSet(%q) failed: %v", tt.in, err)
			}
			if got := set.Satisfiable(); got != tt.want {
				t.Errorf("Satisfiable(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
