package pep440

import (
	"fmt"
	"strings"
)

// Constraint is a version range expression as written in a manifest
// dependency table. It is a disjunction (||) of specifier sets, each of
// which is a conjunction of clauses. Poetry shorthand operators (caret,
// tilde, wildcard, bare version) are desugared to PEP 440 clauses at parse
// time.
type Constraint struct {
	raw  string
	sets []SpecifierSet
}

// ParseConstraint parses a manifest version-constraint string. Accepted
// forms, each optionally combined with "," (AND) and "||" (OR):
//
//	^1.3.1      caret range (compatible within leftmost non-zero segment)
//	~1.3.1      tilde range (compatible within the second-to-last segment)
//	1.3.*       wildcard range
//	*           any version
//	1.3.1       exact pin
//	>=1.3,<2    PEP 440 specifier set
func ParseConstraint(s string) (Constraint, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Constraint{}, fmt.Errorf("empty version constraint")
	}

	var sets []SpecifierSet
	for _, branch := range strings.Split(raw, "||") {
		branch = strings.TrimSpace(branch)
		if branch == "" {
			return Constraint{}, fmt.Errorf("invalid constraint %q: empty union branch", s)
		}
		set, err := parseBranch(branch)
		if err != nil {
			return Constraint{}, err
		}
		sets = append(sets, set)
	}
	return Constraint{raw: raw, sets: sets}, nil
}

// MustParseConstraint parses s and panics on error. Intended for tests.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseBranch(branch string) (SpecifierSet, error) {
	var set SpecifierSet
	for _, clause := range strings.Split(branch, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return nil, fmt.Errorf("invalid constraint %q: empty clause", branch)
		}
		specs, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		set = append(set, specs...)
	}
	return set, nil
}

func parseClause(clause string) ([]Specifier, error) {
	switch {
	case clause == "*":
		return nil, nil // matches everything

	case strings.HasPrefix(clause, "^"):
		v, err := Parse(clause[1:])
		if err != nil {
			return nil, fmt.Errorf("invalid caret constraint %q: %w", clause, err)
		}
		return caretRange(v), nil

	case strings.HasPrefix(clause, "~") && !strings.HasPrefix(clause, "~="):
		v, err := Parse(clause[1:])
		if err != nil {
			return nil, fmt.Errorf("invalid tilde constraint %q: %w", clause, err)
		}
		return tildeRange(v), nil

	case strings.HasSuffix(clause, ".*"):
		sp, err := ParseSpecifier("==" + clause)
		if err != nil {
			return nil, err
		}
		return []Specifier{sp}, nil

	case strings.HasPrefix(clause, "="):
		// Poetry accepts both "=1.2.3" and "==1.2.3".
		sp, err := ParseSpecifier("==" + strings.TrimLeft(clause, "="))
		if err != nil {
			return nil, err
		}
		return []Specifier{sp}, nil

	case startsWithOperator(clause):
		sp, err := ParseSpecifier(clause)
		if err != nil {
			return nil, err
		}
		return []Specifier{sp}, nil

	default:
		// Bare version is an exact pin.
		v, err := Parse(clause)
		if err != nil {
			return nil, fmt.Errorf("invalid version constraint %q: %w", clause, err)
		}
		return []Specifier{{Op: OpEqual, Version: v}}, nil
	}
}

func startsWithOperator(s string) bool {
	for _, op := range []string{"==", "!=", "<=", ">=", "~=", "<", ">"} {
		if strings.HasPrefix(s, op) {
			return true
		}
	}
	return false
}

// caretRange desugars ^X.Y.Z: the upper bound bumps the leftmost non-zero
// release segment (^1.2.3 -> <2.0.0, ^0.2.3 -> <0.3.0, ^0.0.3 -> <0.0.4).
func caretRange(v Version) []Specifier {
	release := make([]int, len(v.Release))
	copy(release, v.Release)

	bumped := false
	for i, n := range release {
		if n != 0 {
			release[i]++
			release = release[:i+1]
			bumped = true
			break
		}
	}
	if !bumped {
		release[len(release)-1]++
	}

	upper := Version{Epoch: v.Epoch, Release: release, Post: segmentAbsentLow, Dev: segmentAbsentHigh}
	return []Specifier{
		{Op: OpGreaterEqual, Version: v},
		{Op: OpLess, Version: upper},
	}
}

// tildeRange desugars ~X.Y.Z: the upper bound bumps the minor segment when
// one is declared (~1.2.3 -> <1.3.0, ~1.2 -> <1.3) and the major otherwise
// (~1 -> <2).
func tildeRange(v Version) []Specifier {
	n := min(len(v.Release), 2)
	release := make([]int, n)
	copy(release, v.Release[:n])
	release[n-1]++

	upper := Version{Epoch: v.Epoch, Release: release, Post: segmentAbsentLow, Dev: segmentAbsentHigh}
	return []Specifier{
		{Op: OpGreaterEqual, Version: v},
		{Op: OpLess, Version: upper},
	}
}

// String returns the constraint as written in the manifest.
func (c Constraint) String() string { return c.raw }

// IsAny reports whether the constraint admits every version.
func (c Constraint) IsAny() bool {
	for _, set := range c.sets {
		if len(set) == 0 {
			return true
		}
	}
	return false
}

// Check reports whether v satisfies the constraint.
func (c Constraint) Check(v Version) bool {
	for _, set := range c.sets {
		if set.Check(v) {
			return true
		}
	}
	return false
}

// Satisfiable reports whether any version can satisfy the constraint.
func (c Constraint) Satisfiable() bool {
	for _, set := range c.sets {
		if set.Satisfiable() {
			return true
		}
	}
	return false
}

// Normalized returns the desugared PEP 440 form, with union branches
// joined by " || ".
func (c Constraint) Normalized() string {
	parts := make([]string, len(c.sets))
	for i, set := range c.sets {
		if len(set) == 0 {
			parts[i] = "*"
			continue
		}
		parts[i] = set.String()
	}
	return strings.Join(parts, " || ")
}
