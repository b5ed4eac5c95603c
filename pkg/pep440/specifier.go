package pep440

import (
	"fmt"
	"strings"
)

// Op is a PEP 440 comparison operator.
type Op string

const (
	OpEqual        Op = "=="
	OpNotEqual     Op = "!="
	OpLessEqual    Op = "<="
	OpGreaterEqual Op = ">="
	OpLess         Op = "<"
	OpGreater      Op = ">"
	OpCompatible   Op = "~="
	OpArbitrary    Op = "==="
)

// Specifier is a single version clause, e.g. ">=1.3.1" or "==2.1.*".
type Specifier struct {
	Op       Op
	Version  Version
	Wildcard bool // release-prefix match, only valid with == and !=
}

// ParseSpecifier parses one PEP 440 clause. Wildcard suffixes (".*") are
// supported for == and != only.
func ParseSpecifier(s string) (Specifier, error) {
	s = strings.TrimSpace(s)

	var op Op
	for _, candidate := range []Op{OpArbitrary, OpEqual, OpNotEqual, OpLessEqual, OpGreaterEqual, OpCompatible, OpLess, OpGreater} {
		if strings.HasPrefix(s, string(candidate)) {
			op = candidate
			break
		}
	}
	if op == "" {
		return Specifier{}, fmt.Errorf("invalid specifier %q: missing operator", s)
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, string(op)))
	if rest == "" {
		return Specifier{}, fmt.Errorf("invalid specifier %q: missing version", s)
	}

	wildcard := false
	if strings.HasSuffix(rest, ".*") || rest == "*" {
		if op != OpEqual && op != OpNotEqual {
			return Specifier{}, fmt.Errorf("invalid specifier %q: wildcard requires == or !=", s)
		}
		wildcard = true
		rest = strings.TrimSuffix(strings.TrimSuffix(rest, "*"), ".")
		if rest == "" {
			rest = "0"
		}
	}

	v, err := Parse(rest)
	if err != nil {
		return Specifier{}, fmt.Errorf("invalid specifier %q: %w", s, err)
	}
	if op == OpCompatible && len(v.Release) < 2 {
		return Specifier{}, fmt.Errorf("invalid specifier %q: ~= requires at least two release segments", s)
	}
	return Specifier{Op: op, Version: v, Wildcard: wildcard}, nil
}

// String returns the normalized clause.
func (sp Specifier) String() string {
	if sp.Wildcard {
		return fmt.Sprintf("%s%s.*", sp.Op, sp.Version)
	}
	return fmt.Sprintf("%s%s", sp.Op, sp.Version)
}

// Check reports whether v satisfies the clause.
func (sp Specifier) Check(v Version) bool {
	switch sp.Op {
	case OpArbitrary:
		return strings.EqualFold(v.Original(), sp.Version.Original())
	case OpEqual:
		if sp.Wildcard {
			return releasePrefixMatch(v, sp.Version)
		}
		return v.Equal(sp.Version)
	case OpNotEqual:
		if sp.Wildcard {
			return !releasePrefixMatch(v, sp.Version)
		}
		return !v.Equal(sp.Version)
	case OpLessEqual:
		return v.Compare(sp.Version) <= 0
	case OpGreaterEqual:
		return v.Compare(sp.Version) >= 0
	case OpLess:
		return v.Compare(sp.Version) < 0
	case OpGreater:
		return v.Compare(sp.Version) > 0
	case OpCompatible:
		lo := Specifier{Op: OpGreaterEqual, Version: sp.Version}
		hi := Specifier{Op: OpEqual, Version: truncateLast(sp.Version), Wildcard: true}
		return lo.Check(v) && hi.Check(v)
	}
	return false
}

// bounds returns the interval the clause implies on the release line.
// A nil bound means unbounded on that side. Exclusion clauses (!=) and
// arbitrary equality return (nil, nil): they cannot close an interval.
func (sp Specifier) bounds() (lo, hi *bound) {
	switch sp.Op {
	case OpEqual:
		if sp.Wildcard {
			upper := nextRelease(sp.Version)
			return &bound{v: sp.Version, inclusive: true}, &bound{v: upper, inclusive: false}
		}
		return &bound{v: sp.Version, inclusive: true}, &bound{v: sp.Version, inclusive: true}
	case OpGreaterEqual:
		return &bound{v: sp.Version, inclusive: true}, nil
	case OpGreater:
		return &bound{v: sp.Version, inclusive: false}, nil
	case OpLessEqual:
		return nil, &bound{v: sp.Version, inclusive: true}
	case OpLess:
		return nil, &bound{v: sp.Version, inclusive: false}
	case OpCompatible:
		upper := nextRelease(truncateLast(sp.Version))
		return &bound{v: sp.Version, inclusive: true}, &bound{v: upper, inclusive: false}
	}
	return nil, nil
}

// releasePrefixMatch reports whether v's release starts with prefix's release
// segments (the ==X.Y.* wildcard rule). Epochs must match.
func releasePrefixMatch(v, prefix Version) bool {
	if v.Epoch != prefix.Epoch {
		return false
	}
	padded := v.releasePadded(len(prefix.Release))
	for i, n := range prefix.Release {
		if padded[i] != n {
			return false
		}
	}
	return true
}

// truncateLast drops the final release segment: 1.4.5 -> 1.4.
func truncateLast(v Version) Version {
	out := v
	if len(v.Release) > 1 {
		out.Release = v.Release[:len(v.Release)-1]
	}
	out.Pre, out.Post, out.Dev, out.Local = nil, segmentAbsentLow, segmentAbsentHigh, ""
	return out
}

// nextRelease increments the final release segment: 1.4 -> 1.5.
func nextRelease(v Version) Version {
	release := make([]int, len(v.Release))
	copy(release, v.Release)
	release[len(release)-1]++
	return Version{Release: release, Post: segmentAbsentLow, Dev: segmentAbsentHigh}
}

// SpecifierSet is a comma-joined conjunction of clauses.
type SpecifierSet []Specifier

// ParseSpecifierSet parses a comma-separated list of clauses,
// e.g. ">=1.21.1,<3".
func ParseSpecifierSet(s string) (SpecifierSet, error) {
	var set SpecifierSet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("invalid specifier set %q: empty clause", s)
		}
		sp, err := ParseSpecifier(part)
		if err != nil {
			return nil, err
		}
		set = append(set, sp)
	}
	return set, nil
}

// Check reports whether v satisfies every clause in the set.
func (set SpecifierSet) Check(v Version) bool {
	for _, sp := range set {
		if !sp.Check(v) {
			return false
		}
	}
	return true
}

// String returns the normalized comma-joined form.
func (set SpecifierSet) String() string {
	parts := make([]string, len(set))
	for i, sp := range set {
		parts[i] = sp.String()
	}
	return strings.Join(parts, ",")
}

// Satisfiable reports whether some version can satisfy every clause in the
// set. The analysis intersects the lower and upper bounds implied by each
// clause; != exclusions are ignored since they cannot empty a
// non-degenerate interval.
func (set SpecifierSet) Satisfiable() bool {
	var lo, hi *bound
	for _, sp := range set {
		l, h := sp.bounds()
		lo = tighterLow(lo, l)
		hi = tighterHigh(hi, h)
	}
	if lo == nil || hi == nil {
		return true
	}
	switch c := lo.v.Compare(hi.v); {
	case c < 0:
		return true
	case c > 0:
		return false
	default:
		return lo.inclusive && hi.inclusive
	}
}

type bound struct {
	v         Version
	inclusive bool
}

func tighterLow(a, b *bound) *bound {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if c := b.v.Compare(a.v); c > 0 || (c == 0 && !b.inclusive) {
		return b
	}
	return a
}

func tighterHigh(a, b *bound) *bound {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if c := b.v.Compare(a.v); c < 0 || (c == 0 && !b.inclusive) {
		return b
	}
	return a
}
