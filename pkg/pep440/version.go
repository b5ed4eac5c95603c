package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionRE matches the PEP 440 version grammar in its normalized and most
// common non-normalized spellings: [N!]N(.N)*[{a|b|rc}N][.postN][.devN][+local]
var versionRE = regexp.MustCompile(`^\s*v?` +
	`(?:(\d+)!)?` + // epoch
	`(\d+(?:\.\d+)*)` + // release
	`(?:[-_.]?(a|alpha|b|beta|rc|c|pre|preview)[-_.]?(\d*))?` + // pre
	`(?:[-_.]?(post|rev|r)[-_.]?(\d*)|-(\d+))?` + // post
	`(?:[-_.]?(dev)[-_.]?(\d*))?` + // dev
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?` + // local
	`\s*$`)

// Sentinel segment values used for ordering. A missing pre-release segment
// on an otherwise final version sorts above any pre-release; a missing dev
// segment sorts above any dev release of the same base.
const (
	segmentAbsentLow  = -1 << 30
	segmentAbsentHigh = 1 << 30
)

// Phase identifies a pre-release phase in PEP 440 ordering (a < b < rc).
type Phase int

const (
	PhaseAlpha Phase = iota
	PhaseBeta
	PhaseRC
)

var phaseNames = map[Phase]string{
	PhaseAlpha: "a",
	PhaseBeta:  "b",
	PhaseRC:    "rc",
}

// Pre is an optional pre-release segment (e.g. the "rc1" in "2.0.0rc1").
type Pre struct {
	Phase  Phase
	Number int
}

// Version is a parsed PEP 440 version.
//
// The zero value is not a valid version; use Parse. Versions are immutable
// after construction and safe for concurrent reads.
type Version struct {
	Epoch   int
	Release []int // at least one segment
	Pre     *Pre
	Post    int // segmentAbsentLow when absent
	Dev     int // segmentAbsentHigh when absent
	Local   string

	original string
}

// Parse parses a version string under PEP 440 rules. Common non-normalized
// spellings (leading "v", "alpha"/"beta" phase names, "-1" post syntax) are
// accepted and normalized.
func Parse(s string) (Version, error) {
	m := versionRE.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}

	v := Version{Post: segmentAbsentLow, Dev: segmentAbsentHigh, original: strings.TrimSpace(s)}

	if m[1] != "" {
		v.Epoch, _ = strconv.Atoi(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: release segment %q", s, part)
		}
		v.Release = append(v.Release, n)
	}
	if m[3] != "" {
		v.Pre = &Pre{Phase: phaseFromName(m[3]), Number: atoiDefault(m[4], 0)}
	}
	switch {
	case m[5] != "":
		v.Post = atoiDefault(m[6], 0)
	case m[7] != "":
		v.Post = atoiDefault(m[7], 0)
	}
	if m[8] != "" {
		v.Dev = atoiDefault(m[9], 0)
	}
	v.Local = m[10]
	return v, nil
}

func phaseFromName(name string) Phase {
	switch name {
	case "a", "alpha":
		return PhaseAlpha
	case "b", "beta":
		return PhaseBeta
	default: // rc, c, pre, preview
		return PhaseRC
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// MustParse parses s and panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the normalized form of the version.
func (v Version) String() string {
	var b strings.Builder
	if v.Epoch != 0 {
		fmt.Fprintf(&b, "%d!", v.Epoch)
	}
	for i, n := range v.Release {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(n))
	}
	if v.Pre != nil {
		fmt.Fprintf(&b, "%s%d", phaseNames[v.Pre.Phase], v.Pre.Number)
	}
	if v.Post != segmentAbsentLow {
		fmt.Fprintf(&b, ".post%d", v.Post)
	}
	if v.Dev != segmentAbsentHigh {
		fmt.Fprintf(&b, ".dev%d", v.Dev)
	}
	if v.Local != "" {
		fmt.Fprintf(&b, "+%s", v.Local)
	}
	return b.String()
}

// Original returns the version string as it appeared in the source document.
func (v Version) Original() string { return v.original }

// IsPreRelease reports whether the version has a pre-release or dev segment.
func (v Version) IsPreRelease() bool {
	return v.Pre != nil || v.Dev != segmentAbsentHigh
}

// Compare returns -1, 0, or +1 ordering v against o per PEP 440.
// The local segment is compared lexicographically as a tiebreaker, which
// matches PEP 440 for the common single-segment case.
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.Epoch, o.Epoch); c != 0 {
		return c
	}
	if c := cmpRelease(v.Release, o.Release); c != 0 {
		return c
	}
	if c := cmpInt(v.preKey(), o.preKey()); c != 0 {
		return c
	}
	if v.Pre != nil && o.Pre != nil {
		if c := cmpInt(v.Pre.Number, o.Pre.Number); c != 0 {
			return c
		}
	}
	if c := cmpInt(v.Post, o.Post); c != 0 {
		return c
	}
	if c := cmpInt(v.Dev, o.Dev); c != 0 {
		return c
	}
	return strings.Compare(v.Local, o.Local)
}

// preKey collapses the pre/dev interaction into a single ordered key:
// a dev release of a final base (1.0.dev1) sorts below any pre-release
// of the same base, which sorts below the final release.
func (v Version) preKey() int {
	if v.Pre != nil {
		return int(v.Pre.Phase)
	}
	if v.Dev != segmentAbsentHigh && v.Post == segmentAbsentLow {
		return segmentAbsentLow
	}
	return segmentAbsentHigh
}

func cmpRelease(a, b []int) int {
	n := max(len(a), len(b))
	for i := range n {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if c := cmpInt(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// LessThan reports whether v sorts strictly before o.
func (v Version) LessThan(o Version) bool { return v.Compare(o) < 0 }

// Equal reports whether v and o denote the same version.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// releasePadded returns the release segments padded with zeros to n entries.
func (v Version) releasePadded(n int) []int {
	out := make([]int, max(n, len(v.Release)))
	copy(out, v.Release)
	return out
}
