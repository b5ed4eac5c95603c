// Package pep440 implements Python version ordering and version-range
// expressions as used in project manifests.
//
// Three layers build on each other:
//
//   - [Version]: a parsed PEP 440 version with epoch, release, pre-release,
//     post-release, dev, and local segments, ordered per PEP 440.
//   - [Specifier] and [SpecifierSet]: PEP 440 comparison clauses
//     (">=1.3,<2", "==2.1.*") joined by commas into conjunctions.
//   - [Constraint]: the full manifest range syntax, adding the Poetry
//     shorthand operators (caret, tilde, wildcard, bare pin) and "||"
//     unions, desugared to specifier sets at parse time.
//
// Constraints support three questions: does a concrete version satisfy the
// range ([Constraint.Check]), can any version satisfy it
// ([Constraint.Satisfiable]), and what is its canonical PEP 440 spelling
// ([Constraint.Normalized]).
package pep440
