package types

import "math"

// fuzzyTolerance is the absolute/relative tolerance floor. spec.md §9
// describes the qFuzzyCompare(a+1, b+1) idiom as tolerating "differences of
// about 1e-12 for values near zero", but spec.md §8's own worked examples
// (1.0000000001 considered equal to 1.0; a Switch input at 1e-9 considered
// fuzzy-zero) both require a tolerance nearer 1e-9. Where the two disagree,
// Torc follows the concrete §8 test cases — see DESIGN.md's Open Questions
// for the resolution.
const fuzzyTolerance = 1e-9

// fuzzySlack widens fuzzyTolerance by a relative 1e-6 so that a difference of
// exactly fuzzyTolerance still matches after the "+1" shift rounds it: 1+1e-9
// is stored as 1.0000000010000000827, a hair more than 1e-9 away from 1.
const fuzzySlack = 1 + 1e-6

// FuzzyEqual reports whether a and b are equal within fuzzyTolerance, either
// in absolute terms or relative to whichever has the larger magnitude. Every
// call site in Torc that compares a device value passes a+1, b+1 rather than
// a, b directly — the "+1" trick spec.md §9 and §4.A call for, which shifts
// the comparison away from zero so small values get the same treatment as
// large ones. Do not "fix" this by removing the shift: the Toggle rising-edge
// threshold and Logic/Equal both depend on reproducing it.
func FuzzyEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	limit := fuzzyTolerance * fuzzySlack
	if diff <= limit {
		return true
	}
	return diff <= limit*math.Max(math.Abs(a), math.Abs(b))
}
