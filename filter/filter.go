// Package filter implements the predicate that classifies discovered test
// cases as included or excluded. Filtering is by display name against
// include and exclude regex lists; the predicate is pure and safe for
// concurrent use once built.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/james-s-tayler/xunit/types"
)

// Predicate classifies a test case as included (true) or excluded (false).
type Predicate func(types.TestCase) bool

// All includes every test case.
func All(types.TestCase) bool { return true }

// RegexList is a repeatable CLI flag value collecting compiled patterns.
type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser for each occurrence of the flag.
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

// IsDefined reports whether any pattern was supplied.
func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

// AnyMatch reports whether any pattern matches s.
func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Filters combines an include list and an exclude list. A test case is
// included when it matches at least one include pattern (or none were
// given) and matches no exclude pattern.
type Filters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsPredicate returns the pure classification function for these filters.
func (f Filters) AsPredicate() Predicate {
	return func(tc types.TestCase) bool {
		name := tc.Name()
		return (!f.MustMatch.IsDefined() || f.MustMatch.AnyMatch(name)) &&
			!f.MustNotMatch.AnyMatch(name)
	}
}

// IsDefined reports whether any filtering was requested.
func (f Filters) IsDefined() bool {
	return f.MustMatch.IsDefined() || f.MustNotMatch.IsDefined()
}
