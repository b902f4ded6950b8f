package services

import "time"

// DateLayout is the canonical YYYY-MM-DD form used for storage and comparison.
const DateLayout = "2006-01-02"

// NormalizeDate returns the canonical form of s and true when s is a real
// calendar date written as YYYY-MM-DD. Anything else, including impossible
// dates such as 2021-02-30, reports false.
func NormalizeDate(s string) (string, bool) {
	if len(s) != len(DateLayout) {
		return "", false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}
