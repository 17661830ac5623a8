package core

import (
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD layout used for dates stored as strings.
const DateLayout = "2006-01-02"

// NowFunc is mockable.
var NowFunc = func() time.Time { return time.Now().UTC() }

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// AgeOn returns the age in full years on `on` of someone born on `dob` (YYYY-MM-DD).
func AgeOn(dob string, on time.Time) (int, bool) {
	birth, err := time.Parse(DateLayout, CleanString(dob))
	if err != nil {
		return 0, false
	}
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// ContainsString reports whether `s` is in `list`.
func ContainsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
