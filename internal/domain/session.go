package domain

import (
	"strconv"
)

// SessionID names an academic-year partition, e.g. "2024_2025".
type SessionID string

func (s SessionID) String() string {
	return string(s)
}

// EndYear returns the second year of the session, or 0 if s is malformed.
func (s SessionID) EndYear() int {
	if len(s) != 9 {
		return 0
	}
	year, err := strconv.Atoi(string(s[5:]))
	if err != nil {
		return 0
	}

	return year
}

// SessionForEndYear builds the identifier of the session ending in endYear.
func SessionForEndYear(endYear int) SessionID {
	return SessionID(strconv.Itoa(endYear-1) + "_" + strconv.Itoa(endYear))
}
