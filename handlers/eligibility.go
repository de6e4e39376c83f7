// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/ImranJaved1073/SQE-EMS-Testing/models"
)

var errBadTime = errors.New("unrecognised timestamp")

// Accepted election timestamp layouts. Zone-less forms are read in the
// server's local time.
var electionLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	models.DateLayout,
}

// ParseDOB parses a YYYY-MM-DD date of birth as midnight in loc
func ParseDOB(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, strings.TrimSpace(s), loc)
}

// AgeOn returns whole years between dob and now, counting a year as 365
// elapsed days. Leap days are not corrected for. Both instants are
// compared by wall clock so a DST shift cannot cost a day.
func AgeOn(dob, now time.Time) int {
	days := int(wallClock(now).Sub(wallClock(dob)) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days / 365
}

func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, m, d, h, mi, s, t.Nanosecond(), time.UTC)
}

// age parses dob and returns it in canonical YYYY-MM-DD form along with
// the age at now
func age(dob string, now time.Time) (string, int, error) {
	t, err := ParseDOB(dob, now.Location())
	if err != nil {
		return "", 0, err
	}
	return t.Format(models.DateLayout), AgeOn(t, now), nil
}

// parseElectionTime accepts RFC 3339 or one of electionLayouts. The result
// is truncated to the millisecond, which is what the stores keep.
func parseElectionTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errBadTime
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Truncate(time.Millisecond), nil
	}
	for _, layout := range electionLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, errBadTime
}

// isNumeric reports whether s is a non-empty run of ASCII digits
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
