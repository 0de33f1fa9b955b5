package domain

import "time"

// Study days are calendar days in UTC.

// DayStart returns midnight UTC of the day containing t.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDayStart returns midnight UTC of the day after the one containing t.
func NextDayStart(t time.Time) time.Time {
	// AddDate keeps calendar semantics, Add(24h) does not
	return DayStart(t).AddDate(0, 0, 1)
}

// IsSameDay reports whether a and b fall on the same UTC calendar day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DueDateAfter returns the day that is the given number of days after today.
func DueDateAfter(today time.Time, days int) time.Time {
	return DayStart(today).AddDate(0, 0, days)
}
