package models

import "time"

// DueDateLayout is the wire format for task due dates.
const DueDateLayout = "2006-01-02"

// DaysLeft reports the number of calendar days between today and the given
// due date. Negative values mean the task is overdue, zero means due today.
// The second return value is false when the date is empty or unparseable;
// malformed input is never an error.
func DaysLeft(dueDate string) (int, bool) {
	return daysLeftAt(dueDate, time.Now())
}

// daysLeftAt compares calendar dates in UTC so the result is a whole number
// of days regardless of DST shifts in the local zone.
func daysLeftAt(dueDate string, now time.Time) (int, bool) {
	if dueDate == "" {
		return 0, false
	}
	due, err := time.Parse(DueDateLayout, dueDate)
	if err != nil {
		return 0, false
	}
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return int(due.Sub(today).Hours() / 24), true
}
