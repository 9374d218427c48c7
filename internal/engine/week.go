package engine

import (
	"fmt"
	"time"
)

// WeekKey identifies the calendar week of t as "YYYY-W<n>", where
// n = ceil((zero-based day of year + weekday of Jan 1 + 1) / 7) and weekdays
// count Sunday as 0. Dates with equal keys belong to the same week.
func WeekKey(t time.Time) string {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := t.YearDay() - 1
	n := (days + int(jan1.Weekday()) + 1 + 6) / 7
	return fmt.Sprintf("%d-W%d", t.Year(), n)
}

// WeekDates returns the dates of the slots of the week containing now,
// Monday first, at midnight.
func WeekDates(now time.Time) [SlotCount]time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	var out [SlotCount]time.Time
	for i := range out {
		out[i] = monday.AddDate(0, 0, i)
	}
	return out
}

// DayLabel renders a slot date as "Mon, 01".
func DayLabel(d time.Time) string {
	return fmt.Sprintf("%s, %02d", d.Weekday().String()[:3], d.Day())
}

// MonthLabel renders the board title, e.g. "January 2024".
func MonthLabel(now time.Time) string {
	return fmt.Sprintf("%s %d", now.Month(), now.Year())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// TodaySlot returns the slot index of now within its week.
func TodaySlot(now time.Time) int {
	for i, d := range WeekDates(now) {
		if sameDay(d, now) {
			return i
		}
	}
	return (int(now.Weekday()) + 6) % 7
}
