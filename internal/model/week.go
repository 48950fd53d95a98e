package model

import (
	"fmt"
	"time"
)

// WeekOf returns the newsletter window key for the given time, e.g.
// "2026-W35". Articles are grouped and queried by this key.
func WeekOf(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
