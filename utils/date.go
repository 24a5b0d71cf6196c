package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/mizutamari/gallery/config"
)

// DateLayout is the storage format for photo dates.
const DateLayout = "2006-01-02"

var (
	refLoc     *time.Location
	refLocOnce sync.Once
)

// RefLocation returns the configured reference timezone used for "today"
// defaults and per-day counters. Falls back to UTC when the zone database
// does not know the configured name.
func RefLocation() *time.Location {
	refLocOnce.Do(func() {
		loc, err := time.LoadLocation(config.Get().Timezone)
		if err != nil {
			loc = time.UTC
		}
		refLoc = loc
	})
	return refLoc
}

// TodayString returns today's date in the reference timezone.
func TodayString() string {
	return time.Now().In(RefLocation()).Format(DateLayout)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

var cnWeekdays = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// FormatDateCN renders a stored date as 2006年1月2日（星期一）. Values that do
// not parse are returned untouched so legacy rows still display.
func FormatDateCN(s string) string {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d年%d月%d日（星期%s）", t.Year(), int(t.Month()), t.Day(), cnWeekdays[int(t.Weekday())])
}
