package timeline

import "time"

// DateKeyLayout is the YYYY-MM-DD form used for local calendar dates.
// Keys in this form sort lexicographically in chronological order.
const DateKeyLayout = "2006-01-02"

// LocalDateKey returns the calendar date of ts in loc as a date key.
// All day boundaries in aggregation run through this one conversion.
func LocalDateKey(ts time.Time, loc *time.Location) string {
	return ts.In(loc).Format(DateKeyLayout)
}

// AddDays shifts a date key by n calendar days. Malformed keys are
// returned unchanged.
func AddDays(dateKey string, n int) string {
	day, err := time.Parse(DateKeyLayout, dateKey)
	if err != nil {
		return dateKey
	}
	return day.AddDate(0, 0, n).Format(DateKeyLayout)
}

// DayWindow returns the instants bounding a local calendar date in loc:
// local midnight inclusive to the next local midnight exclusive.
func DayWindow(dateKey string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateKeyLayout, dateKey, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day, day.AddDate(0, 0, 1), nil
}

// WeekWindow returns the instants bounding the seven local calendar days
// starting at weekStart.
func WeekWindow(weekStart string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateKeyLayout, weekStart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 7), nil
}
