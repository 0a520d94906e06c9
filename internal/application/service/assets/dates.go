package assets

import "time"

// midnight truncates a timestamp to its calendar date in UTC.
func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func today() time.Time {
	return midnight(time.Now().UTC())
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInYear(year int) int64 {
	if isLeap(year) {
		return 366
	}
	return 365
}
