package schedule

import "time"

const day = 24 * time.Hour

// Intervals maps a card level to the time that must pass since its last
// review before it is due again.
var Intervals = [...]time.Duration{
	0:  0,
	1:  1 * day,
	2:  2 * day,
	3:  7 * day,
	4:  14 * day,
	5:  28 * day,
	6:  56 * day,
	7:  112 * day,
	8:  224 * day,
	9:  448 * day,
	10: 704 * day,
	11: 1408 * day,
}

// Interval returns the required interval for level. Out of range levels are
// clamped to the table.
func Interval(level int) time.Duration {
	if level < 0 {
		level = 0
	}
	if level >= len(Intervals) {
		level = len(Intervals) - 1
	}
	return Intervals[level]
}
