package metrics

import (
	"strconv"
	"strings"
	"time"
)

// MonthLabel turns a "YYYY-MM" period key into "October 2026". Keys that do
// not parse are returned as given.
func MonthLabel(periodKey string) string {
	year, month, ok := strings.Cut(periodKey, "-")
	if !ok {
		return periodKey
	}
	y, err := strconv.Atoi(year)
	if err != nil || y <= 0 {
		return periodKey
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return periodKey
	}
	return time.Month(m).String() + " " + strconv.Itoa(y)
}
