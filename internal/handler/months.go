package handler

import "time"

type monthBucket struct {
	Key   string // YYYY-MM, matches the repository's grouping key
	Label string // short month name for chart axes
	Start time.Time
}

// lastMonths returns the n calendar months ending with the current one,
// oldest first. Charts zero-fill against these buckets so quiet months still
// appear on the axis.
func lastMonths(n int, now time.Time) []monthBucket {
	buckets := make([]monthBucket, 0, n)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i, 0)
		buckets = append(buckets, monthBucket{
			Key:   m.Format("2006-01"),
			Label: m.Format("Jan"),
			Start: m,
		})
	}
	return buckets
}
