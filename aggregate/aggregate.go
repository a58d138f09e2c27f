// Package aggregate turns already-fetched record collections into the
// filtered views, derived totals and calendar buckets the handlers serve.
// Every operation is pure: inputs are never mutated and results are new
// slices, so concurrent callers need no coordination.
package aggregate

import (
	"sort"
	"strings"
	"time"
)

// ISODate is the layout used for all date-only comparisons.
const ISODate = "2006-01-02"

// Predicate reports whether a record matches an active filter. A nil
// Predicate matches everything.
type Predicate[T any] func(T) bool

// Filter returns the records matching pred, preserving relative order.
// A nil predicate returns a copy of the input.
func Filter[T any](records []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// And combines predicates; a record passes only if all non-nil
// predicates accept it. With no predicates every record passes.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(r T) bool {
		for _, p := range preds {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// TextFilter keeps records where any of the selected string fields
// contains query case-insensitively. An empty query keeps everything.
func TextFilter[T any](records []T, fieldsOf func(T) []string, query string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Filter(records, nil)
	}
	return Filter(records, func(r T) bool {
		for _, f := range fieldsOf(r) {
			if strings.Contains(strings.ToLower(f), query) {
				return true
			}
		}
		return false
	})
}

// DateFilter keeps records whose date portion equals isoDate
// (2006-01-02), ignoring time of day. An empty filter keeps everything.
func DateFilter[T any](records []T, timeOf func(T) time.Time, isoDate string) []T {
	if isoDate == "" {
		return Filter(records, nil)
	}
	return Filter(records, func(r T) bool {
		return timeOf(r).Format(ISODate) == isoDate
	})
}

// FieldEquals keeps records whose selected field equals want exactly.
// An empty want keeps everything.
func FieldEquals[T any](records []T, valueOf func(T) string, want string) []T {
	if want == "" {
		return Filter(records, nil)
	}
	return Filter(records, func(r T) bool {
		return valueOf(r) == want
	})
}

// SumBy sums amountOf over records matching pred. An empty input or a
// never-true predicate sums to zero.
func SumBy[T any](records []T, amountOf func(T) int64, pred Predicate[T]) int64 {
	var total int64
	for _, r := range records {
		if pred == nil || pred(r) {
			total += amountOf(r)
		}
	}
	return total
}

// Revenue is price times quantity, with non-positive inputs treated as
// zero. Callers resolve a missing product or missing price to 0 before
// the call, so the result is always defined.
func Revenue(price int64, quantity int) int64 {
	if price <= 0 || quantity <= 0 {
		return 0
	}
	return price * int64(quantity)
}

// BucketByDay groups records falling in referenceMonth by local calendar
// date. Keys use the 2006-01-02 layout; each bucket is ordered by time of
// day ascending. Grouping is by (year, month, day), not 24h windows.
func BucketByDay[T any](records []T, timeOf func(T) time.Time, referenceMonth time.Time) map[string][]T {
	buckets := make(map[string][]T)
	for _, r := range records {
		t := timeOf(r)
		if t.Year() != referenceMonth.Year() || t.Month() != referenceMonth.Month() {
			continue
		}
		key := t.Format(ISODate)
		buckets[key] = append(buckets[key], r)
	}
	for key := range buckets {
		day := buckets[key]
		sort.SliceStable(day, func(i, j int) bool {
			return timeOf(day[i]).Before(timeOf(day[j]))
		})
	}
	return buckets
}

// UpcomingWindow returns open records with a time in
// [now, now+horizonDays], ascending, capped to limit. A limit of zero or
// less means no cap.
func UpcomingWindow[T any](records []T, timeOf func(T) time.Time, isOpen Predicate[T], now time.Time, horizonDays, limit int) []T {
	end := now.AddDate(0, 0, horizonDays)
	out := Filter(records, func(r T) bool {
		if isOpen != nil && !isOpen(r) {
			return false
		}
		t := timeOf(r)
		return !t.Before(now) && !t.After(end)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return timeOf(out[i]).Before(timeOf(out[j]))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TodayScheduled returns open records whose date portion equals today's.
func TodayScheduled[T any](records []T, timeOf func(T) time.Time, isOpen Predicate[T], today time.Time) []T {
	date := today.Format(ISODate)
	return Filter(records, func(r T) bool {
		if isOpen != nil && !isOpen(r) {
			return false
		}
		return timeOf(r).Format(ISODate) == date
	})
}
