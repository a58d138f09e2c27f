package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Kind   string
	Title  string
	Memo   string
	Amount int64
	At     time.Time
}

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func entryFields(e entry) []string { return []string{e.Title, e.Memo} }
func entryAmount(e entry) int64    { return e.Amount }
func entryTime(e entry) time.Time  { return e.At }
func entryKind(e entry) string     { return e.Kind }
func isIncome(e entry) bool        { return e.Kind == "income" }

func TestTextFilterEmptyQueryIsIdentity(t *testing.T) {
	records := []entry{
		{Title: "Facial"},
		{Title: "Peeling", Memo: "sensitive skin"},
		{Title: "Massage"},
	}

	got := TextFilter(records, entryFields, "")
	assert.Equal(t, records, got)

	// blank queries count as empty too
	got = TextFilter(records, entryFields, "   ")
	assert.Equal(t, records, got)
}

func TestTextFilterSubstringCaseInsensitive(t *testing.T) {
	records := []entry{
		{Title: "Aqua Facial"},
		{Title: "Peeling", Memo: "FACIAL follow-up"},
		{Title: "Massage"},
	}

	got := TextFilter(records, entryFields, "facial")
	require.Len(t, got, 2)
	assert.Equal(t, "Aqua Facial", got[0].Title)
	assert.Equal(t, "Peeling", got[1].Title)
}

func TestTextFilterPreservesOrder(t *testing.T) {
	records := []entry{
		{Title: "c-match"}, {Title: "skip"}, {Title: "a-match"}, {Title: "b-match"},
	}
	got := TextFilter(records, entryFields, "match")
	require.Len(t, got, 3)
	assert.Equal(t, []entry{{Title: "c-match"}, {Title: "a-match"}, {Title: "b-match"}}, got)
}

func TestDateFilterMatchesDatePortionOnly(t *testing.T) {
	records := []entry{
		{Title: "morning", At: at("2024-05-01 09:00")},
		{Title: "afternoon", At: at("2024-05-01 14:30")},
		{Title: "next day", At: at("2024-05-02 09:00")},
	}

	got := DateFilter(records, entryTime, "2024-05-01")
	require.Len(t, got, 2)
	assert.Equal(t, "morning", got[0].Title)
	assert.Equal(t, "afternoon", got[1].Title)

	assert.Equal(t, records, DateFilter(records, entryTime, ""))
}

func TestFieldEquals(t *testing.T) {
	records := []entry{{Kind: "income"}, {Kind: "expense"}, {Kind: "income"}}

	assert.Len(t, FieldEquals(records, entryKind, "income"), 2)
	assert.Len(t, FieldEquals(records, entryKind, "expense"), 1)
	assert.Len(t, FieldEquals(records, entryKind, "other"), 0)
	assert.Equal(t, records, FieldEquals(records, entryKind, ""))
}

func TestAndIsIntersection(t *testing.T) {
	records := []entry{
		{Kind: "income", Amount: 100},
		{Kind: "income", Amount: 10},
		{Kind: "expense", Amount: 100},
	}
	p1 := Predicate[entry](isIncome)
	p2 := Predicate[entry](func(e entry) bool { return e.Amount >= 100 })

	both := Filter(records, And(p1, p2))
	require.Len(t, both, 1)
	assert.Equal(t, entry{Kind: "income", Amount: 100}, both[0])

	// nil predicates contribute no constraint
	assert.Equal(t, Filter(records, p1), Filter(records, And(nil, p1, nil)))
	assert.Equal(t, records, Filter(records, And[entry]()))
}

func TestSumBy(t *testing.T) {
	records := []entry{
		{Kind: "income", Amount: 50000},
		{Kind: "expense", Amount: 20000},
		{Kind: "income", Amount: 10000},
	}

	income := SumBy(records, entryAmount, isIncome)
	expense := SumBy(records, entryAmount, func(e entry) bool { return e.Kind == "expense" })
	assert.Equal(t, int64(60000), income)
	assert.Equal(t, int64(20000), expense)
	assert.Equal(t, int64(40000), income-expense)

	assert.Equal(t, int64(0), SumBy(records, entryAmount, func(entry) bool { return false }))
	assert.Equal(t, int64(0), SumBy(nil, entryAmount, nil))
}

func TestSumByNetCanBeNegative(t *testing.T) {
	records := []entry{
		{Kind: "income", Amount: 1000},
		{Kind: "expense", Amount: 5000},
	}
	income := SumBy(records, entryAmount, isIncome)
	expense := SumBy(records, entryAmount, func(e entry) bool { return e.Kind == "expense" })
	assert.Equal(t, int64(-4000), income-expense)
}

func TestRevenue(t *testing.T) {
	assert.Equal(t, int64(3000), Revenue(1000, 3))
	assert.Equal(t, int64(1000), Revenue(1000, 1))
	// missing product resolves to price 0
	assert.Equal(t, int64(0), Revenue(0, 3))
	assert.Equal(t, int64(0), Revenue(1000, 0))
	assert.Equal(t, int64(0), Revenue(-5, 3))
}

func TestBucketByDayGroupsAndOrders(t *testing.T) {
	records := []entry{
		{Title: "late", At: at("2024-05-01 16:00")},
		{Title: "early", At: at("2024-05-01 09:30")},
		{Title: "other day", At: at("2024-05-03 11:00")},
		{Title: "other month", At: at("2024-06-01 11:00")},
	}

	buckets := BucketByDay(records, entryTime, at("2024-05-15 00:00"))
	require.Len(t, buckets, 2)

	day := buckets["2024-05-01"]
	require.Len(t, day, 2)
	assert.Equal(t, "early", day[0].Title)
	assert.Equal(t, "late", day[1].Title)

	assert.Len(t, buckets["2024-05-03"], 1)
	assert.NotContains(t, buckets, "2024-06-01")
}

func TestUpcomingWindow(t *testing.T) {
	now := at("2024-05-10 12:00")
	records := []entry{
		{Title: "tomorrow", Kind: "income", At: now.AddDate(0, 0, 1)},
		{Title: "too far", Kind: "income", At: now.AddDate(0, 0, 10)},
		{Title: "past", Kind: "income", At: now.AddDate(0, 0, -1)},
		{Title: "closed", Kind: "expense", At: now.AddDate(0, 0, 2)},
	}

	got := UpcomingWindow(records, entryTime, isIncome, now, 7, 5)
	require.Len(t, got, 1)
	assert.Equal(t, "tomorrow", got[0].Title)
}

func TestUpcomingWindowSortsAndCaps(t *testing.T) {
	now := at("2024-05-10 12:00")
	var records []entry
	for d := 6; d >= 1; d-- {
		records = append(records, entry{Kind: "income", At: now.AddDate(0, 0, d)})
	}

	got := UpcomingWindow(records, entryTime, isIncome, now, 7, 5)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].At.Before(got[i].At))
	}
}

func TestTodayScheduled(t *testing.T) {
	today := at("2024-05-10 08:00")
	records := []entry{
		{Title: "today am", Kind: "income", At: at("2024-05-10 10:00")},
		{Title: "today pm", Kind: "income", At: at("2024-05-10 19:00")},
		{Title: "today closed", Kind: "expense", At: at("2024-05-10 11:00")},
		{Title: "tomorrow", Kind: "income", At: at("2024-05-11 10:00")},
	}

	got := TodayScheduled(records, entryTime, isIncome, today)
	require.Len(t, got, 2)
	assert.Equal(t, "today am", got[0].Title)
	assert.Equal(t, "today pm", got[1].Title)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := []entry{{Title: "a"}, {Title: "b"}}
	snapshot := make([]entry, len(records))
	copy(snapshot, records)

	_ = TextFilter(records, entryFields, "a")
	_ = Filter(records, func(e entry) bool { return e.Title == "b" })
	assert.Equal(t, snapshot, records)
}
