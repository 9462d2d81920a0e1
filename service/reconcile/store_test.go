package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string
	Status string
	Title  string
}

func (r row) EntityID() string { return r.ID }

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestSeedReplacesWholesaleAndDedupes(t *testing.T) {
	s := NewStore[row](NewestFirst)
	s.Seed([]row{{ID: "old"}})

	s.Seed([]row{
		{ID: "1", Title: "first"},
		{ID: "2"},
		{ID: "1", Title: "dup"}, // first occurrence wins
		{ID: ""},                // dropped
	})

	require.Equal(t, []string{"1", "2"}, ids(s.CurrentView()))
	got, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "first", got.Title)
	_, ok = s.Get("old")
	assert.False(t, ok)
}

func TestUpsertReplacesInPlace(t *testing.T) {
	s := NewStore[row](NewestFirst)
	s.Seed([]row{{ID: "a"}, {ID: "b", Title: "before"}, {ID: "c"}})

	s.ApplyUpsert(row{ID: "b", Title: "after"})

	require.Equal(t, []string{"a", "b", "c"}, ids(s.CurrentView()))
	got, _ := s.Get("b")
	assert.Equal(t, "after", got.Title)
}

func TestUpsertInsertPosition(t *testing.T) {
	newest := NewStore[row](NewestFirst)
	newest.Seed([]row{{ID: "a"}, {ID: "b"}})
	newest.ApplyUpsert(row{ID: "c"})
	assert.Equal(t, []string{"c", "a", "b"}, ids(newest.CurrentView()))

	appendOrder := NewStore[row](Append)
	appendOrder.Seed([]row{{ID: "a"}, {ID: "b"}})
	appendOrder.ApplyUpsert(row{ID: "c"})
	assert.Equal(t, []string{"a", "b", "c"}, ids(appendOrder.CurrentView()))
}

func TestUpsertWithoutIDDropped(t *testing.T) {
	s := NewStore[row](NewestFirst)
	s.Seed([]row{{ID: "a"}})
	s.ApplyUpsert(row{ID: ""})
	assert.Equal(t, 1, s.Len())
}

func TestFilterAdmissionAndEviction(t *testing.T) {
	s := NewStore[row](NewestFirst)
	s.SetFilter(func(r row) bool { return r.Status == "New" })
	s.Seed([]row{{ID: "1", Status: "New"}})

	// inadmissible new id is discarded
	s.ApplyUpsert(row{ID: "2", Status: "Assigned"})
	assert.Equal(t, []string{"1"}, ids(s.CurrentView()))

	// admissible new id enters at the head
	s.ApplyUpsert(row{ID: "3", Status: "New"})
	assert.Equal(t, []string{"3", "1"}, ids(s.CurrentView()))

	// an update that leaves the admissible set evicts the entry
	s.ApplyUpsert(row{ID: "1", Status: "Assigned"})
	assert.Equal(t, []string{"3"}, ids(s.CurrentView()))
	_, ok := s.Get("1")
	assert.False(t, ok)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := NewStore[row](Append)
	s.Seed([]row{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	s.ApplyDelete("b")
	s.ApplyDelete("b")
	s.ApplyDelete("missing")

	require.Equal(t, []string{"a", "c"}, ids(s.CurrentView()))

	// index stays consistent after the compaction
	s.ApplyUpsert(row{ID: "c", Title: "touched"})
	got, ok := s.Get("c")
	require.True(t, ok)
	assert.Equal(t, "touched", got.Title)
}

func TestEventBeforeSeedIsOverwritten(t *testing.T) {
	s := NewStore[row](NewestFirst)

	// push lands while the fetch is still in flight
	s.ApplyUpsert(row{ID: "1", Title: "from push"})
	s.Seed([]row{{ID: "1", Title: "from fetch"}, {ID: "2"}})

	require.Equal(t, 2, s.Len())
	got, _ := s.Get("1")
	assert.Equal(t, "from fetch", got.Title)
}

func TestFilteredFeedScenario(t *testing.T) {
	s := NewStore[row](NewestFirst)
	s.SetFilter(func(r row) bool { return r.Status == "New" })

	s.Seed([]row{{ID: "1", Status: "New"}})
	s.ApplyUpsert(row{ID: "2", Status: "New"})
	assert.Equal(t, []string{"2", "1"}, ids(s.CurrentView()))

	s.ApplyUpsert(row{ID: "1", Status: "Assigned"})
	assert.Equal(t, []string{"2"}, ids(s.CurrentView()))
}

func TestCurrentViewIsACopy(t *testing.T) {
	s := NewStore[row](Append)
	s.Seed([]row{{ID: "a", Title: "orig"}})

	view := s.CurrentView()
	view[0].Title = "mutated"

	got, _ := s.Get("a")
	assert.Equal(t, "orig", got.Title)
}

func TestLifetimeGatesLateWrites(t *testing.T) {
	l := NewLifetime()
	require.True(t, l.Alive())

	ran := false
	require.True(t, l.Do(func() { ran = true }))
	require.True(t, ran)

	l.Close()
	assert.False(t, l.Alive())
	assert.False(t, l.Do(func() { t.Fatal("ran after close") }))
}

func TestBannerAutoClear(t *testing.T) {
	b := NewBanner(20 * time.Millisecond)
	b.Set("request failed")
	require.Equal(t, "request failed", b.Message())

	assert.Eventually(t, func() bool { return b.Message() == "" },
		time.Second, 10*time.Millisecond)
}

func TestBannerZeroTTLKeepsMessage(t *testing.T) {
	b := NewBanner(0)
	b.Set("sticky")
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, "sticky", b.Message())
	b.Clear()
	assert.Equal(t, "", b.Message())
}
