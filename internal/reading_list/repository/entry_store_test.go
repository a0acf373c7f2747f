package repository

import (
	"sync"
	"testing"

	"github.com/GoSim-25-26J-441/reading-list-api/internal/reading_list/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(s *EntryStore, title string) domain.Entry {
	return s.Create(func(id int64) domain.Entry {
		return domain.Entry{Title: title, Author: "A", Status: domain.StatusToRead}
	})
}

func TestEntryStore_CreateAssignsSequentialIDs(t *testing.T) {
	s := NewEntryStore()
	assert.Equal(t, int64(1), newEntry(s, "a").ID)
	assert.Equal(t, int64(2), newEntry(s, "b").ID)

	e := s.Create(func(id int64) domain.Entry { return domain.Entry{ID: 99, Title: "c"} })
	assert.Equal(t, int64(3), e.ID, "the allocated id wins over the built one")
}

func TestEntryStore_IDsNotReusedAfterRemove(t *testing.T) {
	s := NewEntryStore()
	a := newEntry(s, "a")
	require.True(t, s.Remove(a.ID))

	b := newEntry(s, "b")
	assert.Greater(t, b.ID, a.ID)

	_, ok := s.Find(a.ID)
	assert.False(t, ok)
}

func TestEntryStore_InsertionOrderSurvivesRemove(t *testing.T) {
	s := NewEntryStore()
	for _, title := range []string{"one", "two", "three", "four"} {
		newEntry(s, title)
	}
	require.True(t, s.Remove(2))

	var titles []string
	for _, e := range s.ListAll() {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"one", "three", "four"}, titles)
	assert.Equal(t, 3, s.Count())
}

func TestEntryStore_Replace(t *testing.T) {
	s := NewEntryStore()
	e := newEntry(s, "before")

	e.Title = "after"
	e.ID = 42
	require.True(t, s.Replace(1, e))

	got, ok := s.Find(1)
	require.True(t, ok)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, int64(1), got.ID, "replace must not change the id")

	assert.False(t, s.Replace(404, e))
	assert.False(t, s.Remove(404))
}

func TestEntryStore_ReturnsCopies(t *testing.T) {
	s := NewEntryStore()
	notes := "original"
	created := s.Create(func(int64) domain.Entry { return domain.Entry{Title: "t", Notes: &notes} })
	id := created.ID
	notes = "changed by caller"

	got, _ := s.Find(id)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "original", *got.Notes)

	*got.Notes = "changed again"
	list := s.ListAll()
	list[0].Title = "mutated"

	again, _ := s.Find(id)
	assert.Equal(t, "original", *again.Notes)
	assert.Equal(t, "t", again.Title)
}

func TestEntryStore_ConcurrentAllocation(t *testing.T) {
	s := NewEntryStore()
	const n = 200

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := s.Create(func(int64) domain.Entry { return domain.Entry{} })
			ids <- e.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, s.Count())

	var prev int64
	for _, e := range s.ListAll() {
		require.Greater(t, e.ID, prev, "insertion order must follow id order")
		prev = e.ID
	}
}
