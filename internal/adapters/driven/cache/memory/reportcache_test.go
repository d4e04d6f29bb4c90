package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		Sections: []domain.GeneratedSection{
			{
				Title: "Executive Summary",
				Text:  "AI improves diagnostics [doc1:1].",
				Citations: []domain.EvidenceItem{
					{SourceID: "doc1", Page: 1, Snippet: "AI improves diagnostics.", DocumentText: "AI improves diagnostics."},
					{SourceID: "doc1", Page: 2, Snippet: "AI reduces cost.", DocumentText: "AI reduces cost."},
				},
			},
		},
	}
}

func TestStore_AssignsUniqueIDs(t *testing.T) {
	cache := NewReportCache()
	ctx := context.Background()

	id1, err := cache.Store(ctx, sampleReport())
	require.NoError(t, err)
	id2, err := cache.Store(ctx, sampleReport())
	require.NoError(t, err)

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, cache.Len())
}

func TestRoundTrip_PreservesReport(t *testing.T) {
	cache := NewReportCache()
	ctx := context.Background()

	original := sampleReport()
	id, err := cache.Store(ctx, original)
	require.NoError(t, err)

	got, err := cache.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, original.Sections[0].Title, got.Sections[0].Title)
	assert.Equal(t, original.Sections[0].Text, got.Sections[0].Text)
	assert.Equal(t, original.Sections[0].Citations, got.Sections[0].Citations)
}

func TestGet_UnknownID(t *testing.T) {
	cache := NewReportCache()

	_, err := cache.Get(context.Background(), "no-such-report")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClear(t *testing.T) {
	cache := NewReportCache()
	ctx := context.Background()

	id, err := cache.Store(ctx, sampleReport())
	require.NoError(t, err)

	require.NoError(t, cache.Clear(ctx))

	_, err = cache.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, cache.Len())
}

func TestConcurrentStoreAndGet(t *testing.T) {
	cache := NewReportCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := cache.Store(ctx, sampleReport())
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate report id %s", id)
		seen[id] = true

		got, err := cache.Get(ctx, id)
		require.NoError(t, err)
		assert.Len(t, got.Sections, 1)
	}
}
