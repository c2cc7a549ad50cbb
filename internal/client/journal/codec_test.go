package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 4, 5, 123000000, time.UTC)
	name := ExportFileName(now)
	assert.Equal(t, "logorama-2026-08-28T15-04-05-123Z.json", name)
	assert.NotContains(t, name, ":")
}

func TestExportAll_EmptyCollection(t *testing.T) {
	data, err := ExportAll(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

// Round-trip: importing an export reproduces the collection, ids and
// timestamps included.
func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	_, err := ts.entries.Create(ctx, "Manual", "alpha")
	require.NoError(t, err)
	ts.advance(time.Hour)
	_, err = ts.entries.Create(ctx, "", "beta")
	require.NoError(t, err)

	before := ts.entries.Snapshot()

	data, err := ExportAll(before)
	require.NoError(t, err)

	require.NoError(t, ts.entries.Import(ctx, data))
	after := ts.entries.Snapshot()

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Title, after[i].Title)
		assert.Equal(t, before[i].Content, after[i].Content)
		assert.True(t, before[i].CreatedAt.Equal(after[i].CreatedAt))
		assert.Equal(t, before[i].IsAutoTitle, after[i].IsAutoTitle)
	}
}
