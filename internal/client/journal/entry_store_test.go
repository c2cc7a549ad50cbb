package journal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/logorama/internal/client/models"
	"github.com/dmitrijs2005/logorama/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/logorama/internal/common"
	"github.com/dmitrijs2005/logorama/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

type testStores struct {
	repo    kvstore.Repository
	entries *EntryStore
	trash   *TrashStore
	clock   *time.Time
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()
	ctx := context.Background()
	repo := kvstore.NewMemoryRepository()
	log := testLogger()

	clock := time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local)
	ts := &testStores{repo: repo, clock: &clock}
	now := func() time.Time { return *ts.clock }

	ts.trash = NewTrashStore(ctx, repo, log)
	ts.trash.now = now
	ts.entries = NewEntryStore(ctx, repo, ts.trash, log)
	ts.entries.now = now
	return ts
}

func (ts *testStores) advance(d time.Duration) {
	*ts.clock = ts.clock.Add(d)
}

// failingRepository wraps a Repository and rejects writes while Fail is set.
type failingRepository struct {
	kvstore.Repository
	Fail bool
}

func (r *failingRepository) Set(ctx context.Context, key string, value []byte) error {
	if r.Fail {
		return errQuota
	}
	return r.Repository.Set(ctx, key, value)
}

func (r *failingRepository) SetMulti(ctx context.Context, values map[string][]byte) error {
	if r.Fail {
		return errQuota
	}
	return r.Repository.SetMulti(ctx, values)
}

var errQuota = errors.New("quota exceeded")

func TestEntryStore_Create(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	_, err := ts.entries.Create(ctx, "ignored", "   ")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, ts.entries.Snapshot(), "validation failure must not mutate")

	created, err := ts.entries.Create(ctx, "", "first thoughts")
	require.NoError(t, err)
	assert.True(t, created.IsAutoTitle)
	assert.Equal(t, AutoTitle(1, *ts.clock), created.Title)
	assert.Equal(t, *ts.clock, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.EditedAt)

	manual, err := ts.entries.Create(ctx, "  My Day  ", "more")
	require.NoError(t, err)
	assert.False(t, manual.IsAutoTitle)
	assert.Equal(t, "My Day", manual.Title)
}

func TestEntryStore_CreatePersists(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	_, err := ts.entries.Create(ctx, "", "body")
	require.NoError(t, err)

	reloaded := NewEntryStore(ctx, ts.repo, ts.trash, testLogger())
	require.Len(t, reloaded.Snapshot(), 1)
	assert.Equal(t, "body", reloaded.Snapshot()[0].Content)
}

func TestEntryStore_Update(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	created, err := ts.entries.Create(ctx, "Manual", "body")
	require.NoError(t, err)

	// Unknown id is a silent no-op.
	title := "x"
	require.NoError(t, ts.entries.Update(ctx, "missing", models.EntryUpdate{Title: &title}))

	// Empty content is refused before any mutation.
	empty := "  "
	err = ts.entries.Update(ctx, created.ID, models.EntryUpdate{Content: &empty})
	require.ErrorIs(t, err, common.ErrValidation)

	ts.advance(time.Minute)

	newContent := "updated body"
	require.NoError(t, ts.entries.Update(ctx, created.ID, models.EntryUpdate{Content: &newContent}))

	got := ts.entries.Snapshot()[0]
	assert.Equal(t, "updated body", got.Content)
	assert.Equal(t, "Manual", got.Title, "absent title key leaves the title alone")
	assert.Equal(t, *ts.clock, got.EditedAt)

	// Clearing the title turns auto titling back on.
	cleared := ""
	require.NoError(t, ts.entries.Update(ctx, created.ID, models.EntryUpdate{Title: &cleared}))
	got = ts.entries.Snapshot()[0]
	assert.True(t, got.IsAutoTitle)
	assert.Equal(t, AutoTitle(1, got.CreatedAt), got.Title)
}

func TestEntryStore_DeleteRestoreIdentity(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	created, err := ts.entries.Create(ctx, "Keep me", "important")
	require.NoError(t, err)

	ts.advance(time.Hour)
	require.NoError(t, ts.entries.Delete(ctx, created.ID))
	assert.Empty(t, ts.entries.Snapshot())

	trashed := ts.trash.List()
	require.Len(t, trashed, 1)
	assert.Equal(t, *ts.clock, trashed[0].DeletedAt)
	assert.True(t, !trashed[0].DeletedAt.Before(trashed[0].CreatedAt), "deletedAt >= createdAt")

	require.NoError(t, ts.entries.Restore(ctx, created.ID))
	assert.Zero(t, ts.trash.Count())

	restored := ts.entries.Snapshot()[0]
	assert.Equal(t, created.ID, restored.ID)
	assert.Equal(t, created.Title, restored.Title)
	assert.Equal(t, created.Content, restored.Content)
	assert.Equal(t, created.CreatedAt, restored.CreatedAt)
}

func TestEntryStore_DeleteUnknownID(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)
	require.ErrorIs(t, ts.entries.Delete(ctx, "missing"), common.ErrNotFound)
	require.ErrorIs(t, ts.entries.Restore(ctx, "missing"), common.ErrNotFound)
}

func TestEntryStore_DeleteOverwritesStaleTrashCopy(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	created, err := ts.entries.Create(ctx, "", "v1")
	require.NoError(t, err)
	require.NoError(t, ts.entries.Delete(ctx, created.ID))
	require.NoError(t, ts.entries.Restore(ctx, created.ID))

	v2 := "v2"
	require.NoError(t, ts.entries.Update(ctx, created.ID, models.EntryUpdate{Content: &v2}))
	require.NoError(t, ts.entries.Delete(ctx, created.ID))

	trashed := ts.trash.List()
	require.Len(t, trashed, 1, "same-id stale copy must be overwritten")
	assert.Equal(t, "v2", trashed[0].Content)
}

func TestEntryStore_List(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	oldest, err := ts.entries.Create(ctx, "About Go", "compilers are neat")
	require.NoError(t, err)
	ts.advance(time.Hour)
	middle, err := ts.entries.Create(ctx, "", "groceries and GO errands")
	require.NoError(t, err)
	ts.advance(10 * 24 * time.Hour)
	newest, err := ts.entries.Create(ctx, "Later", "future")
	require.NoError(t, err)

	all := ts.entries.List(FilterAll, "")
	require.Len(t, all, 3)
	assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, []string{all[0].ID, all[1].ID, all[2].ID},
		"sorted by createdAt descending")

	today := ts.entries.List(FilterToday, "")
	require.Len(t, today, 1)
	assert.Equal(t, newest.ID, today[0].ID)

	week := ts.entries.List(FilterWeek, "")
	require.Len(t, week, 1)
	assert.Equal(t, newest.ID, week[0].ID)

	// Case-insensitive substring over title and content.
	matches := ts.entries.List(FilterAll, "go")
	require.Len(t, matches, 2)

	matches = ts.entries.List(FilterAll, "  ")
	require.Len(t, matches, 3, "blank search term is a no-op filter")
}

func TestEntryStore_Latest(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	for i := 0; i < 5; i++ {
		_, err := ts.entries.Create(ctx, "", "entry")
		require.NoError(t, err)
		ts.advance(time.Minute)
	}

	latest := ts.entries.Latest(3)
	require.Len(t, latest, 3)
	assert.True(t, latest[0].CreatedAt.After(latest[1].CreatedAt))
}

func TestEntryStore_Counts(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	_, err := ts.entries.Create(ctx, "", "old")
	require.NoError(t, err)
	ts.advance(10 * 24 * time.Hour)
	_, err = ts.entries.Create(ctx, "", "recent")
	require.NoError(t, err)

	c := ts.entries.Counts()
	assert.Equal(t, Counts{Total: 2, Today: 1, Week: 1}, c)
}

func TestEntryStore_Import(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	_, err := ts.entries.Create(ctx, "", "will be replaced")
	require.NoError(t, err)
	deleted, err := ts.entries.Create(ctx, "", "trashed")
	require.NoError(t, err)
	require.NoError(t, ts.entries.Delete(ctx, deleted.ID))

	err = ts.entries.Import(ctx, []byte(`{"not": "an array"}`))
	require.ErrorIs(t, err, common.ErrFormat)
	require.Len(t, ts.entries.Snapshot(), 1, "failed import must not replace anything")

	require.NoError(t, ts.entries.Import(ctx, []byte(`[{ "content": "hello" }]`)))

	got := ts.entries.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Content)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, *ts.clock, got[0].CreatedAt)
	assert.True(t, got[0].IsAutoTitle)
	assert.Equal(t, AutoTitle(1, *ts.clock), got[0].Title)

	assert.Equal(t, 1, ts.trash.Count(), "import never touches the trash")
}

func TestEntryStore_OnChange(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	fired := 0
	ts.entries.OnChange(func() { fired++ })

	created, err := ts.entries.Create(ctx, "", "a")
	require.NoError(t, err)
	content := "b"
	require.NoError(t, ts.entries.Update(ctx, created.ID, models.EntryUpdate{Content: &content}))
	require.NoError(t, ts.entries.Delete(ctx, created.ID))
	require.NoError(t, ts.entries.Restore(ctx, created.ID))

	assert.Equal(t, 4, fired)

	_, err = ts.entries.Create(ctx, "", " ")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 4, fired, "rejected mutations must not notify")
}

func TestEntryStore_PersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	ts := newTestStores(t)

	_, err := ts.entries.Create(ctx, "", "kept")
	require.NoError(t, err)

	ts.entries.repo = &failingRepository{Repository: ts.repo, Fail: true}

	_, err = ts.entries.Create(ctx, "", "memory only")
	require.NoError(t, err, "store I/O failure must not surface as an error")
	assert.Len(t, ts.entries.Snapshot(), 2, "in-memory state stays authoritative")
}
