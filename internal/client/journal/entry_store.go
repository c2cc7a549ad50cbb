package journal

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/logorama/internal/client/models"
	"github.com/dmitrijs2005/logorama/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/logorama/internal/common"
	"github.com/dmitrijs2005/logorama/internal/logging"
)

// Counts are the read-only badge numbers derived from the active collection.
type Counts struct {
	Total int
	Today int
	Week  int
}

// EntryStore owns the active collection. Every structural mutation re-runs
// the auto-title indexer and persists the whole collection to the entries
// bucket; deletions and restores commit both buckets in one atomic write.
type EntryStore struct {
	mu      sync.Mutex
	repo    kvstore.Repository
	trash   *TrashStore
	log     logging.Logger
	now     func() time.Time
	entries []models.Entry

	// onChange is invoked after every successful structural mutation, outside
	// the store lock. The sync engine hooks its debounced push here.
	onChange func()
}

// NewEntryStore hydrates the active bucket, normalizes it and brings the
// auto titles up to date.
func NewEntryStore(ctx context.Context, repo kvstore.Repository, trash *TrashStore, log logging.Logger) *EntryStore {
	s := &EntryStore{repo: repo, trash: trash, log: log.With("component", "entries"), now: time.Now}

	data, err := repo.Get(ctx, kvstore.KeyEntries)
	if err != nil {
		s.log.Error(ctx, "failed to load entries, starting empty", "error", err)
		return s
	}

	loaded := decodeStoredEntries(data, s.now())
	reindexed, changed := ReindexAutoTitles(loaded)
	s.entries = reindexed
	if changed {
		s.persist(ctx)
	}
	return s
}

// OnChange registers the mutation hook. Passing nil removes it.
func (s *EntryStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Create appends a new entry. Content must be non-empty after trimming;
// an empty title turns auto titling on.
func (s *EntryStore) Create(ctx context.Context, title, content string) (models.Entry, error) {
	trimmedContent := strings.TrimSpace(content)
	if trimmedContent == "" {
		return models.Entry{}, common.ErrValidation
	}

	trimmedTitle := strings.TrimSpace(title)
	now := s.now()
	entry := models.Entry{
		ID:          uuid.NewString(),
		Title:       trimmedTitle,
		Content:     trimmedContent,
		CreatedAt:   now,
		EditedAt:    now,
		IsAutoTitle: trimmedTitle == "",
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.reindexLocked()
	created := entry
	for _, e := range s.entries {
		if e.ID == entry.ID {
			created = e
			break
		}
	}
	s.persist(ctx)
	s.mu.Unlock()

	s.notifyChanged()
	return created, nil
}

// Update applies a partial update. An unknown id is a silent no-op. A present
// content must be non-empty; a present title re-derives IsAutoTitle from its
// trimmed emptiness.
func (s *EntryStore) Update(ctx context.Context, id string, upd models.EntryUpdate) error {
	if upd.Content != nil && strings.TrimSpace(*upd.Content) == "" {
		return common.ErrValidation
	}

	s.mu.Lock()
	applied := false
	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		entry := &s.entries[i]
		entry.EditedAt = s.now()
		if upd.Content != nil {
			entry.Content = strings.TrimSpace(*upd.Content)
		}
		if upd.Title != nil {
			trimmed := strings.TrimSpace(*upd.Title)
			entry.Title = trimmed
			entry.IsAutoTitle = trimmed == ""
		}
		applied = true
		break
	}
	if !applied {
		s.mu.Unlock()
		return nil
	}
	s.reindexLocked()
	s.persist(ctx)
	s.mu.Unlock()

	s.notifyChanged()
	return nil
}

// Delete moves an entry into the trash with a fresh DeletedAt stamp. Both
// buckets are committed in a single write.
func (s *EntryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	var removed *models.Entry
	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if e.ID == id && removed == nil {
			e := e
			removed = &e
			continue
		}
		kept = append(kept, e)
	}
	if removed == nil {
		s.mu.Unlock()
		return common.ErrNotFound
	}
	s.entries = kept
	s.reindexLocked()

	trashPayload := s.trash.accept(*removed, s.now())
	s.persistWithTrash(ctx, trashPayload)
	s.mu.Unlock()

	s.notifyChanged()
	return nil
}

// Restore re-admits a trashed entry, stripped of its DeletedAt stamp, into
// the active collection.
func (s *EntryStore) Restore(ctx context.Context, id string) error {
	s.mu.Lock()
	trashed, trashPayload, ok := s.trash.take(id)
	if !ok {
		s.mu.Unlock()
		return common.ErrNotFound
	}
	s.entries = append(s.entries, trashed.Entry)
	s.reindexLocked()
	s.persistWithTrash(ctx, trashPayload)
	s.mu.Unlock()

	s.notifyChanged()
	return nil
}

// List returns entries sorted by CreatedAt descending, narrowed by the range
// filter and the case-insensitive search term.
func (s *EntryStore) List(filter RangeFilter, term string) []models.Entry {
	s.mu.Lock()
	sorted := make([]models.Entry, len(s.entries))
	copy(sorted, s.entries)
	s.mu.Unlock()

	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})

	now := s.now()
	result := sorted[:0:0]
	for _, e := range sorted {
		if inRange(e, filter, now) && matchesSearch(e, term) {
			result = append(result, e)
		}
	}
	return result
}

// Latest returns up to n of today's newest entries.
func (s *EntryStore) Latest(n int) []models.Entry {
	today := s.List(FilterToday, "")
	if len(today) > n {
		today = today[:n]
	}
	return today
}

// Snapshot returns a copy of the current active collection, the unit pushed
// to the remote mirror.
func (s *EntryStore) Snapshot() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]models.Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

// Counts derives the badge numbers against the caller's current local time.
func (s *EntryStore) Counts() Counts {
	s.mu.Lock()
	entries := make([]models.Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	now := s.now()
	c := Counts{Total: len(entries)}
	for _, e := range entries {
		if inRange(e, FilterToday, now) {
			c.Today++
		}
		if inRange(e, FilterWeek, now) {
			c.Week++
		}
	}
	return c
}

// Import replaces the entire active collection with the normalized payload.
// The replacement is all-or-nothing; the trash is never touched.
func (s *EntryStore) Import(ctx context.Context, raw []byte) error {
	normalized, err := NormalizePayload(raw, s.now())
	if err != nil {
		return err
	}
	s.ReplaceAll(ctx, normalized)
	return nil
}

// ReplaceAll atomically swaps in a new active collection. Used by import and
// by the sync engine's pull write-back.
func (s *EntryStore) ReplaceAll(ctx context.Context, entries []models.Entry) {
	reindexed, _ := ReindexAutoTitles(entries)

	s.mu.Lock()
	s.entries = reindexed
	s.persist(ctx)
	s.mu.Unlock()

	s.notifyChanged()
}

func (s *EntryStore) reindexLocked() {
	if reindexed, changed := ReindexAutoTitles(s.entries); changed {
		s.entries = reindexed
	}
}

func (s *EntryStore) encodeLocked() []byte {
	entries := s.entries
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return []byte("[]")
	}
	return data
}

// persist writes the active bucket. Store failures are logged and the
// in-memory state stays authoritative for the rest of the session.
func (s *EntryStore) persist(ctx context.Context) {
	if err := s.repo.Set(ctx, kvstore.KeyEntries, s.encodeLocked()); err != nil {
		s.log.Error(ctx, "failed to persist entries", "error", err)
	}
}

// persistWithTrash commits both buckets in one write so a delete or restore
// can never be half-applied on disk.
func (s *EntryStore) persistWithTrash(ctx context.Context, trashPayload []byte) {
	err := s.repo.SetMulti(ctx, map[string][]byte{
		kvstore.KeyEntries: s.encodeLocked(),
		kvstore.KeyTrash:   trashPayload,
	})
	if err != nil {
		s.log.Error(ctx, "failed to persist entries and trash", "error", err)
	}
}

func (s *EntryStore) notifyChanged() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
