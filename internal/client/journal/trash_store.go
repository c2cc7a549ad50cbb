package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/logorama/internal/client/models"
	"github.com/dmitrijs2005/logorama/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/logorama/internal/common"
	"github.com/dmitrijs2005/logorama/internal/logging"
)

// TrashRetention is how long a trashed entry stays recoverable. Expired
// records are dropped permanently with no recovery path.
const TrashRetention = 30 * 24 * time.Hour

// TrashStore owns the trash collection and its retention garbage collector.
// Expiry is enforced on load, before every persistence write, and by the
// recurring sweeper.
type TrashStore struct {
	mu      sync.Mutex
	repo    kvstore.Repository
	log     logging.Logger
	now     func() time.Time
	entries []models.TrashEntry
}

// NewTrashStore hydrates the trash bucket, dropping records already past the
// retention window.
func NewTrashStore(ctx context.Context, repo kvstore.Repository, log logging.Logger) *TrashStore {
	s := &TrashStore{repo: repo, log: log.With("component", "trash"), now: time.Now}

	data, err := repo.Get(ctx, kvstore.KeyTrash)
	if err != nil {
		s.log.Error(ctx, "failed to load trash, starting empty", "error", err)
		return s
	}

	loaded := decodeStoredTrash(data, s.now())
	s.entries = s.withoutExpired(loaded, s.now())
	if len(s.entries) != len(loaded) {
		s.persist(ctx)
	}
	return s
}

// List returns the trash sorted by DeletedAt descending.
func (s *TrashStore) List() []models.TrashEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.TrashEntry, len(s.entries))
	copy(result, s.entries)
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].DeletedAt.After(result[b].DeletedAt)
	})
	return result
}

func (s *TrashStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// DeleteForever removes one record unconditionally.
func (s *TrashStore) DeleteForever(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0:0]
	found := false
	for _, e := range s.entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("trash entry %s: %w", id, common.ErrNotFound)
	}
	s.entries = kept
	s.persist(ctx)
	return nil
}

// EmptyAll clears the whole trash. The calling surface is expected to have
// confirmed this with the user.
func (s *TrashStore) EmptyAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return
	}
	s.entries = nil
	s.persist(ctx)
}

// Sweep drops expired records. It is idempotent and persists only when
// something was actually removed.
func (s *TrashStore) Sweep(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.withoutExpired(s.entries, s.now())
	if len(filtered) == len(s.entries) {
		return
	}
	removed := len(s.entries) - len(filtered)
	s.entries = filtered
	s.persist(ctx)
	s.log.Info(ctx, "trash sweep removed expired entries", "removed", removed)
}

// StartSweeper runs Sweep every interval until ctx is canceled.
func (s *TrashStore) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// accept moves a deleted entry into the trash, overwriting any stale copy
// with the same id, and returns the encoded bucket so the caller can commit
// both buckets in one write. Called by EntryStore.Delete.
func (s *TrashStore) accept(e models.Entry, deletedAt time.Time) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0:0]
	for _, existing := range s.entries {
		if existing.ID != e.ID {
			kept = append(kept, existing)
		}
	}
	s.entries = append(kept, models.TrashEntry{Entry: e, DeletedAt: deletedAt})
	return s.encodeLocked()
}

// take removes and returns the record with the given id together with the
// encoded remaining bucket. Called by EntryStore.Restore.
func (s *TrashStore) take(id string) (entry models.TrashEntry, payload []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0:0]
	for _, e := range s.entries {
		if e.ID == id && !ok {
			entry = e
			ok = true
			continue
		}
		kept = append(kept, e)
	}
	if !ok {
		return models.TrashEntry{}, nil, false
	}
	s.entries = kept
	return entry, s.encodeLocked(), true
}

func (s *TrashStore) withoutExpired(entries []models.TrashEntry, now time.Time) []models.TrashEntry {
	kept := entries[:0:0]
	for _, e := range entries {
		if now.Sub(e.DeletedAt) > TrashRetention {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// encodeLocked filters expired records and marshals the bucket. The filter
// here is the lazy before-every-write expiry enforcement.
func (s *TrashStore) encodeLocked() []byte {
	s.entries = s.withoutExpired(s.entries, s.now())
	entries := s.entries
	if entries == nil {
		entries = []models.TrashEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		// Only model types are marshaled here; this cannot realistically fail.
		return []byte("[]")
	}
	return data
}

// persist writes the bucket. Store failures are logged and the in-memory
// state stays authoritative for the rest of the session.
func (s *TrashStore) persist(ctx context.Context) {
	if err := s.repo.Set(ctx, kvstore.KeyTrash, s.encodeLocked()); err != nil {
		s.log.Error(ctx, "failed to persist trash", "error", err)
	}
}
