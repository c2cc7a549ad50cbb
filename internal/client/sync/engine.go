// Package sync mirrors the journal's active entries into a single remote
// backup file. The whole file is rewritten on every push and replaces the
// active set on every pull; the last writer wins.
package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/dmitrijs2005/logorama/internal/client/drive"
	"github.com/dmitrijs2005/logorama/internal/client/models"
	"github.com/dmitrijs2005/logorama/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/logorama/internal/common"
	"github.com/dmitrijs2005/logorama/internal/logging"
)

// Status is the engine's lifecycle phase.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusConnected  Status = "connected"
	StatusSyncing    Status = "syncing"
	StatusError      Status = "error"
)

// DefaultDebounce is the delay between a local change and the automatic push
// it triggers. Further changes inside the window restart it, so a burst of
// edits produces one upload.
const DefaultDebounce = 2 * time.Second

// State is a snapshot of the engine's condition, safe to read concurrently.
type State struct {
	Enabled          bool
	Status           Status
	LastSyncAt       time.Time
	Err              string
	RemoteFileID     string
	RemoteModifiedAt time.Time
}

// entrySource is the slice of the journal the engine needs.
type entrySource interface {
	Snapshot() []models.Entry
	Import(ctx context.Context, raw []byte) error
}

// Engine drives the remote mirror: connect, push, pull, and the debounced
// auto-push that follows local mutations.
type Engine struct {
	client drive.Client
	auth   drive.Authenticator
	store  entrySource
	repo   kvstore.Repository
	logger logging.Logger

	debounce time.Duration
	now      func() time.Time

	mu            gosync.Mutex
	state         State
	busy          bool
	pendingPush   bool
	suppressAuto  bool
	timer         *time.Timer
	onStateChange func(State)
}

// Option configures the engine.
type Option func(*Engine)

// WithDebounce overrides the auto-push delay.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.debounce = d
	}
}

// NewEngine creates a disabled engine. The repo is used for bookkeeping only
// (the remote file id survives restarts); entry data never goes through it.
func NewEngine(client drive.Client, auth drive.Authenticator, store entrySource, repo kvstore.Repository, log logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		auth:     auth,
		store:    store,
		repo:     repo,
		logger:   log.With("component", "sync"),
		debounce: DefaultDebounce,
		now:      time.Now,
		state:    State{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnStateChange registers a hook invoked after every state transition, with a
// copy of the new state. Called outside the engine lock.
func (e *Engine) OnStateChange(fn func(State)) {
	e.mu.Lock()
	e.onStateChange = fn
	e.mu.Unlock()
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Enable turns the mirror on and connects. On any failure the engine stays
// enabled in the Error state so a later SyncNow can retry.
func (e *Engine) Enable(ctx context.Context) error {
	e.mu.Lock()
	e.state.Enabled = true
	e.mu.Unlock()
	e.notify()
	return e.Connect(ctx)
}

// Disable cancels any pending auto-push and returns the engine to Idle.
// Local data and the stored refresh token are untouched.
func (e *Engine) Disable() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pendingPush = false
	e.state.Enabled = false
	e.state.Status = StatusIdle
	e.state.Err = ""
	e.mu.Unlock()
	e.notify()
}

// Connect locates the remote backup file, creating it when absent, and runs
// the initial transfer: an existing file is pulled into the journal, a fresh
// one is seeded with the current entries.
func (e *Engine) Connect(ctx context.Context) error {
	if err := e.begin(StatusConnecting, false); err != nil {
		return err
	}

	err := e.withAuth(ctx, func(token string) error {
		fileID, created, err := e.ensureFile(ctx, token)
		if err != nil {
			return err
		}
		if created {
			// The remote starts as a copy of the local journal.
			return e.uploadSnapshot(ctx, token, fileID)
		}
		return e.downloadInto(ctx, token, fileID)
	})
	return e.finishAndFlush(ctx, err)
}

// Push overwrites the remote file with the current active entries. When a
// transfer is already running the request is coalesced into one pending
// rerun and Push returns nil.
func (e *Engine) Push(ctx context.Context) error {
	for {
		if err := e.begin(StatusSyncing, true); err != nil {
			if errors.Is(err, common.ErrSyncBusy) {
				return nil
			}
			return err
		}

		err := e.withAuth(ctx, func(token string) error {
			fileID, _, err := e.ensureFile(ctx, token)
			if err != nil {
				return err
			}
			return e.uploadSnapshot(ctx, token, fileID)
		})
		if !e.finish(ctx, err) {
			return err
		}
	}
}

// Pull replaces the active entries with the remote document. Rejected with
// ErrSyncBusy while another transfer is in flight. The trash is never
// touched.
func (e *Engine) Pull(ctx context.Context) error {
	if err := e.begin(StatusSyncing, false); err != nil {
		return err
	}

	err := e.withAuth(ctx, func(token string) error {
		fileID, created, err := e.ensureFile(ctx, token)
		if err != nil {
			return err
		}
		if created {
			// Nothing remote to pull yet; seed the new file instead.
			return e.uploadSnapshot(ctx, token, fileID)
		}
		return e.downloadInto(ctx, token, fileID)
	})
	return e.finishAndFlush(ctx, err)
}

// SyncNow cancels any pending auto-push and pushes immediately.
func (e *Engine) SyncNow(ctx context.Context) error {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
	return e.Push(ctx)
}

// ScheduleAutoPush (re)starts the debounce window. Wire it to the journal's
// change hook; it is a no-op while the mirror is disabled or not past
// authentication. An engine parked in Error waits for an explicit SyncNow.
func (e *Engine) ScheduleAutoPush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Enabled || e.suppressAuto {
		return
	}
	if e.state.Status != StatusConnected && e.state.Status != StatusSyncing {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, func() {
		if err := e.Push(context.Background()); err != nil {
			e.logger.Warn(context.Background(), "auto-push failed", "error", err)
		}
	})
}

// begin claims the in-flight slot and moves to the given status. It returns
// ErrSyncDisabled when the mirror is off and ErrSyncBusy when a transfer is
// already running; pushes additionally mark themselves pending in that case.
func (e *Engine) begin(status Status, coalesce bool) error {
	e.mu.Lock()
	if !e.state.Enabled {
		e.mu.Unlock()
		return common.ErrSyncDisabled
	}
	if e.busy {
		if coalesce {
			e.pendingPush = true
		}
		e.mu.Unlock()
		return common.ErrSyncBusy
	}
	e.busy = true
	e.state.Status = status
	e.state.Err = ""
	e.mu.Unlock()
	e.notify()
	return nil
}

// finish releases the in-flight slot, records the outcome, and reports
// whether a coalesced push is waiting. The push owes an upload even when the
// transfer it queued behind failed.
func (e *Engine) finish(ctx context.Context, err error) (rerun bool) {
	e.mu.Lock()
	e.busy = false
	rerun = e.pendingPush && e.state.Enabled
	e.pendingPush = false
	if err != nil {
		e.state.Status = StatusError
		e.state.Err = err.Error()
		e.logger.Error(ctx, "sync failed", "error", err)
	} else {
		e.state.Status = StatusConnected
		e.state.LastSyncAt = e.now()
	}
	e.mu.Unlock()
	e.notify()
	return rerun
}

// finishAndFlush is finish for the non-push transfers: a push accepted for
// coalescing while the slot was held was promised an upload, so it runs
// here. Its error is logged; the transfer's own error is what the caller
// gets.
func (e *Engine) finishAndFlush(ctx context.Context, err error) error {
	if e.finish(ctx, err) {
		if pushErr := e.Push(ctx); pushErr != nil {
			e.logger.Warn(ctx, "coalesced push failed", "error", pushErr)
		}
	}
	return err
}

// withAuth runs fn with a bearer token, allowing exactly one silent token
// refresh when the server rejects it. A second rejection surfaces as-is.
func (e *Engine) withAuth(ctx context.Context, fn func(token string) error) error {
	token, err := e.auth.Token(ctx)
	if err != nil {
		return err
	}
	err = fn(token)
	if !errors.Is(err, common.ErrUnauthorized) {
		return err
	}

	e.logger.Info(ctx, "access token rejected, refreshing once")
	e.auth.Invalidate()
	token, err = e.auth.Token(ctx)
	if err != nil {
		return err
	}
	return fn(token)
}

// ensureFile resolves the remote file id: engine cache, then the local
// store's bookkeeping key, then a Drive lookup, finally creating the file.
// created reports that the file did not exist before this call.
func (e *Engine) ensureFile(ctx context.Context, token string) (fileID string, created bool, err error) {
	e.mu.Lock()
	fileID = e.state.RemoteFileID
	e.mu.Unlock()
	if fileID != "" {
		return fileID, false, nil
	}

	if stored, err := e.repo.Get(ctx, kvstore.KeyDriveFileID); err == nil && len(stored) > 0 {
		e.rememberFile(ctx, string(stored), false)
		return string(stored), false, nil
	}

	fileID, err = e.client.FindBackupFile(ctx, token)
	if err != nil {
		return "", false, err
	}
	if fileID != "" {
		e.rememberFile(ctx, fileID, true)
		return fileID, false, nil
	}

	fileID, err = e.client.CreateBackupFile(ctx, token, e.encodeSnapshot())
	if err != nil {
		return "", false, err
	}
	e.rememberFile(ctx, fileID, true)
	return fileID, true, nil
}

func (e *Engine) rememberFile(ctx context.Context, fileID string, persist bool) {
	e.mu.Lock()
	e.state.RemoteFileID = fileID
	e.mu.Unlock()
	if persist {
		if err := e.repo.Set(ctx, kvstore.KeyDriveFileID, []byte(fileID)); err != nil {
			e.logger.Warn(ctx, "failed to save remote file id", "error", err)
		}
	}
}

func (e *Engine) uploadSnapshot(ctx context.Context, token, fileID string) error {
	if err := e.client.Upload(ctx, token, fileID, e.encodeSnapshot()); err != nil {
		return err
	}
	e.mu.Lock()
	e.state.RemoteModifiedAt = e.now()
	e.mu.Unlock()
	return nil
}

func (e *Engine) downloadInto(ctx context.Context, token, fileID string) error {
	data, err := e.client.Download(ctx, token, fileID)
	if err != nil {
		return err
	}

	entries, ok, err := decodeBackup(data)
	if err != nil {
		return fmt.Errorf("remote backup is not valid JSON: %w", err)
	}
	if !ok {
		// An empty or foreign document; leave the journal alone.
		e.logger.Info(ctx, "remote backup has no entries, skipping")
		return nil
	}

	// The change hook fires during the write-back; pushing that change would
	// echo the download straight back to the remote.
	e.mu.Lock()
	e.suppressAuto = true
	e.mu.Unlock()
	err = e.store.Import(ctx, entries)
	e.mu.Lock()
	e.suppressAuto = false
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("remote backup rejected: %w", err)
	}
	e.mu.Lock()
	e.state.RemoteModifiedAt = e.now()
	e.mu.Unlock()
	return nil
}

func (e *Engine) notify() {
	e.mu.Lock()
	fn := e.onStateChange
	st := e.state
	e.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}
