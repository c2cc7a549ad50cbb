package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/logorama/internal/client/config"
	"github.com/dmitrijs2005/logorama/internal/client/drive"
	"github.com/dmitrijs2005/logorama/internal/client/journal"
	"github.com/dmitrijs2005/logorama/internal/client/repositories/kvstore"
	drivesync "github.com/dmitrijs2005/logorama/internal/client/sync"
	"github.com/dmitrijs2005/logorama/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the journal stores, the cloud mirror, and the REPL together.
type App struct {
	config  *config.Config
	entries *journal.EntryStore
	trash   *journal.TrashStore
	engine  *drivesync.Engine
	auth    *drive.OAuthAuthenticator
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the local database (falling back to memory-only state when it
// cannot be opened) and builds the full object graph.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	var repo kvstore.Repository
	if sqliteRepo, err := kvstore.InitDatabase(ctx, c.DatabasePath); err != nil {
		log.Warn(ctx, "database unavailable, journal will not survive this session", "error", err)
		repo = kvstore.NewMemoryRepository()
	} else {
		repo = sqliteRepo
	}

	trash := journal.NewTrashStore(ctx, repo, log)
	entries := journal.NewEntryStore(ctx, repo, trash, log)

	var clientOpts []drive.Option
	if c.DriveBaseURL != "" {
		clientOpts = append(clientOpts, drive.WithBaseURL(c.DriveBaseURL))
	}
	client := drive.NewHTTPClient(c.DriveAPIKey, log, clientOpts...)

	var authOpts []drive.AuthOption
	if c.DriveTokenURL != "" {
		authOpts = append(authOpts, drive.WithTokenURL(c.DriveTokenURL))
	}
	auth := drive.NewOAuthAuthenticator(c.DriveClientID, c.DriveClientSecret, repo, log, authOpts...)

	engine := drivesync.NewEngine(client, auth, entries, repo, log, drivesync.WithDebounce(c.PushDebounce))
	entries.OnChange(engine.ScheduleAutoPush)

	return &App{
		config:  c,
		entries: entries,
		trash:   trash,
		engine:  engine,
		auth:    auth,
		logger:  log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// getStatus renders the prompt decoration: empty while the mirror is off,
// otherwise the sync status.
func (a *App) getStatus() string {
	st := a.engine.State()
	if !st.Enabled {
		return ""
	}
	return fmt.Sprintf("(%s) ", st.Status)
}

// Run starts the background trash sweeper and the REPL, blocking until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	go a.trash.StartSweeper(ctx, a.config.SweepInterval)

	fmt.Fprintln(a.out, "Logorama journal (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
