package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/logorama/internal/common"
)

// SyncOn enables the cloud mirror. The first time around it collects the
// authorization grant the mirror needs; credentials come from config.
func (a *App) SyncOn(ctx context.Context) error {
	if a.config.DriveClientID == "" || a.config.DriveClientSecret == "" || a.config.DriveAPIKey == "" {
		fmt.Fprintln(a.out, "The mirror needs drive_client_id, drive_client_secret and drive_api_key in the config file.")
		return common.ErrNoConfig
	}

	if !a.auth.HasRefreshToken(ctx) {
		token, err := GetSecret("Paste the authorization (refresh) token", a.out)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return err
		}
		if err := a.auth.SaveRefreshToken(ctx, token); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return err
		}
	}

	if err := a.engine.Enable(ctx); err != nil {
		fmt.Fprintf(a.out, "sync error: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Mirror connected.")
	return nil
}

// SyncOff disables the mirror. Local data and the stored grant stay.
func (a *App) SyncOff(ctx context.Context) error {
	a.engine.Disable()
	fmt.Fprintln(a.out, "Mirror disabled.")
	return nil
}

// SyncNow uploads the journal immediately.
func (a *App) SyncNow(ctx context.Context) error {
	if err := a.engine.SyncNow(ctx); err != nil {
		a.reportSyncError(err)
		return err
	}
	fmt.Fprintln(a.out, "Uploaded.")
	return nil
}

// Pull replaces the journal with the remote backup.
func (a *App) Pull(ctx context.Context) error {
	if err := a.engine.Pull(ctx); err != nil {
		a.reportSyncError(err)
		return err
	}
	fmt.Fprintln(a.out, "Pulled remote backup.")
	return nil
}

// Status prints the mirror state.
func (a *App) Status(ctx context.Context) error {
	st := a.engine.State()
	if !st.Enabled {
		fmt.Fprintln(a.out, "Mirror is off.")
		return nil
	}
	fmt.Fprintf(a.out, "status: %s\n", st.Status)
	if !st.LastSyncAt.IsZero() {
		fmt.Fprintf(a.out, "last sync: %s\n", st.LastSyncAt.Format("2006-01-02 15:04:05"))
	}
	if st.Err != "" {
		fmt.Fprintf(a.out, "error: %s\n", st.Err)
	}
	return nil
}

func (a *App) reportSyncError(err error) {
	switch {
	case errors.Is(err, common.ErrSyncDisabled):
		fmt.Fprintln(a.out, "Mirror is off; run 'sync on' first.")
	case errors.Is(err, common.ErrSyncBusy):
		fmt.Fprintln(a.out, "A transfer is already running; try again in a moment.")
	default:
		fmt.Fprintf(a.out, "sync error: %v\n", err)
	}
}
