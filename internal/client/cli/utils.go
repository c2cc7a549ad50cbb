package cli

import (
	"strings"

	"github.com/dmitrijs2005/logorama/internal/client/models"
)

// findEntry resolves an active entry by full id or by unique id prefix.
func (a *App) findEntry(id string) (models.Entry, bool) {
	var match models.Entry
	var hits int
	for _, e := range a.entries.Snapshot() {
		if e.ID == id {
			return e, true
		}
		if strings.HasPrefix(e.ID, id) {
			match = e
			hits++
		}
	}
	if hits == 1 {
		return match, true
	}
	return models.Entry{}, false
}
