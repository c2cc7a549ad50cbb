// Package export writes backup files through a capability-probed sink: a
// configured export directory when one is available, otherwise a generic
// downloads folder under the working directory.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/logorama/internal/filex"
)

// Sink stores one serialized backup and returns the path it ended up at.
type Sink interface {
	Save(fileName string, data []byte) (string, error)
}

// DirSink saves into a directory the user chose ahead of time.
type DirSink struct {
	Dir string
}

func (s DirSink) Save(fileName string, data []byte) (string, error) {
	path := filepath.Join(s.Dir, fileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write export %s: %w", path, err)
	}
	return path, nil
}

// DownloadSink is the fallback: a "downloads" folder next to the process.
type DownloadSink struct{}

func (s DownloadSink) Save(fileName string, data []byte) (string, error) {
	dir, err := filex.EnsureSubDir("downloads")
	if err != nil {
		return "", err
	}
	return DirSink{Dir: dir}.Save(fileName, data)
}

// Choose probes the preferred directory and picks the sink that can actually
// take the file. The probe keeps platform capability detection out of the
// serialization path.
func Choose(preferredDir string) Sink {
	if preferredDir != "" && filex.IsWritableDir(preferredDir) {
		return DirSink{Dir: preferredDir}
	}
	return DownloadSink{}
}
