package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSink_Save(t *testing.T) {
	dir := t.TempDir()

	path, err := DirSink{Dir: dir}.Save("backup.json", []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestDownloadSink_Save(t *testing.T) {
	tmp := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path, err := DownloadSink{}.Save("backup.json", []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "backup.json", filepath.Base(path))
	assert.Equal(t, "downloads", filepath.Base(filepath.Dir(path)))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestChoose(t *testing.T) {
	dir := t.TempDir()
	assert.IsType(t, DirSink{}, Choose(dir))
	assert.IsType(t, DownloadSink{}, Choose(""))
	assert.IsType(t, DownloadSink{}, Choose(filepath.Join(dir, "missing")))
}
