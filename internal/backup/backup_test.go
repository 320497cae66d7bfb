package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/HerbHall/toolhub/internal/preferences"
	"github.com/HerbHall/toolhub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDB creates a file-backed preferences database holding one record.
func seedDB(t *testing.T, dir string) string {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(dir, "toolhub.db")

	s, err := store.New(dbPath)
	require.NoError(t, err)
	repo, err := preferences.NewSQLiteRepository(ctx, s)
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, "userPreferences_u1", `{"interests":["Video"]}`))
	require.NoError(t, s.Close())
	return dbPath
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	dbPath := seedDB(t, src)
	cfgPath := filepath.Join(src, "toolhub.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("server:\n  port: 9090\n"), 0o600))

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	m, err := Backup(ctx, dbPath, cfgPath, archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"toolhub.db", "toolhub.yaml"}, m.Files)
	assert.Equal(t, "dev", m.Version)

	dst := t.TempDir()
	restored, err := Restore(ctx, archive, dst, false)
	require.NoError(t, err)
	assert.Equal(t, m.Files, restored.Files)

	cfg, err := os.ReadFile(filepath.Join(dst, "toolhub.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "server:\n  port: 9090\n", string(cfg))

	s, err := store.New(filepath.Join(dst, "toolhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	repo, err := preferences.NewSQLiteRepository(ctx, s)
	require.NoError(t, err)
	got, err := repo.Get(ctx, "userPreferences_u1")
	require.NoError(t, err)
	assert.Equal(t, `{"interests":["Video"]}`, got)
}

func TestBackupMissingConfigSkipped(t *testing.T) {
	dbPath := seedDB(t, t.TempDir())
	archive := filepath.Join(t.TempDir(), "backup.tar.gz")

	m, err := Backup(context.Background(), dbPath, filepath.Join(t.TempDir(), "absent.yaml"), archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"toolhub.db"}, m.Files)
}

func TestBackupMissingDatabase(t *testing.T) {
	_, err := Backup(context.Background(), filepath.Join(t.TempDir(), "none.db"), "",
		filepath.Join(t.TempDir(), "out.tar.gz"))
	assert.Error(t, err)
}

func TestRestoreRefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	dbPath := seedDB(t, t.TempDir())
	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	_, err := Backup(ctx, dbPath, "", archive)
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dst, "toolhub.db"), []byte("old"), 0o600))

	_, err = Restore(ctx, archive, dst, false)
	assert.True(t, errors.Is(err, ErrExists), "err = %v", err)

	_, err = Restore(ctx, archive, dst, true)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dst, "toolhub.db"))
	require.NoError(t, err)
	assert.NotEqual(t, "old", string(data))
}

func TestRestoreRejectsTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	body := []byte("x")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "../escape.txt", Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg,
	}))
	_, err = tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	dst := filepath.Join(t.TempDir(), "data")
	_, err = Restore(context.Background(), archive, dst, false)
	assert.ErrorContains(t, err, "escapes data dir")
}
