// Package backup archives the toolhub preferences database and config into a
// tar.gz file and restores them.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HerbHall/toolhub/internal/version"
	_ "modernc.org/sqlite" // SQLite driver
)

// ManifestName is the archive entry describing the backup.
const ManifestName = "manifest.json"

// Manifest is written as the first archive entry.
type Manifest struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Files     []string  `json:"files"`
}

// ErrExists is returned by Restore when a target file exists and force is off.
var ErrExists = errors.New("file already exists")

// Backup writes a tar.gz archive at outputPath holding a manifest, the SQLite
// database at dbPath and, if it exists, the config file at configPath. The
// WAL is checkpointed first so the database file is self-contained.
func Backup(ctx context.Context, dbPath, configPath, outputPath string) (Manifest, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return Manifest{}, fmt.Errorf("database file not found: %w", err)
	}
	if err := checkpointWAL(ctx, dbPath); err != nil {
		return Manifest{}, fmt.Errorf("WAL checkpoint: %w", err)
	}

	sources := map[string]string{filepath.Base(dbPath): dbPath}
	m := Manifest{
		Version:   version.Short(),
		CreatedAt: time.Now().UTC(),
		Files:     []string{filepath.Base(dbPath)},
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			name := filepath.Base(configPath)
			sources[name] = configPath
			m.Files = append(m.Files, name)
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return Manifest{}, fmt.Errorf("create archive: %w", err)
	}
	if err := writeArchive(out, m, sources); err != nil {
		out.Close()
		os.Remove(outputPath)
		return Manifest{}, err
	}
	if err := out.Close(); err != nil {
		return Manifest{}, fmt.Errorf("close archive: %w", err)
	}
	return m, nil
}

func writeArchive(w io.Writer, m Manifest, sources map[string]string) error {
	gw := gzip.NewWriter(w)
	tw := tar.NewWriter(gw)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	hdr := &tar.Header{Name: ManifestName, Mode: 0o644, Size: int64(len(data)), ModTime: m.CreatedAt}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	for _, name := range m.Files {
		if err := addFile(tw, sources[name], name); err != nil {
			return fmt.Errorf("add %s to archive: %w", name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return gw.Close()
}

func checkpointWAL(ctx context.Context, dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

func addFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

// Restore extracts the archive at inputPath into dataDir and returns its
// manifest. Existing files are only overwritten when force is set. Entries
// that would escape dataDir are rejected.
func Restore(ctx context.Context, inputPath, dataDir string, force bool) (Manifest, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return Manifest{}, fmt.Errorf("open archive: %w", err)
	}
	defer in.Close()

	gr, err := gzip.NewReader(in)
	if err != nil {
		return Manifest{}, fmt.Errorf("read archive: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create data dir: %w", err)
	}

	var m Manifest
	tr := tar.NewReader(gr)
	for {
		if err := ctx.Err(); err != nil {
			return Manifest{}, err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Manifest{}, fmt.Errorf("read archive: %w", err)
		}

		if hdr.Name == ManifestName {
			if err := json.NewDecoder(tr).Decode(&m); err != nil {
				return Manifest{}, fmt.Errorf("decode manifest: %w", err)
			}
			continue
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := extractFile(tr, hdr, dataDir, force); err != nil {
			return Manifest{}, err
		}
	}
	return m, nil
}

func extractFile(r io.Reader, hdr *tar.Header, dataDir string, force bool) error {
	name := filepath.Clean(hdr.Name)
	if filepath.IsAbs(name) || name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return fmt.Errorf("archive entry %q escapes data dir", hdr.Name)
	}
	target := filepath.Join(dataDir, name)

	if !force {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("restore %s: %w (use --force to overwrite)", target, ErrExists)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return f.Close()
}
