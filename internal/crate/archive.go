package crate

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/m4i-labs/provcrate/internal/ctxlog"
)

// WriteArchive writes the entries of m to destDir/provenance-<hash>.zip and
// returns the archive path. Generated entries are taken from generated,
// all others are read from workDir. A referenced file that disappeared is
// skipped with a warning. The archive is written to a temporary file and
// renamed into place, so a failed run leaves no partial archive behind.
func WriteArchive(ctx context.Context, destDir, workDir string, m Manifest, generated map[string][]byte) (string, error) {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	dest := filepath.Join(destDir, m.ArchiveName())

	tmp, err := os.CreateTemp(destDir, ".provenance-*.zip")
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	zw := zip.NewWriter(tmp)
	for _, e := range m.Entries {
		if e.Kind == KindGenerated {
			data, ok := generated[e.Path]
			if !ok {
				tmp.Close()
				return "", fmt.Errorf("generated document %s missing", e.Path)
			}
			if err := writeEntry(zw, e.Path, data); err != nil {
				tmp.Close()
				return "", err
			}
			continue
		}

		copied, err := copyEntry(zw, e.Path, filepath.Join(workDir, filepath.FromSlash(e.Path)))
		if err != nil {
			tmp.Close()
			return "", err
		}
		if !copied {
			logger.Warn("file missing, not archived", "path", e.Path)
		}
	}

	if err := zw.Close(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("finishing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("moving archive into place: %w", err)
	}

	logger.Info("archive written", "path", dest, "entries", len(m.Entries))
	return dest, nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s to archive: %w", name, err)
	}
	return nil
}

// copyEntry adds the file at src as name. It returns false when src does
// not exist.
func copyEntry(zw *zip.Writer, name, src string) (bool, error) {
	f, err := os.Open(src)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", src, err)
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return false, fmt.Errorf("adding %s to archive: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return false, fmt.Errorf("copying %s to archive: %w", name, err)
	}
	return true, nil
}
