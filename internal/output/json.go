// Package output writes stage datasets as JSON files and reads them back for
// later stages.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"shadowgap.org/internal/logging"
	"shadowgap.org/internal/models"
)

const filePerm = 0o644

func encode(path string, v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	return append(b, '\n'), nil
}

func ensureDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return dir, nil
}

// WriteJSON encodes v with indentation and replaces path atomically. On
// error the previous content of path, if any, is left untouched.
func WriteJSON(path string, v any) error {
	b, err := encode(path, v)
	if err != nil {
		return err
	}
	dir, err := ensureDir(path)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, b, filePerm, renameio.WithTempDir(dir)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Batch stages several JSON outputs next to their destinations and replaces
// them only on Commit. Until then every destination keeps its previous
// content.
type Batch struct {
	paths   []string
	pending []*renameio.PendingFile
}

// Add encodes v and stages it for path.
func (b *Batch) Add(path string, v any) error {
	data, err := encode(path, v)
	if err != nil {
		return err
	}
	dir, err := ensureDir(path)
	if err != nil {
		return err
	}

	f, err := renameio.NewPendingFile(path, renameio.WithTempDir(dir), renameio.WithPermissions(filePerm))
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if _, werr := f.Write(data); werr != nil {
		err := fmt.Errorf("write %s: %w", f.Name(), werr)
		logging.HandleDeferredError(&err, f.Cleanup, nil, "discard "+f.Name())
		return err
	}

	b.paths = append(b.paths, path)
	b.pending = append(b.pending, f)
	return nil
}

// Commit renames every staged file over its destination, in the order they
// were added.
func (b *Batch) Commit() error {
	for i, f := range b.pending {
		if err := f.CloseAtomicallyReplace(); err != nil {
			return fmt.Errorf("replace %s: %w", b.paths[i], err)
		}
	}
	return nil
}

// Cleanup removes staged files that were not committed. It is safe to call
// after Commit.
func (b *Batch) Cleanup() error {
	var errs []error
	for _, f := range b.pending {
		if err := f.Cleanup(); err != nil {
			errs = append(errs, err)
		}
	}
	b.paths, b.pending = nil, nil
	return errors.Join(errs...)
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer logging.HandleDeferredError(&err, f.Close, nil, "close "+path)

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ReadProjection loads a projection dataset written by the roots stage.
func ReadProjection(path string) ([]models.ProjectionRecord, error) {
	var rows []models.ProjectionRecord
	if err := ReadJSON(path, &rows); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if r.Country == "" {
			return nil, fmt.Errorf("%s: row %d has no country", path, i)
		}
		if r.Multiplier < 1 {
			return nil, fmt.Errorf("%s: %s has multiplier %d", path, r.Country, r.Multiplier)
		}
	}
	return rows, nil
}
