// Package backup writes the catalog to a JSON document and restores it again.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"funko-catalog-api/internal/importer"
	"funko-catalog-api/internal/logging"
	"funko-catalog-api/internal/models"
)

// FormatVersion is written into every document.
const FormatVersion = 1

// Document is the on-disk backup layout.
type Document struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Funkos     []models.Funko `json:"funkos"`
}

// Lister returns the whole catalog; FunkoService satisfies it.
type Lister interface {
	FindAll(ctx context.Context) ([]models.Funko, error)
}

// Write encodes funkos as an indented Document.
func Write(w io.Writer, funkos []models.Funko) error {
	if funkos == nil {
		funkos = []models.Funko{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Funkos:     funkos,
	})
}

// Read decodes a Document and returns its funkos.
func Read(r io.Reader) ([]models.Funko, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported backup version %d", doc.Version)
	}
	return doc.Funkos, nil
}

// Export writes every funko l knows about to path, creating parent directories
// as needed. It returns how many funkos were written.
func Export(ctx context.Context, l Lister, path string) (int, error) {
	funkos, err := l.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list funkos: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create backup dir: %w", err)
		}
	}

	// A failed export leaves any previous backup at path untouched.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create backup file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, funkos); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("write backup: %w", err)
	}

	logging.FromContext(ctx).Info().Str("path", path).Int("count", len(funkos)).Msg("backup written")
	return len(funkos), nil
}

// Restore reads the backup at path and saves each funko through s. Funkos that
// already exist are reported as failures and the rest still restore.
func Restore(ctx context.Context, s importer.Saver, path string) (importer.Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return importer.Result{}, fmt.Errorf("open backup %s: %w", path, err)
	}
	defer file.Close()

	funkos, err := Read(file)
	if err != nil {
		return importer.Result{}, err
	}
	return importer.Import(ctx, s, funkos), nil
}
