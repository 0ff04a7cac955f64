// Package store persists the list of assets and serializes its modifications.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/wealth"
)

// Slot is a place where the whole list of assets is stored as a single value.
//
// Loading a slot that was never saved returns an empty list.
type Slot interface {
	Load(ctx context.Context) ([]wealth.Asset, error)
	Save(ctx context.Context, assets []wealth.Asset) error
}

// FileSlot stores assets in a JSONL file, one asset per line.
type FileSlot struct {
	Path string
}

// NewFileSlot returns a slot backed by the file at path.
func NewFileSlot(path string) *FileSlot { return &FileSlot{Path: path} }

// Load reads all assets from the file.
func (s *FileSlot) Load(ctx context.Context) ([]wealth.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []wealth.Asset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read asset file %q: %w", s.Path, err)
	}
	assets, err := wealth.DecodeAssets(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode asset file %q: %w", s.Path, err)
	}
	if assets == nil {
		assets = []wealth.Asset{}
	}
	return assets, nil
}

// Save replaces the file content with assets.
//
// The file is written to a temporary file first and renamed over the target,
// a crash never leaves a truncated file behind.
func (s *FileSlot) Save(ctx context.Context, assets []wealth.Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := wealth.EncodeAssets(&buf, assets); err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create directory %q: %w", dir, err)
	}
	return writeAtomic(s.Path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
