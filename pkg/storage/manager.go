package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"galleryscraper/pkg/media"
)

// MaxTitleLength caps sanitized titles, counted in characters
const MaxTitleLength = 60

// PartSuffix marks a download still in flight
const PartSuffix = ".part"

// Manager decides where media lands on disk and moves finished downloads
// into place.
type Manager struct {
	outputDir string
}

// NewManager creates a new storage manager rooted at outputDir
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{outputDir: outputDir}, nil
}

// SanitizeTitle removes every space and keeps at most MaxTitleLength characters.
func SanitizeTitle(title string) string {
	title = strings.ReplaceAll(title, " ", "")
	runes := []rune(title)
	if len(runes) > MaxTitleLength {
		return string(runes[:MaxTitleLength])
	}
	return title
}

// FileName is the sanitized title followed by the file type.
func FileName(m media.Media) string {
	return SanitizeTitle(m.Title) + m.FileType
}

// Destination returns the final path for m inside the output directory
func (m *Manager) Destination(item media.Media) string {
	return filepath.Join(m.outputDir, FileName(item))
}

// Exists reports whether something is already stored at path. This is the
// only deduplication performed.
func (m *Manager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// StagingPath is where a download for dest is written before Commit.
func StagingPath(dest string) string {
	return dest + PartSuffix
}

// Commit atomically moves a finished staging file to dest
func (m *Manager) Commit(staging, dest string) error {
	if err := os.Rename(staging, dest); err != nil {
		os.Remove(staging)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// Discard removes a staging file left by a failed download. A leftover
// .part file never satisfies Exists, so errors are ignored.
func (m *Manager) Discard(staging string) {
	_ = os.Remove(staging)
}

// Save streams r into path. A failed write removes the partial file.
func Save(r io.Reader, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to save media data: %w", err)
	}
	if closeErr != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}
	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}
