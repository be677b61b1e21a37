package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"galleryscraper/pkg/logger"
)

// currentVersion is bumped whenever the on-disk layout changes
const currentVersion = 1

// noPage marks a checkpoint with no fully processed page yet
const noPage = -1

// Checkpoint records how far a run over one gallery listing got
type Checkpoint struct {
	Key               string    `json:"key"`
	BaseURL           string    `json:"base_url"`
	StartPage         int       `json:"start_page"`
	LastPage          int       `json:"last_page"`
	LastCompletedPage int       `json:"last_completed_page"`
	RunID             string    `json:"run_id"`
	TotalPosts        int       `json:"total_posts"`
	TotalDownloaded   int       `json:"total_downloaded"`
	TotalSkipped      int       `json:"total_skipped"`
	TotalFailed       int       `json:"total_failed"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

// PageCounts are the tallies added when a page completes
type PageCounts struct {
	Posts      int
	Downloaded int
	Skipped    int
	Failed     int
}

// Manager handles checkpoint operations for one base URL
type Manager struct {
	key            string
	checkpointPath string
	logger         logger.Logger
}

// Key derives the stable checkpoint identifier for a base URL
func Key(baseURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(baseURL)).String()
}

// NewManager creates a checkpoint manager for baseURL under the user's
// data directory
func NewManager(baseURL string, log logger.Logger) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	checkpointsDir := filepath.Join(dataDir, "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	if log == nil {
		log = logger.GetLogger()
	}

	key := Key(baseURL)
	return &Manager{
		key:            key,
		checkpointPath: filepath.Join(checkpointsDir, key+".checkpoint.json"),
		logger:         log.WithField("checkpoint", key),
	}, nil
}

// Path returns the checkpoint file location
func (m *Manager) Path() string {
	return m.checkpointPath
}

// Create writes a fresh checkpoint for a run over [start, last]
func (m *Manager) Create(baseURL string, start, last int, runID string) (*Checkpoint, error) {
	now := time.Now()
	cp := &Checkpoint{
		Key:               m.key,
		BaseURL:           baseURL,
		StartPage:         start,
		LastPage:          last,
		LastCompletedPage: noPage,
		RunID:             runID,
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           currentVersion,
	}

	if err := m.Save(cp); err != nil {
		return nil, fmt.Errorf("failed to save initial checkpoint: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint created", map[string]interface{}{
		"path": m.checkpointPath,
	})
	return cp, nil
}

// Load reads the checkpoint; it returns nil without error when none exists
func (m *Manager) Load() (*Checkpoint, error) {
	data, err := os.ReadFile(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if cp.Version != currentVersion {
		return nil, fmt.Errorf("checkpoint version %d is not supported", cp.Version)
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"last_completed_page": cp.LastCompletedPage,
		"total_downloaded":    cp.TotalDownloaded,
		"updated_at":          cp.UpdatedAt,
	})
	return &cp, nil
}

// Save writes the checkpoint atomically
func (m *Manager) Save(cp *Checkpoint) error {
	cp.UpdatedAt = time.Now()

	tempPath := m.checkpointPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cp); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, m.checkpointPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}
	return nil
}

// CompletePage records page as fully processed and adds its counts
func (m *Manager) CompletePage(cp *Checkpoint, page int, counts PageCounts) error {
	cp.LastCompletedPage = page
	cp.TotalPosts += counts.Posts
	cp.TotalDownloaded += counts.Downloaded
	cp.TotalSkipped += counts.Skipped
	cp.TotalFailed += counts.Failed

	if err := m.Save(cp); err != nil {
		return err
	}
	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"last_completed_page": page,
	})
	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// HasProgress reports whether at least one page was completed
func (cp *Checkpoint) HasProgress() bool {
	return cp != nil && cp.LastCompletedPage != noPage
}

// ResumePage returns the page a resumed run should begin with. Progress
// recorded outside [start, last] is ignored.
func (cp *Checkpoint) ResumePage(start, last int) int {
	if !cp.HasProgress() || cp.LastCompletedPage < start || cp.LastCompletedPage > last {
		return start
	}
	return cp.LastCompletedPage + 1
}

// getDataDirectory returns the appropriate data directory for the current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "galleryscraper")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "galleryscraper")
	default:
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "galleryscraper")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "galleryscraper")
		}
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dataDir, nil
}
