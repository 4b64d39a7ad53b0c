package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yalin/transinvert/backend/internal/logging"
	"github.com/yalin/transinvert/backend/internal/models"
)

// SchemaVersion is the on-disk format version of the unified data file.
const SchemaVersion = "2.0"

const dataFileName = "app_data.json"

// fileMetadata tracks creation/update times of the data file.
type fileMetadata struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// filePayload is the serialized layout of the unified data file.
type filePayload struct {
	Version         string                      `json:"version"`
	Metadata        fileMetadata                `json:"metadata"`
	Texts           map[string]*models.Text     `json:"texts"`
	Analyses        map[string]*models.Analysis `json:"analyses"`
	Folders         map[string]*models.Folder   `json:"folders"`
	PracticeHistory []*models.PracticeRecord    `json:"practice_history"`
}

// FileStore persists all collections in a single JSON file.
// Saves are atomic: the payload is written to a temp file and renamed over
// the previous one, so a crash mid-write never corrupts existing data.
type FileStore struct {
	mu       sync.Mutex
	dataDir  string
	dataFile string
}

// NewFileStore creates a FileStore rooted at dataDir, creating the directory
// if needed. If the unified data file does not exist yet, the first Load
// migrates any legacy per-collection files found in the directory.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{
		dataDir:  dataDir,
		dataFile: filepath.Join(dataDir, dataFileName),
	}, nil
}

// Load reads the persisted collections. A missing data file yields empty
// collections (after attempting legacy migration), not an error.
func (s *FileStore) Load() (*Collections, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.dataFile)
	if os.IsNotExist(err) {
		return s.loadLegacy(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}

	c := &Collections{
		Folders:  payload.Folders,
		Texts:    payload.Texts,
		Analyses: payload.Analyses,
		History:  payload.PracticeHistory,
	}
	c.normalize()
	return c, nil
}

// Save atomically replaces the persisted state with c.
func (s *FileStore) Save(c *Collections) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	payload := filePayload{
		Version: SchemaVersion,
		Metadata: fileMetadata{
			CreatedAt: s.createdAt(now),
			UpdatedAt: now,
		},
		Texts:           c.Texts,
		Analyses:        c.Analyses,
		Folders:         c.Folders,
		PracticeHistory: c.History,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize data: %w", err)
	}

	tmpPath := s.dataFile + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmpPath, s.dataFile); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// createdAt preserves the original creation timestamp across saves.
func (s *FileStore) createdAt(fallback string) string {
	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		return fallback
	}
	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}
	if payload.Metadata.CreatedAt == "" {
		return fallback
	}
	return payload.Metadata.CreatedAt
}

// legacyFiles maps collection names to the pre-2.0 per-collection file names.
var legacyFiles = map[string]string{
	"practice_history": "practice_history.json",
	"texts":            "texts_data.json",
	"analyses":         "analyses_data.json",
	"folders":          "folders_data.json",
}

// loadLegacy reads the pre-2.0 multi-file layout, tolerating missing or
// malformed files. Individual records that fail to decode are skipped.
func (s *FileStore) loadLegacy() *Collections {
	c := NewCollections()

	if raw := s.readLegacyFile(legacyFiles["texts"]); raw != nil {
		var texts map[string]*models.Text
		if err := json.Unmarshal(raw, &texts); err == nil {
			c.Texts = texts
		}
	}
	if raw := s.readLegacyFile(legacyFiles["analyses"]); raw != nil {
		var analyses map[string]*models.Analysis
		if err := json.Unmarshal(raw, &analyses); err == nil {
			c.Analyses = analyses
		}
	}
	if raw := s.readLegacyFile(legacyFiles["folders"]); raw != nil {
		var folders map[string]*models.Folder
		if err := json.Unmarshal(raw, &folders); err == nil {
			c.Folders = folders
		}
	}
	if raw := s.readLegacyFile(legacyFiles["practice_history"]); raw != nil {
		var payload struct {
			Records []json.RawMessage `json:"records"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			for _, item := range payload.Records {
				var rec models.PracticeRecord
				if err := json.Unmarshal(item, &rec); err != nil {
					logging.Warn("skipping invalid legacy history record",
						map[string]interface{}{"error": err.Error()})
					continue
				}
				c.History = append(c.History, &rec)
			}
		}
	}

	c.normalize()
	return c
}

func (s *FileStore) readLegacyFile(name string) []byte {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return nil
	}
	return data
}
