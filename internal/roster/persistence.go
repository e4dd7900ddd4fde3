package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/talentinsight/interview-analyzer/internal/models"
)

// Persistence is the durable-storage port for the roster. The whole roster
// is written as one serialized document on every mutation and read back at
// process start.
type Persistence interface {
	Load() ([]models.Candidate, error)
	Save(candidates []models.Candidate) error
}

// FilePersistence stores the roster as a single JSON file
type FilePersistence struct {
	path string
}

// NewFilePersistence creates a file-backed persistence port
func NewFilePersistence(path string) *FilePersistence {
	return &FilePersistence{path: path}
}

// Load reads the persisted roster. A missing file is reported as
// os.ErrNotExist so the store can fall back to seed data.
func (fp *FilePersistence) Load() ([]models.Candidate, error) {
	data, err := os.ReadFile(fp.path)
	if err != nil {
		return nil, err
	}

	var candidates []models.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}

	return candidates, nil
}

// Save writes the full roster to disk
func (fp *FilePersistence) Save(candidates []models.Candidate) error {
	if dir := filepath.Dir(fp.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create roster directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	if err := os.WriteFile(fp.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write roster file: %w", err)
	}

	return nil
}
