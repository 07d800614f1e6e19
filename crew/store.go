package crew

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bububa/pdf-agent/schema"
)

// ErrNoKickoff is returned by replay when no kickoff was logged yet
var ErrNoKickoff = errors.New("no kickoff found, run the crew first")

// KickoffLog is the persisted record of the last kickoff
type KickoffLog struct {
	KickoffID string              `json:"kickoff_id"`
	Variant   Variant             `json:"variant,omitempty"`
	Inputs    schema.Inputs       `json:"inputs"`
	Tasks     []schema.TaskOutput `json:"tasks"`
	CreatedAt time.Time           `json:"created_at"`
}

// TaskIndex returns the position of the task output with the given id, or -1
func (l *KickoffLog) TaskIndex(taskID string) int {
	for i, t := range l.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// KickoffStore keeps the last kickoff log in a JSON file
type KickoffStore struct {
	path string
}

func NewKickoffStore(path string) *KickoffStore {
	return &KickoffStore{path: path}
}

func (s *KickoffStore) Path() string {
	return s.path
}

// Save overwrites the log file
func (s *KickoffStore) Save(log *KickoffLog) error {
	return writeJSON(s.path, log)
}

// Load reads the log file. A missing file is ErrNoKickoff.
func (s *KickoffStore) Load() (*KickoffLog, error) {
	log := new(KickoffLog)
	if err := readJSON(s.path, log); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoKickoff
		}
		return nil, fmt.Errorf("load kickoff log: %w", err)
	}
	return log, nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func readJSON(path string, v any) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, v)
}
