package crew

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/bububa/pdf-agent/components/systemprompt"
)

// TrainingFeedbackTitle is the context provider title carrying training feedback
const TrainingFeedbackTitle = "Feedback from previous training"

// TrainingEntry is the human feedback collected for one task output
type TrainingEntry struct {
	Iteration int       `json:"iteration"`
	Task      string    `json:"task"`
	Output    string    `json:"output"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// TrainingData maps an agent role to its collected feedback
type TrainingData map[string][]TrainingEntry

// LoadTrainingData reads a training file. A missing file or empty path gives empty data.
func LoadTrainingData(path string) (TrainingData, error) {
	data := make(TrainingData)
	if path == "" {
		return data, nil
	}
	if err := readJSON(path, &data); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(TrainingData), nil
		}
		return nil, fmt.Errorf("load training data: %w", err)
	}
	if data == nil {
		data = make(TrainingData)
	}
	return data, nil
}

// Save writes the training file
func (d TrainingData) Save(path string) error {
	return writeJSON(path, d)
}

// Add records feedback for role. Empty feedback is ignored.
func (d TrainingData) Add(role string, entry TrainingEntry) {
	entry.Feedback = strings.TrimSpace(entry.Feedback)
	if entry.Feedback == "" {
		return
	}
	d[role] = append(d[role], entry)
}

// ContextProvider renders the feedback of role for a system prompt, nil when there is none
func (d TrainingData) ContextProvider(role string) systemprompt.ContextProvider {
	entries := d[role]
	if len(entries) == 0 {
		return nil
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- (%s) %s", e.Task, e.Feedback))
	}
	return systemprompt.NewStaticProvider(TrainingFeedbackTitle, strings.Join(lines, "\n"))
}
