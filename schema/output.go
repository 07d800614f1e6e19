package schema

import (
	"strings"
	"time"

	"github.com/bububa/pdf-agent/components"
)

// TaskOutput is the result of one task of a kickoff
type TaskOutput struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Agent       string    `json:"agent"`
	Description string    `json:"description"`
	Raw         string    `json:"raw"`
	OutputFile  string    `json:"output_file,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Duration returns how long the task ran
func (o TaskOutput) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}

// CrewOutput is the result of a kickoff
type CrewOutput struct {
	KickoffID string              `json:"kickoff_id"`
	Tasks     []TaskOutput        `json:"tasks"`
	Raw       string              `json:"raw"`
	Usage     components.LLMUsage `json:"usage"`
}

// Task returns the output of the named task
func (o *CrewOutput) Task(name string) (TaskOutput, bool) {
	for _, t := range o.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return TaskOutput{}, false
}

// String returns the raw output of the last task
func (o *CrewOutput) String() string {
	return strings.TrimSpace(o.Raw)
}
