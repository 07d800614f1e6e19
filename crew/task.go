package crew

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bububa/pdf-agent/schema"
)

// Task is a named unit of work assigned to an agent
type Task struct {
	Name string
	TaskConfig
}

// Prompt renders the task for its agent. Placeholders are filled from inputs and
// the outputs of the tasks run before are appended as context.
func (t Task) Prompt(inputs schema.Inputs, previous []schema.TaskOutput) string {
	sb := new(strings.Builder)
	sb.WriteString(inputs.Interpolate(t.Description))
	sb.WriteString("\n\nExpected output:\n")
	sb.WriteString(inputs.Interpolate(t.ExpectedOutput))
	if len(previous) > 0 {
		sb.WriteString("\n\nContext from previous tasks:")
		for _, out := range previous {
			fmt.Fprintf(sb, "\n\n## %s\n%s", out.Name, strings.TrimSpace(out.Raw))
		}
	}
	return sb.String()
}

// writeOutput saves raw to the task output file, creating parent directories
func (t Task) writeOutput(raw string) error {
	if t.OutputFile == "" {
		return nil
	}
	if dir := filepath.Dir(t.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(t.OutputFile, []byte(raw+"\n"), 0o644)
}
