package crew

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func taskNames(tasks []Task) []string {
	ret := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ret = append(ret, t.Name)
	}
	return ret
}

func TestLoadDefinitionEmbedded(t *testing.T) {
	def, err := LoadDefinition("")
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	for _, name := range []string{"pdf_processor", "query_agent", "chat_agent"} {
		if _, ok := def.Agents[name]; !ok {
			t.Errorf("agent %s missing", name)
		}
	}
	if diff := cmp.Diff([]string{"process_pdf_task", "query_rag_task", "chat_task"}, taskNames(def.Tasks)); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"process_pdf_task", "query_rag_task"}, taskNames(def.TasksFor(VariantDefault))); diff != "" {
		t.Errorf("default variant mismatch (-want +got):\n%s", diff)
	}
	if got := len(def.TasksFor(VariantChat)); got != 3 {
		t.Errorf("chat variant has %d tasks, want 3", got)
	}
	query, ok := def.Task("query_rag_task")
	if !ok {
		t.Fatal("query_rag_task missing")
	}
	if query.OutputFile != "rag_results.md" || query.Agent != "query_agent" {
		t.Errorf("query_rag_task = %+v", query.TaskConfig)
	}
	if got := def.Agents["pdf_processor"].Role; got != "PDF Content Processor" {
		t.Errorf("role = %q", got)
	}
}

func TestLoadDefinitionDir(t *testing.T) {
	dir := t.TempDir()
	agents := "a:\n  role: A\n  goal: G\n  backstory: B\n"
	tasks := "t:\n  description: D\n  expected_output: E\n  agent: a\n"
	if err := os.WriteFile(filepath.Join(dir, agentsFile), []byte(agents), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, tasksFile), []byte(tasks), 0o644); err != nil {
		t.Fatal(err)
	}
	def, err := LoadDefinition(dir)
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	if len(def.Tasks) != 1 || def.Tasks[0].Name != "t" {
		t.Errorf("tasks = %+v", def.Tasks)
	}
	if _, err := LoadDefinition(t.TempDir()); err == nil {
		t.Error("expected error for a directory without config")
	}
}

func TestParseDefinitionInvalid(t *testing.T) {
	const agent = "a:\n  role: A\n  goal: G\n  backstory: B\n"
	tests := []struct {
		name   string
		agents string
		tasks  string
	}{
		{"unknown agent", agent, "t:\n  description: D\n  expected_output: E\n  agent: b\n"},
		{"missing role", "a:\n  goal: G\n  backstory: B\n", "t:\n  description: D\n  expected_output: E\n  agent: a\n"},
		{"unknown tool", agent + "  tools: [shell]\n", "t:\n  description: D\n  expected_output: E\n  agent: a\n"},
		{"missing description", agent, "t:\n  expected_output: E\n  agent: a\n"},
		{"bad variant", agent, "t:\n  description: D\n  expected_output: E\n  agent: a\n  variant: voice\n"},
		{"no tasks", agent, "[]\n"},
		{"bad yaml", "a: [", "t: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDefinition([]byte(tt.agents), []byte(tt.tasks)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
