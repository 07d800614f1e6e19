package crew

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bububa/pdf-agent/schema"
)

func TestTaskPrompt(t *testing.T) {
	task := Task{
		Name: "query",
		TaskConfig: TaskConfig{
			Description:    "Find {topic} in {year}",
			ExpectedOutput: "Report on {topic}",
			Agent:          "a",
		},
	}
	inputs := schema.Inputs{schema.TopicKey: "LLMs"}
	previous := []schema.TaskOutput{{Name: "process", Raw: "  stored 3 chunks \n"}}
	want := "Find LLMs in {year}\n\nExpected output:\nReport on LLMs\n\nContext from previous tasks:\n\n## process\nstored 3 chunks"
	if got := task.Prompt(inputs, previous); got != want {
		t.Errorf("Prompt() =\n%q\nwant\n%q", got, want)
	}
	want = "Find LLMs in {year}\n\nExpected output:\nReport on LLMs"
	if got := task.Prompt(inputs, nil); got != want {
		t.Errorf("Prompt() without context =\n%q\nwant\n%q", got, want)
	}
}

func TestTaskWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.md")
	task := Task{TaskConfig: TaskConfig{OutputFile: path}}
	if err := task.writeOutput("# Report"); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != "# Report\n" {
		t.Errorf("file content = %q", buf)
	}
	if err := (Task{}).writeOutput("ignored"); err != nil {
		t.Errorf("writeOutput without file: %v", err)
	}
}
