package crew

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bububa/pdf-agent/schema"
)

func TestKickoffStore(t *testing.T) {
	store := NewKickoffStore(filepath.Join(t.TempDir(), "nested", "kickoff.json"))
	if _, err := store.Load(); !errors.Is(err, ErrNoKickoff) {
		t.Fatalf("err = %v, want ErrNoKickoff", err)
	}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	log := &KickoffLog{
		KickoffID: "k1",
		Inputs:    schema.Inputs{schema.PDFContentKey: "text"},
		Tasks: []schema.TaskOutput{
			{ID: "t1", Name: "a", Raw: "x", StartedAt: now, FinishedAt: now.Add(time.Second)},
			{ID: "t2", Name: "b", Raw: "y", StartedAt: now, FinishedAt: now},
		},
		CreatedAt: now,
	}
	if err := store.Save(log); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(log, got); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
	if got.TaskIndex("t2") != 1 || got.TaskIndex("t3") != -1 {
		t.Error("TaskIndex mismatch")
	}
}

func TestTrainingData(t *testing.T) {
	data, err := LoadTrainingData(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadTrainingData: %v", err)
	}
	data.Add("Reader", TrainingEntry{Task: "read_task", Feedback: "  "})
	if data.ContextProvider("Reader") != nil {
		t.Error("empty feedback should be ignored")
	}
	data.Add("Reader", TrainingEntry{Task: "read_task", Feedback: "cite pages"})
	provider := data.ContextProvider("Reader")
	if provider == nil {
		t.Fatal("expected a context provider")
	}
	if provider.Title() != TrainingFeedbackTitle || provider.Info() != "- (read_task) cite pages" {
		t.Errorf("provider = %q / %q", provider.Title(), provider.Info())
	}
}

func TestTrainingDataNullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trained.json")
	if err := os.WriteFile(path, []byte("null"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := LoadTrainingData(path)
	if err != nil {
		t.Fatalf("LoadTrainingData: %v", err)
	}
	data.Add("Reader", TrainingEntry{Task: "read_task", Feedback: "cite pages"})
	if data.ContextProvider("Reader") == nil {
		t.Fatal("expected a context provider")
	}
	if err := data.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err := LoadTrainingData(path)
	if err != nil {
		t.Fatalf("LoadTrainingData: %v", err)
	}
	if len(reloaded["Reader"]) != 1 {
		t.Errorf("reloaded = %v", reloaded)
	}
}
