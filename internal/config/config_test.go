package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.LLMProvider != ProviderOpenAI {
		t.Errorf("LLMProvider = %q", s.LLMProvider)
	}
	if s.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q", s.OpenAIAPIKey)
	}
	if s.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %s", s.HTTPTimeout)
	}
	if s.MaxPDFSize != 100<<20 {
		t.Errorf("MaxPDFSize = %d", s.MaxPDFSize)
	}
	if s.MaxIter != 5 {
		t.Errorf("MaxIter = %d", s.MaxIter)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PDFAGENT_LLM_PROVIDER", "anthropic")
	t.Setenv("PDFAGENT_HTTP_TIMEOUT", "5s")
	t.Setenv("PDFAGENT_CHUNK_SIZE", "64")
	t.Setenv("PDFAGENT_ANTHROPIC_API_KEY", "prefixed")
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.LLMProvider != ProviderAnthropic {
		t.Errorf("LLMProvider = %q", s.LLMProvider)
	}
	if s.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %s", s.HTTPTimeout)
	}
	if s.ChunkSize != 64 {
		t.Errorf("ChunkSize = %d", s.ChunkSize)
	}
	if s.AnthropicAPIKey != "prefixed" {
		t.Errorf("AnthropicAPIKey = %q", s.AnthropicAPIKey)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfagent.yaml")
	content := "model: gpt-4o\ntop_k: 3\nkickoff_log: out/log.json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Model != "gpt-4o" || s.TopK != 3 || s.KickoffLog != "out/log.json" {
		t.Errorf("unexpected settings: %+v", s)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"provider", "PDFAGENT_LLM_PROVIDER", "gemini"},
		{"overlap", "PDFAGENT_CHUNK_OVERLAP", "512"},
		{"topk", "PDFAGENT_TOP_K", "0"},
		{"timeout", "PDFAGENT_HTTP_TIMEOUT", "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(""); err == nil {
				t.Errorf("Load with %s=%s: expected error", tt.key, tt.val)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
