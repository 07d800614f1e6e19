package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bububa/pdf-agent/components/document"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderCohere    = "cohere"
)

// Settings is the runtime configuration of the pdfagent command.
type Settings struct {
	// LLM
	LLMProvider      string  `mapstructure:"llm_provider" validate:"oneof=openai anthropic"`
	Model            string  `mapstructure:"model" validate:"required"`
	MaxTokens        int     `mapstructure:"max_tokens" validate:"min=1"`
	Temperature      float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxIter          int     `mapstructure:"max_iter" validate:"min=1,max=50"`
	OpenAIAPIKey     string  `mapstructure:"openai_api_key"`
	OpenAIBaseURL    string  `mapstructure:"openai_api_base_url" validate:"omitempty,url"`
	AnthropicAPIKey  string  `mapstructure:"anthropic_api_key"`
	AnthropicBaseURL string  `mapstructure:"anthropic_api_base_url" validate:"omitempty,url"`

	// RAG
	EmbedderProvider string  `mapstructure:"embedder_provider" validate:"oneof=openai cohere"`
	EmbeddingModel   string  `mapstructure:"embedding_model" validate:"required"`
	CohereAPIKey     string  `mapstructure:"cohere_api_key"`
	CohereBaseURL    string  `mapstructure:"cohere_api_base_url" validate:"omitempty,url"`
	RAGPath          string  `mapstructure:"rag_path"`
	RAGCollection    string  `mapstructure:"rag_collection" validate:"required"`
	ChunkSize        int     `mapstructure:"chunk_size" validate:"min=1"`
	ChunkOverlap     int     `mapstructure:"chunk_overlap" validate:"min=0,ltfield=ChunkSize"`
	TokenEncoding    string  `mapstructure:"token_encoding"`
	TopK             int     `mapstructure:"top_k" validate:"min=1,max=100"`
	MinScore         float64 `mapstructure:"min_score" validate:"min=0,max=1"`

	// Crew
	CrewConfigDir     string `mapstructure:"crew_config_dir"`
	KickoffLog        string `mapstructure:"kickoff_log" validate:"required"`
	TrainedAgentsFile string `mapstructure:"trained_agents_file"`
	Topic             string `mapstructure:"topic"`

	// PDF download
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	MaxPDFSize  int64         `mapstructure:"max_pdf_size" validate:"min=1"`
	PDFPassword string        `mapstructure:"pdf_password"`
	UserAgent   string        `mapstructure:"user_agent" validate:"required"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
}

var defaults = map[string]any{
	"llm_provider":        ProviderOpenAI,
	"model":               "gpt-4o-mini",
	"max_tokens":          4096,
	"temperature":         0.2,
	"max_iter":            5,
	"embedder_provider":   ProviderOpenAI,
	"embedding_model":     "text-embedding-3-small",
	"rag_collection":      "pdf_agent",
	"chunk_size":          256,
	"chunk_overlap":       1,
	"top_k":               5,
	"min_score":           0.0,
	"kickoff_log":         ".pdfagent/kickoff.json",
	"trained_agents_file": "trained_agents_data.json",
	"topic":               "AI LLMs",
	"http_timeout":        document.DefaultTimeout,
	"max_pdf_size":        document.DefaultMaxSize,
	"user_agent":          document.DefaultUserAgent,
	"log_level":           "info",
}

// provider credentials are read from their conventional names as well as PDFAGENT_*.
var envAliases = map[string][]string{
	"openai_api_key":         {"OPENAI_API_KEY"},
	"openai_api_base_url":    {"OPENAI_API_BASE_URL"},
	"model":                  {"OPENAI_MODEL"},
	"anthropic_api_key":      {"ANTHROPIC_API_KEY"},
	"anthropic_api_base_url": {"ANTHROPIC_API_BASE_URL"},
	"cohere_api_key":         {"COHERE_API_KEY"},
	"cohere_api_base_url":    {"COHERE_API_BASE_URL"},
	"log_level":              {"LOG_LEVEL"},
}

const envPrefix = "PDFAGENT"

// Load reads settings from the environment (after loading a .env file when
// present) and from the optional config file at path.
func Load(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{key, envPrefix + "_" + strings.ToUpper(key)}, aliases...)
		if err := v.BindEnv(names...); err != nil {
			return nil, err
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	settings := new(Settings)
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks field constraints.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.HTTPTimeout < 0 {
		return errors.New("invalid config: http_timeout must not be negative")
	}
	return nil
}

