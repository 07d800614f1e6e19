package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	cohereClient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/option"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/pdf-agent/components/document"
	"github.com/bububa/pdf-agent/components/embedder"
	"github.com/bububa/pdf-agent/components/embedder/providers"
	"github.com/bububa/pdf-agent/components/embedder/splitter"
	"github.com/bububa/pdf-agent/components/llm"
	"github.com/bububa/pdf-agent/components/vectordb"
	"github.com/bububa/pdf-agent/components/vectordb/engines"
	"github.com/bububa/pdf-agent/components/vectordb/engines/chromem"
	"github.com/bububa/pdf-agent/crew"
	"github.com/bububa/pdf-agent/internal/cli"
	"github.com/bububa/pdf-agent/internal/config"
	"github.com/bububa/pdf-agent/pkg/logging"
	"github.com/bububa/pdf-agent/tools/humaninput"
	"github.com/bububa/pdf-agent/tools/rag"
)

// newRuntime builds the extractor and the crew from settings
func newRuntime(ctx context.Context, opts cli.Options) (*cli.Runtime, error) {
	settings, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	level := logging.ParseLevel(settings.LogLevel)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level)
	ctx = logging.NewContext(ctx, logger)

	extractor := document.NewExtractor(
		document.WithTimeout(settings.HTTPTimeout),
		document.WithUserAgent(settings.UserAgent),
		document.WithMaxPDFSize(settings.MaxPDFSize),
		document.WithPassword(settings.PDFPassword),
	)
	chat, err := newChatClient(settings)
	if err != nil {
		return nil, err
	}
	store, err := newRAGStore(settings)
	if err != nil {
		return nil, err
	}
	def, err := crew.LoadDefinition(settings.CrewConfigDir)
	if err != nil {
		return nil, err
	}
	variant := crew.VariantDefault
	if opts.Chat {
		variant = crew.VariantChat
	}
	console := humaninput.NewConsole(opts.In, opts.Out)
	c, err := crew.New(def,
		crew.WithVariant(variant),
		crew.WithClient(chat),
		crew.WithMaxIter(settings.MaxIter),
		crew.WithToolset(crew.RAGToolset, store.Tools()...),
		crew.WithToolset(crew.HumanInputToolset, console.Tool()),
		crew.WithKickoffStore(crew.NewKickoffStore(settings.KickoffLog)),
		crew.WithTrainedAgentsFile(settings.TrainedAgentsFile),
		crew.WithAsker(console),
		crew.WithOutput(opts.Out),
	)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "runtime ready",
		slog.String("llm_provider", settings.LLMProvider),
		slog.String("model", settings.Model),
		slog.String("embedder_provider", settings.EmbedderProvider),
		slog.String("variant", string(variant)),
	)
	return &cli.Runtime{
		Orchestrator: c,
		Extractor:    extractor,
		Topic:        settings.Topic,
		Logger:       logger,
	}, nil
}

func newOpenAIClient(settings *config.Settings) (*openai.Client, error) {
	if settings.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	cfg := openai.DefaultConfig(settings.OpenAIAPIKey)
	if settings.OpenAIBaseURL != "" {
		cfg.BaseURL = settings.OpenAIBaseURL
	}
	return openai.NewClientWithConfig(cfg), nil
}

func newChatClient(settings *config.Settings) (llm.Client, error) {
	opts := []llm.Option{
		llm.WithModel(settings.Model),
		llm.WithTemperature(settings.Temperature),
		llm.WithMaxTokens(settings.MaxTokens),
	}
	switch settings.LLMProvider {
	case config.ProviderAnthropic:
		if settings.AnthropicAPIKey == "" {
			return nil, errors.New("ANTHROPIC_API_KEY is required")
		}
		var clientOpts []anthropic.ClientOption
		if settings.AnthropicBaseURL != "" {
			clientOpts = append(clientOpts, anthropic.WithBaseURL(settings.AnthropicBaseURL))
		}
		return llm.NewAnthropic(anthropic.NewClient(settings.AnthropicAPIKey, clientOpts...), opts...), nil
	default:
		clt, err := newOpenAIClient(settings)
		if err != nil {
			return nil, err
		}
		return llm.NewOpenAI(clt, opts...), nil
	}
}

func newEmbedder(settings *config.Settings) (embedder.Embedder, error) {
	model := embedder.WithModel(settings.EmbeddingModel)
	switch settings.EmbedderProvider {
	case config.ProviderCohere:
		if settings.CohereAPIKey == "" {
			return nil, errors.New("COHERE_API_KEY is required")
		}
		clientOpts := []option.RequestOption{option.WithToken(settings.CohereAPIKey)}
		if settings.CohereBaseURL != "" {
			clientOpts = append(clientOpts, option.WithBaseURL(settings.CohereBaseURL))
		}
		return providers.FromCohere(cohereClient.NewClient(clientOpts...), model), nil
	default:
		clt, err := newOpenAIClient(settings)
		if err != nil {
			return nil, err
		}
		return providers.FromOpenAI(clt, model), nil
	}
}

func newRAGStore(settings *config.Settings) (*rag.Store, error) {
	emb, err := newEmbedder(settings)
	if err != nil {
		return nil, err
	}
	splitOpts := []splitter.Option{
		splitter.WithChunkSize(settings.ChunkSize),
		splitter.WithOverlap(settings.ChunkOverlap),
	}
	if settings.TokenEncoding != "" {
		counter, err := splitter.NewTikTokenCounter(settings.TokenEncoding)
		if err != nil {
			return nil, err
		}
		splitOpts = append(splitOpts, splitter.WithTokenCounter(counter))
	}
	db, err := chromem.NewDB(settings.RAGPath)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	engine := engines.FromChromem(db,
		vectordb.WithTopK(settings.TopK),
		vectordb.WithMinScore(settings.MinScore),
	)
	return rag.New(
		rag.WithCollection(settings.RAGCollection),
		rag.WithChunker(splitter.NewSentences(splitOpts...)),
		rag.WithEmbedder(emb),
		rag.WithVectorDB(engine),
	)
}
