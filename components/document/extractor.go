package document

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bububa/pdf-agent/pkg/logging"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultMaxSize   = int64(100 << 20)
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Extractor downloads a PDF and extracts its text
type Extractor struct {
	client    *http.Client
	userAgent string
	maxSize   int64
	parser    *PDFParser
}

type ExtractorOption func(*extractorConfig)

type extractorConfig struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxSize   int64
	password  string
}

// WithClient sets the http client, its Timeout is left untouched
func WithClient(client *http.Client) ExtractorOption {
	return func(c *extractorConfig) {
		c.client = client
	}
}

func WithTimeout(timeout time.Duration) ExtractorOption {
	return func(c *extractorConfig) {
		c.timeout = timeout
	}
}

func WithUserAgent(ua string) ExtractorOption {
	return func(c *extractorConfig) {
		c.userAgent = ua
	}
}

func WithMaxPDFSize(size int64) ExtractorOption {
	return func(c *extractorConfig) {
		c.maxSize = size
	}
}

func WithPassword(password string) ExtractorOption {
	return func(c *extractorConfig) {
		c.password = password
	}
}

func NewExtractor(opts ...ExtractorOption) *Extractor {
	cfg := extractorConfig{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		maxSize:   DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	return &Extractor{
		client:    cfg.client,
		userAgent: cfg.userAgent,
		maxSize:   cfg.maxSize,
		parser:    NewPDFParser(PDFParserWithPassword(cfg.password)),
	}
}

// ExtractText downloads the PDF at link and returns the text of its non empty pages joined by a newline
func (e *Extractor) ExtractText(ctx context.Context, link string) (string, error) {
	pages, err := e.ExtractPages(ctx, link)
	if err != nil {
		return "", err
	}
	return JoinPages(pages), nil
}

// ExtractPages downloads the PDF at link and returns the trimmed text of every page
func (e *Extractor) ExtractPages(ctx context.Context, link string) ([]Page, error) {
	logger := logging.FromContext(ctx).With(slog.String("url", link))
	doc, err := NewHttp(ctx,
		WithHttpURL(link),
		WithHttpClient(e.client),
		WithHttpHeader("User-Agent", e.userAgent),
		WithHttpHeader("Accept", pdfMIME),
		WithMaxSize(e.maxSize),
	)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := doc.ReadAll(); err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "pdf downloaded", slog.Int("bytes", doc.Len()), slog.Duration("elapsed", time.Since(start)))
	pages, err := e.parser.Pages(ctx, doc.Reader())
	if err != nil {
		var extractErr *ExtractError
		if errors.As(err, &extractErr) {
			extractErr.URL = link
		}
		return nil, err
	}
	logger.DebugContext(ctx, "pdf parsed", slog.Int("pages", len(pages)))
	return pages, nil
}
