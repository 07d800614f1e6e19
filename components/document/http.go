package document

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/atomic"
)

// Http downloads a document body with a single request
type Http struct {
	status  *atomic.Int32
	client  *http.Client
	httpReq *http.Request
	maxSize int64
	Document
}

type HttpConfig struct {
	client  *http.Client
	link    string
	header  http.Header
	maxSize int64
}

type HttpOption func(*HttpConfig)

func WithHttpURL(link string) HttpOption {
	return func(h *HttpConfig) {
		h.link = link
	}
}

func WithHttpClient(client *http.Client) HttpOption {
	return func(h *HttpConfig) {
		h.client = client
	}
}

func WithHttpHeader(key, value string) HttpOption {
	return func(h *HttpConfig) {
		if h.header == nil {
			h.header = make(http.Header)
		}
		h.header.Set(key, value)
	}
}

// WithMaxSize limits the body size in bytes, 0 means unlimited
func WithMaxSize(size int64) HttpOption {
	return func(h *HttpConfig) {
		h.maxSize = size
	}
}

func NewHttp(ctx context.Context, opts ...HttpOption) (*Http, error) {
	var cfg HttpConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	u, err := url.Parse(cfg.link)
	if err != nil {
		return nil, networkError(cfg.link, err, "invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, networkError(cfg.link, nil, "unsupported url scheme %q", u.Scheme)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.link, nil)
	if err != nil {
		return nil, networkError(cfg.link, err, "invalid request")
	}
	for k, vs := range cfg.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	return &Http{
		status:  atomic.NewInt32(Unread),
		client:  cfg.client,
		httpReq: httpReq,
		maxSize: cfg.maxSize,
		Document: Document{
			buffer: new(bytes.Buffer),
			Meta: map[string]string{
				"url":    cfg.link,
				"method": http.MethodGet,
			},
		},
	}, nil
}

func (h *Http) ReadStatus() ReadStatus {
	return h.status.Load()
}

// ReadAll downloads the body once, later calls return the cached result
func (h *Http) ReadAll() error {
	if h.ReadStatus() == ReadCompleted {
		return nil
	}
	if !h.status.CompareAndSwap(Unread, Reading) {
		return ErrReading
	}
	if err := h.download(); err != nil {
		h.buffer.Reset()
		h.status.Store(Unread)
		return err
	}
	h.status.Store(ReadCompleted)
	return nil
}

func (h *Http) download() error {
	link := h.Meta["url"]
	httpResp, err := h.client.Do(h.httpReq)
	if err != nil {
		return networkError(link, err, "request failed")
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return networkError(link, nil, "unexpected status %s", httpResp.Status)
	}
	h.Meta["content_type"] = httpResp.Header.Get("Content-Type")
	var body io.Reader = httpResp.Body
	if h.maxSize > 0 {
		body = io.LimitReader(httpResp.Body, h.maxSize+1)
	}
	n, err := io.Copy(h.buffer, body)
	if err != nil {
		return networkError(link, err, "read body failed")
	}
	if h.maxSize > 0 && n > h.maxSize {
		return networkError(link, nil, "body exceeds %d bytes", h.maxSize)
	}
	h.Meta["size"] = strconv.FormatInt(n, 10)
	return nil
}
