package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/bububa/pdf-agent/pkg/logging"
)

const pdfMIME = "application/pdf"

// PDFParser is a parser which parse PDF content to text
type PDFParser struct {
	password string
}

var _ Parser = (*PDFParser)(nil)

type PDFParserOption func(*PDFParser)

func PDFParserWithPassword(password string) PDFParserOption {
	return func(p *PDFParser) {
		p.password = password
	}
}

func NewPDFParser(opts ...PDFParserOption) *PDFParser {
	ret := new(PDFParser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Parse writes the text of every non empty page to writer, pages separated by a newline
func (p *PDFParser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	pages, err := p.Pages(ctx, reader)
	if err != nil {
		return err
	}
	_, err = io.WriteString(writer, JoinPages(pages))
	return err
}

// Pages returns the trimmed text of every page in page order.
// It fails with ErrParse when the content is not a readable PDF
// and with ErrNoText when no page carries any text.
func (p *PDFParser) Pages(ctx context.Context, reader *bytes.Reader) ([]Page, error) {
	head := make([]byte, 3072)
	n, _ := reader.ReadAt(head, 0)
	if mtype := mimetype.Detect(head[:n]); !mtype.Is(pdfMIME) {
		return nil, parseError(nil, "content type is %s", mtype.String())
	}
	r, err := p.open(reader)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, &ExtractError{Kind: ErrNoText, Detail: "encrypted PDF", Cause: err}
		}
		return nil, parseError(err, "")
	}
	total, err := numPage(r)
	if err != nil {
		return nil, parseError(err, "")
	}
	logger := logging.FromContext(ctx)
	pages := make([]Page, 0, total)
	var found bool
	for idx := 1; idx <= total; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(r, idx)
		if err != nil {
			logger.DebugContext(ctx, "skip unreadable page", slog.Int("page", idx), slog.Any("error", err))
		}
		text = strings.TrimSpace(text)
		if text != "" {
			found = true
		}
		pages = append(pages, Page{Number: idx, Text: text})
	}
	if !found {
		return nil, &ExtractError{Kind: ErrNoText, Detail: fmt.Sprintf("%d pages", total)}
	}
	return pages, nil
}

func (p *PDFParser) open(reader *bytes.Reader) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	size := reader.Size()
	if p.password == "" {
		return pdf.NewReader(reader, size)
	}
	// the reader keeps asking until it gets an empty password
	var tried bool
	return pdf.NewReaderEncrypted(reader, size, func() string {
		if tried {
			return ""
		}
		tried = true
		return p.password
	})
}

func numPage(r *pdf.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page tree: %v", rec)
		}
	}()
	return r.NumPage(), nil
}

func pageText(r *pdf.Reader, idx int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page %d: %v", idx, rec)
		}
	}()
	page := r.Page(idx)
	if page.V.IsNull() {
		return "", nil
	}
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		if _, ok := fonts[name]; ok {
			continue
		}
		font := page.Font(name)
		fonts[name] = &font
	}
	return page.GetPlainText(fonts)
}

// JoinPages joins the text of non empty pages with a newline
func JoinPages(pages []Page) string {
	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		texts = append(texts, page.Text)
	}
	return strings.Join(texts, "\n")
}
