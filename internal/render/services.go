package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hargabyte/agentsizer/internal/report"
)

// DiagramImager renders diagram source text to an image.
type DiagramImager interface {
	// Image returns the rendered image bytes and the file extension to use.
	Image(ctx context.Context, language, source string) ([]byte, string, error)
}

// PDFConverter converts a Markdown document to PDF.
type PDFConverter interface {
	ConvertMarkdown(ctx context.Context, markdown []byte) ([]byte, error)
}

// DefaultServiceTimeout bounds each external rendering request.
const DefaultServiceTimeout = 30 * time.Second

// KrokiImager renders diagrams through a Kroki-compatible service:
// POST {BaseURL}/{language}/svg with the diagram source as the body.
type KrokiImager struct {
	baseURL string
	client  *http.Client
}

// NewKrokiImager creates an imager for the service at baseURL.
func NewKrokiImager(baseURL string, timeout time.Duration) *KrokiImager {
	if timeout <= 0 {
		timeout = DefaultServiceTimeout
	}
	return &KrokiImager{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Image renders source as SVG.
func (k *KrokiImager) Image(ctx context.Context, language, source string) ([]byte, string, error) {
	url := fmt.Sprintf("%s/%s/svg", k.baseURL, language)
	data, err := post(ctx, k.client, url, "text/plain", []byte(source))
	if err != nil {
		return nil, "", fmt.Errorf("rendering %s diagram: %w", language, err)
	}
	return data, "svg", nil
}

// HTTPPDFConverter posts Markdown to a conversion service and returns the PDF
// response body.
type HTTPPDFConverter struct {
	url    string
	client *http.Client
}

// NewHTTPPDFConverter creates a converter for the service endpoint url.
func NewHTTPPDFConverter(url string, timeout time.Duration) *HTTPPDFConverter {
	if timeout <= 0 {
		timeout = DefaultServiceTimeout
	}
	return &HTTPPDFConverter{url: url, client: &http.Client{Timeout: timeout}}
}

// ConvertMarkdown converts the document to PDF.
func (c *HTTPPDFConverter) ConvertMarkdown(ctx context.Context, markdown []byte) ([]byte, error) {
	data, err := post(ctx, c.client, c.url, "text/markdown; charset=utf-8", markdown)
	if err != nil {
		return nil, fmt.Errorf("converting to pdf: %w", err)
	}
	return data, nil
}

func post(ctx context.Context, client *http.Client, url, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return data, nil
}

// RenderPDF converts the Markdown document of m to PDF.
func RenderPDF(ctx context.Context, m *report.Model, conv PDFConverter) ([]byte, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	return conv.ConvertMarkdown(ctx, RenderDocument(m))
}
