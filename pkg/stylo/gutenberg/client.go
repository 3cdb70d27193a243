package gutenberg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/stylo/pkg/stylo/config"
	"github.com/cognicore/stylo/pkg/stylo/internalerr"
)

// Client talks to the metadata and content services. It is safe for
// concurrent use; the batch fetcher shares one client across workers.
type Client struct {
	http    *http.Client
	baseURL string
	textTag string
	start   string
	end     string
	authors map[string][]int
	workers int

	// Logf receives diagnostics for soft failures (content fetch or
	// marker extraction). Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// NewClient builds a client from configuration. The per-request
// timeout comes from cfg; pass a cancellable context for batch-level
// deadlines.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout()},
		baseURL: cfg.Gutenberg.URL,
		textTag: cfg.Gutenberg.TextTag,
		start:   cfg.Gutenberg.StartMarker,
		end:     cfg.Gutenberg.EndMarker,
		authors: cfg.Authors,
		workers: cfg.Workers,
		Logf:    log.Printf,
	}
}

// FetchBook retrieves metadata for one book ID and constructs the
// Book. A non-2xx response or transport failure is fatal for this ID
// and reported as ErrRetrieval.
func (c *Client) FetchBook(ctx context.Context, id int) (*Book, error) {
	if id <= 0 {
		return nil, fmt.Errorf("book ID must be positive, got %d: %w",
			id, internalerr.ErrInvalidInput)
	}

	url := c.baseURL + strconv.Itoa(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("book %d: %w", id, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("book %d metadata: %v: %w", id, err, internalerr.ErrRetrieval)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("book %d metadata: HTTP %d: %w",
			id, resp.StatusCode, internalerr.ErrRetrieval)
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("book %d metadata: %v: %w", id, err, internalerr.ErrRetrieval)
	}

	return NewBook(id, meta, c.textTag)
}

// RealizeText downloads and extracts the book body, memoizing the
// outcome on the book. Failures are soft: the book keeps an empty
// text, a diagnostic is logged, and ErrContentUnavailable is returned
// for callers that want to count them. Already-realized books are
// left untouched.
func (c *Client) RealizeText(ctx context.Context, b *Book) error {
	if b.Realized() {
		return nil
	}
	if b.DownloadURL() == "" {
		b.setText("")
		c.logf("book %d: no download format matched %q", b.ID(), c.textTag)
		return fmt.Errorf("book %d: no matching format: %w",
			b.ID(), internalerr.ErrContentUnavailable)
	}

	body, err := c.fetchBody(ctx, b.DownloadURL())
	if err != nil {
		b.setText("")
		c.logf("book %d: could not retrieve text: %v", b.ID(), err)
		return fmt.Errorf("book %d: %v: %w", b.ID(), err, internalerr.ErrContentUnavailable)
	}
	if b.html {
		body = stripHTML(body)
	}

	text, err := extractBody(body, c.start, c.end)
	if err != nil {
		b.setText("")
		c.logf("book %d: %v", b.ID(), err)
		return fmt.Errorf("book %d: %v: %w", b.ID(), err, internalerr.ErrContentUnavailable)
	}

	b.setText(text)
	return nil
}

func (c *Client) fetchBody(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extractBody keeps the text strictly between the first occurrence of
// the start marker and the first occurrence of the end marker after
// it, trimmed. Empty markers are treated as already satisfied, so a
// source without boilerplate can configure them away.
func extractBody(body, start, end string) (string, error) {
	text := body
	if start != "" {
		_, after, found := strings.Cut(text, start)
		if !found {
			return "", fmt.Errorf("start marker %q not found", start)
		}
		text = after
	}
	if end != "" {
		before, _, found := strings.Cut(text, end)
		if !found {
			return "", fmt.Errorf("end marker %q not found", end)
		}
		text = before
	}
	return strings.TrimSpace(text), nil
}

// stripHTML extracts the text nodes of an HTML document. Used for the
// fallback download format.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return buf.String()
}

func (c *Client) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}
