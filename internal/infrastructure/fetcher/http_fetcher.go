package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"EdTechDigest/internal/config"
	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/ports"
)

const maxBodyBytes = 4 << 20

var errEmptyBody = errors.New("empty body (possible paywall)")

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

// HTTPFetcher downloads article pages and extracts their readable text.
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxChars  int
	logger    *slog.Logger
}

var _ ports.PageFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher wires an HTTP client; a nil client gets one bounded by cfg.Timeout.
func NewHTTPFetcher(cfg config.FetchConfig, client *http.Client, log *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPFetcher{
		client:    client,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		maxChars:  cfg.MaxChars,
		logger:    log,
	}
}

// Fetch issues a single GET. Every failure is folded into the result.
func (f *HTTPFetcher) Fetch(ctx context.Context, source domain.ArticleSource) domain.FetchResult {
	result := domain.FetchResult{Source: source}

	article, err := f.fetch(ctx, source.URL)
	if err != nil {
		result.Failure = describe(err)
		f.debug("fetch failed", "url", source.URL, "reason", result.Failure, "error", err)
		return result
	}

	result.Article = article
	f.debug("fetch ok", "url", source.URL, "title", article.Title, "chars", len(article.Text))
	return result
}

func (f *HTTPFetcher) fetch(ctx context.Context, rawURL string) (domain.Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return domain.Article{}, fmt.Errorf("invalid url: %w", err)
	}
	if pageURL.Scheme != "http" && pageURL.Scheme != "https" {
		return domain.Article{}, fmt.Errorf("unsupported url scheme %q", pageURL.Scheme)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return domain.Article{}, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Article{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Article{}, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Article{}, fmt.Errorf("read body: %w", err)
	}

	title, text := extract(body, pageURL)
	text = truncate(normalizeSpace(text), f.maxChars)
	if text == "" {
		return domain.Article{}, errEmptyBody
	}

	return domain.Article{
		URL:   rawURL,
		Title: normalizeSpace(title),
		Text:  text,
	}, nil
}

// extract prefers readability output and falls back to the visible body text.
func extract(body []byte, pageURL *url.URL) (title, text string) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", ""
	}

	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		title = strings.TrimSpace(article.Title)
		text = strings.TrimSpace(article.TextContent)
		if text != "" {
			return title, text
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return title, ""
	}
	if title == "" {
		title = doc.Find("title").First().Text()
	}
	doc.Find("script, style, noscript, nav, header, footer, form").Remove()
	return title, doc.Find("body").Text()
}

func describe(err error) string {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	if errors.Is(err, errEmptyBody) {
		return errEmptyBody.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return err.Error()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

func (f *HTTPFetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
