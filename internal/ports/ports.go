package ports

import (
	"context"

	"EdTechDigest/internal/domain"
)

// PageFetcher downloads a single article. Per-URL failures are reported in
// the returned FetchResult, never as an error.
type PageFetcher interface {
	Fetch(ctx context.Context, source domain.ArticleSource) domain.FetchResult
}

// Completion is a single prompt sent to a generative text model.
type Completion struct {
	System    string
	Prompt    string
	MaxTokens int
}

// TextModel returns the raw text generated for a prompt.
type TextModel interface {
	Complete(ctx context.Context, req Completion) (string, error)
}

// Mailer delivers exactly one message per call. Ready reports a missing
// credential or relay setting without opening a connection.
type Mailer interface {
	Ready() error
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// DigestValidator checks a digest against the configured quality rules.
type DigestValidator interface {
	Validate(text string) domain.Verdict
}

// Reporter writes operator-facing output to the console.
type Reporter interface {
	ReportRejected(digest domain.Digest, verdict domain.Verdict) error
	ReportSent(msg domain.EmailMessage, verdict domain.Verdict) error
	ReportUnsent(digest domain.Digest, cause error) error
}
