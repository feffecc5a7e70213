package usecase

import (
	"context"
	"fmt"
	"strings"

	"EdTechDigest/internal/config"
	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/ports"
	"EdTechDigest/internal/validator"
)

type fakeFetcher struct {
	pages map[string]domain.FetchResult
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, src domain.ArticleSource) domain.FetchResult {
	f.calls = append(f.calls, src.URL)
	if res, ok := f.pages[src.URL]; ok {
		return res
	}
	return domain.FetchResult{Failure: "HTTP 403"}
}

type fakeModel struct {
	responses []string
	err       error
	requests  []ports.Completion
}

func (m *fakeModel) Complete(_ context.Context, req ports.Completion) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("unexpected model call %d", len(m.requests))
	}
	out := m.responses[0]
	m.responses = m.responses[1:]
	return out, nil
}

type fakeMailer struct {
	sent     []domain.EmailMessage
	err      error
	readyErr error
}

func (m *fakeMailer) Ready() error {
	return m.readyErr
}

func (m *fakeMailer) Send(_ context.Context, msg domain.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeReporter struct {
	rejected []domain.Verdict
	sent     []domain.EmailMessage
	unsent   []string
}

func (r *fakeReporter) ReportUnsent(digest domain.Digest, _ error) error {
	r.unsent = append(r.unsent, digest.Text())
	return nil
}

func (r *fakeReporter) ReportRejected(_ domain.Digest, verdict domain.Verdict) error {
	r.rejected = append(r.rejected, verdict)
	return nil
}

func (r *fakeReporter) ReportSent(msg domain.EmailMessage, _ domain.Verdict) error {
	r.sent = append(r.sent, msg)
	return nil
}

func okPage(url, text string) domain.FetchResult {
	return domain.FetchResult{Article: domain.Article{URL: url, Title: "Title " + url, Text: text}}
}

// narrative returns a digest of exactly words tokens that cites every url.
func narrative(words int, urls ...string) string {
	var tokens []string
	for _, u := range urls {
		tokens = append(tokens, "According", "to", "("+u+"),")
	}
	for i := 0; len(tokens) < words; i++ {
		tok := fmt.Sprintf("trend%d", i)
		if i%15 == 14 {
			tok += "."
		}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens[:words], " ")
}

func testValidation() config.ValidationConfig {
	return config.ValidationConfig{
		MinWords:              350,
		MaxWords:              650,
		MinCitations:          3,
		Placeholders:          []string{"lorem ipsum", "placeholder"},
		RepeatedSentenceWords: 6,
	}
}

func validatorFactory(cfg config.ValidationConfig) ValidatorFactory {
	return func(articles []domain.Article) ports.DigestValidator {
		return validator.New(validator.RulesFromConfig(cfg, articles))
	}
}

func testMail() config.MailConfig {
	return config.MailConfig{
		From:          "digest@example.com",
		To:            "reader@example.com",
		SubjectPrefix: "Weekly EdTech Digest",
	}
}
