package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"EdTechDigest/internal/config"
	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/logging"
	"EdTechDigest/internal/ports"
)

const (
	fallbackTheme  = "Weekly Update"
	maxThemeWords  = 6
	defaultSubject = "Weekly EdTech Digest"
)

// PublisherDeps wires the driven adapters used by the publish stage.
type PublisherDeps struct {
	Model          ports.TextModel
	Mailer         ports.Mailer
	Reporter       ports.Reporter
	Mail           config.MailConfig
	ThemeMaxTokens int
	Now            func() time.Time
	Logger         *slog.Logger
}

// Publisher either mails a passed digest or reports a rejected one.
type Publisher struct {
	model          ports.TextModel
	mailer         ports.Mailer
	reporter       ports.Reporter
	from           string
	to             string
	subjectPrefix  string
	themeMaxTokens int
	now            func() time.Time
	logger         *slog.Logger
}

// NewPublisher constructs the publish stage.
func NewPublisher(deps PublisherDeps) *Publisher {
	p := &Publisher{
		model:          deps.Model,
		mailer:         deps.Mailer,
		reporter:       deps.Reporter,
		from:           deps.Mail.From,
		to:             deps.Mail.To,
		subjectPrefix:  deps.Mail.SubjectPrefix,
		themeMaxTokens: deps.ThemeMaxTokens,
		now:            deps.Now,
		logger:         deps.Logger,
	}
	if p.subjectPrefix == "" {
		p.subjectPrefix = defaultSubject
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}
	return p
}

// Publish branches on the verdict. Only a passed verdict reaches the mailer.
func (p *Publisher) Publish(ctx context.Context, digest domain.Digest, verdict domain.Verdict) (domain.Outcome, error) {
	if !verdict.Passed {
		return p.report(digest, verdict)
	}
	return p.send(ctx, digest, verdict)
}

func (p *Publisher) report(digest domain.Digest, verdict domain.Verdict) (domain.Outcome, error) {
	p.logger.Warn("digest failed quality checks, not sending", "reasons", len(verdict.Reasons))

	if p.reporter != nil {
		if err := p.reporter.ReportRejected(digest, verdict); err != nil {
			return domain.Outcome{State: domain.StateFailed}, fmt.Errorf("report rejected digest: %w", err)
		}
	}

	return domain.Outcome{
		State:   domain.StateReported,
		Message: fmt.Sprintf("not sent, reasons: [%s]", strings.Join(verdict.Reasons, "; ")),
	}, nil
}

func (p *Publisher) send(ctx context.Context, digest domain.Digest, verdict domain.Verdict) (domain.Outcome, error) {
	if p.mailer == nil {
		return domain.Outcome{State: domain.StateFailed}, fmt.Errorf("mailer is not configured")
	}
	if err := p.mailer.Ready(); err != nil {
		p.reportUnsent(digest, err)
		return domain.Outcome{State: domain.StateFailed}, fmt.Errorf("mailer: %w", err)
	}

	theme, err := p.extractTheme(ctx, digest)
	if err != nil {
		return domain.Outcome{State: domain.StateFailed}, fmt.Errorf("extract theme: %w", err)
	}
	subject := fmt.Sprintf("%s: %s", p.subjectPrefix, theme)
	p.logger.Info("theme extracted", "theme", theme)

	htmlBody, err := renderHTML(p.subjectPrefix, digest.Text(), p.now())
	if err != nil {
		return domain.Outcome{State: domain.StateFailed}, err
	}

	msg, err := domain.NewEmailMessage(verdict, p.from, p.to, subject, htmlBody, digest.Text())
	if err != nil {
		return domain.Outcome{State: domain.StateFailed}, err
	}

	if err := p.mailer.Send(ctx, msg); err != nil {
		p.reportUnsent(digest, err)
		return domain.Outcome{State: domain.StateFailed, Theme: theme, Subject: subject}, fmt.Errorf("send email: %w", err)
	}
	p.logger.Info("email sent", "to", msg.To, "subject", subject)

	if p.reporter != nil {
		if err := p.reporter.ReportSent(msg, verdict); err != nil {
			p.logger.Warn("print send summary", "error", err)
		}
	}

	return domain.Outcome{
		State:   domain.StateSent,
		Theme:   theme,
		Subject: subject,
		Message: "sent to " + msg.To,
	}, nil
}

// reportUnsent prints a digest that passed the checks but could not be mailed.
func (p *Publisher) reportUnsent(digest domain.Digest, cause error) {
	p.logger.Error("digest generated but not sent", "error", cause)
	if p.reporter == nil {
		return
	}
	if err := p.reporter.ReportUnsent(digest, cause); err != nil {
		p.logger.Warn("print unsent digest", "error", err)
	}
}

func (p *Publisher) extractTheme(ctx context.Context, digest domain.Digest) (string, error) {
	if p.model == nil {
		return fallbackTheme, nil
	}

	var prompt strings.Builder
	prompt.WriteString("Read this EdTech industry digest and extract the ONE key theme in 3-6 words for an email subject line.\n\n")
	prompt.WriteString("Digest:\n")
	prompt.WriteString(digest.Text())
	prompt.WriteString("\n\nRespond with ONLY the theme, nothing else. Examples of good themes:\n")
	prompt.WriteString("- \"AI Tutoring Investment Surge\"\n")
	prompt.WriteString("- \"Policy Changes Impact K-12 Tech\"\n")
	prompt.WriteString("- \"Consolidation in EdTech Market\"\n\n")
	prompt.WriteString("Key theme:")

	raw, err := p.model.Complete(ctx, ports.Completion{
		Prompt:    prompt.String(),
		MaxTokens: p.themeMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return cleanTheme(raw), nil
}

// cleanTheme keeps the first line of the answer without labels, quotes or
// markdown, capped to a few words.
func cleanTheme(raw string) string {
	line := ""
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	line = strings.TrimLeft(line, "-*# ")
	if i := strings.Index(strings.ToLower(line), "theme:"); i >= 0 {
		line = line[i+len("theme:"):]
	}
	line = strings.Trim(line, " \t\"'`*_.“”")

	words := strings.Fields(line)
	if len(words) == 0 {
		return fallbackTheme
	}
	if len(words) > maxThemeWords {
		words = words[:maxThemeWords]
	}
	return strings.Join(words, " ")
}
