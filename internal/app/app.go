package app

import (
	"context"
	"io"
	"log/slog"

	"EdTechDigest/internal/config"
	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/infrastructure/console"
	"EdTechDigest/internal/infrastructure/fetcher"
	"EdTechDigest/internal/infrastructure/llm"
	"EdTechDigest/internal/infrastructure/mail"
	"EdTechDigest/internal/logging"
	"EdTechDigest/internal/ports"
	"EdTechDigest/internal/usecase"
	"EdTechDigest/internal/validator"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds the runnable application. out receives the console report.
func New(cfg config.Config, baseLogger *slog.Logger, out io.Writer) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	model := llm.NewAnthropicClient(cfg.Anthropic, nil)
	reporter := console.NewReporter(out)

	publisher := usecase.NewPublisher(usecase.PublisherDeps{
		Model:          model,
		Mailer:         mail.NewSMTPMailer(cfg.Mail, baseLogger.With("component", "mailer")),
		Reporter:       reporter,
		Mail:           cfg.Mail,
		ThemeMaxTokens: cfg.Anthropic.ThemeMaxTokens,
		Logger:         baseLogger.With("component", "publisher"),
	})

	validation := cfg.Validation
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:     fetcher.NewHTTPFetcher(cfg.Fetch, nil, baseLogger.With("component", "fetcher")),
		Synthesizer: usecase.NewSynthesizer(model, cfg.Anthropic.MaxTokens, baseLogger.With("component", "synthesizer")),
		NewValidator: func(articles []domain.Article) ports.DigestValidator {
			return validator.New(validator.RulesFromConfig(validation, articles))
		},
		Publisher: publisher,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline}
}

// Run performs a single digest run. urls replace the configured article list when non-empty.
func (a *Application) Run(ctx context.Context, urls []string) (domain.RunReport, error) {
	if len(urls) == 0 {
		urls = a.cfg.Articles
	}
	return a.pipeline.Run(ctx, urls)
}
