package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/logging"
	"EdTechDigest/internal/ports"
)

// ValidatorFactory builds the quality checks for the articles that were fetched.
type ValidatorFactory func(articles []domain.Article) ports.DigestValidator

// PipelineDeps wires all stages into the orchestration pipeline.
type PipelineDeps struct {
	Fetcher      ports.PageFetcher
	Synthesizer  *Synthesizer
	NewValidator ValidatorFactory
	Publisher    *Publisher
	Logger       *slog.Logger
}

// Pipeline runs fetch, synthesize, validate and publish strictly in sequence.
type Pipeline struct {
	fetcher      ports.PageFetcher
	synthesizer  *Synthesizer
	newValidator ValidatorFactory
	publisher    *Publisher
	logger       *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Pipeline{
		fetcher:      deps.Fetcher,
		synthesizer:  deps.Synthesizer,
		newValidator: deps.NewValidator,
		publisher:    deps.Publisher,
		logger:       log,
	}
}

// Run executes one digest run for the given URLs. The report is returned in
// every case; err is non-nil only when the run ends in StateFailed.
func (p *Pipeline) Run(ctx context.Context, urls []string) (domain.RunReport, error) {
	report := domain.RunReport{State: domain.StateInit}

	if p.fetcher == nil || p.synthesizer == nil || p.newValidator == nil || p.publisher == nil {
		return p.fail(&report, "init", fmt.Errorf("pipeline is not fully configured"))
	}

	sources := domain.SourcesFromURLs(urls)
	p.logger.Info("digest run started", "articles", len(sources))

	report.Results = FetchAll(ctx, p.fetcher, sources, p.logger)
	p.transition(&report, domain.StateFetched)

	articles := domain.Succeeded(report.Results)
	dropped := len(report.Results) - len(articles)
	p.logger.Info("fetch finished", "ok", len(articles), "failed", dropped)
	if len(articles) == 0 {
		return p.fail(&report, "fetch", ErrNoArticles)
	}

	digest, err := p.synthesizer.Synthesize(ctx, articles, dropped)
	if err != nil {
		return p.fail(&report, "synthesize", err)
	}
	report.Digest = digest
	p.transition(&report, domain.StateSynthesized)

	report.Verdict = p.newValidator(articles).Validate(digest.Text())
	p.transition(&report, domain.StateValidated)
	p.logger.Info("quality checks done",
		"passed", report.Verdict.Passed,
		"words", report.Verdict.Words,
		"citations", report.Verdict.Citations,
		"reasons", len(report.Verdict.Reasons))

	outcome, err := p.publisher.Publish(ctx, report.Digest, report.Verdict)
	report.Outcome = outcome
	if err != nil {
		return p.fail(&report, "publish", err)
	}
	p.transition(&report, outcome.State)

	return report, nil
}

func (p *Pipeline) transition(report *domain.RunReport, next domain.RunState) {
	p.logger.Debug("state transition", "from", report.State, "to", next)
	report.State = next
}

func (p *Pipeline) fail(report *domain.RunReport, stage string, err error) (domain.RunReport, error) {
	err = fmt.Errorf("%s: %w", stage, err)
	p.logger.Error("digest run failed", "stage", stage, "from", report.State, "error", err)
	report.State = domain.StateFailed
	report.Err = err
	return *report, err
}
