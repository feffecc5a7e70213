package usecase

import (
	"context"
	"log/slog"

	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/logging"
	"EdTechDigest/internal/ports"
)

// FetchAll downloads every source in order and returns one result per source.
// A failing URL only degrades the input set.
func FetchAll(ctx context.Context, fetcher ports.PageFetcher, sources []domain.ArticleSource, log *slog.Logger) []domain.FetchResult {
	if log == nil {
		log = logging.Discard()
	}

	results := make([]domain.FetchResult, 0, len(sources))
	for i, src := range sources {
		log.Info("fetching article", "n", i+1, "of", len(sources), "url", src.URL)

		var res domain.FetchResult
		if src.URL == "" {
			res.Failure = "empty url"
		} else {
			res = fetcher.Fetch(ctx, src)
		}
		res.Source = src
		if res.Failure == "" && res.Article.Text == "" {
			res.Failure = "no content"
		}

		if res.OK() {
			log.Info("article fetched", "url", src.URL, "chars", len(res.Article.Text))
		} else {
			log.Warn("article dropped", "url", src.URL, "reason", res.Failure)
		}
		results = append(results, res)
	}
	return results
}
