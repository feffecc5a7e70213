package domain

import "strings"

// ArticleSource identifies a single article to download for the run.
type ArticleSource struct {
	URL string
}

// SourcesFromURLs keeps every entry in input order, blank ones included, so
// each input URL yields exactly one FetchResult.
func SourcesFromURLs(urls []string) []ArticleSource {
	sources := make([]ArticleSource, 0, len(urls))
	for _, u := range urls {
		sources = append(sources, ArticleSource{URL: strings.TrimSpace(u)})
	}
	return sources
}

// Article is a successfully downloaded page handed to the synthesizer.
type Article struct {
	URL   string
	Title string
	Text  string
}

// FetchResult describes the outcome of downloading one ArticleSource.
// Exactly one of Article or Failure is meaningful.
type FetchResult struct {
	Source  ArticleSource
	Article Article
	Failure string
}

// OK reports whether the fetch produced usable text.
func (r FetchResult) OK() bool {
	return r.Failure == "" && r.Article.Text != ""
}

// Succeeded returns the articles of successful results, preserving order.
func Succeeded(results []FetchResult) []Article {
	articles := make([]Article, 0, len(results))
	for _, r := range results {
		if r.OK() {
			articles = append(articles, r.Article)
		}
	}
	return articles
}
