package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EdTechDigest/internal/domain"
)

func TestFetchAllPreservesOrderAndCount(t *testing.T) {
	t.Parallel()

	urls := []string{"https://a.example.com/1", "https://b.example.com/2", "https://c.example.com/3", "https://d.example.com/4"}
	fetcher := &fakeFetcher{pages: map[string]domain.FetchResult{
		urls[0]: okPage(urls[0], "first"),
		urls[2]: okPage(urls[2], "third"),
	}}

	results := FetchAll(context.Background(), fetcher, domain.SourcesFromURLs(urls), nil)

	require.Len(t, results, len(urls))
	for i, res := range results {
		assert.Equal(t, urls[i], res.Source.URL)
	}
	assert.True(t, results[0].OK())
	assert.Equal(t, "HTTP 403", results[1].Failure)
	assert.True(t, results[2].OK())
	assert.False(t, results[3].OK())
	assert.Equal(t, urls, fetcher.calls)

	articles := domain.Succeeded(results)
	require.Len(t, articles, 2)
	assert.Equal(t, "first", articles[0].Text)
	assert.Equal(t, "third", articles[1].Text)
}

func TestFetchAllEmptyInput(t *testing.T) {
	t.Parallel()

	results := FetchAll(context.Background(), &fakeFetcher{}, nil, nil)
	assert.Empty(t, results)
}

func TestFetchAllMarksContentlessSuccessAsFailure(t *testing.T) {
	t.Parallel()

	url := "https://a.example.com/blank"
	fetcher := &fakeFetcher{pages: map[string]domain.FetchResult{url: {}}}

	results := FetchAll(context.Background(), fetcher, domain.SourcesFromURLs([]string{url}), nil)
	require.Len(t, results, 1)
	assert.Equal(t, "no content", results[0].Failure)
}

func TestFetchAllKeepsBlankURLs(t *testing.T) {
	t.Parallel()

	urls := []string{"https://a.example.com/1", "", "  ", "https://b.example.com/2"}
	fetcher := &fakeFetcher{pages: map[string]domain.FetchResult{
		urls[0]: okPage(urls[0], "first"),
		urls[3]: okPage(urls[3], "second"),
	}}

	results := FetchAll(context.Background(), fetcher, domain.SourcesFromURLs(urls), nil)

	require.Len(t, results, len(urls))
	assert.Equal(t, "empty url", results[1].Failure)
	assert.Equal(t, "empty url", results[2].Failure)
	assert.True(t, results[3].OK())
	assert.Equal(t, []string{urls[0], urls[3]}, fetcher.calls, "blank entries never reach the fetcher")
}
