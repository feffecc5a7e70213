package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/logging"
	"EdTechDigest/internal/ports"
)

// ErrNoArticles aborts the run before the model is called.
var ErrNoArticles = errors.New("no articles fetched, cannot generate digest")

const synthesisSystemPrompt = "You are an expert EdTech industry analyst writing for product managers who need to understand the business landscape."

// Synthesizer turns the fetched articles into one narrative digest.
type Synthesizer struct {
	model     ports.TextModel
	maxTokens int
	logger    *slog.Logger
}

// NewSynthesizer wires the text model used for the digest call.
func NewSynthesizer(model ports.TextModel, maxTokens int, log *slog.Logger) *Synthesizer {
	if log == nil {
		log = logging.Discard()
	}
	return &Synthesizer{model: model, maxTokens: maxTokens, logger: log}
}

// Synthesize issues exactly one model call. dropped is the number of sources
// that could not be fetched and is mentioned in the prompt.
func (s *Synthesizer) Synthesize(ctx context.Context, articles []domain.Article, dropped int) (domain.Digest, error) {
	if len(articles) == 0 {
		return domain.Digest{}, ErrNoArticles
	}
	if s.model == nil {
		return domain.Digest{}, fmt.Errorf("text model is not configured")
	}

	prompt := buildSynthesisPrompt(articles, dropped)
	s.logger.Info("synthesizing digest", "articles", len(articles), "dropped", dropped, "prompt_chars", len(prompt))

	text, err := s.model.Complete(ctx, ports.Completion{
		System:    synthesisSystemPrompt,
		Prompt:    prompt,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return domain.Digest{}, err
	}

	digest := domain.NewDigest(text)
	if digest.Empty() {
		return domain.Digest{}, fmt.Errorf("model returned an empty digest")
	}
	return digest, nil
}

func buildSynthesisPrompt(articles []domain.Article, dropped int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You have %d articles from this week's EdTech news. ", len(articles))
	b.WriteString("Your job is to synthesize them into a single ~500-word narrative digest.\n\n")
	b.WriteString("Requirements:\n")
	b.WriteString("- Write one engaging, journalistic narrative in prose paragraphs, not a list or bullet points\n")
	b.WriteString("- Synthesize and compare across articles; identify 2-3 key themes instead of summarizing each article on its own\n")
	b.WriteString("- Connect dots between policy, startups, and market trends\n")
	b.WriteString("- Cite specific articles inline by source name and URL, e.g. \"According to EdSurge (URL), ...\"\n")
	b.WriteString("- Never use placeholder or templated filler text such as [insert example] or [Source]\n")
	b.WriteString("- End with one forward-looking insight or implication for PMs\n")
	b.WriteString("- NEVER fabricate quotes or facts; only use information from the articles provided\n")

	for i, article := range articles {
		fmt.Fprintf(&b, "\n--- Article %d ---\n", i+1)
		fmt.Fprintf(&b, "URL: %s\n", article.URL)
		if article.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n", article.Title)
		}
		fmt.Fprintf(&b, "Content: %s\n", article.Text)
	}

	if dropped > 0 {
		fmt.Fprintf(&b, "\nNOTE: %d articles could not be fetched this week due to errors.\n", dropped)
	}

	b.WriteString("\nNow write the digest:")
	return b.String()
}
