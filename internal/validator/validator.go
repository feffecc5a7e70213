package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"EdTechDigest/internal/domain"
	"EdTechDigest/internal/ports"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s<>"'()\[\]]+`)
	sentenceSplit = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

	// Open-ended instructions left in brackets: [insert example], [TODO: add quote].
	instructionPattern = regexp.MustCompile(`(?i)\[(?:insert|todo|tbd|placeholder|citation needed)\b[^\]\n]{0,80}\]`)

	// Bare template slots: [Article], [Source Name], [URL], {{theme}}.
	slotPattern     = regexp.MustCompile(`(?i)\[(?:article|source|name|url|link|date|company|author|title|quote)(?: (?:name|here|url|link|title|\d+))?\]`)
	mustachePattern = regexp.MustCompile(`\{\{[^}\n]{0,80}\}\}`)
)

type namedSource struct {
	Source
	pattern *regexp.Regexp
}

// Validator applies static quality checks to a digest. It holds no mutable
// state, so Validate is a pure function of the text.
type Validator struct {
	rules   Rules
	markers []string
	matcher *ahocorasick.Matcher
	sources []namedSource
}

var _ ports.DigestValidator = (*Validator)(nil)

// New compiles the placeholder dictionary and source name patterns.
func New(rules Rules) *Validator {
	v := &Validator{rules: rules}

	seen := map[string]bool{}
	for _, marker := range rules.Placeholders {
		m := strings.ToLower(strings.TrimSpace(marker))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		v.markers = append(v.markers, m)
	}
	if len(v.markers) > 0 {
		v.matcher = ahocorasick.NewStringMatcher(v.markers)
	}

	// Names may begin or end with punctuation ("K-12 Dive+"), where \b would not match.
	for _, src := range rules.Sources {
		v.sources = append(v.sources, namedSource{
			Source:  src,
			pattern: regexp.MustCompile(`(?i)(?:^|\W)` + regexp.QuoteMeta(src.Name) + `(?:\W|$)`),
		})
	}

	return v
}

// Validate runs every check and accumulates the reasons; nothing short-circuits.
func (v *Validator) Validate(text string) domain.Verdict {
	var reasons []string

	words := len(strings.Fields(text))
	if v.rules.MaxWords > 0 && (words < v.rules.MinWords || words > v.rules.MaxWords) {
		reasons = append(reasons, fmt.Sprintf("word count out of range: got %d, want %d-%d",
			words, v.rules.MinWords, v.rules.MaxWords))
	}

	citations := v.countCitations(text)
	if need := v.requiredCitations(); citations < need {
		reasons = append(reasons, fmt.Sprintf("insufficient citations: got %d, need ≥%d", citations, need))
	}

	for _, token := range v.placeholders(text) {
		reasons = append(reasons, fmt.Sprintf("placeholder text detected: %s", token))
	}

	verdict := domain.NewVerdict(reasons)
	verdict.Words = words
	verdict.Citations = citations
	return verdict
}

func (v *Validator) requiredCitations() int {
	need := v.rules.MinCitations
	if n := v.rules.ExpectedSources; n > 0 && n < need {
		need = n
	}
	return need
}

// countCitations counts distinct URLs plus named sources whose domain has no URL in the text.
func (v *Validator) countCitations(text string) int {
	cited := map[string]bool{}
	urlDomains := map[string]bool{}

	for _, raw := range urlPattern.FindAllString(text, -1) {
		raw = strings.TrimRight(raw, ".,;:!?")
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
		cited[host+strings.TrimSuffix(parsed.EscapedPath(), "/")] = true
		urlDomains[registrableDomain(host)] = true
	}

	for _, src := range v.sources {
		if urlDomains[src.Domain] || cited["source:"+src.Domain] {
			continue
		}
		if src.pattern.MatchString(text) {
			cited["source:"+src.Domain] = true
		}
	}

	return len(cited)
}

// placeholders returns each distinct filler token found, in detection order.
func (v *Validator) placeholders(text string) []string {
	var tokens []string
	seen := map[string]bool{}
	add := func(token string) {
		key := strings.ToLower(token)
		if seen[key] {
			return
		}
		seen[key] = true
		tokens = append(tokens, token)
	}

	for _, pattern := range []*regexp.Regexp{instructionPattern, slotPattern, mustachePattern} {
		for _, match := range pattern.FindAllString(text, -1) {
			add(match)
		}
	}

	if v.matcher != nil {
		for _, idx := range v.matcher.Match([]byte(strings.ToLower(text))) {
			if idx < len(v.markers) {
				add(v.markers[idx])
			}
		}
	}

	for _, sentence := range v.repeatedSentences(text) {
		add(sentence)
	}

	return tokens
}

// repeatedSentences finds sentences of at least RepeatedSentenceWords words that occur more than once.
func (v *Validator) repeatedSentences(text string) []string {
	if v.rules.RepeatedSentenceWords <= 0 {
		return nil
	}

	counts := map[string]int{}
	var repeated []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		fields := strings.Fields(strings.ToLower(sentence))
		if len(fields) < v.rules.RepeatedSentenceWords {
			continue
		}
		key := strings.Join(fields, " ")
		counts[key]++
		if counts[key] == 2 {
			repeated = append(repeated, abbreviate(key, 60))
		}
	}
	return repeated
}

func abbreviate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
