package validator

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"EdTechDigest/internal/config"
	"EdTechDigest/internal/domain"
)

// Source is a publication the digest may cite by name.
type Source struct {
	Name   string
	Domain string
}

// Rules configures a Validator. Zero MaxWords disables the length check and
// zero RepeatedSentenceWords disables the boilerplate check.
type Rules struct {
	MinWords              int
	MaxWords              int
	MinCitations          int
	Placeholders          []string
	RepeatedSentenceWords int
	Sources               []Source
	// ExpectedSources caps MinCitations when fewer articles were fetched.
	ExpectedSources int
}

// RulesFromConfig derives source names from the fetched articles' hosts and
// merges the configured aliases.
func RulesFromConfig(cfg config.ValidationConfig, articles []domain.Article) Rules {
	rules := Rules{
		MinWords:              cfg.MinWords,
		MaxWords:              cfg.MaxWords,
		MinCitations:          cfg.MinCitations,
		Placeholders:          cfg.Placeholders,
		RepeatedSentenceWords: cfg.RepeatedSentenceWords,
		ExpectedSources:       len(articles),
	}

	seen := map[string]bool{}
	add := func(name, dom string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name) + "|" + dom
		if name == "" || dom == "" || seen[key] {
			return
		}
		seen[key] = true
		rules.Sources = append(rules.Sources, Source{Name: name, Domain: dom})
	}

	for _, article := range articles {
		parsed, err := url.Parse(article.URL)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		dom := registrableDomain(parsed.Hostname())
		add(siteLabel(dom), dom)
	}

	names := make([]string, 0, len(cfg.SourceAliases))
	for name := range cfg.SourceAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		add(name, registrableDomain(cfg.SourceAliases[name]))
	}

	return rules
}

// registrableDomain reduces a host to its eTLD+1, e.g. marketbrief.edweek.org -> edweek.org.
func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(host), "www."))
	if dom, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return dom
	}
	return host
}

// siteLabel is the first label of a registrable domain: edsurge.com -> edsurge.
func siteLabel(dom string) string {
	if i := strings.IndexByte(dom, '.'); i > 0 {
		return dom[:i]
	}
	return dom
}
