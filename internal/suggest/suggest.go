// Package suggest builds title and hashtag suggestions from analysis output.
package suggest

import (
	"strings"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

// MaxDerivedHashtags is the number of keyword hashtags appended to the base set.
const MaxDerivedHashtags = 5

// BaseHashtags are always suggested first.
var BaseHashtags = []string{"#shorts", "#viral", "#trending"}

// FallbackHooks are used when the batch produced no hooks.
var FallbackHooks = []string{
	"You Won't Believe",
	"Top 5",
	"Watch Till The End",
	"This Changed Everything",
	"Must Watch",
}

// GenerateTitles returns one "{hook} | {base}" title per hook. An empty base
// yields nothing; no hooks falls back to FallbackHooks.
func GenerateTitles(base string, hooks []string) []string {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil
	}
	if len(hooks) == 0 {
		hooks = FallbackHooks
	}

	titles := make([]string, 0, len(hooks))
	for _, hook := range hooks {
		titles = append(titles, hook+" | "+base)
	}
	return titles
}

// GenerateHashtags returns BaseHashtags followed by up to five '#word' tags
// built from the top keywords.
func GenerateHashtags(keywords []models.KeywordCount) []string {
	tags := make([]string, 0, len(BaseHashtags)+MaxDerivedHashtags)
	tags = append(tags, BaseHashtags...)

	for i, kw := range keywords {
		if i == MaxDerivedHashtags {
			break
		}
		tags = append(tags, "#"+kw.Word)
	}
	return tags
}

// Suggest builds titles and hashtags for base from an analysis.
func Suggest(base string, analysis models.Analysis) models.Suggestions {
	return models.Suggestions{
		Base:     strings.TrimSpace(base),
		Titles:   GenerateTitles(base, analysis.Hooks),
		Hashtags: GenerateHashtags(analysis.Keywords),
	}
}

// UsedFallback reports whether titles for this analysis come from FallbackHooks.
func UsedFallback(analysis models.Analysis) bool {
	return len(analysis.Hooks) == 0
}
