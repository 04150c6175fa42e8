// Package analyzer derives hashtag, keyword and hook statistics from a
// trending batch. Every function here is pure.
package analyzer

import (
	"regexp"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

// MaxKeywords is the number of keywords kept.
const MaxKeywords = 20

// minKeywordLen is the shortest token length counted as a keyword.
const minKeywordLen = 3

var (
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{M}\p{N}_]+`)
	wordPattern    = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)
)

// StopWords is the stop-word lookup used when counting keywords.
type StopWords interface {
	Contains(word string) bool
}

// ExtractHashtags returns every '#word' token in text, in order.
func ExtractHashtags(text string) []string {
	return hashtagPattern.FindAllString(text, -1)
}

// CountHashtags counts hashtags over each item's title and description,
// ordered by count with ties kept in first-seen order.
func CountHashtags(items []models.TrendingItem) []models.HashtagCount {
	c := newCounter()
	for _, item := range items {
		for _, tag := range ExtractHashtags(item.Text()) {
			c.add(tag)
		}
	}

	ranked := c.ranked(0)
	out := make([]models.HashtagCount, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, models.HashtagCount{Tag: e.key, Count: e.count})
	}
	return out
}

// ExtractKeywords lower-cases titles, tokenizes them on word boundaries and
// returns the 20 most frequent tokens that are longer than two characters
// and not stop-words.
func ExtractKeywords(titles []string, stop StopWords) []models.KeywordCount {
	lower := cases.Lower(language.Und)
	c := newCounter()

	for _, title := range titles {
		for _, token := range wordPattern.FindAllString(lower.String(title), -1) {
			if utf8.RuneCountInString(token) < minKeywordLen {
				continue
			}
			if stop != nil && stop.Contains(token) {
				continue
			}
			c.add(token)
		}
	}

	ranked := c.ranked(MaxKeywords)
	out := make([]models.KeywordCount, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, models.KeywordCount{Word: e.key, Count: e.count})
	}
	return out
}

// Analyzer runs the full text analysis for a batch.
type Analyzer struct {
	Stop   StopWords
	Policy HookPolicy
}

// New creates an analyzer.
func New(stop StopWords, policy HookPolicy) *Analyzer {
	return &Analyzer{Stop: stop, Policy: policy}
}

// Analyze derives hashtags, keywords and hooks from items.
func (a *Analyzer) Analyze(items []models.TrendingItem) models.Analysis {
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}

	return models.Analysis{
		Hashtags: CountHashtags(items),
		Keywords: ExtractKeywords(titles, a.Stop),
		Hooks:    ExtractHooks(titles, a.Policy),
	}
}

// counter counts keys and remembers the order they were first seen in.
type counter struct {
	index   map[string]int
	entries []counterEntry
}

type counterEntry struct {
	key   string
	count int
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string) {
	if i, ok := c.index[key]; ok {
		c.entries[i].count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, counterEntry{key: key, count: 1})
}

// ranked returns entries by descending count, ties in first-seen order.
// A limit of 0 returns everything.
func (c *counter) ranked(limit int) []counterEntry {
	out := slices.Clone(c.entries)
	slices.SortStableFunc(out, func(a, b counterEntry) int {
		return b.count - a.count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
