package analyzer

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// HookPolicy controls how hook phrases are split out of titles.
type HookPolicy struct {
	Version    string
	Delimiters string
	MinWords   int
	MaxChars   int
	Limit      int
	// RankByFrequency orders hooks by how many titles contain them.
	// Otherwise hooks keep first-seen order.
	RankByFrequency bool
}

var (
	// PolicyV1 splits on '|' only and keeps up to 7 hooks in first-seen order.
	PolicyV1 = HookPolicy{
		Version:    "v1",
		Delimiters: "|",
		MinWords:   3,
		MaxChars:   80,
		Limit:      7,
	}

	// PolicyV2 splits on the full delimiter set and keeps the 10 most frequent hooks.
	PolicyV2 = HookPolicy{
		Version:         "v2",
		Delimiters:      "|:;-\n",
		MinWords:        3,
		MaxChars:        80,
		Limit:           10,
		RankByFrequency: true,
	}
)

// DefaultPolicy is the policy used when none is configured.
var DefaultPolicy = PolicyV2

// PolicyFor returns the policy for a version name.
func PolicyFor(version string) (HookPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(version)) {
	case "", "v2":
		return PolicyV2, nil
	case "v1":
		return PolicyV1, nil
	default:
		return HookPolicy{}, fmt.Errorf("unknown hook policy %q (want v1 or v2)", version)
	}
}

// accepts reports whether a trimmed fragment fits the policy's window.
func (p HookPolicy) accepts(fragment string) bool {
	if fragment == "" || utf8.RuneCountInString(fragment) >= p.MaxChars {
		return false
	}
	return len(strings.Fields(fragment)) >= p.MinWords
}

func (p HookPolicy) split(title string) []string {
	return strings.FieldsFunc(title, func(r rune) bool {
		return strings.ContainsRune(p.Delimiters, r)
	})
}

// ExtractHooks splits titles into short phrases. Duplicates are detected
// case-insensitively and the first spelling seen is kept.
func ExtractHooks(titles []string, policy HookPolicy) []string {
	type hook struct {
		text  string
		count int
	}

	var hooks []*hook
	index := make(map[string]*hook)

	for _, title := range titles {
		for _, fragment := range policy.split(title) {
			fragment = strings.Join(strings.Fields(fragment), " ")
			if !policy.accepts(fragment) {
				continue
			}
			key := strings.ToLower(fragment)
			if h, ok := index[key]; ok {
				h.count++
				continue
			}
			h := &hook{text: fragment, count: 1}
			index[key] = h
			hooks = append(hooks, h)
		}
	}

	if policy.RankByFrequency {
		slices.SortStableFunc(hooks, func(a, b *hook) int {
			return b.count - a.count
		})
	}

	if policy.Limit > 0 && len(hooks) > policy.Limit {
		hooks = hooks[:policy.Limit]
	}

	out := make([]string, 0, len(hooks))
	for _, h := range hooks {
		out = append(out, h.text)
	}
	return out
}
