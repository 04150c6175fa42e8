package models

// KeywordCount is a keyword with its occurrence count.
type KeywordCount struct {
	Word  string
	Count int
}

// HashtagCount is a hashtag with its occurrence count across a batch.
type HashtagCount struct {
	Tag   string
	Count int
}

// Analysis is the text analysis derived from one batch.
type Analysis struct {
	Hashtags []HashtagCount
	Keywords []KeywordCount
	Hooks    []string
}

// TopKeywords returns at most n keywords.
func (a Analysis) TopKeywords(n int) []KeywordCount {
	if n < 0 || n >= len(a.Keywords) {
		return a.Keywords
	}
	return a.Keywords[:n]
}

// Suggestions holds generated titles and hashtags for a base text.
type Suggestions struct {
	Base     string
	Titles   []string
	Hashtags []string
}

// IsEmpty reports whether nothing was generated.
func (s Suggestions) IsEmpty() bool {
	return len(s.Titles) == 0 && len(s.Hashtags) == 0
}
