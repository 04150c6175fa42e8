// Package models defines data structures and domain types.
package models

import "time"

// Statistics holds the engagement counters reported for a video.
type Statistics struct {
	ViewCount    uint64
	LikeCount    uint64
	CommentCount uint64
}

// TrendingItem is one entry of the regional trending chart.
type TrendingItem struct {
	PublishedAt  time.Time
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	Statistics   Statistics
}

// Text returns the title and description joined by a single space.
func (t TrendingItem) Text() string {
	if t.Description == "" {
		return t.Title
	}
	return t.Title + " " + t.Description
}

// Batch is the result of one fetch of the trending chart.
// A failed fetch yields an empty batch with Err set.
type Batch struct {
	FetchedAt time.Time
	Err       error
	RunID     string
	Region    string
	Items     []TrendingItem
	Cached    bool
}

// IsEmpty reports whether the batch carries no items.
func (b Batch) IsEmpty() bool {
	return len(b.Items) == 0
}

// Titles returns the titles of all items in batch order.
func (b Batch) Titles() []string {
	titles := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		titles = append(titles, item.Title)
	}
	return titles
}

// TotalViews sums the view counts of all items.
func (b Batch) TotalViews() uint64 {
	var total uint64
	for _, item := range b.Items {
		total += item.Statistics.ViewCount
	}
	return total
}
