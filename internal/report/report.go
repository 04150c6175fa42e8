// Package report renders a pipeline snapshot for the terminal without the TUI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/suggest"
)

const (
	defaultTopN   = 10
	maxTitleWidth = 60
)

// Options configures a Printer.
type Options struct {
	// TopN caps the rows of the video, hashtag and keyword tables.
	TopN      int
	UseColors bool
}

// Printer writes snapshots as plain-text tables or JSON.
type Printer struct {
	out  io.Writer
	opts Options
}

// NewPrinter creates a printer writing to stdout.
func NewPrinter(opts Options) *Printer {
	return NewPrinterWithWriter(os.Stdout, opts)
}

// NewPrinterWithWriter creates a printer writing to w.
func NewPrinterWithWriter(w io.Writer, opts Options) *Printer {
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	return &Printer{out: w, opts: opts}
}

// ColorsFor reports whether colored output should be used on f.
func ColorsFor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func (p *Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.opts.UseColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (p *Printer) heading(title string) {
	p.paint(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
	fmt.Fprintln(p.out, strings.Repeat("─", len([]rune(title))))
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func (p *Printer) table(header []string, rows [][]string) error {
	t := newTable(p.out)
	t.Header(header)
	if err := t.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	if err := t.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Print writes snap as tables.
func (p *Printer) Print(snap models.Snapshot) error {
	b := snap.Batch

	title := fmt.Sprintf("Trending in %s", b.Region)
	if !b.FetchedAt.IsZero() {
		title += " · fetched " + humanize.Time(b.FetchedAt)
	}
	if b.Cached {
		title += " (cached)"
	}
	p.heading(title)

	if b.Err != nil {
		p.paint(color.FgRed).Fprintf(p.out, "✗ Failed to fetch trending videos: %v\n", b.Err)
	}
	if b.IsEmpty() {
		p.paint(color.FgYellow).Fprintln(p.out, "⚠ No trending videos")
	} else if err := p.printItems(b.Items); err != nil {
		return err
	}

	if err := p.printCounts(snap.Analysis); err != nil {
		return err
	}
	p.printSuggestions(snap.Analysis, snap.Suggestions)
	return p.printHours(snap.Hours)
}

func (p *Printer) printItems(items []models.TrendingItem) error {
	rows := make([][]string, 0, min(len(items), p.opts.TopN))
	for i, item := range items {
		if i == p.opts.TopN {
			break
		}
		published := ""
		if !item.PublishedAt.IsZero() {
			published = humanize.Time(item.PublishedAt)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(item.Title, maxTitleWidth),
			item.ChannelTitle,
			humanize.Comma(int64(item.Statistics.ViewCount)),
			published,
		})
	}
	return p.table([]string{"#", "Title", "Channel", "Views", "Published"}, rows)
}

func (p *Printer) printCounts(a models.Analysis) error {
	p.heading("Top Hashtags")
	if len(a.Hashtags) == 0 {
		fmt.Fprintln(p.out, "No hashtags found")
	} else {
		rows := make([][]string, 0, p.opts.TopN)
		for i, h := range a.Hashtags {
			if i == p.opts.TopN {
				break
			}
			rows = append(rows, []string{h.Tag, strconv.Itoa(h.Count)})
		}
		if err := p.table([]string{"Hashtag", "Count"}, rows); err != nil {
			return err
		}
	}

	p.heading("Top Keywords")
	if len(a.Keywords) == 0 {
		fmt.Fprintln(p.out, "No keywords found")
		return nil
	}
	rows := make([][]string, 0, p.opts.TopN)
	for _, k := range a.TopKeywords(p.opts.TopN) {
		rows = append(rows, []string{k.Word, strconv.Itoa(k.Count)})
	}
	return p.table([]string{"Keyword", "Count"}, rows)
}

func (p *Printer) printSuggestions(a models.Analysis, sg models.Suggestions) {
	p.heading("Suggestions")
	if len(sg.Titles) == 0 {
		fmt.Fprintln(p.out, "No base text given, pass --base to generate titles")
	} else {
		if suggest.UsedFallback(a) {
			p.paint(color.FgYellow).Fprintln(p.out, "⚠ No hooks in this batch, using stock hooks")
		}
		for i, t := range sg.Titles {
			fmt.Fprintf(p.out, "%2d. %s\n", i+1, t)
		}
	}
	if len(sg.Hashtags) > 0 {
		p.paint(color.FgCyan).Fprintln(p.out, strings.Join(sg.Hashtags, " "))
	}
}

func (p *Printer) printHours(h models.HourInsight) error {
	p.heading("Best Hours to Upload")
	if len(h.BestHours) == 0 {
		p.paint(color.FgYellow).Fprintln(p.out, "⚠ No upload hours recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(h.BestHours))
	for _, bh := range h.BestHours {
		share := 0.0
		if h.TotalSamples > 0 {
			share = float64(bh.Count) / float64(h.TotalSamples) * 100
		}
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", bh.Hour),
			humanize.Comma(int64(bh.Count)),
			fmt.Sprintf("%.0f%%", share),
		})
	}
	if err := p.table([]string{"Hour", "Uploads", "Share"}, rows); err != nil {
		return err
	}

	if h.AlertActive {
		p.paint(color.FgGreen, color.Bold).Fprintf(p.out, "✓ Now (%02d:00) is one of the best hours to upload\n", h.CurrentHour)
	}
	return nil
}

// jsonSnapshot is the --json document.
type jsonSnapshot struct {
	FetchedAt   time.Time       `json:"fetched_at"`
	RunID       string          `json:"run_id,omitempty"`
	Region      string          `json:"region"`
	Error       string          `json:"error,omitempty"`
	Cached      bool            `json:"cached"`
	Items       []jsonItem      `json:"items"`
	Hashtags    []jsonCount     `json:"hashtags"`
	Keywords    []jsonCount     `json:"keywords"`
	Hooks       []string        `json:"hooks"`
	Titles      []string        `json:"titles"`
	Suggested   []string        `json:"suggested_hashtags"`
	BestHours   []jsonHourCount `json:"best_hours"`
	AlertActive bool            `json:"alert_active"`
	WordCloud   string          `json:"word_cloud,omitempty"`
}

type jsonItem struct {
	PublishedAt time.Time `json:"published_at"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	Views       uint64    `json:"views"`
}

type jsonCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type jsonHourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// PrintJSON writes snap as an indented JSON document.
func (p *Printer) PrintJSON(snap models.Snapshot) error {
	b := snap.Batch
	doc := jsonSnapshot{
		FetchedAt:   b.FetchedAt,
		RunID:       b.RunID,
		Region:      b.Region,
		Cached:      b.Cached,
		Items:       make([]jsonItem, 0, len(b.Items)),
		Hashtags:    make([]jsonCount, 0, len(snap.Analysis.Hashtags)),
		Keywords:    make([]jsonCount, 0, len(snap.Analysis.Keywords)),
		Hooks:       nonNil(snap.Analysis.Hooks),
		Titles:      nonNil(snap.Suggestions.Titles),
		Suggested:   nonNil(snap.Suggestions.Hashtags),
		BestHours:   make([]jsonHourCount, 0, len(snap.Hours.BestHours)),
		AlertActive: snap.Hours.AlertActive,
		WordCloud:   snap.WordCloud,
	}
	if b.Err != nil {
		doc.Error = b.Err.Error()
	}
	for _, it := range b.Items {
		doc.Items = append(doc.Items, jsonItem{
			PublishedAt: it.PublishedAt,
			ID:          it.ID,
			Title:       it.Title,
			Channel:     it.ChannelTitle,
			Views:       it.Statistics.ViewCount,
		})
	}
	for _, h := range snap.Analysis.Hashtags {
		doc.Hashtags = append(doc.Hashtags, jsonCount{Value: h.Tag, Count: h.Count})
	}
	for _, k := range snap.Analysis.Keywords {
		doc.Keywords = append(doc.Keywords, jsonCount{Value: k.Word, Count: k.Count})
	}
	for _, bh := range snap.Hours.BestHours {
		doc.BestHours = append(doc.BestHours, jsonHourCount(bh))
	}

	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// PrintHistory writes the hour distribution and store statistics.
func (p *Printer) PrintHistory(tr models.TimeRange, dist [models.HoursPerDay]int, stats models.StoreStats) error {
	p.heading("Upload Hours · " + tr.String())

	if !stats.FirstRecorded.IsZero() {
		fmt.Fprintf(p.out, "%s samples (%s raw) since %s, %d fetch runs (%d failed)\n",
			humanize.Comma(int64(stats.TotalSamples)),
			humanize.Comma(int64(stats.RawSamples)),
			stats.FirstRecorded.Format("Jan 2, 2006"),
			stats.FetchRuns, stats.FailedRuns)
	}

	total := 0
	for _, c := range dist {
		total += c
	}
	if total == 0 {
		p.paint(color.FgYellow).Fprintln(p.out, "⚠ No upload hours recorded in this range")
		return nil
	}

	rows := make([][]string, 0, models.HoursPerDay)
	for hour, c := range dist {
		if c == 0 {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", hour),
			humanize.Comma(int64(c)),
			fmt.Sprintf("%.1f%%", float64(c)/float64(total)*100),
		})
	}
	return p.table([]string{"Hour", "Uploads", "Share"}, rows)
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	p.paint(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
}
