// Package wordcloud renders keyword frequencies as a bitmap word cloud.
package wordcloud

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/j-veylop/trending-dashboard-tui/internal/logger"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

const (
	maxScale   = 6
	minScale   = 1
	padding    = 2
	spiralStep = 0.35
	// spiralTurns bounds the search so a crowded canvas cannot loop forever.
	spiralTurns = 4000
)

var (
	// face covers ASCII and Latin-1 only.
	face = basicfont.Face7x13

	background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	palette = []color.RGBA{
		{R: 0x7D, G: 0x56, B: 0xF4, A: 0xFF},
		{R: 0x04, G: 0xB5, B: 0x75, A: 0xFF},
		{R: 0xE0, G: 0x6C, B: 0x75, A: 0xFF},
		{R: 0x61, G: 0xAF, B: 0xEF, A: 0xFF},
		{R: 0xD1, G: 0x9A, B: 0x66, A: 0xFF},
		{R: 0x56, G: 0xB6, B: 0xC2, A: 0xFF},
	}
)

// Placement is where one word was drawn.
type Placement struct {
	Word  string
	Rect  image.Rectangle
	Scale int
	Color color.RGBA
}

// Layout places words largest first along an outward spiral from the centre.
// Words that do not fit, or that the face has no glyphs for, are dropped.
func Layout(words []models.KeywordCount, width, height int) []Placement {
	if len(words) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	words = slices.DeleteFunc(slices.Clone(words), func(w models.KeywordCount) bool {
		return !Drawable(w.Word)
	})
	maxCount := 0
	for _, w := range words {
		maxCount = max(maxCount, w.Count)
	}

	cx, cy := float64(width)/2, float64(height)/2
	bounds := image.Rect(0, 0, width, height)

	var placed []Placement
	for i, w := range words {
		if w.Word == "" || w.Count <= 0 {
			continue
		}

		scale := scaleFor(w.Count, maxCount)
		textW := font.MeasureString(face, w.Word).Ceil() * scale
		textH := face.Metrics().Height.Ceil() * scale

		for step := range spiralTurns {
			theta := float64(step) * spiralStep
			radius := 2 * theta
			x := int(cx+radius*math.Cos(theta)) - textW/2
			y := int(cy+radius*math.Sin(theta)) - textH/2
			rect := image.Rect(x, y, x+textW, y+textH)

			if !rect.In(bounds) || overlaps(rect, placed) {
				continue
			}
			placed = append(placed, Placement{
				Word:  w.Word,
				Rect:  rect,
				Scale: scale,
				Color: palette[i%len(palette)],
			})
			break
		}
	}
	return placed
}

// Drawable reports whether every rune of word has a glyph in the face.
func Drawable(word string) bool {
	for _, r := range word {
		if !slices.ContainsFunc(face.Ranges, func(rg basicfont.Range) bool {
			return rg.Low <= r && r < rg.High
		}) {
			return false
		}
	}
	return true
}

func scaleFor(count, maxCount int) int {
	if maxCount <= 0 {
		return minScale
	}
	s := minScale + int(math.Round(float64(maxScale-minScale)*float64(count)/float64(maxCount)))
	return min(max(s, minScale), maxScale)
}

func overlaps(r image.Rectangle, placed []Placement) bool {
	padded := r.Inset(-padding)
	for _, p := range placed {
		if padded.Overlaps(p.Rect) {
			return true
		}
	}
	return false
}

// Render draws the word cloud onto a white canvas.
func Render(words []models.KeywordCount, width, height int) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	for _, p := range Layout(words, width, height) {
		glyphs := renderText(face, p.Word, p.Color)
		draw.NearestNeighbor.Scale(canvas, p.Rect, glyphs, glyphs.Bounds(), draw.Over, nil)
	}
	return canvas
}

// renderText draws text at 1x onto a transparent image sized to fit it.
func renderText(face font.Face, text string, c color.RGBA) *image.RGBA {
	w := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	img := image.NewRGBA(image.Rect(0, 0, w, metrics.Height.Ceil()))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(text)
	return img
}

// WritePNG encodes img to path, replacing any existing file atomically.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create word cloud directory: %w", err)
	}

	tmpFile := path + ".tmp"
	f, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode word cloud: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
