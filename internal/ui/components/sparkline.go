package components

import "strings"

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline squeezes values into at most width cells, sampling
// evenly when there are more values than cells.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	cells := min(width, len(values))
	step := float64(len(values)) / float64(cells)

	var b strings.Builder
	for i := range cells {
		v := max(values[int(float64(i)*step)], 0)
		level := min(int(v/peak*float64(len(sparkLevels)-1)), len(sparkLevels)-1)
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}
