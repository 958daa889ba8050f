// Package render turns score mappings and intensity series into fixed-width
// ASCII graphics suitable for an activity description.
package render

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultWidth is the glyph width of every bar and sparkline in a description.
const DefaultWidth = 16

const (
	barFilled = "█"
	barEmpty  = "─"
)

// sparkGlyphs is ordered from lowest to highest intensity.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// Resample stretches or squeezes series to exactly width points using linear
// interpolation between the nearest source samples.
func Resample(series []float64, width int) []float64 {
	if width <= 0 {
		return []float64{}
	}
	out := make([]float64, width)
	switch {
	case len(series) == 0:
		return out
	case len(series) == 1 || width == 1:
		for i := range out {
			out[i] = series[0]
		}
		return out
	}

	last := len(series) - 1
	for i := range out {
		pos := float64(i*last) / float64(width-1)
		low := min(int(math.Floor(pos)), last)
		high := min(int(math.Ceil(pos)), last)
		if low == high {
			out[i] = series[low]
			continue
		}
		frac := pos - float64(low)
		out[i] = series[low] + (series[high]-series[low])*frac
	}
	return out
}

// Bars renders one bar per category, ordered by descending key. Values are
// expected in [0,1]; anything outside is clamped so every bar is exactly width
// glyphs long.
func Bars(mapping map[string]float64, width int) string {
	if width < 0 {
		width = 0
	}
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	var b strings.Builder
	for _, key := range keys {
		filled := filledCount(mapping[key], width)
		b.WriteString(strings.Repeat(barFilled, filled))
		b.WriteString(strings.Repeat(barEmpty, width-filled))
		b.WriteByte(' ')
		b.WriteString(Label(key))
		b.WriteByte('\n')
	}
	return b.String()
}

func filledCount(value float64, width int) int {
	if math.IsNaN(value) {
		return 0
	}
	n := math.Floor(value * float64(width))
	switch {
	case n < 0:
		return 0
	case n > float64(width):
		return width
	default:
		return int(n)
	}
}

// Label converts a category key such as "hip_openers" into "Hip Openers".
func Label(key string) string {
	spaced := strings.ReplaceAll(strings.TrimSpace(key), "_", " ")
	return cases.Title(language.English).String(spaced)
}

// Sparkline renders series as a single line of width block glyphs scaled
// between the series minimum and maximum.
func Sparkline(series []float64, width int) string {
	values := Resample(series, width)
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return strings.Repeat(string(sparkGlyphs[0]), len(values))
	}

	top := len(sparkGlyphs) - 1
	binWidth := 1.0 / float64(top)
	glyphs := make([]rune, len(values))
	for i, v := range values {
		normalized := (v - lo) / (hi - lo)
		idx := int(normalized / binWidth)
		if idx > top {
			idx = top
		}
		if idx < 0 {
			idx = 0
		}
		glyphs[i] = sparkGlyphs[idx]
	}
	return string(glyphs)
}
