package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestResampleAlwaysReturnsWidth(t *testing.T) {
	inputs := [][]float64{
		nil,
		{4},
		{1, 2},
		{1, 5, 2, 8, 3},
		make([]float64, 100),
	}
	for _, in := range inputs {
		for _, width := range []int{1, 2, 7, 16, 64} {
			require.Len(t, Resample(in, width), width, "len(in)=%d width=%d", len(in), width)
		}
	}
}

func TestResampleDegenerateInputs(t *testing.T) {
	require.Equal(t, make([]float64, 16), Resample([]float64{}, 16))

	single := Resample([]float64{0.7}, 16)
	for _, v := range single {
		require.Equal(t, 0.7, v)
	}

	require.Empty(t, Resample([]float64{1, 2, 3}, 0))
}

func TestResampleInterpolatesLinearly(t *testing.T) {
	got := Resample([]float64{0, 10}, 5)
	require.InDeltaSlice(t, []float64{0, 2.5, 5, 7.5, 10}, got, 1e-9)

	got = Resample([]float64{0, 10, 0}, 5)
	require.InDeltaSlice(t, []float64{0, 5, 10, 5, 0}, got, 1e-9)
}

func TestResampleKeepsEndpoints(t *testing.T) {
	series := []float64{3, 9, 1, 4, 7, 2, 8}
	got := Resample(series, 16)
	require.Equal(t, 3.0, got[0])
	require.Equal(t, 8.0, got[15])
}

func TestResampleDownsamples(t *testing.T) {
	series := make([]float64, 31)
	for i := range series {
		series[i] = float64(i)
	}
	got := Resample(series, 16)
	for i, v := range got {
		require.InDelta(t, float64(i*2), v, 1e-9)
	}
}

func TestBarsOrderingAndFill(t *testing.T) {
	out := Bars(map[string]float64{"a": 1.0, "b": 0.5}, 16)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)

	require.Equal(t, strings.Repeat("█", 8)+strings.Repeat("─", 8)+" B", lines[0])
	require.Equal(t, strings.Repeat("█", 16)+" A", lines[1])
}

func TestBarsDescendingKeyOrder(t *testing.T) {
	out := Bars(map[string]float64{"balance": 0.2, "strength": 0.4, "flexibility": 0.9}, 8)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasSuffix(lines[0], " Strength"))
	require.True(t, strings.HasSuffix(lines[1], " Flexibility"))
	require.True(t, strings.HasSuffix(lines[2], " Balance"))
}

func TestBarsClampsOutOfRangeValues(t *testing.T) {
	out := Bars(map[string]float64{"over": 1.7, "under": -0.3}, 10)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)

	require.Equal(t, strings.Repeat("─", 10)+" Under", lines[0])
	require.Equal(t, strings.Repeat("█", 10)+" Over", lines[1])
}

func TestBarsEmptyMapping(t *testing.T) {
	require.Equal(t, "", Bars(nil, 16))
}

func TestLabel(t *testing.T) {
	require.Equal(t, "Hip Openers", Label("hip_openers"))
	require.Equal(t, "Core", Label("CORE"))
}

func TestSparklineFlatSignal(t *testing.T) {
	require.Equal(t, strings.Repeat("▁", 16), Sparkline([]float64{5, 5, 5}, 16))
	require.Equal(t, strings.Repeat("▁", 16), Sparkline(nil, 16))
	require.Equal(t, strings.Repeat("▁", 12), Sparkline([]float64{2}, 12))
}

func TestSparklineRampUsesAllGlyphs(t *testing.T) {
	series := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	require.Equal(t, "▁▂▃▄▅▆▇█", Sparkline(series, 8))
}

func TestSparklineWidthAndExtremes(t *testing.T) {
	series := []float64{1, 9, 3, 7, 2, 8, 4}
	line := Sparkline(series, 16)
	require.Equal(t, 16, utf8.RuneCountInString(line))

	runes := []rune(line)
	require.Equal(t, '▁', runes[0])
	require.Contains(t, line, "█")
}
