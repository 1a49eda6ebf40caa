package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/savearn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders one block character per value, scaled to the peak.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := maxOf(values)
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// yScale is a rounded value axis for BarChart.
type yScale struct {
	step      float64
	ceiling   float64
	intervals int
}

// niceScale picks a round tick step so that at most maxIntervals ticks fit.
func niceScale(peak float64, maxIntervals int) yScale {
	step := tickStep(peak)
	for int(math.Ceil(peak/step)) > maxIntervals {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	n := int(math.Round(ceiling / step))
	if n < 1 {
		n = 1
	}
	return yScale{step: step, ceiling: ceiling, intervals: n}
}

// BarChart renders vertical bars over a dollar axis, with optional x labels.
// Narrow or short areas fall back to a sparkline.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := maxOf(values)
	if peak <= 0 {
		peak = 1
	}
	scale := niceScale(peak, max(height/2, 2))
	rowsPerTick := max(height/scale.intervals, 2)
	chartH := rowsPerTick * scale.intervals

	yLabelW := max(len(MoneyTick(scale.ceiling))+1, 4)
	ticks := make(map[int]string, scale.intervals)
	for i := 1; i <= scale.intervals; i++ {
		ticks[i*rowsPerTick] = MoneyTick(scale.step * float64(i))
	}

	chartW := max(width-yLabelW-1, 5)
	values, labels, barW, gap := fitBars(values, labels, chartW)
	n := len(values)
	axisLen := n*barW + max(0, n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	eighths := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := scale.ceiling * float64(row) / float64(chartH)
		bottom := scale.ceiling * float64(row-1) / float64(chartH)

		barColor := color
		if float64(row)/float64(chartH) > 0.8 {
			barColor = t.EarnedBright
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, ticks[row])))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(eighths[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└", yLabelW, "$0")))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n && n > 0 {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// fitBars sizes bars to the available width, down-sampling the series when
// even two-column bars would not fit.
func fitBars(values []float64, labels []string, chartW int) ([]float64, []string, int, int) {
	n := len(values)
	if n == 1 {
		return values, labels, min(chartW, 6), 0
	}
	gap := 1
	barW := (chartW - (n - 1)) / n
	if barW < 2 {
		keep := max((chartW+1)/3, 2)
		sampled := make([]float64, keep)
		var sampledLabels []string
		if len(labels) == n {
			sampledLabels = make([]string, keep)
		}
		for i := range sampled {
			src := i * (n - 1) / (keep - 1)
			sampled[i] = values[src]
			if sampledLabels != nil {
				sampledLabels[i] = labels[src]
			}
		}
		return sampled, sampledLabels, 2, gap
	}
	return values, labels, min(barW, 6), gap
}

// xAxisLabels places labels under their bars, skipping any that would
// collide, and always tries to show the last one.
func xAxisLabels(labels []string, stride, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	n := len(labels)
	every := max(1, (n*8)/(axisLen+1))

	lastEnd := -1
	place := func(pos int, lbl string) bool {
		r := []rune(lbl)
		if pos+len(r) > axisLen {
			pos = axisLen - len(r)
		}
		if pos < 0 || pos <= lastEnd {
			return false
		}
		copy(buf[pos:], r)
		lastEnd = pos + len(r)
		return true
	}
	for i := 0; i < n-1; i += every {
		place(i*stride, labels[i])
	}
	if n > 0 {
		place((n-1)*stride, labels[n-1])
	}
	return strings.TrimRight(string(buf), " ")
}

// tickStep returns a 1, 2 or 5 multiple of a power of ten near peak/5.
func tickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// MoneyTick formats an axis value compactly: $5, $1.5k, $2M, $0.50.
func MoneyTick(v float64) string {
	whole := func(x float64) bool { return x == math.Trunc(x) }
	switch {
	case v >= 1e6:
		if whole(v / 1e6) {
			return fmt.Sprintf("$%.0fM", v/1e6)
		}
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		if whole(v / 1e3) {
			return fmt.Sprintf("$%.0fk", v/1e3)
		}
		return fmt.Sprintf("$%.1fk", v/1e3)
	case v >= 1 || v == 0:
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	return peak
}
