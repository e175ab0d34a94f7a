package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/naka-gawa/devops-phase-stats/internal/domain"
)

var defaultBarColor = color.RGBA{R: 0x42, G: 0x85, B: 0xf4, A: 0xff}

// Bar is one bar of the histogram.
type Bar struct {
	Label string
	Count int
	Color string
}

// HistogramFileName returns the chart file name for the month of now.
func HistogramFileName(now time.Time) string {
	return fmt.Sprintf("generator_histogram_M%02d.png", int(now.Month()))
}

// SelectBars picks the bars to draw: labels with a non-zero count, or every
// label when all counts are zero, sorted by count descending. Ties keep the
// order of labels.
func SelectBars(counts domain.LabelCounts, labels []domain.Label) []Bar {
	all := make([]Bar, 0, len(labels))
	nonZero := make([]Bar, 0, len(labels))
	for _, l := range labels {
		bar := Bar{Label: l.Name, Count: counts[l.Name], Color: l.Color}
		all = append(all, bar)
		if bar.Count > 0 {
			nonZero = append(nonZero, bar)
		}
	}

	bars := nonZero
	if len(bars) == 0 {
		bars = all
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Count > bars[j].Count
	})
	return bars
}

// SaveHistogram draws bars as a PNG bar chart titled with the date of now
// and writes it to dir, replacing any file of the same name. It returns the
// path of the written file.
func SaveHistogram(dir string, bars []Bar, now time.Time) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Issues per label (%s)", now.Format("2006-01-02"))
	p.Y.Label.Text = "Issues"
	p.Y.Min = 0

	names := make([]string, len(bars))
	xys := make(plotter.XYs, len(bars))
	texts := make([]string, len(bars))
	peak := 0
	for i, bar := range bars {
		chart, err := plotter.NewBarChart(plotter.Values{float64(bar.Count)}, vg.Points(36))
		if err != nil {
			return "", fmt.Errorf("failed to build bar for %q: %w", bar.Label, err)
		}
		chart.XMin = float64(i)
		chart.Color = parseHexColor(bar.Color)
		chart.LineStyle.Width = vg.Length(0)
		p.Add(chart)

		names[i] = bar.Label
		xys[i].X = float64(i)
		xys[i].Y = float64(bar.Count)
		texts[i] = strconv.Itoa(bar.Count)
		if bar.Count > peak {
			peak = bar.Count
		}
	}
	p.NominalX(names...)
	p.Y.Max = math.Max(float64(peak+1), math.Ceil(float64(peak)*1.1))
	p.Y.Tick.Marker = countTicks{}

	if len(bars) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return "", fmt.Errorf("failed to build bar annotations: %w", err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YBottom
		}
		labels.Offset = vg.Point{Y: vg.Points(3)}
		p.Add(labels)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, HistogramFileName(now))
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save histogram: %w", err)
	}
	return path, nil
}

// countTicks marks the y axis at whole issue counts only, every 1, 2 or 5
// times a power of ten so that at most ten intervals are labelled.
type countTicks struct{}

func (countTicks) Ticks(from, to float64) []plot.Tick {
	lo := int(math.Ceil(math.Max(from, 0)))
	hi := int(math.Floor(to))
	if hi < lo {
		return nil
	}
	step := 1
	for i := 0; (hi-lo)/step > 10; i++ {
		step = []int{2, 5, 10}[i%3] * int(math.Pow10(i/3))
	}
	first := (lo + step - 1) / step * step
	ticks := make([]plot.Tick, 0, (hi-first)/step+1)
	for v := first; v <= hi; v += step {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}

func parseHexColor(s string) color.Color {
	if len(s) != 6 {
		return defaultBarColor
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return defaultBarColor
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
