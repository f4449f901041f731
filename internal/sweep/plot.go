package sweep

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SavePlot renders jam probability against bad-practice ratio to an image
// file. The format is chosen from the file extension (.png, .svg, .pdf).
// A dashed trend line from a least-squares fit is overlaid when the sweep
// covered more than one ratio.
func SavePlot(results []RatioResult, file string) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to plot")
	}

	p := plot.New()
	p.Title.Text = "Traffic Jam Probability vs Bad Practice Ratio"
	p.X.Label.Text = "Bad Practice Ratio (Fraction of Cars)"
	p.Y.Label.Text = "Traffic Jam Probability"
	p.X.Min, p.X.Max = -0.05, 1.05
	p.Y.Min = -0.05

	pts := make(plotter.XYs, len(results))
	for i, rr := range results {
		pts[i] = plotter.XY{X: rr.Ratio, Y: rr.JamProbability}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("create probability line: %w", err)
	}
	line.Color = color.RGBA{R: 0x2e, G: 0x86, B: 0xab, A: 255}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("measured", line)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("create probability scatter: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 0x2e, G: 0x86, B: 0xab, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	if len(results) > 1 {
		alpha, beta := TrendLine(results)
		trendPts := plotter.XYs{
			{X: results[0].Ratio, Y: alpha + beta*results[0].Ratio},
			{X: results[len(results)-1].Ratio, Y: alpha + beta*results[len(results)-1].Ratio},
		}
		trend, err := plotter.NewLine(trendPts)
		if err != nil {
			return fmt.Errorf("create trend line: %w", err)
		}
		trend.Color = color.RGBA{R: 0xc7, G: 0x3e, B: 0x1d, A: 255}
		trend.Width = vg.Points(1)
		trend.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(trend)
		p.Legend.Add(fmt.Sprintf("trend: y=%.3fx+%.3f", beta, alpha), trend)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save probability plot: %w", err)
	}
	return nil
}
