package sweep

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EchartsAssetsHost is where rendered pages load the echarts bundle from.
const EchartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// RenderHTML writes an interactive HTML report for a completed sweep to w.
// The page carries a jam-probability line chart with the fitted trend and a
// bar chart of how long jams took to form at each ratio.
func RenderHTML(res *Result, w io.Writer) error {
	if res == nil || len(res.Ratios) == 0 {
		return fmt.Errorf("no results to report")
	}

	page := components.NewPage()
	page.SetAssetsHost(EchartsAssetsHost)
	page.AddCharts(ProbabilityLine(res.Ratios, res.Request.Trials), MeanTicksBar(res.Ratios))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render sweep report: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ProbabilityLine builds the jam-probability-vs-ratio line chart, with the
// fitted trend as a second dashed series when there is one to fit. The API
// server reuses it for stored runs, so it takes the summaries directly.
func ProbabilityLine(ratios []RatioResult, trials int) *charts.Line {
	x := make([]string, len(ratios))
	measured := make([]opts.LineData, len(ratios))
	for i, rr := range ratios {
		x[i] = fmt.Sprintf("%.1f", rr.Ratio)
		measured[i] = opts.LineData{Value: rr.JamProbability}
	}

	alpha, beta := TrendLine(ratios)
	subtitle := fmt.Sprintf("%d trials per ratio, trend y=%.3fx+%.3f", trials, beta, alpha)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Highway Sweep", Theme: "dark", Width: "900px", Height: "500px", AssetsHost: EchartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Traffic Jam Probability vs Bad Practice Ratio", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Bad Practice Ratio", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "Jam Probability", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(x).
		AddSeries("jam probability", measured,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2e86ab"}),
		)
	if len(ratios) > 1 {
		trend := make([]opts.LineData, len(ratios))
		for i, rr := range ratios {
			trend[i] = opts.LineData{Value: alpha + beta*rr.Ratio}
		}
		line.AddSeries("trend", trend,
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#c73e1d"}),
		)
	}
	return line
}

// MeanTicksBar builds the mean-ticks-to-jam bar chart over the sweep's
// ratios. Ratios where no trial jammed show as zero-height bars.
func MeanTicksBar(ratios []RatioResult) *charts.Bar {
	x := make([]string, len(ratios))
	y := make([]opts.BarData, len(ratios))
	for i, rr := range ratios {
		x[i] = fmt.Sprintf("%.1f", rr.Ratio)
		y[i] = opts.BarData{Value: rr.MeanTicksToJam}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px", AssetsHost: EchartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Mean Ticks To Jam", Subtitle: "jammed trials only"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("mean ticks", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#f18f01"}),
		)
	return bar
}
