package api

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/lanesim/internal/sweep"
)

// handleHighwayChart renders the live car positions as an echarts scatter
// (HTML). Each point is one car at (position, lane); free movers, middle
// lane hoggers, and blocked cars get their own series so the mix is
// visible at a glance.
func (s *Server) handleHighwayChart(w http.ResponseWriter, r *http.Request) {
	if s.host == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no simulation configured")
		return
	}

	state := s.host.State()
	cars := s.host.Cars()

	var free, hoggers, blocked []opts.ScatterData
	for _, c := range cars {
		point := opts.ScatterData{Value: []interface{}{c.Position, int(c.Lane), c.Speed}}
		switch {
		case c.Blocked:
			blocked = append(blocked, point)
		case c.FollowsBadPractice:
			hoggers = append(hoggers, point)
		default:
			free = append(free, point)
		}
	}

	subtitle := fmt.Sprintf("tick=%d cars=%d blocked=%d", state.Tick, state.CarCount, state.BlockedCount)
	if state.JamDetected {
		subtitle += "  TRAFFIC JAM DETECTED"
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Highway", Theme: "dark", Width: "1200px", Height: "360px", AssetsHost: sweep.EchartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Highway Occupancy", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: state.Config.HighwayLength, Name: "Position (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -0.5, Max: 2.5, Name: "Lane (0=right 1=middle 2=left)", NameGap: 30}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	scatter.AddSeries("free", free,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2e86ab"}))
	scatter.AddSeries("middle lane hogger", hoggers,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#a23b72"}))
	scatter.AddSeries("blocked", blocked,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#f18f01"}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleJamProbabilityChart renders the probability curve of a stored
// sweep. Query params:
//
//	run (optional; defaults to the most recent stored run)
func (s *Server) handleJamProbabilityChart(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "No database configured")
		return
	}

	var runID int64
	if q := r.URL.Query().Get("run"); q != "" {
		parsed, err := strconv.ParseInt(q, 10, 64)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'run' parameter")
			return
		}
		runID = parsed
	} else {
		runs, err := s.db.ListSweepRuns(1)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list sweep runs: %v", err))
			return
		}
		if len(runs) == 0 {
			s.writeJSONError(w, http.StatusNotFound, "no sweep runs stored yet")
			return
		}
		runID = runs[0].ID
	}

	run, results, err := s.db.GetSweepRun(runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("sweep run %d not found", runID))
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load sweep run: %v", err))
		return
	}
	if len(results) == 0 {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("sweep run %d has no results", runID))
		return
	}

	page := components.NewPage()
	page.SetAssetsHost(sweep.EchartsAssetsHost)
	page.AddCharts(sweep.ProbabilityLine(results, run.Trials), sweep.MeanTicksBar(results))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
