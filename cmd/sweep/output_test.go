package main

import (
	"strings"
	"testing"

	"github.com/banshee-data/lanesim/internal/fsutil"
	"github.com/banshee-data/lanesim/internal/sweep"
)

func cannedResult() *sweep.Result {
	return &sweep.Result{
		Request: sweep.Request{Trials: 2, MaxSteps: 300},
		Ratios: []sweep.RatioResult{
			{Ratio: 0.0, Trials: 2, Jams: 0},
			{Ratio: 1.0, Trials: 2, Jams: 2, JamProbability: 1, MeanTicksToJam: 240.5, StddevTicksToJam: 12.5},
		},
		Raw: []sweep.TrialResult{
			{Ratio: 0.0, Trial: 0, Seed: 1, Jammed: false, Ticks: 300},
			{Ratio: 0.0, Trial: 1, Seed: 2, Jammed: false, Ticks: 300},
			{Ratio: 1.0, Trial: 0, Seed: 3, Jammed: true, Ticks: 228},
			{Ratio: 1.0, Trial: 1, Seed: 4, Jammed: true, Ticks: 253},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()

	rawFilename, err := writeCSV(fs, cannedResult(), "out/summary.csv")
	if err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	if rawFilename != "out/summary-raw.csv" {
		t.Errorf("raw filename = %q, want out/summary-raw.csv", rawFilename)
	}
	if !fs.Exists("out") {
		t.Error("parent directory was not created")
	}

	summary, err := fs.ReadFile("out/summary.csv")
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	if len(lines) != 3 {
		t.Fatalf("summary has %d lines, want header plus 2 rows", len(lines))
	}
	if want := strings.Join(sweep.SummaryHeaders(), ","); lines[0] != want {
		t.Errorf("summary header = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[2], "1.000,2,2,1.000000") {
		t.Errorf("summary row = %q", lines[2])
	}

	raw, err := fs.ReadFile(rawFilename)
	if err != nil {
		t.Fatalf("raw file not written: %v", err)
	}
	rawLines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(rawLines) != 5 {
		t.Fatalf("raw file has %d lines, want header plus 4 trials", len(rawLines))
	}
	if rawLines[3] != "1.000,0,3,true,228" {
		t.Errorf("raw row = %q", rawLines[3])
	}
}

func TestWriteHTMLReport(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()

	if err := writeHTMLReport(fs, cannedResult(), "reports/sweep.html"); err != nil {
		t.Fatalf("writeHTMLReport: %v", err)
	}

	page, err := fs.ReadFile("reports/sweep.html")
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	html := string(page)
	if !strings.Contains(html, "echarts") {
		t.Error("report is missing the echarts runtime reference")
	}
	if !strings.Contains(html, "Traffic Jam Probability") {
		t.Error("report is missing the probability chart")
	}
}
