package sweep

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderHTML(t *testing.T) {
	res := &Result{
		Request: Request{Trials: 10},
		Ratios: []RatioResult{
			{Ratio: 0.0, JamProbability: 0.1},
			{Ratio: 1.0, JamProbability: 0.9, MeanTicksToJam: 250},
		},
	}

	var buf bytes.Buffer
	if err := RenderHTML(res, &buf); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"Traffic Jam Probability vs Bad Practice Ratio",
		"Mean Ticks To Jam",
		"echarts",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderHTMLRejectsEmptyResult(t *testing.T) {
	if err := RenderHTML(&Result{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for empty result")
	}
	if err := RenderHTML(nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error for nil result")
	}
}
