package sweep

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCSVWriterWriteResult(t *testing.T) {
	res := &Result{
		Ratios: []RatioResult{
			{Ratio: 0.5, Trials: 4, Jams: 2, JamProbability: 0.5, StdErr: 0.25, MeanTicksToJam: 150, StddevTicksToJam: 70.71},
		},
		Raw: []TrialResult{
			{Ratio: 0.5, Trial: 0, Seed: 101, Jammed: true, Ticks: 110},
			{Ratio: 0.5, Trial: 1, Seed: 102, Jammed: false, Ticks: 800},
		},
	}

	var summary, raw bytes.Buffer
	w := NewCSVWriter(&summary, &raw)
	if err := w.WriteResult(res); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	wantSummary := strings.Join([]string{
		"bad_practice_ratio,trials,jams,jam_probability,std_err,mean_ticks_to_jam,stddev_ticks_to_jam",
		"0.500,4,2,0.500000,0.250000,150.00,70.71",
		"",
	}, "\n")
	if summary.String() != wantSummary {
		t.Errorf("summary CSV = %q, want %q", summary.String(), wantSummary)
	}

	wantRaw := strings.Join([]string{
		"bad_practice_ratio,trial,seed,jammed,ticks",
		"0.500,0,101,true,110",
		"0.500,1,102,false,800",
		"",
	}, "\n")
	if raw.String() != wantRaw {
		t.Errorf("raw CSV = %q, want %q", raw.String(), wantRaw)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVWriterReportsWriteErrors(t *testing.T) {
	w := NewCSVWriter(failingWriter{}, &bytes.Buffer{})
	if err := w.WriteResult(&Result{Ratios: []RatioResult{{Ratio: 0.1}}}); err == nil {
		t.Fatal("expected error from failing writer")
	}
}
