package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVWriter wraps csv.Writer with methods for sweep output. The summary file
// gets one row per ratio, the raw file one row per trial.
type CSVWriter struct {
	Summary *csv.Writer
	Raw     *csv.Writer
}

// NewCSVWriter creates a CSVWriter over the given summary and raw writers.
func NewCSVWriter(summary, raw io.Writer) *CSVWriter {
	return &CSVWriter{
		Summary: csv.NewWriter(summary),
		Raw:     csv.NewWriter(raw),
	}
}

// SummaryHeaders returns the summary CSV column names.
func SummaryHeaders() []string {
	return []string{
		"bad_practice_ratio", "trials", "jams", "jam_probability",
		"std_err", "mean_ticks_to_jam", "stddev_ticks_to_jam",
	}
}

// RawHeaders returns the raw trial CSV column names.
func RawHeaders() []string {
	return []string{"bad_practice_ratio", "trial", "seed", "jammed", "ticks"}
}

// WriteHeaders writes the headers to both summary and raw files.
func (c *CSVWriter) WriteHeaders() {
	c.Summary.Write(SummaryHeaders())
	c.Raw.Write(RawHeaders())
}

// WriteSummaryRow writes a single ratio summary row.
func (c *CSVWriter) WriteSummaryRow(rr RatioResult) {
	c.Summary.Write([]string{
		fmt.Sprintf("%.3f", rr.Ratio),
		fmt.Sprintf("%d", rr.Trials),
		fmt.Sprintf("%d", rr.Jams),
		fmt.Sprintf("%.6f", rr.JamProbability),
		fmt.Sprintf("%.6f", rr.StdErr),
		fmt.Sprintf("%.2f", rr.MeanTicksToJam),
		fmt.Sprintf("%.2f", rr.StddevTicksToJam),
	})
}

// WriteRawRow writes a single trial row.
func (c *CSVWriter) WriteRawRow(tr TrialResult) {
	c.Raw.Write([]string{
		fmt.Sprintf("%.3f", tr.Ratio),
		fmt.Sprintf("%d", tr.Trial),
		fmt.Sprintf("%d", tr.Seed),
		fmt.Sprintf("%t", tr.Jammed),
		fmt.Sprintf("%d", tr.Ticks),
	})
}

// WriteResult writes the whole sweep result to both files and flushes.
func (c *CSVWriter) WriteResult(res *Result) error {
	c.WriteHeaders()
	for _, rr := range res.Ratios {
		c.WriteSummaryRow(rr)
	}
	for _, tr := range res.Raw {
		c.WriteRawRow(tr)
	}
	c.Flush()
	return c.Error()
}

// Flush flushes both summary and raw writers.
func (c *CSVWriter) Flush() {
	c.Summary.Flush()
	c.Raw.Flush()
}

// Error reports the first error encountered by either writer.
func (c *CSVWriter) Error() error {
	if err := c.Summary.Error(); err != nil {
		return err
	}
	return c.Raw.Error()
}
