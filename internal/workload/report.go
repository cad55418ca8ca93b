package workload

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ajitpratap0/objectpool/pkg/json"
	"github.com/ajitpratap0/objectpool/pkg/metrics"
)

// Report summarizes one workload run.
type Report struct {
	Pool       string        `json:"pool"`
	Kind       string        `json:"kind"`
	Queue      string        `json:"queue"`
	Workers    int           `json:"workers"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Ops        int64         `json:"ops"`
	Errors     int64         `json:"errors"`
	Throughput float64       `json:"ops_per_sec"`
	TakeP50    time.Duration `json:"take_p50_ns"`
	TakeP99    time.Duration `json:"take_p99_ns"`
	// Stored is the number of objects left in the pool
	Stored int `json:"stored"`
	// Built counts every object the hooks constructed
	Built int64 `json:"built"`
	// Removed counts bounded pool removals
	Removed  int64         `json:"removed"`
	Reclaims uint64        `json:"reclaims"`
	Stats    metrics.Stats `json:"stats"`
	Version  string        `json:"version"`
	Finished time.Time     `json:"finished"`
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	if err := json.EncodeIndent(w, r, "", "  "); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

type reportRow struct {
	k string
	v any
}

// WriteText writes the report as an aligned table.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []reportRow{
		{"pool", fmt.Sprintf("%s (%s, %s queue)", r.Pool, r.Kind, r.Queue)},
		{"workers", r.Workers},
		{"elapsed", r.Elapsed.Round(time.Millisecond)},
		{"ops", r.Ops},
		{"errors", r.Errors},
		{"throughput", fmt.Sprintf("%.0f ops/s", r.Throughput)},
		{"take p50", r.TakeP50},
		{"take p99", r.TakeP99},
		{"created", r.Stats.Created},
		{"taken", r.Stats.Taken},
		{"returned", r.Stats.Returned},
		{"discarded", r.Stats.Discarded},
		{"missed", r.Stats.Missed},
		{"degraded", r.Stats.Degraded},
		{"reclaimed", r.Stats.Reclaimed},
		{"hit rate", fmt.Sprintf("%.1f%%", r.Stats.HitRate()*100)},
		{"stored", r.Stored},
	}
	if r.Kind == "bounded" {
		rows = append(rows, reportRow{"removed", r.Removed})
	}
	if r.Kind == "soft" {
		rows = append(rows, reportRow{"reclaims", r.Reclaims})
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%v\n", row.k, row.v); err != nil {
			return err
		}
	}
	return tw.Flush()
}
