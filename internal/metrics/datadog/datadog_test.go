package datadog

import (
	"context"
	"errors"
	"net/http"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"github.com/chavan-arvind/files-utility/internal/metrics"
)

// fakeSubmitter captures payloads submitted by Backend.Flush().
type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []datadogV2.MetricPayload
	err      error
}

func (f *fakeSubmitter) SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, body)
	return datadogV2.IntakePayloadAccepted{}, nil, f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fakeSubmitter) last() (datadogV2.MetricPayload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		return datadogV2.MetricPayload{}, false
	}
	return f.payloads[len(f.payloads)-1], true
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func newTestBackend(t *testing.T, fs *fakeSubmitter) *Backend {
	t.Helper()
	b, err := NewBackend(context.Background(), Options{
		JobName:   "ingest-test",
		submitter: fs,
		now:       func() time.Time { return time.Unix(1700000000, 0) },
		// Effectively disables the background loop so tests drive Flush directly.
		newTicker: func(d time.Duration) *time.Ticker { return time.NewTicker(24 * time.Hour) },
	})
	if err != nil {
		t.Fatalf("NewBackend() err=%v, want nil", err)
	}
	return b
}

// TestResolveEnvTag verifies environment-tag precedence and defaults.
//
// Edge cases:
//   - ENV wins over DD_ENV.
//   - Whitespace-only env vars are ignored.
//   - If neither is set, "env:unknown" is returned.
func TestResolveEnvTag(t *testing.T) {
	oldENV := os.Getenv("ENV")
	oldDDENV := os.Getenv("DD_ENV")
	t.Cleanup(func() {
		_ = os.Setenv("ENV", oldENV)
		_ = os.Setenv("DD_ENV", oldDDENV)
	})

	tests := []struct {
		name string
		env  string
		dd   string
		want string
	}{
		{name: "ENV_wins", env: "prod", dd: "stage", want: "env:prod"},
		{name: "DD_ENV_used_when_ENV_empty", env: "", dd: "stage", want: "env:stage"},
		{name: "whitespace_ignored", env: "   ", dd: "\n\t", want: "env:unknown"},
		{name: "default_unknown", env: "", dd: "", want: "env:unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_ = os.Setenv("ENV", tc.env)
			_ = os.Setenv("DD_ENV", tc.dd)
			if got := resolveEnvTag(); got != tc.want {
				t.Fatalf("resolveEnvTag()=%q, want %q", got, tc.want)
			}
		})
	}
}

// TestFormatStatusKeyRoundTrip verifies key encoding/decoding.
func TestFormatStatusKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format string
		status string
		wantF  string
		wantS  string
	}{
		{name: "normal", format: "csv", status: "ok", wantF: "csv", wantS: "ok"},
		{name: "empty_format_defaults", format: "", status: "ok", wantF: "unknown", wantS: "ok"},
		{name: "empty_status_defaults", format: "xlsx", status: "", wantF: "xlsx", wantS: "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			format, status := splitFormatStatusKey(formatStatusKey(tc.format, tc.status))
			if format != tc.wantF || status != tc.wantS {
				t.Fatalf("roundtrip got=(%q,%q), want=(%q,%q)", format, status, tc.wantF, tc.wantS)
			}
		})
	}

	t.Run("split_without_separator_defaults_unknown_status", func(t *testing.T) {
		format, status := splitFormatStatusKey("no-sep")
		if format != "no-sep" || status != "unknown" {
			t.Fatalf("splitFormatStatusKey()=(%q,%q), want=(%q,%q)", format, status, "no-sep", "unknown")
		}
	})
}

// TestWithTags verifies tag concatenation and immutability.
func TestWithTags(t *testing.T) {
	base := []string{"env:test", "job:ingest"}
	extras := []string{"format:csv", "status:ok"}
	got := withTags(base, extras...)
	want := []string{"env:test", "job:ingest", "format:csv", "status:ok"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("withTags()=%v, want %v", got, want)
	}
	got[0] = "env:mutated"
	if base[0] == "env:mutated" {
		t.Fatalf("withTags output aliases base slice; base should not change when output is modified")
	}
}

// TestPercentileNearestRank verifies percentile behavior.
func TestPercentileNearestRank(t *testing.T) {
	tests := []struct {
		name string
		s    []float64
		p    float64
		want float64
	}{
		{name: "empty", s: nil, p: 0.50, want: 0},
		{name: "single", s: []float64{7}, p: 0.95, want: 7},
		{name: "p_le_0", s: []float64{1, 2, 3}, p: -1, want: 1},
		{name: "p_ge_1", s: []float64{1, 2, 3}, p: 2, want: 3},
		{name: "median", s: []float64{1, 2, 3, 4, 5}, p: 0.50, want: 3},
		{name: "p90_small_n", s: []float64{1, 2, 3, 4, 5}, p: 0.90, want: 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := percentileNearestRank(tc.s, tc.p); got != tc.want {
				t.Fatalf("percentileNearestRank(%v,%v)=%v, want %v", tc.s, tc.p, got, tc.want)
			}
		})
	}
}

// TestAddPercentiles verifies the percentile gauges and input immutability.
func TestAddPercentiles(t *testing.T) {
	orig := []float64{5, 1, 3, 2, 4}
	in := append([]float64(nil), orig...)

	var series []datadogV2.MetricSeries
	addPercentiles(&series, "ingest.file.duration_seconds", in, []string{"env:test"}, 999)

	// p50, p90, p95, p99, max, samples
	if len(series) != 6 {
		t.Fatalf("series.len=%d, want 6", len(series))
	}
	if !reflect.DeepEqual(in, orig) {
		t.Fatalf("samples mutated: got %v, want %v", in, orig)
	}

	var foundSamples bool
	for _, s := range series {
		if s.Metric == "ingest.file.duration_seconds.samples" {
			foundSamples = true
			if s.Points[0].Value == nil || *s.Points[0].Value != 5 {
				t.Fatalf("samples gauge value=%v, want 5", s.Points[0].Value)
			}
		}
	}
	if !foundSamples {
		t.Fatalf("did not find samples gauge series")
	}
}

// TestNewBackend_Defaults verifies defaults without real HTTP.
func TestNewBackend_Defaults(t *testing.T) {
	fs := &fakeSubmitter{}
	b, err := NewBackend(context.Background(), Options{
		JobName:    "",
		FlushEvery: 0,
		Tags:       []string{"service:ingest"},
		submitter:  fs,
		now:        func() time.Time { return time.Unix(123, 0) },
		newTicker:  func(d time.Duration) *time.Ticker { return time.NewTicker(24 * time.Hour) },
	})
	if err != nil {
		t.Fatalf("NewBackend() err=%v, want nil", err)
	}
	defer func() { _ = b.Close() }()

	if !contains(b.baseTags, "job:ingest") {
		t.Fatalf("baseTags missing job:ingest: %v", b.baseTags)
	}
	if !contains(b.baseTags, "service:ingest") {
		t.Fatalf("baseTags missing service:ingest: %v", b.baseTags)
	}
	if b.flushEvery != 60*time.Second {
		t.Fatalf("flushEvery=%s, want 60s", b.flushEvery)
	}
}

// TestFlush_SubmitsAndResets verifies Flush submits buffered metrics and
// resets buffers so a second Flush has nothing to send.
func TestFlush_SubmitsAndResets(t *testing.T) {
	fs := &fakeSubmitter{}
	b := newTestBackend(t, fs)
	defer func() { _ = b.Close() }()

	b.IncCounter(metrics.FilesTotal, 2, metrics.Labels{"format": "csv", "status": "ok"})
	b.IncCounter(metrics.RecordsTotal, 40, metrics.Labels{"format": "csv"})
	b.IncCounter(metrics.BatchesTotal, 1, nil)
	b.ObserveHistogram(metrics.FileDurationSeconds, 0.25, metrics.Labels{"format": "csv", "status": "ok"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() err=%v, want nil", err)
	}
	if fs.count() != 1 {
		t.Fatalf("submissions=%d, want 1", fs.count())
	}

	payload, ok := fs.last()
	if !ok {
		t.Fatalf("no payload captured")
	}
	wantMetrics := map[string]bool{
		"ingest.files.total":   false,
		"ingest.records.total": false,
		"ingest.batches.total": false,
	}
	for _, s := range payload.Series {
		if _, seen := wantMetrics[s.Metric]; seen {
			wantMetrics[s.Metric] = true
		}
	}
	for m, seen := range wantMetrics {
		if !seen {
			t.Fatalf("payload missing series %q", m)
		}
	}

	// Second flush must be a no-op since buffers were reset.
	if err := b.Flush(); err != nil {
		t.Fatalf("second Flush() err=%v, want nil", err)
	}
	if fs.count() != 1 {
		t.Fatalf("submissions after empty flush=%d, want 1", fs.count())
	}
}

// TestFlush_EmptyIsNoop verifies no submission happens with nothing buffered.
func TestFlush_EmptyIsNoop(t *testing.T) {
	fs := &fakeSubmitter{}
	b := newTestBackend(t, fs)
	defer func() { _ = b.Close() }()

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() err=%v, want nil", err)
	}
	if fs.count() != 0 {
		t.Fatalf("submissions=%d, want 0", fs.count())
	}
}

// TestFlush_SubmitErrorPropagates verifies submission errors surface from Flush.
func TestFlush_SubmitErrorPropagates(t *testing.T) {
	fs := &fakeSubmitter{err: errors.New("intake unavailable")}
	b := newTestBackend(t, fs)
	defer func() {
		// Close performs a tail flush; nothing is buffered so it returns nil.
		_ = b.Close()
	}()

	b.IncCounter(metrics.BatchesTotal, 3, nil)
	if err := b.Flush(); err == nil {
		t.Fatalf("Flush() err=nil, want submit error")
	}
	// Buffers reset even on failure; the next flush submits nothing.
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() after failed submit err=%v, want nil", err)
	}
	if fs.count() != 1 {
		t.Fatalf("submissions=%d, want 1", fs.count())
	}
}

// TestIncCounter_IgnoresNonPositiveAndUnknown verifies filtering rules.
func TestIncCounter_IgnoresNonPositiveAndUnknown(t *testing.T) {
	fs := &fakeSubmitter{}
	b := newTestBackend(t, fs)
	defer func() { _ = b.Close() }()

	b.IncCounter(metrics.BatchesTotal, 0, nil)
	b.IncCounter(metrics.BatchesTotal, -2, nil)
	b.IncCounter("some_other_metric", 5, nil)
	b.ObserveHistogram(metrics.FileDurationSeconds, -1, nil)
	b.ObserveHistogram("some_other_histogram", 1, nil)

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() err=%v, want nil", err)
	}
	if fs.count() != 0 {
		t.Fatalf("submissions=%d, want 0 (all metrics filtered)", fs.count())
	}
}

// TestParseTagsCSV verifies tag parsing and whitespace trimming.
func TestParseTagsCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "env:prod", want: []string{"env:prod"}},
		{name: "trimmed", in: " env:prod , service:ingest ", want: []string{"env:prod", "service:ingest"}},
		{name: "skips_blank", in: "env:prod,,service:ingest,", want: []string{"env:prod", "service:ingest"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseTagsCSV(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseTagsCSV(%q)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
