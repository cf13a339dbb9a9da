package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ftauth "github.com/mrra1yan/FootballTalento"
)

type fakeSource struct {
	counters map[ftauth.MetricID]uint64
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() ftauth.MetricsSnapshot {
	return ftauth.MetricsSnapshot{Counters: f.counters}
}

func (f *fakeSource) AuditDropped() uint64 {
	return f.dropped
}

func TestRenderExpositionFormat(t *testing.T) {
	source := &fakeSource{
		counters: map[ftauth.MetricID]uint64{
			ftauth.MetricRegisterSuccess: 7,
			ftauth.MetricLoginFailure:    3,
		},
		dropped: 2,
	}

	rendered := NewExporterFromSource(source).Render()

	for _, want := range []string{
		"# HELP ftauth_register_success_total Accounts created.",
		"# TYPE ftauth_register_success_total counter",
		"ftauth_register_success_total 7",
		"ftauth_login_failure_total 3",
		"ftauth_audit_dropped_total 2",
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected %q in output:\n%s", want, rendered)
		}
	}

	// Untouched counters still render as zero.
	if !strings.Contains(rendered, "ftauth_logout_total 0") {
		t.Fatalf("expected zero-valued counters in output:\n%s", rendered)
	}
}

func TestRenderCoversEveryCounter(t *testing.T) {
	rendered := NewExporterFromSource(&fakeSource{}).Render()

	lines := 0
	for _, line := range strings.Split(rendered, "\n") {
		if strings.HasPrefix(line, "ftauth_") {
			lines++
		}
	}

	// All engine counters plus the audit drop counter.
	if want := len(counterDefs) + 1; lines != want {
		t.Fatalf("expected %d counter lines, got %d", want, lines)
	}
}

func TestHandlerContentType(t *testing.T) {
	handler := NewExporterFromSource(&fakeSource{}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain; version=0.0.4; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestNilExporterRendersNothing(t *testing.T) {
	var exporter *Exporter
	if got := exporter.Render(); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
