// Package prometheus renders engine metrics in Prometheus text exposition
// format without pulling in the Prometheus client library.
package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	ftauth "github.com/mrra1yan/FootballTalento"
)

type metricsSource interface {
	MetricsSnapshot() ftauth.MetricsSnapshot
	AuditDropped() uint64
}

type counterDef struct {
	id   ftauth.MetricID
	help string
}

var counterDefs = []counterDef{
	{ftauth.MetricRegisterSuccess, "Accounts created."},
	{ftauth.MetricRegisterRejected, "Registrations rejected by validation."},
	{ftauth.MetricRegisterRateLimited, "Registrations rejected by the signup rate limit."},
	{ftauth.MetricLoginSuccess, "Successful logins."},
	{ftauth.MetricLoginFailure, "Failed logins."},
	{ftauth.MetricLoginRateLimited, "Logins rejected by the login rate limit."},
	{ftauth.MetricLogout, "Logouts."},
	{ftauth.MetricTokenIssued, "Bearer tokens issued."},
	{ftauth.MetricTokenValidated, "Bearer tokens validated."},
	{ftauth.MetricTokenRejected, "Bearer tokens rejected."},
	{ftauth.MetricTokensInvalidated, "Bearer tokens revoked by password resets."},
	{ftauth.MetricVerificationRequest, "Verification emails requested."},
	{ftauth.MetricVerificationSuccess, "Email verifications completed."},
	{ftauth.MetricVerificationFailure, "Email verifications failed."},
	{ftauth.MetricResetRequest, "Password resets requested."},
	{ftauth.MetricResetSuccess, "Password resets completed."},
	{ftauth.MetricResetFailure, "Password resets failed."},
	{ftauth.MetricNotificationSent, "Notifications delivered."},
	{ftauth.MetricNotificationFailed, "Notifications that failed to deliver."},
	{ftauth.MetricBotRejected, "Requests rejected by the honeypot."},
	{ftauth.MetricRateLimitHit, "Rate limit rejections across all flows."},
}

// Exporter renders engine metrics for a Prometheus scrape.
type Exporter struct {
	source metricsSource
}

// NewExporter creates an Exporter reading from the given engine.
func NewExporter(engine *ftauth.Engine) *Exporter {
	return &Exporter{source: engine}
}

// NewExporterFromSource creates an Exporter from a custom source.
func NewExporterFromSource(source metricsSource) *Exporter {
	return &Exporter{source: source}
}

// Handler returns an http.Handler serving the rendered metrics.
func (p *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current counters in text exposition format.
func (p *Exporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()

	var b strings.Builder
	b.Grow(4096)

	for _, def := range counterDefs {
		writeCounter(&b, "ftauth_"+def.id.Name()+"_total", def.help, snapshot.Counters[def.id])
	}

	writeCounter(&b, "ftauth_audit_dropped_total",
		"Dropped audit events due to dispatcher backpressure.", p.source.AuditDropped())

	return b.String()
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}
