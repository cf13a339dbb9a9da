package ftauth

import "sync/atomic"

// MetricID indexes one engine counter.
type MetricID uint16

const (
	MetricRegisterSuccess MetricID = iota
	MetricRegisterRejected
	MetricRegisterRateLimited
	MetricLoginSuccess
	MetricLoginFailure
	MetricLoginRateLimited
	MetricLogout
	MetricTokenIssued
	MetricTokenValidated
	MetricTokenRejected
	MetricTokensInvalidated
	MetricVerificationRequest
	MetricVerificationSuccess
	MetricVerificationFailure
	MetricResetRequest
	MetricResetSuccess
	MetricResetFailure
	MetricNotificationSent
	MetricNotificationFailed
	MetricBotRejected
	MetricRateLimitHit
	metricIDCount
)

var metricNames = map[MetricID]string{
	MetricRegisterSuccess:     "register_success",
	MetricRegisterRejected:    "register_rejected",
	MetricRegisterRateLimited: "register_rate_limited",
	MetricLoginSuccess:        "login_success",
	MetricLoginFailure:        "login_failure",
	MetricLoginRateLimited:    "login_rate_limited",
	MetricLogout:              "logout",
	MetricTokenIssued:         "token_issued",
	MetricTokenValidated:      "token_validated",
	MetricTokenRejected:       "token_rejected",
	MetricTokensInvalidated:   "tokens_invalidated",
	MetricVerificationRequest: "verification_request",
	MetricVerificationSuccess: "verification_success",
	MetricVerificationFailure: "verification_failure",
	MetricResetRequest:        "reset_request",
	MetricResetSuccess:        "reset_success",
	MetricResetFailure:        "reset_failure",
	MetricNotificationSent:    "notification_sent",
	MetricNotificationFailed:  "notification_failed",
	MetricBotRejected:         "bot_rejected",
	MetricRateLimitHit:        "rate_limit_hit",
}

// Name returns the stable snake_case identifier used by exporters.
func (id MetricID) Name() string {
	return metricNames[id]
}

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the engine's in-process counters. All methods are safe for
// concurrent use.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

func newMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	m.Add(id, 1)
}

// Add adds delta to the counter.
func (m *Metrics) Add(id MetricID, delta uint64) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, delta)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot returns a consistent-enough copy of the counters. Counters are
// read individually, so a snapshot taken under load may be skewed by
// in-flight increments.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricIDCount),
	}
	if m == nil || !m.enabled {
		return snap
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
