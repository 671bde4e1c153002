package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clubhub"

// Registry holds every ClubHub metric. It is served on /metrics.
var Registry = prometheus.NewRegistry()

// AppInfo is always 1; the build is described by its labels.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// RegistrationsTotal counts registration attempts by outcome:
// created, full, not_found, invalid or error.
var RegistrationsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Event registration attempts by outcome",
	},
	[]string{"result"},
)

var CheckInsTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkins_total",
		Help:      "Registrations checked in",
	},
)

// FollowsTotal counts follow and unfollow operations that changed state.
var FollowsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follows_total",
		Help:      "Club follow state changes by action",
	},
	[]string{"action"},
)

// LoginAttemptsTotal counts admin logins by result: success, failure or error.
var LoginAttemptsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Admin login attempts by result",
	},
	[]string{"result"},
)

var SessionsPrunedTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_pruned_total",
		Help:      "Expired admin sessions removed by the pruner",
	},
)

// EmailsTotal counts outbound emails by kind and status (sent, failed, skipped).
var EmailsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Outbound emails by kind and status",
	},
	[]string{"kind", "status"},
)

var initOnce sync.Once

// Init registers the runtime collectors and records build information. Safe
// to call more than once.
func Init(version, commit, buildDate string) {
	initOnce.Do(func() {
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
	AppInfo.Reset()
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
