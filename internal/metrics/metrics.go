package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors shared by the bot and the admin API.
type Metrics struct {
	CommandReceived  *prometheus.CounterVec   // Bot commands and callbacks received
	SentMessages     *prometheus.CounterVec   // Bot replies by type
	NewUsers         prometheus.Counter       // Users created on first contact
	SearchResults    prometheus.Histogram     // Number of records returned per search
	DBQueryDuration  *prometheus.HistogramVec // Catalog and directory store calls
	AdminRequests    *prometheus.CounterVec   // Admin API requests by route and status
	ReportGeneration prometheus.Histogram     // Catalog export duration
}

// NewMetrics creates a new Metrics instance registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		CommandReceived: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "equipbot_commands_received_total",
			Help: "Total number of bot commands and callbacks received.",
		}, []string{"command"}), // command: /start, /search, text, equipment, more
		SentMessages: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "equipbot_messages_sent_total",
			Help: "Output bot activity.",
		}, []string{"type"}), // type: text, card, list, not_found, error
		NewUsers: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "equipbot_new_users_total",
			Help: "Total number of users created on first contact.",
		}),
		SearchResults: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "equipbot_search_results",
			Help:    "Number of records returned by a catalog search.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "equipbot_db_query_duration_seconds",
			Help:    "Duration of record store calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: search, get, create, update, delete, get_or_create
		AdminRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "equipbot_admin_requests_total",
			Help: "Administration API requests.",
		}, []string{"route", "status"}),
		ReportGeneration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name: "equipbot_report_generation_duration_seconds",
			Help: "Duration of catalog excel generation.",
		}),
	}
}
