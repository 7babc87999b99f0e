// Prometheus metrics for the negotiation service.
//
//   - haggle_decisions_total{action}   – decisions by kind (counter|accept|reject)
//   - haggle_sessions_total{outcome}   – finished sessions by outcome
//   - haggle_active_sessions           – sessions currently active (gauge)
//   - haggle_deal_rounds               – rounds taken to close a deal
//   - haggle_deal_savings_pct          – savings vs budget on closed deals
//
// Registered in init() and served at /metrics in Prometheus text format.
package api

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haggle_decisions_total",
			Help: "Decisions taken by the buyer engine",
		},
		[]string{"action"},
	)

	mtxSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haggle_sessions_total",
			Help: "Finished sessions by outcome",
		},
		[]string{"outcome"},
	)

	mtxActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "haggle_active_sessions",
			Help: "Sessions currently active",
		},
	)

	mtxDealRounds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "haggle_deal_rounds",
			Help:    "Rounds taken to close a deal",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	mtxDealSavings = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "haggle_deal_savings_pct",
			Help:    "Savings vs budget on closed deals (fraction)",
			Buckets: prometheus.LinearBuckets(0, 0.05, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(
		mtxDecisions,
		mtxSessions,
		mtxActiveSessions,
		mtxDealRounds,
		mtxDealSavings,
	)
}
