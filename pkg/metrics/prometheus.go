package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes application metrics. All metrics carry the coindeck_ prefix.
type Recorder struct {
	feedRequests   *prometheus.CounterVec
	feedFallbacks  *prometheus.CounterVec
	feedLatency    *prometheus.HistogramVec
	lastPrice      *prometheus.GaugeVec
	busEvents      *prometheus.CounterVec
	collectionRuns *prometheus.CounterVec
	collectionTime prometheus.Histogram
	signalsEmitted *prometheus.CounterVec
	wsClients      prometheus.Gauge
	watchlistSize  prometheus.Gauge
	virtualTrades  *prometheus.CounterVec
}

var (
	recorderOnce sync.Once
	recorder     *Recorder
)

// NewRecorder returns the process-wide metrics recorder.
func NewRecorder() *Recorder {
	recorderOnce.Do(func() {
		recorder = &Recorder{
			feedRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coindeck_feed_requests_total",
					Help: "Total upstream feed requests",
				},
				[]string{"source", "result"},
			),
			feedFallbacks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coindeck_feed_fallbacks_total",
					Help: "Total times a feed fell back to sample data",
				},
				[]string{"source"},
			),
			feedLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "coindeck_feed_request_seconds",
					Help:    "Upstream feed request latency",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"source"},
			),
			lastPrice: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "coindeck_last_price",
					Help: "Last observed price per symbol",
				},
				[]string{"symbol"},
			),
			busEvents: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coindeck_bus_events_total",
					Help: "Events published on the internal bus",
				},
				[]string{"topic"},
			),
			collectionRuns: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coindeck_collection_cycles_total",
					Help: "Data collection cycles by result",
				},
				[]string{"result"},
			),
			collectionTime: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "coindeck_collection_cycle_seconds",
					Help:    "Duration of a full collection cycle",
					Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
				},
			),
			signalsEmitted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coindeck_signals_generated_total",
					Help: "Trading signals generated by direction",
				},
				[]string{"signal"},
			),
			wsClients: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "coindeck_ws_clients",
					Help: "Connected websocket clients",
				},
			),
			watchlistSize: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "coindeck_watchlist_symbols",
					Help: "Symbols currently on the watchlist",
				},
			),
			virtualTrades: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coindeck_virtual_trades_total",
					Help: "Virtual trades executed by side",
				},
				[]string{"side"},
			),
		}
	})
	return recorder
}

func (r *Recorder) ObserveFeedRequest(source string, dur time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.feedRequests.WithLabelValues(source, result).Inc()
	r.feedLatency.WithLabelValues(source).Observe(dur.Seconds())
}

func (r *Recorder) FeedFallback(source string) {
	r.feedFallbacks.WithLabelValues(source).Inc()
}

func (r *Recorder) SetLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) BusEvent(topic string) {
	r.busEvents.WithLabelValues(topic).Inc()
}

func (r *Recorder) ObserveCollection(dur time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.collectionRuns.WithLabelValues(result).Inc()
	r.collectionTime.Observe(dur.Seconds())
}

func (r *Recorder) SignalGenerated(signal string) {
	r.signalsEmitted.WithLabelValues(signal).Inc()
}

func (r *Recorder) WSClientConnected()    { r.wsClients.Inc() }
func (r *Recorder) WSClientDisconnected() { r.wsClients.Dec() }

func (r *Recorder) SetWatchlistSize(n int) {
	r.watchlistSize.Set(float64(n))
}

func (r *Recorder) VirtualTrade(side string) {
	r.virtualTrades.WithLabelValues(side).Inc()
}
