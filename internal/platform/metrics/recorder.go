package metrics

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	defaultNamespace = "swos"
	defaultSubsystem = "import"
)

// Recorder holds the counters of one import run. The importer is a batch
// job, so values are pushed to a Pushgateway instead of being scraped.
type Recorder struct {
	registry *prometheus.Registry

	clubs        *prometheus.CounterVec
	players      *prometheus.CounterVec
	noMatches    *prometheus.CounterVec
	clubDuration prometheus.Histogram

	mu          sync.Mutex
	noMatchRuns map[string]int
}

type Option func(*options)

type options struct {
	namespace string
	subsystem string
	labels    prometheus.Labels
}

func WithNamespace(namespace string) Option {
	return func(o *options) {
		if namespace != "" {
			o.namespace = namespace
		}
	}
}

// WithConstLabels attaches labels such as the league to every series.
func WithConstLabels(labels map[string]string) Option {
	return func(o *options) {
		for k, v := range labels {
			if strings.TrimSpace(v) != "" {
				o.labels[k] = v
			}
		}
	}
}

func NewRecorder(opts ...Option) *Recorder {
	o := options{namespace: defaultNamespace, subsystem: defaultSubsystem, labels: prometheus.Labels{}}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Recorder{
		registry:    prometheus.NewRegistry(),
		noMatchRuns: map[string]int{},
		clubs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace, Subsystem: o.subsystem, ConstLabels: o.labels,
			Name: "clubs_total",
			Help: "Clubs processed, by status.",
		}, []string{"status"}),
		players: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace, Subsystem: o.subsystem, ConstLabels: o.labels,
			Name: "players_total",
			Help: "Player rows processed, by status.",
		}, []string{"status"}),
		noMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace, Subsystem: o.subsystem, ConstLabels: o.labels,
			Name: "no_match_total",
			Help: "Fields without a lookup table entry, by field.",
		}, []string{"field"}),
		clubDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: o.namespace, Subsystem: o.subsystem, ConstLabels: o.labels,
			Name:    "club_duration_seconds",
			Help:    "Wall time to fetch, normalize and persist one club.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
	}
	r.registry.MustRegister(r.clubs, r.players, r.noMatches, r.clubDuration)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveNoMatch(field string) {
	r.noMatches.WithLabelValues(field).Inc()

	r.mu.Lock()
	r.noMatchRuns[field]++
	r.mu.Unlock()
}

// NoMatchCounts returns a copy of the misses recorded so far, by field.
func (r *Recorder) NoMatchCounts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.noMatchRuns)
}

func (r *Recorder) ObserveClub(status string, elapsed time.Duration) {
	r.clubs.WithLabelValues(status).Inc()
	r.clubDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) ObservePlayers(built, failed int) {
	r.players.WithLabelValues("built").Add(float64(built))
	r.players.WithLabelValues("failed").Add(float64(failed))
}

// Push sends every series to the Pushgateway at url under job, grouped by
// run id so concurrent runs do not overwrite each other.
func (r *Recorder) Push(ctx context.Context, url, job, runID string) error {
	pusher := push.New(url, job).Gatherer(r.registry)
	if runID != "" {
		pusher = pusher.Grouping("run_id", runID)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
