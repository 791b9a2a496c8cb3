package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Provider holds request metrics for one external capability. Every series
// is labeled by provider and model so OpenAI, Groq and Ollama stay apart.
type Provider struct {
	Requests *prometheus.CounterVec   // provider, model, status
	Duration *prometheus.HistogramVec // provider, model
	Tokens   *prometheus.CounterVec   // provider, model, type
	Errors   *prometheus.CounterVec   // provider, model, error_type
}

func newProvider(capability string, buckets []float64) Provider {
	return Provider{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      capability + "_requests_total",
			Help:      "Total number of " + capability + " requests",
		}, []string{"provider", "model", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      capability + "_request_duration_seconds",
			Help:      capability + " request duration in seconds",
			Buckets:   buckets,
		}, []string{"provider", "model"}),
		Tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      capability + "_tokens_total",
			Help:      "Total " + capability + " tokens consumed",
		}, []string{"provider", "model", "type"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      capability + "_errors_total",
			Help:      "Total " + capability + " errors",
		}, []string{"provider", "model", "error_type"}),
	}
}

// Succeeded records a completed call.
func (p Provider) Succeeded(provider, model string, d time.Duration) {
	p.Requests.WithLabelValues(provider, model, "success").Inc()
	p.Duration.WithLabelValues(provider, model).Observe(d.Seconds())
}

// Failed records a failed call classified by errType.
func (p Provider) Failed(provider, model, errType string) {
	p.Requests.WithLabelValues(provider, model, "error").Inc()
	p.Errors.WithLabelValues(provider, model, errType).Inc()
}

// AddTokens adds n tokens of the given type. Zero is ignored.
func (p Provider) AddTokens(provider, model, kind string, n int) {
	if n > 0 {
		p.Tokens.WithLabelValues(provider, model, kind).Add(float64(n))
	}
}

func (p Provider) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Requests, p.Duration, p.Tokens, p.Errors}
}

var (
	// Embedding tracks the embeddings endpoint.
	Embedding = newProvider("embedding", []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10})
	// Generation tracks chat completions, which run far longer than embeddings.
	Generation = newProvider("generation", []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60})

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)
