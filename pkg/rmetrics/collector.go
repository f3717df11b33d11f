// Package rmetrics instruments the client library with
// hashicorp/go-metrics: per-command latency, an active-connection
// counter, and error counters, fanned out to an in-memory sink and/or a
// Prometheus sink and exposed over a gin handler.
package rmetrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	ginpprof "github.com/gin-contrib/pprof"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	gometrics "github.com/hashicorp/go-metrics"
	"github.com/hashicorp/go-metrics/prometheus"
	"go.uber.org/zap"
)

// Sink selects which backing metrics sink(s) Collector forwards to.
type Sink string

const (
	InMemorySink   Sink = "in-memory"
	PrometheusSink Sink = "prometheus"
	AllSinks       Sink = "all"

	MetricsEndpoint = "/metrics"
)

// Config configures a Collector.
type Config struct {
	ServiceName         string
	AggregationInterval time.Duration
	RetentionPeriod     time.Duration
	Sink                Sink
}

// DefaultConfig returns an in-memory-only configuration.
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName:         serviceName,
		AggregationInterval: 5 * time.Second,
		RetentionPeriod:     10 * time.Minute,
		Sink:                InMemorySink,
	}
}

// Collector records connection-count and command-level metrics for one
// redisgo client instance.
type Collector struct {
	metrics      *gometrics.Metrics
	inm          *gometrics.InmemSink
	promSink     *prometheus.PrometheusSink
	sink         Sink
	serviceLabel gometrics.Label
	labelPool    *labelPool
}

// New builds a Collector from config. Call once per process per
// ServiceName; a second Prometheus sink registered under the same
// name will fail to register with the default registry.
func New(config *Config) (*Collector, error) {
	if config == nil {
		config = DefaultConfig("redisgo")
	}
	metricsConf := gometrics.DefaultConfig(config.ServiceName)
	fanout := &fanoutSink{}

	var inm *gometrics.InmemSink
	var promSink *prometheus.PrometheusSink
	var err error
	switch config.Sink {
	case PrometheusSink:
		if promSink, err = prometheus.NewPrometheusSink(); err != nil {
			return nil, err
		}
		fanout.sinks = append(fanout.sinks, promSink)
	case AllSinks:
		inm = gometrics.NewInmemSink(config.AggregationInterval, config.RetentionPeriod)
		if promSink, err = prometheus.NewPrometheusSink(); err != nil {
			return nil, err
		}
		fanout.sinks = append(fanout.sinks, inm, promSink)
	default:
		inm = gometrics.NewInmemSink(config.AggregationInterval, config.RetentionPeriod)
		fanout.sinks = append(fanout.sinks, inm)
	}

	impl, err := gometrics.New(metricsConf, fanout)
	if err != nil {
		return nil, err
	}
	return &Collector{
		metrics:      impl,
		inm:          inm,
		promSink:     promSink,
		sink:         config.Sink,
		serviceLabel: gometrics.Label{Name: "service", Value: config.ServiceName},
		labelPool:    newLabelPool(),
	}, nil
}

// RecordCommandLatency records one command's request/reply round trip.
func (c *Collector) RecordCommandLatency(command string, d time.Duration) {
	labels := c.labelPool.get()
	labels = append(labels, c.serviceLabel, gometrics.Label{Name: "command", Value: command})
	c.metrics.AddSampleWithLabels([]string{"command", "latency"}, float32(d.Microseconds()), labels)
	c.labelPool.put(labels)
}

// IncrementCommandCounter counts one command invocation.
func (c *Collector) IncrementCommandCounter(command string) {
	labels := c.labelPool.get()
	labels = append(labels, c.serviceLabel, gometrics.Label{Name: "command", Value: command})
	c.metrics.IncrCounterWithLabels([]string{"command", "count"}, 1, labels)
	c.labelPool.put(labels)
}

// IncrementErrorCounter counts one failed command, tagged by the
// error classification (e.g. "server_error", "connection_error").
func (c *Collector) IncrementErrorCounter(errorType string) {
	labels := c.labelPool.get()
	labels = append(labels, c.serviceLabel, gometrics.Label{Name: "type", Value: errorType})
	c.metrics.IncrCounterWithLabels([]string{"errors"}, 1, labels)
	c.labelPool.put(labels)
}

// IncrementActiveConnections adds 1 to the active-connection counter.
func (c *Collector) IncrementActiveConnections() {
	labels := c.labelPool.get()
	labels = append(labels, c.serviceLabel)
	c.metrics.IncrCounterWithLabels([]string{"connections", "active"}, 1, labels)
	c.labelPool.put(labels)
}

// DecrementActiveConnections adds -1 to the active-connection counter.
func (c *Collector) DecrementActiveConnections() {
	labels := c.labelPool.get()
	labels = append(labels, c.serviceLabel)
	c.metrics.IncrCounterWithLabels([]string{"connections", "active"}, -1, labels)
	c.labelPool.put(labels)
}

// Handler returns a gin handler exposing the configured sink(s) at
// MetricsEndpoint.
func (c *Collector) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c.httpHandler().ServeHTTP(ctx.Writer, ctx.Request)
	}
}

func (c *Collector) httpHandler() http.Handler {
	switch c.sink {
	case PrometheusSink, AllSinks:
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.DefaultServeMux.ServeHTTP(w, r)
		})
	default:
		return c.inMemoryHandler()
	}
}

// Router builds a standalone gin.Engine exposing MetricsEndpoint and a
// /healthz probe, logged and recovered through zap, with pprof's
// debug routes mounted when enablePprof is set.
func (c *Collector) Router(logger *zap.Logger, enablePprof bool) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	r.GET(MetricsEndpoint, c.Handler())
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if enablePprof {
		ginpprof.Register(r)
	}
	return r
}

func (c *Collector) inMemoryHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.inm == nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		summary, err := c.inm.DisplayMetrics(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// labelPool reduces per-call label-slice allocation: every
// RecordCommandLatency/IncrementCommandCounter call needs a scratch
// []gometrics.Label and would otherwise allocate one on every command.
type labelPool struct{ pool sync.Pool }

func newLabelPool() *labelPool {
	return &labelPool{pool: sync.Pool{New: func() any {
		s := make([]gometrics.Label, 0, 3)
		return &s
	}}}
}

func (p *labelPool) get() []gometrics.Label {
	s := p.pool.Get().(*[]gometrics.Label)
	return (*s)[:0]
}

func (p *labelPool) put(labels []gometrics.Label) { p.pool.Put(&labels) }

// fanoutSink forwards every call to each configured sink.
type fanoutSink struct{ sinks []gometrics.MetricSink }

func (f *fanoutSink) SetGauge(key []string, val float32) {
	for _, s := range f.sinks {
		s.SetGauge(key, val)
	}
}
func (f *fanoutSink) SetGaugeWithLabels(key []string, val float32, labels []gometrics.Label) {
	for _, s := range f.sinks {
		s.SetGaugeWithLabels(key, val, labels)
	}
}
func (f *fanoutSink) EmitKey(key []string, val float32) {
	for _, s := range f.sinks {
		s.EmitKey(key, val)
	}
}
func (f *fanoutSink) IncrCounter(key []string, val float32) {
	for _, s := range f.sinks {
		s.IncrCounter(key, val)
	}
}
func (f *fanoutSink) IncrCounterWithLabels(key []string, val float32, labels []gometrics.Label) {
	for _, s := range f.sinks {
		s.IncrCounterWithLabels(key, val, labels)
	}
}
func (f *fanoutSink) AddSample(key []string, val float32) {
	for _, s := range f.sinks {
		s.AddSample(key, val)
	}
}
func (f *fanoutSink) AddSampleWithLabels(key []string, val float32, labels []gometrics.Label) {
	for _, s := range f.sinks {
		s.AddSampleWithLabels(key, val, labels)
	}
}
