package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles the Prometheus metrics of the simulation engine and
// satisfies core.MetricsRecorder, so the engine can drive the values
// directly from its tick loop.
type SimCollector struct {
	gatherer prometheus.Gatherer

	BodiesActive    prometheus.Gauge
	SpawnsTotal     *prometheus.CounterVec
	CollisionsTotal prometheus.Counter
	TickDuration    prometheus.Histogram
	PrimaryEnergy   prometheus.Gauge
}

// NewSimCollector registers the simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_bodies_active",
		Help: "Current number of live bodies in the simulation.",
	}), "sim_bodies_active")
	if err != nil {
		return nil, err
	}

	spawns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_spawns_total",
		Help: "Total spawn requests, labeled by outcome.",
	}, []string{"outcome"})
	spawns, err = registerCounterVec(reg, spawns, "sim_spawns_total")
	if err != nil {
		return nil, err
	}

	collisions, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_collisions_total",
		Help: "Total bodies removed after colliding with the central body.",
	}), "sim_collisions_total")
	if err != nil {
		return nil, err
	}

	ticks, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Wall time spent advancing the simulation one tick.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
	}), "sim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	energy, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_primary_energy",
		Help: "Last sampled specific mechanical energy of the primary body.",
	}), "sim_primary_energy")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:        gatherer,
		BodiesActive:    bodies,
		SpawnsTotal:     spawns,
		CollisionsTotal: collisions,
		TickDuration:    ticks,
		PrimaryEnergy:   energy,
	}, nil
}

// ObserveTick records the tick duration and the live body count.
func (c *SimCollector) ObserveTick(seconds float64, activeBodies int) {
	if c == nil {
		return
	}
	if c.TickDuration != nil {
		c.TickDuration.Observe(seconds)
	}
	if c.BodiesActive != nil {
		c.BodiesActive.Set(float64(activeBodies))
	}
}

// AddCollisions counts bodies culled by the collision test.
func (c *SimCollector) AddCollisions(n int) {
	if c == nil || c.CollisionsTotal == nil {
		return
	}
	c.CollisionsTotal.Add(float64(n))
}

// IncSpawns counts a spawn request by outcome.
func (c *SimCollector) IncSpawns(accepted bool) {
	if c == nil || c.SpawnsTotal == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	c.SpawnsTotal.WithLabelValues(outcome).Inc()
}

// SetEnergy records the latest diagnostic energy sample.
func (c *SimCollector) SetEnergy(e float64) {
	if c == nil || c.PrimaryEnergy == nil {
		return
	}
	c.PrimaryEnergy.Set(e)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
