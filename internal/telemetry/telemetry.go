// Package telemetry holds the prometheus collectors shared by the
// propagator and the frame loop. Collectors are registered on a caller
// supplied registry; a nil *Collectors is valid and records nothing.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orrery"

type Collectors struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter
	UnknownBodies  prometheus.Counter
	BodyFailures   prometheus.Counter
	Nonconverged   *prometheus.CounterVec
	BeltUpdates    prometheus.Counter
	FrameSeconds   prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "hits_total",
			Help: "Position lookups served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "misses_total",
			Help: "Position lookups that had to be propagated.",
		}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "evictions_total",
			Help: "Entries removed from the position cache.",
		}),
		UnknownBodies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ephem", Name: "unknown_body_total",
			Help: "Lookups for identifiers with no registered elements.",
		}),
		BodyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ephem", Name: "body_failures_total",
			Help: "Bodies skipped in a batch because propagation failed.",
		}),
		Nonconverged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ephem", Name: "nonconverged_total",
			Help: "Kepler solves that exhausted their iteration budget.",
		}, []string{"class"}),
		BeltUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "belt", Name: "updates_total",
			Help: "Minor-body positions recomputed by the LOD scheduler.",
		}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "sim", Name: "frame_seconds",
			Help:    "Wall time spent producing one frame.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(c.CacheHits, c.CacheMisses, c.CacheEvictions, c.UnknownBodies,
			c.BodyFailures, c.Nonconverged, c.BeltUpdates, c.FrameSeconds)
	}
	return c
}

func (c *Collectors) CacheHit() {
	if c != nil {
		c.CacheHits.Inc()
	}
}

func (c *Collectors) CacheMiss() {
	if c != nil {
		c.CacheMisses.Inc()
	}
}

func (c *Collectors) CacheEvicted() {
	if c != nil {
		c.CacheEvictions.Inc()
	}
}

func (c *Collectors) UnknownBody() {
	if c != nil {
		c.UnknownBodies.Inc()
	}
}

func (c *Collectors) BodyFailed() {
	if c != nil {
		c.BodyFailures.Inc()
	}
}

func (c *Collectors) NotConverged(class string) {
	if c != nil {
		c.Nonconverged.WithLabelValues(class).Inc()
	}
}

func (c *Collectors) BeltUpdated(n int) {
	if c != nil && n > 0 {
		c.BeltUpdates.Add(float64(n))
	}
}

func (c *Collectors) ObserveFrame(d time.Duration) {
	if c != nil {
		c.FrameSeconds.Observe(d.Seconds())
	}
}
