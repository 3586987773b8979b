package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.CacheHit()
	c.CacheHit()
	c.CacheMiss()
	c.NotConverged("planet")
	c.BeltUpdated(5)
	c.BeltUpdated(0)
	c.ObserveFrame(2 * time.Millisecond)

	if got := testutil.ToFloat64(c.CacheHits); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.CacheMisses); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Nonconverged.WithLabelValues("planet")); got != 1 {
		t.Errorf("nonconverged = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.BeltUpdates); got != 5 {
		t.Errorf("belt updates = %v, want 5", got)
	}
	if n := testutil.CollectAndCount(c.FrameSeconds); n != 1 {
		t.Errorf("frame histogram series = %d, want 1", n)
	}
}

func TestNilCollectorsAreSafe(t *testing.T) {
	var c *Collectors
	c.CacheHit()
	c.CacheMiss()
	c.CacheEvicted()
	c.UnknownBody()
	c.BodyFailed()
	c.NotConverged("minor")
	c.BeltUpdated(3)
	c.ObserveFrame(time.Millisecond)
}
