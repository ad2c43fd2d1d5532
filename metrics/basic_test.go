package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicProvider_Counter_ReusedAndAccumulates(t *testing.T) {
	p := NewBasicProvider()

	c1 := p.Counter("submissions_completed")
	c2 := p.Counter("submissions_completed")
	require.Same(t, c1, c2, "same name must yield the same instrument")

	c1.Add(3)
	c2.Add(2)
	require.Equal(t, int64(5), c1.(*BasicCounter).Snapshot())

	other := p.Counter("other")
	require.NotSame(t, c1, other)
}

func TestBasicProvider_UpDownCounter_MovesBothWays(t *testing.T) {
	p := NewBasicProvider()
	u := p.UpDownCounter("queue_depth")

	u.Add(+3)
	u.Add(-1)
	u.Add(+10)
	require.Equal(t, int64(12), u.(*BasicUpDownCounter).Snapshot())
}

func TestBasicProvider_Histogram_Stats(t *testing.T) {
	p := NewBasicProvider()
	h := p.Histogram("run_seconds")

	h.Record(0.1)
	h.Record(0.3)
	h.Record(0.2)

	s := h.(*BasicHistogram).Snapshot()
	require.Equal(t, int64(3), s.Count)
	require.Equal(t, 0.1, s.Min)
	require.Equal(t, 0.3, s.Max)
	require.InDelta(t, 0.6, s.Sum, 1e-9)
	require.InDelta(t, 0.2, s.Mean, 1e-9)
}

func TestBasicProvider_Histogram_EmptySnapshot(t *testing.T) {
	p := NewBasicProvider()
	s := p.Histogram("empty").(*BasicHistogram).Snapshot()
	require.Zero(t, s.Count)
	require.Zero(t, s.Mean)
}

func TestBasicProvider_MetaStored(t *testing.T) {
	p := NewBasicProvider()
	p.Counter("annotated",
		WithDescription("how many"),
		WithUnit("1"),
		WithAttributes(map[string]string{"pool": "fixed"}))

	cfg, ok := p.Meta("annotated")
	require.True(t, ok)
	require.Equal(t, "how many", cfg.Description)
	require.Equal(t, "1", cfg.Unit)
	require.Equal(t, "fixed", cfg.Attributes["pool"])

	_, ok = p.Meta("unknown")
	require.False(t, ok)
}

func TestBasicProvider_ConcurrentAccess(t *testing.T) {
	p := NewBasicProvider()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			p.Counter("shared").Add(1)
		}()
	}
	wg.Wait()
	require.Equal(t, int64(n), p.Counter("shared").(*BasicCounter).Snapshot())
}

func TestNoopProvider_Discards(t *testing.T) {
	p := NewNoopProvider()
	// Must be safe to use without ever looking at results.
	p.Counter("c").Add(1)
	p.UpDownCounter("u").Add(-1)
	p.Histogram("h").Record(0.5)
}
