package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/corobridge/internal/ids"
)

func TestUnbounded_RunsAllSubmissions(t *testing.T) {
	poster := newRecordPoster()
	p := Unbounded(poster, nil)
	defer p.Stop()
	require.Zero(t, p.Size())

	subIDs := make([]ids.ID, 16)
	for i := range subIDs {
		i := i
		id := ids.New()
		subIDs[i] = id
		p.Submit(Submission{ID: id, Fn: func() (any, error) { return i, nil }})
	}
	waitFor(t, func() bool { return poster.count() == len(subIDs) })

	for i, id := range subIDs {
		o, ok := poster.outcome(id)
		require.True(t, ok)
		require.Equal(t, i, o.Value)
	}
}

func TestUnbounded_TrueParallelism(t *testing.T) {
	poster := newRecordPoster()
	p := Unbounded(poster, nil)
	defer p.Stop()

	// With one goroutine per submission, n concurrent sleeps complete in
	// roughly one sleep's time, not n.
	const n = 8
	started := time.Now()
	for i := 0; i < n; i++ {
		p.Submit(Submission{ID: ids.New(), Fn: func() (any, error) {
			time.Sleep(100 * time.Millisecond)
			return nil, nil
		}})
	}
	waitFor(t, func() bool { return poster.count() == n })
	require.Less(t, time.Since(started), time.Duration(n)*100*time.Millisecond)
}

func TestUnbounded_SubmitAfterStop_IsDiscarded(t *testing.T) {
	poster := newRecordPoster()
	p := Unbounded(poster, nil)
	p.Stop()

	p.Submit(Submission{ID: ids.New(), Fn: func() (any, error) { return "never", nil }})
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, poster.count())
}

func TestUnbounded_StopLetsRunningFinish(t *testing.T) {
	poster := newRecordPoster()
	p := Unbounded(poster, nil)

	gate := make(chan struct{})
	id := ids.New()
	p.Submit(Submission{ID: id, Fn: func() (any, error) {
		<-gate
		return "finished", nil
	}})
	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()
	time.Sleep(10 * time.Millisecond)
	close(gate)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the running submission finished")
	}

	require.Equal(t, 1, poster.count())
	o, _ := poster.outcome(id)
	require.Equal(t, "finished", o.Value)
}
