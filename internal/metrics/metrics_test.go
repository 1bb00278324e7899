package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram_Empty(t *testing.T) {
	h := NewHistogram(0)
	assert.Equal(t, 0, h.Count())
	assert.Equal(t, Summary{}, h.Summarize())
}

func TestHistogram_Summarize(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 5; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	s := h.Summarize()
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 0.001)
	assert.InDelta(t, 3.0, s.P50, 0.001)
	assert.InDelta(t, 4.8, s.P95, 0.001)
	assert.InDelta(t, 5.0, s.Max, 0.001)
}

func TestHistogram_RingOverwritesOldest(t *testing.T) {
	h := NewHistogram(3)
	h.Record(100 * time.Millisecond)
	h.Record(1 * time.Millisecond)
	h.Record(2 * time.Millisecond)
	h.Record(3 * time.Millisecond)

	s := h.Summarize()
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 3.0, s.Max, 0.001)

	h.Reset()
	assert.Equal(t, 0, h.Count())
}

func TestRequests_Observe(t *testing.T) {
	r := NewRequests(10)
	r.Observe("/api/v1/games/{game}/species", 200, 2*time.Millisecond)
	r.Observe("/api/v1/games/{game}/species", 404, 1*time.Millisecond)
	r.Observe("/api/v1/system/status", 500, 1*time.Millisecond)
	r.Observe("/api/v1/system/version", 429, 0)
	r.Observe("", 404, 0)

	snap := r.Snapshot()
	assert.Equal(t, uint64(5), snap.Total)
	assert.Equal(t, uint64(2), snap.ClientError)
	assert.Equal(t, uint64(1), snap.ServerError)
	assert.Equal(t, uint64(1), snap.Limited)

	require.Len(t, snap.Routes, 4)
	assert.Equal(t, "/api/v1/games/{game}/species", snap.Routes[0].Route)
	assert.Equal(t, 2, snap.Routes[0].Count)
	assert.Equal(t, "/api/v1/system/status", snap.Routes[1].Route)
	assert.Equal(t, "/api/v1/system/version", snap.Routes[2].Route)
	assert.Equal(t, "unmatched", snap.Routes[3].Route)
}

func TestRequests_Concurrent(t *testing.T) {
	r := NewRequests(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Observe("/health", 200, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	assert.Equal(t, uint64(400), snap.Total)
	require.Len(t, snap.Routes, 1)
	assert.Equal(t, 400, snap.Routes[0].Count)
}
