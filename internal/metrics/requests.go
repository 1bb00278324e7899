package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Requests tracks API request latency per route pattern along with
// status counters.
type Requests struct {
	mu     sync.RWMutex
	routes map[string]*Histogram
	size   int

	Total       atomic.Uint64
	ClientError atomic.Uint64
	ServerError atomic.Uint64
	Limited     atomic.Uint64
}

// NewRequests creates a recorder keeping size samples per route.
func NewRequests(size int) *Requests {
	return &Requests{
		routes: make(map[string]*Histogram),
		size:   size,
	}
}

// Observe records one finished request.
func (r *Requests) Observe(route string, status int, d time.Duration) {
	r.Total.Add(1)
	switch {
	case status == 429:
		r.Limited.Add(1)
	case status >= 500:
		r.ServerError.Add(1)
	case status >= 400:
		r.ClientError.Add(1)
	}

	if route == "" {
		route = "unmatched"
	}
	r.histogram(route).Record(d)
}

func (r *Requests) histogram(route string) *Histogram {
	r.mu.RLock()
	h, ok := r.routes[route]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok = r.routes[route]; !ok {
		h = NewHistogram(r.size)
		r.routes[route] = h
	}
	return h
}

// RouteSummary is the latency summary of one route.
type RouteSummary struct {
	Route string `json:"route"`
	Summary
}

// Snapshot is the JSON view of the recorder.
type Snapshot struct {
	Total       uint64         `json:"total"`
	ClientError uint64         `json:"clientErrors"`
	ServerError uint64         `json:"serverErrors"`
	Limited     uint64         `json:"rateLimited"`
	Routes      []RouteSummary `json:"routes"`
}

// Snapshot summarizes every route, busiest first.
func (r *Requests) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.RLock()
	routes := make([]RouteSummary, 0, len(r.routes))
	for name, h := range r.routes {
		routes = append(routes, RouteSummary{Route: name, Summary: h.Summarize()})
	}
	r.mu.RUnlock()

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Count != routes[j].Count {
			return routes[i].Count > routes[j].Count
		}
		return routes[i].Route < routes[j].Route
	})

	return Snapshot{
		Total:       r.Total.Load(),
		ClientError: r.ClientError.Load(),
		ServerError: r.ServerError.Load(),
		Limited:     r.Limited.Load(),
		Routes:      routes,
	}
}
