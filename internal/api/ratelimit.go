package api

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/fangame-dex/internal/api/response"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = time.Minute
)

var errRateLimited = errors.New("rate limit exceeded, slow down")

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client address.
type clientLimiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*limiterEntry

	done     chan struct{}
	stopOnce sync.Once
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
		done:    make(chan struct{}),
	}
}

func (l *clientLimiter) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.clients[client]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[client] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// middleware rejects requests over the client's budget with 429. The health
// check is never limited.
func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		lim := l.get(clientKey(r))
		if !lim.Allow() {
			retry := time.Duration(float64(time.Second) / float64(l.rps))
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			response.TooManyRequests(w, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sweep forgets clients idle for longer than limiterIdleTTL.
func (l *clientLimiter) sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.clients, k)
			n++
		}
	}
	return n
}

func (l *clientLimiter) sweepLoop() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.sweep(now)
		}
	}
}

func (l *clientLimiter) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// clientKey is the request's remote host. RealIP has already replaced
// RemoteAddr when a proxy header is present.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
