package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"meteoalerte/internal/config"
	"meteoalerte/internal/model"
)

// the visitor holds the rate limiter and last seen time for a specific IP address.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// searchVisitor holds the rate limiter and last seen time for a specific IP and search query.
type searchVisitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	// globalVisitors maps IP addresses to their corresponding visitor struct for global rate limiting.
	globalVisitors = make(map[string]*visitor) // key: ip
	// searchVisitors maps IP addresses and search queries to their corresponding searchVisitor struct.
	searchVisitors = make(map[string]map[string]*searchVisitor) // key: ip -> query -> visitor
	muGlobal       sync.Mutex
	muSearch       sync.Mutex
)

// getGlobalLimiter returns the rate limiter for the given IP address, creating one if it does not exist.
func getGlobalLimiter(ip string) *rate.Limiter {
	muGlobal.Lock()
	defer muGlobal.Unlock()
	v, exists := globalVisitors[ip]
	if !exists {
		r, b := config.GetGlobalRateLimiterConfig()
		limiter := rate.NewLimiter(rate.Limit(r/60.0), b)
		globalVisitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// getSearchLimiter returns the rate limiter for the given IP address and search query, creating one if it does not exist.
func getSearchLimiter(ip, query string) *rate.Limiter {
	muSearch.Lock()
	defer muSearch.Unlock()
	if _, ok := searchVisitors[ip]; !ok {
		searchVisitors[ip] = make(map[string]*searchVisitor)
	}
	v, exists := searchVisitors[ip][query]
	if !exists {
		r, b := config.GetParamRateLimiterConfig()
		limiter := rate.NewLimiter(rate.Limit(r/60.0), b)
		searchVisitors[ip][query] = &searchVisitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupGlobalVisitors periodically removes globalVisitors entries that have not been seen recently.
func cleanupGlobalVisitors() {
	for {
		time.Sleep(time.Minute)
		timeout := config.GetRateLimiterCleanupTimeout()
		muGlobal.Lock()
		for ip, v := range globalVisitors {
			if time.Since(v.lastSeen) > timeout {
				delete(globalVisitors, ip)
			}
		}
		muGlobal.Unlock()
	}
}

// cleanupSearchVisitors periodically removes searchVisitors entries that have not been seen recently.
func cleanupSearchVisitors() {
	for {
		time.Sleep(time.Minute)
		timeout := config.GetRateLimiterCleanupTimeout()
		muSearch.Lock()
		for ip, queryMap := range searchVisitors {
			for query, v := range queryMap {
				if time.Since(v.lastSeen) > timeout {
					delete(queryMap, query)
				}
			}
			if len(queryMap) == 0 {
				delete(searchVisitors, ip)
			}
		}
		muSearch.Unlock()
	}
}

// StartRateLimiterCleanup starts background goroutines to clean up stale visitors for both limiters.
func StartRateLimiterCleanup() {
	go cleanupGlobalVisitors()
	go cleanupSearchVisitors()
}

// ResetVisitors clears all visitor states for both limiters. Used primarily for testing.
func ResetVisitors() {
	muGlobal.Lock()
	for k := range globalVisitors {
		delete(globalVisitors, k)
	}
	muGlobal.Unlock()
	muSearch.Lock()
	for k := range searchVisitors {
		delete(searchVisitors, k)
	}
	muSearch.Unlock()
}

// GetIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func GetIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

// AllowSearch enforces the per-query limiter for a search issued by ip.
// The search handler calls this after decoding the body, since the query
// lives in the JSON payload rather than a URL parameter.
func AllowSearch(ip, query string) bool {
	if query == "" {
		query = "__none__"
	}
	return getSearchLimiter(ip, query).Allow()
}

// RateLimitMiddleware returns an HTTP middleware that enforces the global per-IP rate limit.
// If the rate limit is exceeded, it responds with a 429 status and a JSON error message.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := GetIP(r)
		if !getGlobalLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			errMsg := "Rate limit exceeded: too many requests per minute per user/IP"
			resp := model.Response{
				Error:   &errMsg,
				Message: "Too Many Requests (global limit)",
			}
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		next.ServeHTTP(w, r)
	})
}
