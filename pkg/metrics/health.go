package metrics

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthStatus represents the health status of the process
type HealthStatus struct {
	Status     string            `json:"status"` // "healthy", "unhealthy", "ready", "not_ready"
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
	Message    string            `json:"message,omitempty"`
	Version    string            `json:"version,omitempty"`
	Uptime     string            `json:"uptime,omitempty"`
}

// ComponentHealth tracks the health of a single component
type ComponentHealth struct {
	Name    string
	Healthy bool
	Message string
	Updated time.Time
}

// HealthChecker manages health checks for the backend components
type HealthChecker struct {
	mu         sync.RWMutex
	components map[string]ComponentHealth
	critical   []string
	startTime  time.Time
	version    string
}

// DefaultCriticalComponents must be healthy before the server reports ready
var DefaultCriticalComponents = []string{"storage", "api"}

var healthChecker = NewHealthChecker(DefaultCriticalComponents...)

// NewHealthChecker creates a checker whose readiness depends on the named components
func NewHealthChecker(critical ...string) *HealthChecker {
	return &HealthChecker{
		components: make(map[string]ComponentHealth),
		critical:   critical,
		startTime:  time.Now(),
	}
}

// SetVersion sets the version string for health responses
func SetVersion(version string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.version = version
}

// RegisterComponent records the current health of a component
func RegisterComponent(name string, healthy bool, message string) {
	healthChecker.Set(name, healthy, message)
}

// GetHealth returns the overall health of the global checker
func GetHealth() HealthStatus {
	return healthChecker.Health()
}

// GetReadiness returns the readiness of the global checker
func GetReadiness() HealthStatus {
	return healthChecker.Readiness()
}

// Set records the current health of a component
func (h *HealthChecker) Set(name string, healthy bool, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.components[name] = ComponentHealth{
		Name:    name,
		Healthy: healthy,
		Message: message,
		Updated: time.Now(),
	}
}

// Health is unhealthy when any registered component is unhealthy
func (h *HealthChecker) Health() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	components := make(map[string]string, len(h.components))
	for name, comp := range h.components {
		if !comp.Healthy {
			status = "unhealthy"
			components[name] = "unhealthy: " + comp.Message
			continue
		}
		components[name] = "healthy"
	}

	return HealthStatus{
		Status:     status,
		Timestamp:  time.Now(),
		Components: components,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).String(),
	}
}

// Readiness is ready once every critical component is registered and healthy
func (h *HealthChecker) Readiness() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "ready"
	var waiting []string
	components := make(map[string]string, len(h.critical))

	for _, name := range h.critical {
		comp, exists := h.components[name]
		switch {
		case !exists:
			components[name] = "not registered"
			waiting = append(waiting, name)
		case !comp.Healthy:
			components[name] = "not ready: " + comp.Message
			waiting = append(waiting, name)
		default:
			components[name] = "ready"
		}
	}

	var message string
	if len(waiting) > 0 {
		sort.Strings(waiting)
		status = "not_ready"
		message = "waiting for " + waiting[0]
	}

	return HealthStatus{
		Status:     status,
		Timestamp:  time.Now(),
		Components: components,
		Message:    message,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).String(),
	}
}

// HealthHandler serves the health of the global checker
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := GetHealth()
		statusCode := http.StatusOK
		if health.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
		writeStatus(w, statusCode, health)
	}
}

// ReadyHandler serves the readiness of the global checker
func ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		readiness := GetReadiness()
		statusCode := http.StatusOK
		if readiness.Status != "ready" {
			statusCode = http.StatusServiceUnavailable
		}
		writeStatus(w, statusCode, readiness)
	}
}

func writeStatus(w http.ResponseWriter, statusCode int, status HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(status)
}
