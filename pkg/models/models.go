package models

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
	Metrics *ScanMetrics      `json:"metrics,omitempty"`
}

// ScanMetrics are the engine counters reported on /health
type ScanMetrics struct {
	Scans        int64   `json:"scans"`
	Errors       int64   `json:"errors"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}
