package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/config"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/detector"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/oddsapi"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/oddsmath"
)

const maxRequestBytes = 1 << 20

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configure a Handler
type Options struct {
	Scan  config.ScanConfig // sport allow-list and arbitrage base stake
	Redis Pinger            // optional
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	engine    *detector.Engine
	source    contracts.OddsSource
	scan      config.ScanConfig
	baseStake float64
	redis     Pinger
	validate  *validator.Validate
}

// NewHandler creates a new handler with dependencies
func NewHandler(engine *detector.Engine, source contracts.OddsSource, opts Options) *Handler {
	baseStake := opts.Scan.ArbBaseStake
	if baseStake <= 0 {
		baseStake = detector.DefaultBaseStake
	}

	return &Handler{
		engine:    engine,
		source:    source,
		scan:      opts.Scan,
		baseStake: baseStake,
		redis:     opts.Redis,
		validate:  validator.New(),
	}
}

// HealthCheck returns service health, including Redis when configured
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "healthy",
		Service: "odds-scanner",
		Checks:  map[string]string{},
	}

	scans, errs := h.engine.GetMetrics()
	resp.Metrics = &models.ScanMetrics{
		Scans:        scans,
		Errors:       errs,
		AvgLatencyMs: h.engine.GetAvgLatencyMs(),
	}

	status := http.StatusOK
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.redis.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis health check failed")
			resp.Status = "degraded"
			resp.Checks["redis"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks["redis"] = "ok"
		}
	}

	respondJSON(w, status, resp)
}

// APIHealth is the authenticated-prefix liveness probe
func (h *Handler) APIHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// sportParam returns the requested sport and whether it may be scanned.
// An empty sport is reported as allowed with ok=false so callers can return an empty result.
func (h *Handler) sportParam(r *http.Request) (sport string, present, allowed bool) {
	sport = strings.TrimSpace(r.URL.Query().Get("sport"))
	if sport == "" {
		return "", false, false
	}
	return sport, true, h.scan.SportAllowed(sport)
}

// respondUpstreamError maps a fetch failure to 502 when the upstream is at fault
func respondUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *oddsapi.APIError
	switch {
	case errors.As(err, &apiErr):
		log.Error().Err(err).Int("upstream_status", apiErr.StatusCode).Msg("odds API error")
		respondJSON(w, http.StatusBadGateway, models.ErrorResponse{
			Error:   apiErr.Error(),
			Details: apiErr.Body,
			Code:    http.StatusBadGateway,
		})
	case errors.Is(err, models.ErrInvalidDocument):
		respondError(w, http.StatusBadGateway, "upstream returned an invalid odds document", err)
	default:
		respondError(w, http.StatusInternalServerError, "failed to fetch odds", err)
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), nil)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err), nil)
		return false
	}

	return true
}

// validationMessage lists the failing fields
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// parseFloatParam parses a query value, clamping it into [min, max]
func parseFloatParam(r *http.Request, key string, defaultValue, min, max float64) float64 {
	value, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || !oddsmath.IsFinite(value) {
		return defaultValue
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func parseIntParam(r *http.Request, key string, defaultValue, min, max int) int {
	return int(parseFloatParam(r, key, float64(defaultValue), float64(min), float64(max)))
}

// parseListParam splits a comma list, dropping blanks
func parseListParam(r *http.Request, key string) []string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg(message)
	}

	respondJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
