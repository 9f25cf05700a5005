package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/config"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/detector"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/oddsapi"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

// MockSource implements contracts.OddsSource for testing
type MockSource struct {
	Body    []byte
	Err     error
	Queries []contracts.OddsQuery
}

func (m *MockSource) FetchOdds(ctx context.Context, query contracts.OddsQuery) ([]byte, error) {
	m.Queries = append(m.Queries, query)
	return m.Body, m.Err
}

// MockPinger implements handlers.Pinger for testing
type MockPinger struct {
	shouldError bool
}

func (m *MockPinger) Ping(ctx context.Context) error {
	if m.shouldError {
		return context.DeadlineExceeded
	}
	return nil
}

const arbDocument = `[{
  "id": "evt1", "sport_key": "basketball_nba", "sport_title": "NBA",
  "commence_time": "2025-01-15T00:30:00Z", "home_team": "Lakers", "away_team": "Celtics",
  "bookmakers": [
    {"key": "book1", "title": "Book One", "markets": [
      {"key": "h2h", "outcomes": [{"name": "Lakers", "price": 150}, {"name": "Celtics", "price": -200}]}]},
    {"key": "book2", "title": "Book Two", "markets": [
      {"key": "h2h", "outcomes": [{"name": "Lakers", "price": -200}, {"name": "Celtics", "price": 150}]}]}
  ]
}]`

var testSports = []string{"basketball_nba", "soccer_epl"}

func newHandler(source *MockSource, pinger handlers.Pinger) *handlers.Handler {
	return handlers.NewHandler(detector.NewEngine(source), source, handlers.Options{
		Scan:  config.ScanConfig{Sports: testSports, ArbBaseStake: 100},
		Redis: pinger,
	})
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst), "body: %s", w.Body.String())
}

func TestHealthCheck_Success(t *testing.T) {
	h := newHandler(&MockSource{}, &MockPinger{})

	w := get(h.HealthCheck, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	decode(t, w, &resp)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ok", resp.Checks["redis"])
	require.NotNil(t, resp.Metrics)
}

func TestHealthCheck_RedisDown(t *testing.T) {
	h := newHandler(&MockSource{}, &MockPinger{shouldError: true})

	w := get(h.HealthCheck, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp models.HealthResponse
	decode(t, w, &resp)
	assert.Equal(t, "degraded", resp.Status)
}

func TestHealthCheck_NoRedis(t *testing.T) {
	h := newHandler(&MockSource{}, nil)

	w := get(h.HealthCheck, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIHealth(t *testing.T) {
	h := newHandler(&MockSource{}, nil)

	w := get(h.APIHealth, "/api/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetOdds(t *testing.T) {
	t.Run("no sport returns empty games", func(t *testing.T) {
		source := &MockSource{}
		w := get(newHandler(source, nil).GetOdds, "/api/v1/odds")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"games":[]}`, w.Body.String())
		assert.Empty(t, source.Queries)
	})

	t.Run("sport outside allow-list", func(t *testing.T) {
		source := &MockSource{}
		w := get(newHandler(source, nil).GetOdds, "/api/v1/odds?sport=curling")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, source.Queries)
	})

	t.Run("passes the document through", func(t *testing.T) {
		source := &MockSource{Body: []byte(arbDocument)}
		w := get(newHandler(source, nil).GetOdds, "/api/v1/odds?sport=basketball_nba&markets=h2h&oddsFormat=decimal")

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Games []map[string]interface{} `json:"games"`
		}
		decode(t, w, &resp)
		require.Len(t, resp.Games, 1)
		assert.Equal(t, "evt1", resp.Games[0]["id"])

		require.Len(t, source.Queries, 1)
		assert.Equal(t, "h2h", source.Queries[0].Markets)
		assert.Equal(t, "decimal", source.Queries[0].OddsFormat)
	})

	t.Run("non-array document is a bad gateway", func(t *testing.T) {
		source := &MockSource{Body: []byte(`{"message":"quota exceeded"}`)}
		w := get(newHandler(source, nil).GetOdds, "/api/v1/odds?sport=basketball_nba")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestUpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"api error", &oddsapi.APIError{StatusCode: 401, Body: `{"message":"bad key"}`}, http.StatusBadGateway},
		{"wrapped api error", errors.Join(errors.New("fetch"), &oddsapi.APIError{StatusCode: 500}), http.StatusBadGateway},
		{"network error", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range []string{"/api/v1/odds?sport=basketball_nba", "/api/v1/scan?sport=basketball_nba"} {
				h := newHandler(&MockSource{Err: tt.err}, nil)

				handler := h.GetOdds
				if strings.Contains(target, "scan") {
					handler = h.Scan
				}

				w := get(handler, target)
				assert.Equal(t, tt.wantStatus, w.Code, target)
			}
		})
	}
}

func TestUpstreamErrorDetails(t *testing.T) {
	source := &MockSource{Err: &oddsapi.APIError{StatusCode: 429, Body: "slow down"}}
	w := get(newHandler(source, nil).Scan, "/api/v1/scan?sport=basketball_nba")

	var resp models.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "Odds API error 429", resp.Error)
	assert.Equal(t, "slow down", resp.Details)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestScan(t *testing.T) {
	t.Run("no sport returns an empty scan", func(t *testing.T) {
		w := get(newHandler(&MockSource{}, nil).Scan, "/api/v1/scan")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.ScanResult
		decode(t, w, &resp)
		assert.NotNil(t, resp.EV)
		assert.NotNil(t, resp.Arbs)
		assert.Equal(t, detector.MessageNoGames, resp.Message)
	})

	t.Run("invalid sport", func(t *testing.T) {
		w := get(newHandler(&MockSource{}, nil).Scan, "/api/v1/scan?sport=nope")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("finds the arbitrage", func(t *testing.T) {
		source := &MockSource{Body: []byte(arbDocument)}
		w := get(newHandler(source, nil).Scan, "/api/v1/scan?sport=basketball_nba&minEdge=500&marketType=bogus")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.ScanResult
		decode(t, w, &resp)
		require.Equal(t, 1, resp.ArbCount)
		assert.InDelta(t, 25.0, resp.Arbs[0].ROIPercent, 1e-9)
		assert.InDelta(t, 100.0, resp.Arbs[0].TotalStake, 1e-9)

		// minEdge is clamped to 100, which no row can reach
		assert.Equal(t, 0, resp.EVCount)
	})

	t.Run("books filter excludes legs", func(t *testing.T) {
		source := &MockSource{Body: []byte(arbDocument)}
		w := get(newHandler(source, nil).Scan, "/api/v1/scan?sport=basketball_nba&books=book1,%20book3")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.ScanResult
		decode(t, w, &resp)
		assert.Equal(t, 0, resp.ArbCount)
	})

	t.Run("minRoi above the opportunity", func(t *testing.T) {
		source := &MockSource{Body: []byte(arbDocument)}
		w := get(newHandler(source, nil).Scan, "/api/v1/scan?sport=basketball_nba&minRoi=30")

		var resp models.ScanResult
		decode(t, w, &resp)
		assert.Equal(t, 0, resp.ArbCount)
	})
}

func TestBonus(t *testing.T) {
	t.Run("valid promotion", func(t *testing.T) {
		source := &MockSource{Body: []byte(arbDocument)}
		w := get(newHandler(source, nil).Bonus, "/api/v1/bonus?sport=basketball_nba&bonusType=risk-free&bonusAmount=100")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.BonusResult
		decode(t, w, &resp)
		assert.Equal(t, len(resp.Bets), resp.Count)
		assert.NotEmpty(t, resp.Bets)

		require.Len(t, source.Queries, 1)
		assert.Equal(t, "h2h,spreads,totals", source.Queries[0].Markets)
	})

	t.Run("unknown promotion", func(t *testing.T) {
		w := get(newHandler(&MockSource{}, nil).Bonus, "/api/v1/bonus?sport=basketball_nba&bonusType=cashback")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing sport", func(t *testing.T) {
		w := get(newHandler(&MockSource{}, nil).Bonus, "/api/v1/bonus")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h(w, req)
	return w
}
