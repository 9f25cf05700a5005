package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/auth"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

const testSecret = "shh"

type failingStore struct{}

func (failingStore) Remember(context.Context, string) (bool, error) {
	return false, errors.New("store down")
}

func newSecureHandler(store *auth.CacheNonceStore) http.Handler {
	return auth.NewHMACAuth(testSecret, time.Minute, store).Middleware(okHandler)
}

func signedRequest(pub string, ts time.Time, nonce, secret string) *http.Request {
	tsStr := strconv.FormatInt(ts.UnixMilli(), 10)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/secure/scan", nil)
	req.Header.Set(auth.HeaderPub, pub)
	req.Header.Set(auth.HeaderTs, tsStr)
	req.Header.Set(auth.HeaderNonce, nonce)
	req.Header.Set(auth.HeaderSig, auth.Sign(secret, auth.SigningMessage(pub, tsStr, nonce)))
	return req
}

func serve(h http.Handler, req *http.Request) (int, string) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body models.ErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	return rec.Code, body.Error
}

func TestHMACValidRequest(t *testing.T) {
	h := newSecureHandler(auth.NewMemoryNonceStore(100, time.Minute))

	status, _ := serve(h, signedRequest("client", time.Now(), "n-1", testSecret))
	assert.Equal(t, http.StatusOK, status)
}

func TestHMACRejections(t *testing.T) {
	now := time.Now()

	missing := signedRequest("client", now, "n-1", testSecret)
	missing.Header.Del(auth.HeaderSig)

	badTs := signedRequest("client", now, "n-2", testSecret)
	badTs.Header.Set(auth.HeaderTs, "yesterday")

	badHex := signedRequest("client", now, "n-3", testSecret)
	badHex.Header.Set(auth.HeaderSig, "zz")

	tests := []struct {
		name     string
		req      *http.Request
		wantCode string
	}{
		{"missing header", missing, auth.ErrCodeMissing},
		{"stale timestamp", signedRequest("client", now.Add(-2*time.Minute), "n-4", testSecret), auth.ErrCodeTimestamp},
		{"future timestamp", signedRequest("client", now.Add(2*time.Minute), "n-5", testSecret), auth.ErrCodeTimestamp},
		{"unparseable timestamp", badTs, auth.ErrCodeTimestamp},
		{"wrong secret", signedRequest("client", now, "n-6", "other"), auth.ErrCodeSignature},
		{"non-hex signature", badHex, auth.ErrCodeSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newSecureHandler(auth.NewMemoryNonceStore(100, time.Minute))

			status, code := serve(h, tt.req)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestHMACReplay(t *testing.T) {
	h := newSecureHandler(auth.NewMemoryNonceStore(100, time.Minute))
	now := time.Now()

	status, _ := serve(h, signedRequest("client", now, "n-1", testSecret))
	require.Equal(t, http.StatusOK, status)

	status, code := serve(h, signedRequest("client", now, "n-1", testSecret))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.ErrCodeReplay, code)
}

func TestHMACForgedRequestDoesNotBurnNonce(t *testing.T) {
	h := newSecureHandler(auth.NewMemoryNonceStore(100, time.Minute))
	now := time.Now()

	status, code := serve(h, signedRequest("client", now, "n-1", "forged"))
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, auth.ErrCodeSignature, code)

	status, _ = serve(h, signedRequest("client", now, "n-1", testSecret))
	assert.Equal(t, http.StatusOK, status)
}

func TestHMACUnconfigured(t *testing.T) {
	h := auth.NewHMACAuth("", time.Minute, auth.NewMemoryNonceStore(10, time.Minute)).Middleware(okHandler)

	status, code := serve(h, signedRequest("client", time.Now(), "n-1", testSecret))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, auth.ErrCodeUnconfigured, code)
}

func TestHMACNonceStoreFailure(t *testing.T) {
	h := auth.NewHMACAuth(testSecret, time.Minute, failingStore{}).Middleware(okHandler)

	status, code := serve(h, signedRequest("client", time.Now(), "n-1", testSecret))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, auth.ErrCodeUnavailable, code)
}

func TestHMACInjectedClock(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	h := auth.NewHMACAuth(testSecret, time.Minute, auth.NewMemoryNonceStore(10, time.Minute)).
		WithClock(func() time.Time { return fixed }).
		Middleware(okHandler)

	status, _ := serve(h, signedRequest("client", fixed.Add(-30*time.Second), "n-1", testSecret))
	assert.Equal(t, http.StatusOK, status)

	status, code := serve(h, signedRequest("client", fixed.Add(-61*time.Second), "n-2", testSecret))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.ErrCodeTimestamp, code)
}

func TestHMACFutureDatedReplay(t *testing.T) {
	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	now := start
	clock := func() time.Time { return now }

	store := auth.NewMemoryNonceStore(10, time.Minute).WithClock(clock)
	h := auth.NewHMACAuth(testSecret, time.Minute, store).WithClock(clock).Middleware(okHandler)

	signedAt := start.Add(59 * time.Second)

	status, _ := serve(h, signedRequest("client", signedAt, "n-1", testSecret))
	require.Equal(t, http.StatusOK, status)

	// One window after first use the timestamp is still fresh, so only the nonce stops the replay
	now = start.Add(61 * time.Second)
	status, code := serve(h, signedRequest("client", signedAt, "n-1", testSecret))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.ErrCodeReplay, code)
}

func TestSignerHeadersPassVerification(t *testing.T) {
	h := newSecureHandler(auth.NewMemoryNonceStore(100, time.Minute))
	signer := auth.NewSigner("client", testSecret)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/secure/scan", nil)
		signer.SignRequest(req)

		status, code := serve(h, req)
		assert.Equal(t, http.StatusOK, status, "request %d rejected with %q", i, code)
	}
}

func TestSignerUsesFreshNonces(t *testing.T) {
	signer := auth.NewSigner("client", testSecret)

	first := signer.Headers().Get(auth.HeaderNonce)
	second := signer.Headers().Get(auth.HeaderNonce)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
