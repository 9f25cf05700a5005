package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
)

// Signed request headers
const (
	HeaderPub   = "X-Scanner-Pub"
	HeaderTs    = "X-Scanner-Ts"
	HeaderNonce = "X-Scanner-Nonce"
	HeaderSig   = "X-Scanner-Sig"
)

// DefaultWindow is how far a request timestamp may drift from the server clock
const DefaultWindow = 5 * time.Minute

// Error codes returned in the response body
const (
	ErrCodeMissing      = "auth_missing"
	ErrCodeTimestamp    = "ts_invalid"
	ErrCodeSignature    = "sig_invalid"
	ErrCodeReplay       = "replay"
	ErrCodeUnconfigured = "auth_unconfigured"
	ErrCodeUnavailable  = "auth_unavailable"
)

// HMACAuth verifies signed requests and rejects replays
type HMACAuth struct {
	secret []byte
	window time.Duration
	nonces contracts.NonceStore
	now    func() time.Time
}

// NewHMACAuth creates the signature middleware. The nonce store should retain
// entries for at least window.
func NewHMACAuth(secret string, window time.Duration, nonces contracts.NonceStore) *HMACAuth {
	if window <= 0 {
		window = DefaultWindow
	}

	return &HMACAuth{
		secret: []byte(secret),
		window: window,
		nonces: nonces,
		now:    time.Now,
	}
}

// WithClock replaces the time source (tests)
func (a *HMACAuth) WithClock(now func() time.Time) *HMACAuth {
	a.now = now
	return a
}

// Middleware rejects unsigned, stale, forged or replayed requests
func (a *HMACAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.secret) == 0 || a.nonces == nil {
			writeAuthError(w, http.StatusInternalServerError, ErrCodeUnconfigured)
			return
		}

		pub := r.Header.Get(HeaderPub)
		ts := r.Header.Get(HeaderTs)
		nonce := r.Header.Get(HeaderNonce)
		sig := r.Header.Get(HeaderSig)
		if pub == "" || ts == "" || nonce == "" || sig == "" {
			writeAuthError(w, http.StatusUnauthorized, ErrCodeMissing)
			return
		}

		if !a.fresh(ts) {
			writeAuthError(w, http.StatusUnauthorized, ErrCodeTimestamp)
			return
		}

		message := SigningMessage(pub, ts, nonce)
		if !a.validSignature(message, sig) {
			writeAuthError(w, http.StatusUnauthorized, ErrCodeSignature)
			return
		}

		fresh, err := a.nonces.Remember(r.Context(), message)
		if err != nil {
			log.Error().Err(err).Msg("nonce store unavailable")
			writeAuthError(w, http.StatusServiceUnavailable, ErrCodeUnavailable)
			return
		}
		if !fresh {
			writeAuthError(w, http.StatusUnauthorized, ErrCodeReplay)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// fresh reports whether the millisecond timestamp lies inside the window
func (a *HMACAuth) fresh(ts string) bool {
	ms, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}

	drift := a.now().Sub(time.UnixMilli(ms))
	if drift < 0 {
		drift = -drift
	}
	return drift <= a.window
}

func (a *HMACAuth) validSignature(message, sig string) bool {
	provided, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(provided, computeMAC(a.secret, message))
}

// SigningMessage is the string covered by the signature
func SigningMessage(pub, ts, nonce string) string {
	return pub + ":" + ts + ":" + nonce
}

// Sign returns the hex HMAC-SHA256 of message under secret
func Sign(secret, message string) string {
	return hex.EncodeToString(computeMAC([]byte(secret), message))
}

func computeMAC(secret []byte, message string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}
