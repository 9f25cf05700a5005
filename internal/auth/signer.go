package auth

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Signer adds signature headers to outgoing requests
type Signer struct {
	pub    string
	secret string
	now    func() time.Time
}

// NewSigner creates a signer for the given public id and shared secret
func NewSigner(pub, secret string) *Signer {
	return &Signer{pub: pub, secret: secret, now: time.Now}
}

// Headers returns a fresh set of signed headers with a random nonce
func (s *Signer) Headers() http.Header {
	ts := strconv.FormatInt(s.now().UnixMilli(), 10)
	nonce := uuid.NewString()

	h := make(http.Header)
	h.Set(HeaderPub, s.pub)
	h.Set(HeaderTs, ts)
	h.Set(HeaderNonce, nonce)
	h.Set(HeaderSig, Sign(s.secret, SigningMessage(s.pub, ts, nonce)))
	return h
}

// SignRequest sets the signature headers on req
func (s *Signer) SignRequest(req *http.Request) {
	for key, values := range s.Headers() {
		req.Header[key] = values
	}
}
