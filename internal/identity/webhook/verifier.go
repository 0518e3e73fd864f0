// Package webhook verifies and classifies inbound IdP webhook payloads.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vantagehq/vantage/internal/identity/domain"
)

const (
	headerMessageID = "svix-id"
	headerTimestamp = "svix-timestamp"
	headerSignature = "svix-signature"

	secretPrefix = "whsec_"

	// timestampTolerance bounds how far a signed timestamp may drift from
	// the local clock before the event is treated as a replay.
	timestampTolerance = 5 * time.Minute
)

// Verifier validates that a payload was produced by the IdP using the svix
// signing scheme: HMAC-SHA256 over "<id>.<timestamp>.<raw body>".
type Verifier struct {
	key []byte
	now func() time.Time
}

// NewVerifier decodes the shared signing secret. An unset or undecodable
// secret is a configuration error; the caller must refuse to start rather
// than accept unverifiable events.
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, domain.ErrNotConfigured
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotConfigured, err)
	}

	return &Verifier{key: key, now: time.Now}, nil
}

// Verify checks the signature headers against the exact raw bytes received.
// It has no side effects.
func (v *Verifier) Verify(payload []byte, headers http.Header) error {
	msgID := strings.TrimSpace(headers.Get(headerMessageID))
	timestamp := strings.TrimSpace(headers.Get(headerTimestamp))
	sigHeader := strings.TrimSpace(headers.Get(headerSignature))
	if msgID == "" || timestamp == "" || sigHeader == "" {
		return domain.ErrMissingHeaders
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return domain.ErrInvalidSignature
	}
	drift := v.now().UTC().Sub(time.Unix(unix, 0))
	if drift > timestampTolerance || drift < -timestampTolerance {
		return domain.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	_, _ = mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// The signature header carries space-separated "v1,<base64>" candidates,
	// one per active signing key.
	for _, candidate := range strings.Fields(sigHeader) {
		version, signature, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return domain.ErrInvalidSignature
}
