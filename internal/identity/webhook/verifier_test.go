package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagehq/vantage/internal/identity/domain"
)

const testSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

func signPayload(t *testing.T, secret, msgID, timestamp string, payload []byte) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(secret[len("whsec_"):])
	require.NoError(t, err)

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signedHeaders(t *testing.T, payload []byte) http.Header {
	t.Helper()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	headers := http.Header{}
	headers.Set("svix-id", "msg_2f9a")
	headers.Set("svix-timestamp", timestamp)
	headers.Set("svix-signature", signPayload(t, testSecret, "msg_2f9a", timestamp, payload))
	return headers
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier("")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = NewVerifier("whsec_%%%not-base64%%%")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestVerifyAcceptsSignedPayload(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{"type":"user.created","data":{"id":"user_9"}}`)
	assert.NoError(t, verifier.Verify(payload, signedHeaders(t, payload)))
}

func TestVerifyAcceptsAnyValidCandidate(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{"type":"user.created","data":{"id":"user_9"}}`)
	headers := signedHeaders(t, payload)
	headers.Set("svix-signature", "v1,bm90LXRoZS1zaWduYXR1cmU= "+headers.Get("svix-signature"))
	assert.NoError(t, verifier.Verify(payload, headers))
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{"type":"user.created","data":{"id":"user_9"}}`)
	headers := signedHeaders(t, payload)

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = '8'
	assert.ErrorIs(t, verifier.Verify(tampered, headers), domain.ErrInvalidSignature)
}

func TestVerifyRejectsMissingHeaders(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{}`)
	for _, missing := range []string{"svix-id", "svix-timestamp", "svix-signature"} {
		headers := signedHeaders(t, payload)
		headers.Del(missing)
		assert.ErrorIs(t, verifier.Verify(payload, headers), domain.ErrMissingHeaders, missing)
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	verifier, err := NewVerifier(testSecret)
	require.NoError(t, err)

	payload := []byte(`{}`)
	timestamp := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	headers := http.Header{}
	headers.Set("svix-id", "msg_2f9a")
	headers.Set("svix-timestamp", timestamp)
	headers.Set("svix-signature", signPayload(t, testSecret, "msg_2f9a", timestamp, payload))

	assert.ErrorIs(t, verifier.Verify(payload, headers), domain.ErrInvalidSignature)
}
