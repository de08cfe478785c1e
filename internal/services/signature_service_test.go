package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_ValidSignature(t *testing.T) {
	svc := NewSignatureService("whsec_test", 5*time.Minute)
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()

	header := svc.Sign(payload, now)
	assert.NoError(t, svc.Verify(payload, header, now))
}

func TestVerify_TamperedPayload(t *testing.T) {
	svc := NewSignatureService("whsec_test", 5*time.Minute)
	now := time.Now()

	header := svc.Sign([]byte(`{"amount":500}`), now)
	err := svc.Verify([]byte(`{"amount":50000}`), header, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_WrongSecret(t *testing.T) {
	signer := NewSignatureService("whsec_real", 5*time.Minute)
	verifier := NewSignatureService("whsec_other", 5*time.Minute)
	payload := []byte(`{}`)
	now := time.Now()

	header := signer.Sign(payload, now)
	err := verifier.Verify(payload, header, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_StaleTimestamp(t *testing.T) {
	svc := NewSignatureService("whsec_test", 5*time.Minute)
	payload := []byte(`{}`)
	now := time.Now()

	header := svc.Sign(payload, now.Add(-10*time.Minute))
	err := svc.Verify(payload, header, now)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerify_FutureTimestampOutsideTolerance(t *testing.T) {
	svc := NewSignatureService("whsec_test", 5*time.Minute)
	payload := []byte(`{}`)
	now := time.Now()

	header := svc.Sign(payload, now.Add(10*time.Minute))
	err := svc.Verify(payload, header, now)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerify_MalformedHeader(t *testing.T) {
	svc := NewSignatureService("whsec_test", 5*time.Minute)
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{
		"",
		"t=123",
		"v1=abc",
		"nonsense",
		"t=notanumber,v1=abc",
	} {
		err := svc.Verify(payload, header, now)
		assert.Error(t, err, "header %q", header)
	}
}

func TestSign_HeaderShape(t *testing.T) {
	svc := NewSignatureService("whsec_test", 5*time.Minute)
	header := svc.Sign([]byte(`{}`), time.Unix(1700000000, 0))

	require.True(t, strings.HasPrefix(header, "t=1700000000,v1="))
	assert.Len(t, strings.TrimPrefix(header, "t=1700000000,v1="), 64) // hex sha256
}
