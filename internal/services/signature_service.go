package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedSignature = errors.New("malformed signature header")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrStaleTimestamp     = errors.New("signature timestamp outside tolerance")
)

// SignatureService verifies Stripe-style webhook signatures: the
// header carries "t=<unix>,v1=<hex>" and the hex value is the
// HMAC-SHA256 of "<t>.<payload>" under the endpoint secret.
type SignatureService struct {
	secret    string
	tolerance time.Duration
}

func NewSignatureService(secret string, tolerance time.Duration) *SignatureService {
	return &SignatureService{
		secret:    secret,
		tolerance: tolerance,
	}
}

// Sign produces a signature header for a payload at the given time.
// Used by tests and by any outbound signing the gateway ever does.
func (s *SignatureService) Sign(payload []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return fmt.Sprintf("t=%s,v1=%s", ts, s.digest(ts, payload))
}

// Verify checks a signature header against the raw payload. The
// timestamp must fall within the configured tolerance of now and the
// digest comparison is constant-time.
func (s *SignatureService) Verify(payload []byte, header string, now time.Time) error {
	ts, sig, err := parseHeader(header)
	if err != nil {
		return err
	}

	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMalformedSignature
	}

	age := now.Sub(time.Unix(seconds, 0))
	if age > s.tolerance || age < -s.tolerance {
		return ErrStaleTimestamp
	}

	expected := s.digest(ts, payload)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return ErrInvalidSignature
	}

	return nil
}

func (s *SignatureService) digest(ts string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(s.secret))
	h.Write([]byte(ts))
	h.Write([]byte("."))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func parseHeader(header string) (ts, sig string, err error) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return "", "", ErrMalformedSignature
		}
		switch key {
		case "t":
			ts = value
		case "v1":
			sig = value
		}
	}
	if ts == "" || sig == "" {
		return "", "", ErrMalformedSignature
	}
	return ts, sig, nil
}
