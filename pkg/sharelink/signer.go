// Package sharelink encodes a chosen timetable into a compact signed token
// that can travel inside a URL. The token carries the term and section ids in
// cleartext (base64) plus an HMAC so tampered links are rejected.
package sharelink

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signer creates and validates share-link tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// New constructs a signer with the provided secret and TTL.
func New(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a signed token embedding the term and the chosen section
// ids, and the moment the token expires.
func (s *Signer) Generate(termID string, sectionIDs []string) (string, time.Time, error) {
	if termID == "" || len(sectionIDs) == 0 {
		return "", time.Time{}, fmt.Errorf("termID and sectionIDs required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}

	expiresAt := time.Now().Add(s.ttl)
	encodedTerm := base64.RawURLEncoding.EncodeToString([]byte(termID))
	encodedSections := base64.RawURLEncoding.EncodeToString([]byte(strings.Join(sectionIDs, ",")))

	payload := fmt.Sprintf("%s|%d|%s", encodedTerm, expiresAt.Unix(), encodedSections)
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))

	token := strings.Join([]string{encodedTerm, strconv.FormatInt(expiresAt.Unix(), 10), encodedSections, signature}, ".")
	return token, expiresAt, nil
}

// Parse validates a token and returns the embedded term and section ids.
func (s *Signer) Parse(token string) (termID string, sectionIDs []string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", nil, time.Time{}, fmt.Errorf("invalid token format")
	}
	encodedTerm := parts[0]
	ts := parts[1]
	encodedSections := parts[2]
	signature := parts[3]

	payload := fmt.Sprintf("%s|%s|%s", encodedTerm, ts, encodedSections)
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", nil, time.Time{}, fmt.Errorf("invalid token signature")
	}

	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", nil, time.Time{}, fmt.Errorf("invalid timestamp")
	}
	expiresAt = time.Unix(expUnix, 0)
	if time.Now().After(expiresAt) {
		return "", nil, time.Time{}, fmt.Errorf("token expired")
	}

	rawTerm, err := base64.RawURLEncoding.DecodeString(encodedTerm)
	if err != nil {
		return "", nil, time.Time{}, fmt.Errorf("decode term: %w", err)
	}
	rawSections, err := base64.RawURLEncoding.DecodeString(encodedSections)
	if err != nil {
		return "", nil, time.Time{}, fmt.Errorf("decode sections: %w", err)
	}

	return string(rawTerm), strings.Split(string(rawSections), ","), expiresAt, nil
}
