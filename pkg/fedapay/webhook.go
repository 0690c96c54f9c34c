package fedapay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	SignatureHeader           = "X-FEDAPAY-SIGNATURE"
	DefaultSignatureTolerance = 300 * time.Second
)

var (
	ErrMissingSignature = errors.New("fedapay: missing webhook signature")
	ErrInvalidSignature = errors.New("fedapay: invalid webhook signature")
	ErrSignatureExpired = errors.New("fedapay: webhook timestamp outside tolerance")
)

// Event is the body FedaPay posts to the webhook endpoint
type Event struct {
	ID     TransactionID `json:"id"`
	Name   string        `json:"name"`
	Entity Transaction   `json:"entity"`
}

func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("fedapay: decode event: %w", err)
	}
	if ev.Entity.ID == "" {
		return nil, ErrNoTransaction
	}
	return &ev, nil
}

// Sign computes the header value for payload at timestamp t
func Sign(payload []byte, secret string, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return "t=" + ts + ",s=" + computeSignature(ts, payload, secret)
}

// VerifySignature checks a "t=<unix>,s=<hex>" header against payload.
// Several s= entries are accepted during secret rotation.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if strings.TrimSpace(header) == "" {
		return ErrMissingSignature
	}

	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "s":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return ErrMissingSignature
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return ErrSignatureExpired
		}
	}

	expected := computeSignature(ts, payload, secret)
	for _, s := range sigs {
		if hmac.Equal([]byte(expected), []byte(strings.ToLower(s))) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func computeSignature(ts string, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
