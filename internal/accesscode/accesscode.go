// Package accesscode issues and verifies the codes that grant access to a purchased case.
//
// A code is base64url("<productSlug>|<sessionID>") followed by a dot and the first 16 upper case hex
// characters of the HMAC-SHA256 of the encoded payload.
package accesscode

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"github.com/homecrimes/caseroom/internal/errors"
	"log/slog"
	"strings"
)

const (
	// DefaultSecret signs codes when no secret is configured. Production deployments must override it.
	DefaultSecret = "home-crimes-dev-secret"
	// DemoCode opens the demo case without a purchase.
	DemoCode = "HC-DEMO-ARCHIVO.DEMO"

	signatureLength = 16
)

var (
	ErrMissing = errors.NewSentinel("missing access code")
	ErrInvalid = errors.NewSentinel("invalid access code")
)

// Payload identifies the product and the checkout session a code was issued for.
type Payload struct {
	ProductSlug string `json:"productSlug"`
	SessionID   string `json:"sessionId"`
}

// Demo is the payload of [DemoCode].
func Demo() Payload {
	return Payload{ProductSlug: "demo", SessionID: "demo-session"}
}

type Codec struct {
	secret []byte
}

// NewCodec creates a Codec signing with secret, or with [DefaultSecret] when secret is empty.
func NewCodec(secret string) *Codec {
	if secret == "" {
		secret = DefaultSecret
	}
	return &Codec{secret: []byte(secret)}
}

// Issue creates the code for p.
func (c *Codec) Issue(p Payload) (string, error) {
	if p.ProductSlug == "" || p.SessionID == "" {
		return "", errors.Wrap(ErrInvalid, "payload has empty parts")
	}
	if strings.Contains(p.ProductSlug, "|") || strings.Contains(p.SessionID, "|") {
		return "", errors.Wrap(ErrInvalid, "payload contains separator", slog.String("productSlug", p.ProductSlug))
	}
	payload := base64.RawURLEncoding.EncodeToString([]byte(p.ProductSlug + "|" + p.SessionID))
	return payload + "." + c.sign(payload), nil
}

// Verify checks the signature of code and returns its payload. The demo code is accepted in any case.
func (c *Codec) Verify(code string) (Payload, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Payload{}, ErrMissing //nolint:exhaustruct // error path
	}
	if strings.EqualFold(code, DemoCode) {
		return Demo(), nil
	}

	parts := strings.Split(code, ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Payload{}, errors.Wrap(ErrInvalid, "malformed code") //nolint:exhaustruct // error path
	}
	payload, signature := parts[0], strings.ToUpper(parts[1])
	if !hmac.Equal([]byte(c.sign(payload)), []byte(signature)) {
		return Payload{}, errors.Wrap(ErrInvalid, "signature mismatch") //nolint:exhaustruct // error path
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return Payload{}, errors.Wrap(ErrInvalid, "decode payload") //nolint:exhaustruct // error path
	}
	fields := strings.Split(string(decoded), "|")
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		return Payload{}, errors.Wrap(ErrInvalid, "payload misses parts") //nolint:exhaustruct // error path
	}
	return Payload{ProductSlug: fields[0], SessionID: fields[1]}, nil
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil))[:signatureLength])
}
