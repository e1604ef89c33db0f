package checkout

import (
	"context"
	"github.com/homecrimes/caseroom/internal/accesscode"
	"github.com/homecrimes/caseroom/internal/errors"
	"log/slog"
	"strings"
)

// defaultProductSlug is used when neither the session nor the request name a product.
const defaultProductSlug = "game"

var (
	ErrNotConfigured  = errors.NewSentinel("checkout not configured")
	ErrMissingSession = errors.NewSentinel("missing session id")
	ErrNotPaid        = errors.NewSentinel("payment not completed")
)

// Session is a checkout session as reported by the payment provider.
type Session struct {
	ID            string
	Paid          bool
	ProductSlug   string
	ProductTitle  string
	CustomerEmail string
}

// Verifier retrieves checkout sessions from the payment provider.
type Verifier interface {
	Retrieve(ctx context.Context, sessionID string) (Session, error)
}

// Grant is the outcome of a successful exchange.
type Grant struct {
	Code          string `json:"code"`
	ProductSlug   string `json:"productSlug"`
	ProductTitle  string `json:"productTitle"`
	CustomerEmail string `json:"email,omitempty"`
}

// Exchange turns a paid checkout session into an access code. productHint names the product when the
// session metadata does not.
func Exchange(ctx context.Context, verifier Verifier, codec *accesscode.Codec, sessionID, productHint string) (Grant, error) {
	if verifier == nil {
		return Grant{}, ErrNotConfigured //nolint:exhaustruct // error path
	}
	if sessionID == "" {
		return Grant{}, ErrMissingSession //nolint:exhaustruct // error path
	}
	session, err := verifier.Retrieve(ctx, sessionID)
	if err != nil {
		return Grant{}, errors.Wrap(err, "retrieve checkout session") //nolint:exhaustruct // error path
	}
	if !session.Paid {
		return Grant{}, errors.Wrap(ErrNotPaid, "exchange", slog.String("sessionId", sessionID)) //nolint:exhaustruct // error path
	}

	slug := session.ProductSlug
	if slug == "" {
		slug = productHint
	}
	if slug == "" {
		slug = defaultProductSlug
	}
	title := session.ProductTitle
	if title == "" {
		title = slug
	}
	code, err := codec.Issue(accesscode.Payload{ProductSlug: slug, SessionID: sessionID})
	if err != nil {
		return Grant{}, errors.Wrap(err, "issue access code") //nolint:exhaustruct // error path
	}
	return Grant{Code: code, ProductSlug: slug, ProductTitle: title, CustomerEmail: session.CustomerEmail}, nil
}

// StaticVerifier answers from a fixed set of sessions. It backs local development and tests.
type StaticVerifier map[string]Session

func (v StaticVerifier) Retrieve(_ context.Context, sessionID string) (Session, error) {
	s, ok := v[sessionID]
	if !ok {
		return Session{}, errors.New("unknown checkout session", slog.String("sessionId", sessionID)) //nolint:exhaustruct // error path
	}
	return s, nil
}

// ParseStaticVerifier reads paid sessions written as "sessionID=productSlug" pairs separated by commas.
// It returns nil when s is blank so that checkout stays unconfigured.
func ParseStaticVerifier(s string) (Verifier, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v := StaticVerifier{}
	for _, pair := range strings.Split(s, ",") {
		id, slug, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || id == "" || slug == "" {
			return nil, errors.New("malformed checkout session", slog.String("pair", pair))
		}
		v[id] = Session{ID: id, Paid: true, ProductSlug: slug, ProductTitle: "", CustomerEmail: ""}
	}
	return v, nil
}
