package content

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net/http"
	"strings"
)

// DemoSlug always resolves to the embedded case.
const DemoSlug = "demo"

var ErrUnavailable = errors.NewSentinel("content source unavailable")

// Source loads the canonical content of a case.
type Source interface {
	Load(ctx context.Context, slug string) (models.Content, error)
}

// FallbackSource serves the same case for every slug. It backs deployments without a CMS.
type FallbackSource struct {
	Content models.Content
}

func (s FallbackSource) Load(_ context.Context, _ string) (models.Content, error) {
	return s.Content, nil
}

// HTTPSource reads a case from a Strapi-style CMS.
type HTTPSource struct {
	baseURL    string
	token      string
	client     *http.Client
	normalizer *Normalizer
	fallback   models.Content
	logger     *slog.Logger
}

// NewHTTPSource creates a CMS source. Collections the CMS cannot serve are taken from fallback, and an empty
// baseURL makes every load return it.
func NewHTTPSource(
	baseURL string,
	token string,
	client *http.Client,
	fallback models.Content,
	logger *slog.Logger,
) *HTTPSource {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &HTTPSource{
		baseURL:    baseURL,
		token:      token,
		client:     client,
		normalizer: NewNormalizer(baseURL, logger),
		fallback:   fallback,
		logger:     logger,
	}
}

type collection struct {
	path string
	dst  func(r *Raw, v any)
}

var collections = []collection{
	{path: "case", dst: func(r *Raw, v any) { r.Case = v }},
	{path: "acts", dst: func(r *Raw, v any) { r.Acts = items(v) }},
	{path: "events", dst: func(r *Raw, v any) { r.Events = items(v) }},
	{path: "evidences", dst: func(r *Raw, v any) { r.Evidence = items(v) }},
	{path: "locations", dst: func(r *Raw, v any) { r.Locations = items(v) }},
	{path: "questions", dst: func(r *Raw, v any) { r.Questions = items(v) }},
	{path: "characters", dst: func(r *Raw, v any) { r.Characters = items(v) }},
	{path: "families", dst: func(r *Raw, v any) { r.Families = items(v) }},
}

// Load fetches every collection concurrently. A failed collection is replaced by the fallback's. When all of
// them fail the fallback is returned as a whole.
func (s *HTTPSource) Load(ctx context.Context, slug string) (models.Content, error) {
	if s.baseURL == "" || slug == DemoSlug {
		return s.fallback, nil
	}

	var (
		g       errgroup.Group
		decoded = make([]any, len(collections))
		errs    = make([]error, len(collections))
	)
	for i, c := range collections {
		g.Go(func() error {
			decoded[i], errs[i] = s.fetch(ctx, c.path)
			return nil
		})
	}
	_ = g.Wait()

	var (
		r      Raw
		failed int
	)
	for i, c := range collections {
		if errs[i] != nil {
			failed++
			s.logger.LogAttrs(ctx, slog.LevelWarn, "content collection unavailable",
				slog.String("collection", c.path), errors.SlogError(errs[i]))
			continue
		}
		c.dst(&r, decoded[i])
	}
	if err := ctx.Err(); err != nil {
		return models.Content{}, errors.Wrap(err, "load content", slog.String("slug", slug)) //nolint:exhaustruct // error path
	}
	if failed == len(collections) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "serving fallback content", slog.String("slug", slug))
		return s.fallback, nil
	}
	return s.normalizer.Assemble(r, slug, s.fallback), nil
}

func (s *HTTPSource) fetch(ctx context.Context, path string) (any, error) {
	url := fmt.Sprintf("%s/api/%s?populate=*", s.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request", slog.String("url", url))
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request", slog.String("url", url))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(ErrUnavailable, "unexpected status",
			slog.String("url", url), slog.Int("status", resp.StatusCode))
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var v any
	if err = dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode response", slog.String("url", url))
	}
	return v, nil
}
