package main

import (
	"context"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/homecrimes/caseroom/internal/accesscode"
	"github.com/homecrimes/caseroom/internal/ai"
	"github.com/homecrimes/caseroom/internal/checkout"
	"github.com/homecrimes/caseroom/internal/content"
	"github.com/homecrimes/caseroom/internal/envstruct"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/logging"
	"github.com/homecrimes/caseroom/internal/metrics"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/pprofserver"
	"github.com/homecrimes/caseroom/internal/repositories"
	"github.com/homecrimes/caseroom/internal/sqlite"
	"github.com/joho/godotenv"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	templates      map[string]*template.Template
	htmx           *htmx.HTMX
	content        *content.Loader
	codec          *accesscode.Codec
	checkout       checkout.Verifier
	aiClient       *ai.Client
	players        *repositories.PlayerRepository
	products       *repositories.ProductRepository
	snapshots      *repositories.ProgressRepository
	reviews        *repositories.TheoryReviewRepository
	metrics        *metrics.Metrics
	limiter        *attemptLimiter
	requestTimeout time.Duration
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"CASEROOM_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"CASEROOM_SQLITE_URL" envDefault:"./caseroom.sqlite"`
	// AccessCodeSecret signs the access codes handed out after checkout.
	AccessCodeSecret string `env:"CASEROOM_ACCESS_CODE_SECRET" envDefault:""`
	// CMSURL is the base URL of the headless CMS. Without it the embedded case is served.
	CMSURL           string        `env:"CASEROOM_CMS_URL" envDefault:""`
	CMSToken         string        `env:"CASEROOM_CMS_TOKEN" envDefault:""`
	ContentTTL       time.Duration `env:"CASEROOM_CONTENT_TTL" envDefault:"5m"`
	ContentCacheSize int           `env:"CASEROOM_CONTENT_CACHE_SIZE" envDefault:"32"`
	// AccessAttempts is how many access codes a client may try per minute. Zero disables the limit.
	AccessAttempts int `env:"CASEROOM_ACCESS_ATTEMPTS" envDefault:"10"`
	// CheckoutSessions lists paid checkout sessions as session_id=product_slug pairs separated by commas.
	CheckoutSessions string        `env:"CASEROOM_CHECKOUT_SESSIONS" envDefault:""`
	OpenAIKey        string        `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL" envDefault:""`
	PprofAddr        string        `env:"CASEROOM_PPROF_ADDR" envDefault:""`
	RequestTimeout   time.Duration `env:"CASEROOM_REQUEST_TIMEOUT" envDefault:"10s"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err error
		cfg config
	)

	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	store := sqlite3store.NewWithCleanupInterval(db.ReadWrite, 30*time.Minute) //nolint:mnd // 30 minutes
	defer store.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = store
	sessionManager.Lifetime = 30 * 24 * time.Hour //nolint:mnd // 30 days
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	var verifier checkout.Verifier
	if verifier, err = checkout.ParseStaticVerifier(cfg.CheckoutSessions); err != nil {
		return errors.Wrap(err, "parse checkout sessions")
	}

	var aiClient *ai.Client
	if cfg.OpenAIKey != "" {
		aiClient = ai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	}

	var templates map[string]*template.Template
	if templates, err = newTemplateCache(); err != nil {
		return errors.Wrap(err, "parse templates")
	}

	var fallback models.Content
	if fallback, err = content.LoadFallback(logger); err != nil {
		return errors.Wrap(err, "load fallback case")
	}
	var source content.Source = content.FallbackSource{Content: fallback}
	if cfg.CMSURL != "" {
		source = content.NewHTTPSource(cfg.CMSURL, cfg.CMSToken,
			&http.Client{Timeout: cfg.RequestTimeout}, fallback, logger) //nolint:exhaustruct // defaults
	}

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		templates:      templates,
		htmx:           htmx.New(),
		content:        content.NewLoader(source, cfg.ContentCacheSize, cfg.ContentTTL, logger),
		codec:          accesscode.NewCodec(cfg.AccessCodeSecret),
		checkout:       verifier,
		aiClient:       aiClient,
		players:        repositories.NewPlayerRepository(db, logger),
		products:       repositories.NewProductRepository(db, logger),
		snapshots:      repositories.NewProgressRepository(db, logger),
		reviews:        repositories.NewTheoryReviewRepository(db, logger),
		metrics:        metrics.New(),
		limiter:        newAttemptLimiter(cfg.AccessAttempts),
		requestTimeout: cfg.RequestTimeout,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	})))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failed to load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
