package main

import (
	"context"
	"github.com/homecrimes/caseroom/internal/accesscode"
	"github.com/homecrimes/caseroom/internal/e2etest"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/logging"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// TestDemoCase redeems the demo code and checks that the case room renders.
func TestDemoCase(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for ready")
	}
	doc, err := client.Redeem(ctx, accesscode.DemoCode)
	if err != nil {
		return errors.Wrap(err, "redeem demo code")
	}
	if doc.Find("#briefing").Length() == 0 {
		return errors.New("case room not rendered")
	}
	if _, err = client.Logout(ctx); err != nil {
		return errors.Wrap(err, "logout")
	}
	return nil
}

// TestGameAccessAPI validates the demo code through the JSON API.
func TestGameAccessAPI(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	resp, err := client.PostJSON(ctx, "/api/game-access", map[string]string{"code": accesscode.DemoCode})
	if err != nil {
		return errors.Wrap(err, "post game access")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestDemoCase(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing demo case", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestGameAccessAPI(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing game access api", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
