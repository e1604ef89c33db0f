// Package casefile inspects case content the same way the web server loads it.
package casefile

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/homecrimes/caseroom/internal/content"
	"github.com/homecrimes/caseroom/internal/logging"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/spf13/cobra"
	"log/slog"
	"net/http"
	"os"
	"time"
)

var Group = &cobra.Group{
	ID:    "content",
	Title: "Case content",
}

const fetchTimeout = 30 * time.Second

func init() {
	Export.Flags().String("cms-url", os.Getenv("CASEROOM_CMS_URL"), "base URL of the CMS, empty for the embedded case")
}

func newLogger() *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelWarn,
		ReplaceAttr: nil,
	})))
}

var Export = &cobra.Command{
	Use:     "export [case slug]",
	GroupID: "content",
	Short:   "Export canonical content",
	Long:    `Loads a case from the CMS, falling back to the embedded case, and prints the canonical JSON`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cmsURL, err := cmd.Flags().GetString("cms-url")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid cms-url flag: %v\n", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		logger := newLogger()
		fallback, err := content.LoadFallback(logger)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "load fallback case: %v\n", err)
			os.Exit(1)
		}
		source := content.NewHTTPSource(cmsURL, os.Getenv("CASEROOM_CMS_TOKEN"), http.DefaultClient, fallback, logger)
		c, err := source.Load(ctx, args[0])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "load content: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err = enc.Encode(c); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "encode content: %v\n", err)
			os.Exit(1)
		}
	},
}

var Check = &cobra.Command{
	Use:     "check [case.yaml]",
	GroupID: "content",
	Short:   "Check a case file",
	Long:    `Normalizes a case written in the embedded YAML format and reports entries that would be dropped`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "read case file: %v\n", err)
			os.Exit(1)
		}
		r, err := content.ParseYAML(data)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "parse case file: %v\n", err)
			os.Exit(1)
		}
		// Warnings about dropped entries go to stderr through the logger.
		c := content.NewNormalizer("", newLogger()).Assemble(r, "", models.Content{}) //nolint:exhaustruct // no fallback
		_, _ = fmt.Fprintf(cmd.OutOrStdout(),
			"%s (%s): %d acts, %d events, %d evidences, %d locations, %d questions\n",
			c.Case.Title, c.Case.Version, len(c.Acts), len(c.Events), len(c.Evidence), len(c.Locations), len(c.Questions))
	},
}
