package main

import (
	"fmt"
	"github.com/homecrimes/caseroom/cmd/cli/casefile"
	"github.com/homecrimes/caseroom/cmd/cli/code"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"os"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(code.Group)
	rootCmd.AddCommand(code.Issue, code.Verify)
	rootCmd.AddGroup(casefile.Group)
	rootCmd.AddCommand(casefile.Export, casefile.Check)
}

var rootCmd = &cobra.Command{
	Use:  "caseroom-cli",
	Long: `Command line utilities for the Home Crimes case room`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
