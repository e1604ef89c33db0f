// Package code issues and inspects access codes from the command line, for example to compensate a buyer
// whose checkout email never arrived.
package code

import (
	"fmt"
	"github.com/homecrimes/caseroom/internal/accesscode"
	"github.com/spf13/cobra"
	"os"
)

var Group = &cobra.Group{
	ID:    "code",
	Title: "Access codes",
}

func init() {
	Issue.Flags().String("session", "", "checkout session the code is issued for")
	_ = Issue.MarkFlagRequired("session")
}

// secret is the signing secret the web server uses too.
func secret() string {
	return os.Getenv("CASEROOM_ACCESS_CODE_SECRET")
}

var Issue = &cobra.Command{
	Use:     "issue [product slug]",
	GroupID: "code",
	Short:   "Issue access code",
	Long:    `Issues an access code for a product signed with CASEROOM_ACCESS_CODE_SECRET`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session, err := cmd.Flags().GetString("session")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid session flag: %v\n", err)
			os.Exit(1)
		}
		c, err := accesscode.NewCodec(secret()).Issue(accesscode.Payload{ProductSlug: args[0], SessionID: session})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "issue code: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), c)
	},
}

var Verify = &cobra.Command{
	Use:     "verify [code]",
	GroupID: "code",
	Short:   "Verify access code",
	Long:    `Verifies an access code and prints the product and checkout session it grants`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := accesscode.NewCodec(secret()).Verify(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "verify code: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "product: %s\nsession: %s\n", p.ProductSlug, p.SessionID)
	},
}
