package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/myprogress/internal/app"
	"github.com/templui/myprogress/internal/config"
)

func TokenCmd() *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Work with API bearer tokens",
	}

	token.AddCommand(issueCmd())
	return token
}

func issueCmd() *cobra.Command {
	var userID string

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Mint a bearer token for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			cfg.RateLimitOn = false

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			session, err := a.AuthService.IssueFor(cmd.Context(), userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), session.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", session.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	issue.Flags().StringVar(&userID, "user", "", "id of the user the token is for")
	_ = issue.MarkFlagRequired("user")
	return issue
}
