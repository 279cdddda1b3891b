package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"slotbook/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth [authorization-code]",
		Short: "Authorize access to Google Calendar",
		Long: `Authorize slotbook to read and write Google Calendar for the googlecal
backend.

Run without arguments to print the authorization URL. Visit it, grant
access, then run the command again with the authorization code:

  slotbook auth
  slotbook auth <code> --account default

Set GOOGLE_OAUTH_CLIENT_ID and GOOGLE_OAUTH_CLIENT_SECRET before
running; tokens are cached per account and refreshed automatically.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				authURL, err := google.GetAuthURL()
				if err != nil {
					return err
				}
				cmd.Printf("Visit this URL to authorize access:\n\n  %s\n\n", authURL)
				cmd.Printf("Then run: slotbook auth <code> --account %s\n", account)
				return nil
			}

			if err := google.SaveTokenForAccount(cmd.Context(), account, args[0]); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			cmd.Printf("Token saved for account %q\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to authorize")
	return cmd
}
