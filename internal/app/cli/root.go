package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns the tourbook command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	var asJSON bool
	root := &cobra.Command{
		Use:           "tourbook",
		Short:         "Browse tours and manage bookings against the tourbook API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")
	root.PersistentFlags().StringVar(&app.cfg.Email, "email", app.cfg.Email, "account email (default $TOURBOOK_EMAIL)")
	root.PersistentFlags().StringVar(&app.cfg.Password, "password", app.cfg.Password, "account password (default $TOURBOOK_PASSWORD)")

	out := func(cmd *cobra.Command) printer {
		return printer{w: cmd.OutOrStdout(), json: asJSON}
	}
	root.AddCommand(
		newToursCommand(app, out),
		newBlogCommand(app, out),
		newReviewsCommand(app, out),
		newBookingsCommand(app, out),
		newAccountCommand(app, out),
		newSessionCommand(app, out),
	)
	return root
}

type printerFunc func(cmd *cobra.Command) printer
