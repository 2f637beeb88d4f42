package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joefazee/catalog/internal/security"
)

// ErrTokensDisabled is returned when no symmetric key is configured.
var ErrTokensDisabled = errors.New("token issuing is disabled: SYMMETRIC_KEY is not set")

func newTokenCmd(app *App) *cobra.Command {
	var (
		subject string
		scope   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the write routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			maker := app.backend.TokenMaker
			if maker == nil {
				return ErrTokensDisabled
			}
			if scope != security.ScopeCatalogWrite && scope != security.ScopeCatalogAdmin {
				return fmt.Errorf("unknown scope %q", scope)
			}
			if ttl <= 0 {
				ttl = app.backend.TokenTTL
			}

			token, payload, err := maker.CreateToken(subject, ttl, scope)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", payload.ExpiredAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "catalogctl", "token subject")
	cmd.Flags().StringVar(&scope, "scope", security.ScopeCatalogWrite, "catalog:write or catalog:admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to TOKEN_TTL")
	return cmd
}
