package cli

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pixelminds/internal/app/user"
	"pixelminds/internal/pkg/errs"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(envPassword)
			}

			if err := a.session.Login(cmd.Context(), email, password); err != nil {
				return userError(err)
			}

			identity, ok := a.session.Identity(cmd.Context())
			if !ok {
				return errors.New("login succeeded but the returned token is not a valid session")
			}
			printf(cmd.OutOrStdout(), "Logged in as %s (id %d).\n", displayName(identity.Fullname, identity.Email), identity.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or set "+envPassword+")")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return userError(err)
			}
			printf(cmd.OutOrStdout(), "Logged out.\n")
			return nil
		},
	}
}

func newRegisterCommand(a *app) *cobra.Command {
	var reg user.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a PixelMinds account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.session.IsAuthenticated(cmd.Context()) {
				return userError(errs.NewError(errs.ErrAlreadyLoggedIn))
			}
			if reg.Password == "" {
				reg.Password = os.Getenv(envPassword)
			}

			result, err := a.client.Register(cmd.Context(), reg)
			if err != nil {
				return userError(err)
			}

			msg := result.Message
			if msg == "" {
				msg = "Account created."
			}
			printf(cmd.OutOrStdout(), "%s Run 'pmctl login' to sign in.\n", msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password (or set "+envPassword+")")
	cmd.Flags().StringVar(&reg.Fullname, "name", "", "full name")

	return cmd
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := a.session.Check(cmd.Context())
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			printf(out, "id:       %d\n", identity.ID)
			printf(out, "name:     %s\n", displayName(identity.Fullname, "-"))
			printf(out, "email:    %s\n", displayName(identity.Email, "-"))
			printf(out, "usertype: %s\n", displayName(identity.UserType, "-"))
			if identity.Role != "" {
				printf(out, "role:     %s\n", identity.Role)
			}
			return nil
		},
	}
}

// newStatusCommand reports the session state without changing it.
func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a valid session is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			token, ok := a.session.Token(cmd.Context())
			if !ok {
				printf(out, "Not logged in.\n")
				return nil
			}

			claims, ok := a.session.Decode(token)
			switch {
			case !ok:
				printf(out, "Stored token is unreadable.\n")
			case a.session.IsExpired(token):
				printf(out, "Session expired at %s.\n", claims.Expiry().Format(time.RFC3339))
			default:
				printf(out, "Logged in as user %d until %s.\n", claims.Data.ID, claims.Expiry().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newRefreshCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Renew the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Refresh(cmd.Context()); err != nil {
				return userError(err)
			}
			printf(cmd.OutOrStdout(), "Session refreshed.\n")
			return nil
		},
	}
}

// newTokenCommand prints the Authorization header value, for use with other HTTP tools.
func newTokenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print the Authorization header of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.IsAuthenticated(cmd.Context()) {
				return userError(errs.NewError(errs.ErrUnauthorized))
			}
			printf(cmd.OutOrStdout(), "%s\n", a.session.AuthorizationHeader(cmd.Context()))
			return nil
		},
	}
}

// userError reduces err to the message meant for the user.
func userError(err error) error {
	return errors.New(errs.From(err).Message)
}

func displayName(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
