package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Microsoft 365 sign-in",
	Long: `Sign in with the OAuth device-code flow and inspect or discard the
stored token.

Tokens are kept in ~/.config/o365/tokens.json and refresh automatically
before they expire, so a single login normally lasts until the refresh
token itself is revoked or expires.

Examples:
  # Sign in (prints a code to enter in your browser)
  o365 auth login

  # Show the stored token's state
  o365 auth status

  # Force a refresh now, e.g. from cron
  o365 auth refresh

  # Sign out and delete the stored token
  o365 auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with the device-code flow",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sign-in state",
	RunE:  runAuthStatus,
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token now",
	RunE:  runAuthRefresh,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and delete the stored token",
	RunE:  runAuthLogout,
}

// Flags for auth login.
var authLoginNoRefresh bool

func init() {
	authLoginCmd.Flags().BoolVar(
		&authLoginNoRefresh, "no-refresh", false,
		"Skip the silent refresh and always run the device-code flow")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	ctx := cmd.Context()

	// An existing token that still refreshes means there is nothing
	// to do. Only fall through to the interactive flow when the
	// silent path fails.
	if !authLoginNoRefresh {
		if rec, err := authService.Refresh(ctx); err == nil {
			cmd.Println("Already signed in; token refreshed.")
			printTokenState(cmd, rec)
			return nil
		}
	}

	rec, err := authService.Login(ctx, func(auth *domain.DeviceAuthorization) {
		if auth.Message != "" {
			cmd.Println(auth.Message)
		} else {
			cmd.Printf("To sign in, open %s and enter the code %s\n",
				auth.VerificationURI, auth.UserCode)
		}
		cmd.Printf("Waiting for approval (expires in %d seconds)...\n", auth.ExpiresIn)
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Println("Signed in.")
	printTokenState(cmd, rec)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	rec, err := authService.Status(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return errors.New("not signed in; run 'o365 auth login'")
		}
		return err
	}

	cmd.Println("Signed in.")
	printTokenState(cmd, rec)
	if rec.RefreshToken != "" {
		cmd.Println("Refresh token: stored")
	} else {
		cmd.Println("Refresh token: none; sign in again when the access token expires")
	}
	return nil
}

func runAuthRefresh(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	rec, err := authService.Refresh(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return errors.New("not signed in; run 'o365 auth login'")
		}
		return fmt.Errorf("refresh failed: %w", err)
	}

	cmd.Println("Token refreshed.")
	printTokenState(cmd, rec)
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Signed out.")
	return nil
}

// printTokenState shows the access token's remaining validity and the
// granted scopes.
func printTokenState(cmd *cobra.Command, rec *domain.TokenRecord) {
	if rec.HasExpiry() {
		if remaining := rec.Remaining(time.Now()); remaining > 0 {
			cmd.Printf("Access token: valid for %s\n", remaining.Round(time.Second))
		} else {
			cmd.Println("Access token: expired; it refreshes on next use")
		}
	}
	if rec.Scope != "" {
		cmd.Printf("Scopes: %s\n", rec.Scope)
	}
}
