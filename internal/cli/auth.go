package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/evotodo/internal/api"
	"github.com/idilsaglam/evotodo/internal/session"
	"github.com/idilsaglam/evotodo/internal/ui"
)

func (a *App) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign up and inspect the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usage("usage: evotodo auth <login|register|logout|status|whoami>")
		},
	}
	cmd.AddCommand(
		a.credentialsCmd("login", "Sign in with email and password"),
		a.credentialsCmd("register", "Create an account and sign in"),
		a.logoutCmd(),
		a.statusCmd(),
		a.whoamiCmd(),
	)
	return cmd
}

func (a *App) credentialsCmd(name, short string) *cobra.Command {
	var email, password, token string
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "login" && token != "" {
				// a token pasted from elsewhere
				if err := a.Store.Set(session.NewToken(token, "bearer")); err != nil {
					return fmt.Errorf("save token: %w", err)
				}
				ui.OK(a.Out, "logged in")
				return nil
			}
			var err error
			if email == "" {
				if email, err = a.readLine("Email: "); err != nil {
					return fmt.Errorf("read email: %w", err)
				}
			}
			if password == "" {
				if password, err = a.readLine("Password: "); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			if email == "" || password == "" {
				return usage("%s: email and password are required", name)
			}

			// a 401 here is a bad password, not an expired session
			c := a.client(api.NavigatorFunc(func(api.Destination) {}))
			if name == "register" {
				_, err = c.Register(cmd.Context(), email, password)
			} else {
				_, err = c.Login(cmd.Context(), email, password)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if name == "register" {
				ui.OK(a.Out, "registered and logged in")
			} else {
				ui.OK(a.Out, "logged in")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	if name == "login" {
		cmd.Flags().StringVar(&token, "token", "", "store this token instead of signing in")
	}
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, _ := a.Store.Get()
			if tok != nil && tok.Source == "env" {
				ui.OK(a.Out, "token is provided by "+session.EnvToken+" env var (nothing to delete)")
				return nil
			}
			if err := a.Store.Clear(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(a.Out, "logged out")
			return nil
		},
	}
}

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			th := ui.Current()
			tok, err := a.Store.Get()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "api: %s\n", a.Config.APIURL)
			if tok == nil {
				fmt.Fprintln(a.Out, th.Muted.Render("not logged in"))
				fmt.Fprintln(a.Out, "Run: evotodo auth login")
				return nil
			}
			fmt.Fprintf(a.Out, "source: %s\n", tok.Source)
			switch {
			case tok.ExpiresAt == nil:
				fmt.Fprintln(a.Out, "expires: (unknown)")
			case tok.Expired(time.Now()):
				fmt.Fprintf(a.Out, "expires: %s %s\n", tok.ExpiresAt.UTC().Format(time.RFC3339), th.Error.Render("(expired)"))
			default:
				fmt.Fprintf(a.Out, "expires: %s\n", tok.ExpiresAt.UTC().Format(time.RFC3339))
			}
			fmt.Fprintf(a.Out, "env override: %s\n", session.EnvToken)
			return nil
		},
	}
}

// whoami decodes the JWT locally (unverified); opaque tokens print basic info.
func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the claims of the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := a.requireToken()
			if err != nil {
				return err
			}
			claims, ok := tok.Claims()
			if !ok {
				fmt.Fprintln(a.Out, "Opaque token (cannot introspect locally).")
				fmt.Fprintln(a.Out, "source:", tok.Source)
				return nil
			}
			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, "JWT payload:")
			fmt.Fprintln(a.Out, string(b))
			return nil
		},
	}
}
