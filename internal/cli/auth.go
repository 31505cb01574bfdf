package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bentossell/rewriter-cursor/internal/client"
)

func (a *App) credentials(email string) (string, string, error) {
	var err error
	if email == "" {
		if email, err = promptLine(a.in, a.out, "Email: "); err != nil {
			return "", "", err
		}
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func (a *App) signUpCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := a.credentials(email)
			if err != nil {
				return err
			}
			resp, err := a.client.SignUp(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed up as %s\n", resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) signInCommand() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := a.credentials(email)
			if err != nil {
				return err
			}
			resp, err := a.client.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Signed in as %s\n", resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) signOutCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "signout",
		Short: "Sign out of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.client.Token() == "" {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			if all {
				n, err := a.client.SignOutAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Signed out of %d session(s)\n", n)
				return nil
			}
			if err := a.client.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "revoke every session of this account")
	return cmd
}

func (a *App) whoAmICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.client.Token() == "" {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			resp, err := a.client.Session(cmd.Context())
			if err != nil {
				return err
			}
			if resp.User == nil {
				fmt.Fprintln(a.out, "Not signed in (session expired)")
				return nil
			}
			fmt.Fprintf(a.out, "%s (%s)\n", resp.User.Email, resp.User.ID)
			if resp.Session != nil {
				fmt.Fprintf(a.out, "session expires %s\n", resp.Session.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// requireSession turns a 401 into a hint to sign in.
func requireSession(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return errors.New("not signed in: run `rewriter signin` first")
	}
	return err
}
