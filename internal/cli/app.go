// Package cli implements the rewriter terminal client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bentossell/rewriter-cursor/internal/client"
	"github.com/bentossell/rewriter-cursor/internal/model"
)

const defaultServerURL = "http://localhost:8080"

// App carries state shared by every command.
type App struct {
	serverURL   string
	sessionPath string

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	store       *TokenStore
	client      *client.Client
	unsubscribe func()
}

// Execute runs the CLI with args and flushes pending session writes before
// returning.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	app := &App{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
	defer app.close()

	root := app.rootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rewriter",
		Short:         "Rewrite text with an LLM from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	serverDefault := os.Getenv("REWRITER_SERVER_URL")
	if serverDefault == "" {
		serverDefault = defaultServerURL
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", serverDefault, "rewriter server URL (env REWRITER_SERVER_URL)")
	root.PersistentFlags().StringVar(&a.sessionPath, "session-file", "", "where the session token is kept (default ~/.config/rewriter/session)")

	root.AddCommand(
		a.signUpCommand(),
		a.signInCommand(),
		a.signOutCommand(),
		a.whoAmICommand(),
		a.rewriteCommand(),
		a.historyCommand(),
		a.editCommand(),
		a.modesCommand(),
	)
	return root
}

// init builds the API client from the stored token and keeps the token
// file in step with auth state changes.
func (a *App) init() error {
	path := a.sessionPath
	if path == "" {
		var err error
		if path, err = DefaultTokenPath(); err != nil {
			return err
		}
	}
	a.store = NewTokenStore(path)

	token, err := a.store.Load()
	if err != nil {
		return err
	}

	a.client = client.New(a.serverURL, client.WithToken(token))
	a.unsubscribe = a.client.OnAuthStateChange(a.persist)
	return nil
}

func (a *App) persist(ev model.AuthEvent) {
	var err error
	switch ev.Type {
	case model.AuthSignedIn, model.AuthSignedUp:
		err = a.store.Save(a.client.Token())
	case model.AuthSignedOut:
		err = a.store.Clear()
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "warning: %v\n", err)
	}
}

func (a *App) close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.client != nil {
		a.client.Close()
	}
}
