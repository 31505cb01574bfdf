package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

func (a *App) rewriteCommand() *cobra.Command {
	var (
		mode string
		save bool
	)
	cmd := &cobra.Command{
		Use:   "rewrite [text...]",
		Short: "Rewrite text; reads stdin when no text is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				data, err := io.ReadAll(a.in)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSpace(string(data))
			}
			if text == "" {
				return errors.New("no text to rewrite")
			}

			m := model.RewriteMode(mode)
			out, err := a.client.Rewrite(cmd.Context(), text, m)
			if err != nil {
				return requireSession(err)
			}
			fmt.Fprintln(a.out, out.RewrittenText)

			if save {
				if !m.IsValid() {
					return fmt.Errorf("cannot save: unknown mode %q", mode)
				}
				rw, err := a.client.Save(cmd.Context(), text, out.RewrittenText, m)
				if err != nil {
					return requireSession(err)
				}
				fmt.Fprintf(a.errOut, "saved as %s\n", rw.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(model.ModeSummary), "summary, bullet_points, casual or formal")
	cmd.Flags().BoolVar(&save, "save", false, "save the result to history")
	return cmd
}

func (a *App) historyCommand() *cobra.Command {
	var (
		limit  int
		cursor string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved rewrites, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.client.History(cmd.Context(), cursor, limit)
			if err != nil {
				return requireSession(err)
			}
			if len(page.Data) == 0 {
				fmt.Fprintln(a.out, "No saved rewrites yet.")
				return nil
			}
			for _, rw := range page.Data {
				label := rw.ModeLabel
				if label == "" {
					label = model.RewriteMode(rw.RewriteMode).Label()
				}
				fmt.Fprintf(a.out, "%s  %s  [%s]\n", rw.ID, rw.CreatedAt.Local().Format("2006-01-02 15:04"), label)
				fmt.Fprintf(a.out, "  original:  %s\n", oneLine(rw.OriginalText))
				fmt.Fprintf(a.out, "  rewritten: %s\n", oneLine(rw.RewrittenText))
			}
			if page.Pagination != nil && page.Pagination.HasMore {
				fmt.Fprintf(a.out, "more: rewriter history --cursor %s\n", page.Pagination.NextCursor)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (server default 20, max 100)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "cursor from a previous page")
	return cmd
}

func (a *App) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the rewritten text of a saved rewrite",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rw, err := a.client.Edit(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return requireSession(err)
			}
			fmt.Fprintf(a.out, "updated %s\n", rw.ID)
			return nil
		},
	}
}

func (a *App) modesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List rewrite modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes, err := a.client.Modes(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range modes {
				fmt.Fprintf(a.out, "%-14s %s\n", m.Value, m.Label)
			}
			return nil
		},
	}
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 80 {
		return string(r[:77]) + "..."
	}
	return s
}
