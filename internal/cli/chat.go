package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/evotodo/internal/api"
	"github.com/idilsaglam/evotodo/internal/ui"
)

func (a *App) chatCmd() *cobra.Command {
	var health bool
	cmd := &cobra.Command{
		Use:   "chat [message...]",
		Short: "Talk to the task assistant (interactive without a message)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.client(nil)
			if health {
				h, err := c.ChatHealth(cmd.Context())
				if err != nil {
					return fmt.Errorf("chat health: %w", err)
				}
				ui.OK(a.Out, fmt.Sprintf("%s is %s", h.Service, h.Status))
				return nil
			}
			tok, err := a.requireToken()
			if err != nil {
				return err
			}
			userID := tok.Subject()
			if userID == "" {
				userID = a.Config.UserID
			}
			if userID == "" {
				userID = uuid.NewString()
			}

			if len(args) > 0 {
				return a.say(cmd.Context(), c, userID, strings.Join(args, " "))
			}
			fmt.Fprintln(a.Out, ui.Current().Muted.Render("Type a message, or `exit` to leave."))
			for {
				line, err := a.readLine("> ")
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				switch strings.ToLower(line) {
				case "":
					continue
				case "exit", "quit":
					return nil
				}
				if err := a.say(cmd.Context(), c, userID, line); err != nil {
					if errors.Is(err, api.ErrUnauthorized) {
						return err
					}
					ui.Fail(a.Err, err.Error())
				}
			}
		},
	}
	cmd.Flags().BoolVar(&health, "health", false, "check that the assistant is up")
	return cmd
}

func (a *App) say(ctx context.Context, c *api.Client, userID, msg string) error {
	resp, err := c.Chat(ctx, api.ChatRequest{UserInput: msg, UserID: userID})
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	fmt.Fprintln(a.Out, resp.Response)
	if resp.MutatedTasks() {
		ui.Hint(a.Out, "Tasks changed. Run `evotodo ls` to see them.")
	}
	return nil
}
