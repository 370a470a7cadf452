package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/evotodo/internal/api"
	"github.com/idilsaglam/evotodo/internal/board"
	"github.com/idilsaglam/evotodo/internal/model"
	"github.com/idilsaglam/evotodo/internal/tui"
	"github.com/idilsaglam/evotodo/internal/ui"
)

func (a *App) lsCmd() *cobra.Command {
	var plain, group bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List todos and tasks (interactive unless --plain)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if plain || group {
				return a.listPlain(cmd, group)
			}
			return a.dashboard(cmd)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print a framed list instead of the dashboard")
	cmd.Flags().BoolVar(&group, "group", false, "group by pending/done (implies --plain)")
	return cmd
}

func (a *App) dashboard(cmd *cobra.Command) error {
	bridge := tui.NewBridge()
	c := a.client(bridge)
	m, err := a.mutator(c)
	if err != nil {
		return err
	}
	dest, err := a.Dashboard(cmd.Context(), tui.Options{
		Lister:         c,
		Mutator:        m,
		Session:        a.Store,
		Navigator:      bridge,
		NoticeDuration: a.Config.NoticeDuration,
	})
	if errors.Is(err, tui.ErrSignedOut) {
		return &exitError{code: 2, err: fmt.Errorf("%s: %w", tui.MsgSignInFirst, errSignedOut)}
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	switch dest {
	case api.DestSignIn:
		a.navigate(dest)
		return &exitError{code: 2, err: api.ErrUnauthorized}
	case api.DestSignUp:
		ui.OK(a.Out, "signed out")
		ui.Hint(a.Out, "Run: evotodo auth register")
	}
	return nil
}

func (a *App) listPlain(cmd *cobra.Command, group bool) error {
	if _, err := a.requireToken(); err != nil {
		return err
	}
	st := board.Load(cmd.Context(), a.client(nil))
	if st.Unauthorized() {
		return st.Err()
	}
	items := st.Items()
	th := ui.Current()

	d, p := counts(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), d,
		th.Pending.Render(th.SymPending), p,
		th.Accent.Render("Total"), len(items),
	)
	lines := []string{header, th.Muted.Render(ui.ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items, nil)...)
	}
	lines = append(lines, "", th.Muted.Render("Tip: add with `evotodo add \"Buy milk\"`"))
	ui.Panel(a.Out, lines)

	var failed []string
	if st.TodoErr != nil {
		ui.Fail(a.Err, "todos: "+st.TodoErr.Error())
		failed = append(failed, "todos")
	}
	if st.TaskErr != nil {
		ui.Fail(a.Err, "tasks: "+st.TaskErr.Error())
		failed = append(failed, "tasks")
	}
	if len(failed) > 0 {
		return fmt.Errorf("could not load %s", strings.Join(failed, " and "))
	}
	return nil
}

func counts(items []board.Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// flatLines renders items with their 1-based position in the full list.
// pos maps item index to that position; nil means index+1.
func flatLines(items []board.Item, pos []int) []string {
	th := ui.Current()
	if len(items) == 0 {
		return []string{th.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		n := i + 1
		if pos != nil {
			n = pos[i]
		}
		box, style := th.BoxUnchecked, th.Muted
		if it.Completed {
			box, style = th.BoxChecked, th.Success
		}
		meta := it.Ref.String() + " · due " + it.DueLabel()
		if it.Priority != "" {
			meta += " · " + string(it.Priority)
		}
		if it.Status == model.StatusInProgress {
			meta += " · " + string(it.Status)
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			th.Muted.Render(fmt.Sprintf("%2d.", n)), style.Render(box), ui.Truncate(it.Title, 80), th.Badge.Render(meta)))
	}
	return out
}

func groupLines(items []board.Item) []string {
	th := ui.Current()
	var pend, done []board.Item
	var pendPos, donePos []int
	for i, it := range items {
		if it.Completed {
			done, donePos = append(done, it), append(donePos, i+1)
		} else {
			pend, pendPos = append(pend, it), append(pendPos, i+1)
		}
	}
	section := func(title string, items []board.Item, pos []int) []string {
		lines := []string{th.Accent.Render(title)}
		if len(items) == 0 {
			return append(lines, th.Muted.Render("(none)"))
		}
		return append(lines, flatLines(items, pos)...)
	}
	lines := section("Pending", pend, pendPos)
	lines = append(lines, "")
	return append(lines, section("Done", done, donePos)...)
}

func (a *App) addCmd() *cobra.Command {
	var (
		description, due, priority string
		asTask                     bool
	)
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireToken(); err != nil {
				return err
			}
			if priority != "" && !model.Priority(strings.ToLower(priority)).Valid() {
				return usage("add: --priority must be low, medium or high")
			}
			d := board.Draft{
				Title:       strings.Join(args, " "),
				Description: description,
				Priority:    model.Priority(strings.ToLower(priority)),
			}
			if due != "" {
				t, err := model.ParseTime(due)
				if err != nil {
					return usage("add: bad --due %q", due)
				}
				d.DueDate = &t
			}
			c := a.client(nil)
			m, err := a.mutator(c)
			if err != nil {
				return err
			}
			if asTask || priority != "" {
				m.AddTarget = model.KindTask
			}
			ch, err := m.Add(cmd.Context(), d)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(a.Out, ch.Message()+" ("+ch.Ref.String()+")")
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVar(&due, "due", "", "due date, e.g. 2025-01-31")
	cmd.Flags().BoolVar(&asTask, "task", false, "create a task instead of a todo")
	cmd.Flags().StringVar(&priority, "priority", "", "task priority: low, medium or high (implies --task)")
	return cmd
}

func (a *App) doneCmd(completed bool) *cobra.Command {
	use, short := "done <ref|index>", "Mark an item as complete"
	if !completed {
		use, short = "undone <ref|index>", "Mark an item as incomplete"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireToken(); err != nil {
				return err
			}
			c := a.client(nil)
			ref, err := a.resolve(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			m, err := a.mutator(c)
			if err != nil {
				return err
			}
			ch, err := m.Toggle(cmd.Context(), ref, completed)
			if err != nil {
				return fmt.Errorf("%s: %w", cmd.Name(), err)
			}
			ui.OK(a.Out, ch.Message())
			return nil
		},
	}
}

func (a *App) editCmd() *cobra.Command {
	var title, description, due string
	cmd := &cobra.Command{
		Use:   "edit <ref|index>",
		Short: "Change the title, description or due date of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireToken(); err != nil {
				return err
			}
			var p board.Patch
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("description") {
				p.Description = &description
			}
			if due != "" {
				t, err := model.ParseTime(due)
				if err != nil {
					return usage("edit: bad --due %q", due)
				}
				p.DueDate = &t
			}
			if p.Empty() {
				return usage("edit: nothing to change; pass --title, --description or --due")
			}
			c := a.client(nil)
			ref, err := a.resolve(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			m, err := a.mutator(c)
			if err != nil {
				return err
			}
			ch, err := m.Update(cmd.Context(), ref, p)
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			ui.OK(a.Out, ch.Message())
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&due, "due", "", "new due date")
	return cmd
}

func (a *App) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <ref|index>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireToken(); err != nil {
				return err
			}
			c := a.client(nil)
			ref, err := a.resolve(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			m, err := a.mutator(c)
			if err != nil {
				return err
			}
			ch, err := m.Delete(cmd.Context(), ref)
			if err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			ui.OK(a.Out, ch.Message())
			return nil
		},
	}
}
