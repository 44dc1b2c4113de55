package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dori/mytasks/internal/app"
	"github.com/dori/mytasks/internal/model"
	"github.com/dori/mytasks/internal/quickadd"
	"github.com/dori/mytasks/internal/store"
	"github.com/spf13/cobra"
)

func (c *cli) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <task>",
		Short: "Quick add a task",
		Example: `  mytasks add "Buy groceries"
  mytasks add "Review PR @work !high due:tomorrow"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Join all args as the task text
			text := strings.Join(args, " ")
			now := c.now()

			t, err := quickadd.Parse(text, now).NewTask(now)
			if err != nil {
				return fmt.Errorf("invalid task: %w", err)
			}

			return c.withApp(cmd, true, func(a *app.App) error {
				if err := a.Store.AddTask(t); err != nil {
					return fmt.Errorf("failed to add task: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created: %s\n", t.Text)
				fmt.Fprintf(out, "ID: %s\n", t.ID)
				fmt.Fprintf(out, "Category: %s\n", t.Category)
				if t.Priority != model.DefaultPriority {
					fmt.Fprintf(out, "Priority: %s\n", t.Priority)
				}
				if t.DueDate != nil {
					fmt.Fprintf(out, "Due: %s\n", quickadd.FormatDue(*t.DueDate, now))
				}
				return nil
			})
		},
	}
}

func (c *cli) newListCmd() *cobra.Command {
	var (
		pending  bool
		done     bool
		category string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cat model.Category
			if category != "" {
				parsed, ok := model.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
				cat = parsed
			}

			return c.withApp(cmd, false, func(a *app.App) error {
				out := cmd.OutOrStdout()
				all := a.Store.Tasks()
				if len(all) == 0 {
					fmt.Fprintln(out, "No tasks yet. Add one to get started!")
					return nil
				}

				now := c.now()
				shown := 0
				for _, t := range all {
					if pending && t.Completed || done && !t.Completed {
						continue
					}
					if cat != "" && t.Category != cat {
						continue
					}
					printTask(out, t, now)
					shown++
				}
				if shown == 0 {
					fmt.Fprintln(out, "No matching tasks")
				}
				return nil
			})
		},
	}

	cmd.Flags().Bool("all", false, "show every task (default)")
	cmd.Flags().BoolVar(&pending, "pending", false, "show only open tasks")
	cmd.Flags().BoolVar(&done, "done", false, "show only completed tasks")
	cmd.Flags().StringVarP(&category, "category", "c", "", "show only one category")
	cmd.MarkFlagsMutuallyExclusive("all", "pending", "done")
	return cmd
}

func printTask(w io.Writer, t model.Task, now time.Time) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	line := fmt.Sprintf("%s %s  %s  (%s, %s)", check, t.ID, t.Text, t.Category, t.Priority)
	if t.DueDate != nil {
		due := "due " + quickadd.FormatDue(*t.DueDate, now)
		if !t.Completed && t.DueDate.Before(now) {
			due += " (overdue)"
		}
		line += "  " + due
	}
	fmt.Fprintln(w, line)
}

// findTask accepts a full id or any unambiguous prefix of one
func findTask(s *store.Store, id string) (model.Task, bool, error) {
	if t, ok := s.Task(id); ok {
		return t, true, nil
	}

	var matches []model.Task
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, id) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, false, nil
	case 1:
		return matches[0], true, nil
	}
	return model.Task{}, false, fmt.Errorf("id %q matches %d tasks", id, len(matches))
}

func (c *cli) newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle whether a task is done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, true, func(a *app.App) error {
				t, ok, err := findTask(a.Store, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no task with id %q", args[0])
				}

				if _, err := a.Store.ToggleTaskCompletion(t.ID); err != nil {
					return fmt.Errorf("failed to update task: %w", err)
				}
				if t.Completed {
					fmt.Fprintf(cmd.OutOrStdout(), "Marked as not done: %s\n", t.Text)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Marked as done: %s\n", t.Text)
				}
				return nil
			})
		},
	}
}

func (c *cli) newEditCmd() *cobra.Command {
	var (
		text     string
		category string
		priority string
		due      string
		noDue    bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the fields of a task",
		Example: `  mytasks edit 0192 --priority high
  mytasks edit 0192 --due friday
  mytasks edit 0192 --no-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.Patch
			flags := cmd.Flags()

			if flags.Changed("text") {
				trimmed := strings.TrimSpace(text)
				if trimmed == "" {
					return errors.New("task text cannot be blank")
				}
				patch.Text = &trimmed
			}
			if flags.Changed("category") {
				cat, ok := model.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
				patch.Category = &cat
			}
			if flags.Changed("priority") {
				p, ok := model.ParsePriority(priority)
				if !ok {
					return fmt.Errorf("unknown priority %q", priority)
				}
				patch.Priority = &p
			}
			if flags.Changed("due") {
				d, ok := quickadd.ParseDate(due, c.now())
				if !ok {
					return fmt.Errorf("unknown due date %q", due)
				}
				d = d.UTC()
				patch.DueDate = &d
			}
			patch.ClearDueDate = noDue

			if patch.IsEmpty() {
				return errors.New("nothing to change")
			}

			return c.withApp(cmd, true, func(a *app.App) error {
				t, ok, err := findTask(a.Store, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no task with id %q", args[0])
				}

				if _, err := a.Store.EditTask(t.ID, patch); err != nil {
					return fmt.Errorf("failed to save task: %w", err)
				}
				updated, _ := a.Store.Task(t.ID)
				printTask(cmd.OutOrStdout(), updated, c.now())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "new description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	cmd.Flags().StringVar(&due, "due", "", "new due date")
	cmd.Flags().BoolVar(&noDue, "no-due", false, "remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")
	return cmd
}

func (c *cli) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, true, func(a *app.App) error {
				t, ok, err := findTask(a.Store, args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No task with id %s, nothing deleted\n", args[0])
					return nil
				}

				if _, err := a.Store.DeleteTask(t.ID); err != nil {
					return fmt.Errorf("failed to delete task: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", t.Text)
				return nil
			})
		},
	}
}
