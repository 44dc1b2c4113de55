package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dori/mytasks/internal/app"
	"github.com/spf13/cobra"
)

func modeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func (c *cli) newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, len(args) > 0, func(a *app.App) error {
				s := a.Store
				var err error
				if len(args) == 1 {
					switch args[0] {
					case "dark":
						err = s.SetDarkMode(true)
					case "light":
						err = s.SetDarkMode(false)
					case "toggle":
						_, err = s.ToggleTheme()
					}
				}
				if err != nil {
					return fmt.Errorf("failed to change theme: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), modeName(s.IsDarkMode()))
				return nil
			})
		},
	}
}

func (c *cli) newRemindCmd() *cobra.Command {
	var within time.Duration

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send desktop notifications for tasks that are due",
		Long: `Send a desktop notification (notify-send) for every open task that is
overdue or due within the given window. Suited to a cron job or systemd timer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if within < 0 {
				return errors.New("--within must not be negative")
			}

			return c.withApp(cmd, false, func(a *app.App) error {
				sent, err := a.Notifier.Remind(a.Store.Tasks(), c.now(), within)
				fmt.Fprintf(cmd.OutOrStdout(), "Sent %d reminder(s)\n", sent)
				return err
			})
		},
	}

	cmd.Flags().DurationVar(&within, "within", 24*time.Hour, "how far ahead to look for due tasks")
	return cmd
}
