package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/mytasks/internal/app"
	"github.com/dori/mytasks/internal/config"
	"github.com/dori/mytasks/internal/logging"
	"github.com/dori/mytasks/internal/notify"
	"github.com/dori/mytasks/internal/store"
	"github.com/dori/mytasks/internal/ui"
	"github.com/dori/mytasks/internal/ui/theme"
	"github.com/spf13/cobra"
)

const closeTimeout = 5 * time.Second

// cli holds the global flags and the clock shared by every command
type cli struct {
	flags config.Flags
	now   func() time.Time

	// runner replaces notify-send when set
	runner notify.Runner
}

func newCLI() *cli {
	return &cli{now: time.Now}
}

func (c *cli) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mytasks",
		Short: "A small task list for the terminal",
		Long: `mytasks keeps a list of tasks with a category, a priority and an
optional due date. Run it without a command to open the interactive list.

Quick add syntax:
  mytasks add "Buy milk @shopping !low due:tomorrow"

  Category:  @work @personal @shopping @health @other
  Priority:  !low !medium !high
  Due date:  due:today due:tomorrow due:friday due:2024-01-15`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/mytasks/config.toml)")
	pf.StringVar(&c.flags.DataDir, "data-dir", "", "directory holding the saved tasks")
	pf.StringVar(&c.flags.Backend, "backend", "", "storage backend (sqlite, file, redis)")
	pf.StringVar(&c.flags.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.newAddCmd(),
		c.newListCmd(),
		c.newDoneCmd(),
		c.newEditCmd(),
		c.newRmCmd(),
		c.newThemeCmd(),
		c.newRemindCmd(),
		newVersionCmd(),
	)
	return root
}

// withApp opens the application for a single command and always closes it,
// which writes any pending change. Commands that change tasks refuse to run
// when the saved state could not be read, so it is never overwritten.
func (c *cli) withApp(cmd *cobra.Command, mutates bool, fn func(a *app.App) error) error {
	cfg, err := config.Load(c.flags)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logging.New(cmd.ErrOrStderr(), level)

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if c.runner != nil {
		a.Notifier = a.Notifier.WithRunner(c.runner)
	}

	switch {
	case a.LoadErr == nil:
		err = fn(a)
	case mutates && errors.Is(a.LoadErr, store.ErrPersistence):
		err = fmt.Errorf("saved tasks are unavailable, not changing anything: %w", a.LoadErr)
	default:
		log.Warn("could not load saved tasks", "err", a.LoadErr)
		err = fn(a)
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if cerr := a.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (c *cli) runTUI(ctx context.Context) error {
	cfg, err := config.Load(c.flags)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	themes, err := theme.NewPair(cfg.ThemeDark, cfg.ThemeLight)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI, so logs go to a file
	log, logFile, err := logging.NewFile(cfg.LogPath(), level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := application.Close(closeCtx); err != nil {
			log.Error("failed to close", "err", err)
		}
	}()

	model := ui.NewRootModel(application, themes)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mytasks v%s\n", version)
		},
	}
}
