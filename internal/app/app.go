package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dori/mytasks/internal/config"
	"github.com/dori/mytasks/internal/db"
	"github.com/dori/mytasks/internal/kv"
	"github.com/dori/mytasks/internal/logging"
	"github.com/dori/mytasks/internal/notify"
	"github.com/dori/mytasks/internal/store"
	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another process holds the data directory
var ErrAlreadyRunning = errors.New("another instance of mytasks is already running")

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Store    *store.Store
	Notifier *notify.Notifier
	Log      *slog.Logger

	// LoadErr is the non-fatal error from loading saved state, if any
	LoadErr error

	backend  kv.Store
	lockFile *flock.Flock
}

// Option customizes New
type Option func(*App)

// WithBackend uses an already opened durable store instead of the one named
// by the config. The App takes ownership and closes it.
func WithBackend(b kv.Store) Option {
	return func(a *App) { a.backend = b }
}

// New opens the configured backend, loads the saved state and returns a
// ready App. Unreadable or unreachable saved state is logged and the App
// starts with defaults.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		Notifier: notify.NewNotifier(),
		Log:      log,
	}
	for _, opt := range opts {
		opt(app)
	}

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		if app.backend != nil {
			app.backend.Close()
		}
		return nil, err
	}

	if app.backend == nil {
		backend, err := openBackend(ctx, cfg)
		if err != nil {
			app.releaseLock()
			return nil, err
		}
		app.backend = backend
	}
	log.Debug("opened backend", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	app.Store = store.New(app.backend,
		store.WithLogger(log.With("component", "store")),
		store.WithSaveDebounce(cfg.SaveDebounce.Duration),
	)

	if err := app.Store.Load(ctx); err != nil {
		switch {
		case errors.Is(err, store.ErrCorruptState), errors.Is(err, store.ErrPersistence):
			app.LoadErr = err
		default:
			app.Close(ctx)
			return nil, fmt.Errorf("failed to load state: %w", err)
		}
	}

	return app, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.Open(ctx, cfg.DBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database, nil
	case config.BackendFile:
		fs, err := kv.OpenFileStore(cfg.StatePath())
		if err != nil {
			return nil, fmt.Errorf("failed to open state file: %w", err)
		}
		return fs, nil
	case config.BackendRedis:
		rs, err := kv.OpenRedisStore(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return rs, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	a.lockFile = flock.New(a.Config.LockPath())

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrAlreadyRunning
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close writes any pending state, then releases the backend and the lock
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to save state: %w", err))
		}
	}

	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close backend: %w", err))
		}
	}

	a.releaseLock()

	return errors.Join(errs...)
}
