package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dyluth/dogroom/internal/booking"
	"github.com/dyluth/dogroom/internal/config"
	"github.com/dyluth/dogroom/internal/entities"
	"github.com/dyluth/dogroom/internal/printer"
	"github.com/dyluth/dogroom/internal/storage"
	"github.com/dyluth/dogroom/pkg/entitystore"
)

// app is the opened backend and the services built on it.
type app struct {
	cfg      *config.DogRoomConfig
	backend  *storage.Backend
	store    *entities.Store
	bookings *booking.Service
}

// loadConfig reads the config file, then applies environment and flag
// overrides in that order.
func loadConfig() (*config.DogRoomConfig, error) {
	var (
		cfg *config.DogRoomConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultPath)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if instanceName != "" {
		cfg.Instance = instanceName
	}
	if driverName != "" {
		cfg.Storage.Driver = driverName
	}
	if redisURL != "" {
		cfg.Storage.RedisURL = redisURL
	}
	if sqlitePath != "" {
		cfg.Storage.SQLitePath = sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flag override: %w", err)
	}
	return cfg, nil
}

// openApp connects to the configured backend and makes sure the demo dataset
// is present. The caller must call close.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{"Check dogroom.yml and DOGROOM_* environment variables"},
		)
	}

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		suggestions := []string{"Use a local database instead:\n  dogroom --driver sqlite <command>"}
		if cfg.Storage.Driver == config.DriverRedis {
			suggestions = append([]string{"Start a development Redis:\n  dogroom redis up"}, suggestions...)
		}
		return nil, printer.ErrorWithContext(
			"storage unavailable",
			err.Error(),
			map[string]string{"driver": cfg.Storage.Driver, "instance": cfg.Instance},
			suggestions,
		)
	}

	store, err := entities.New(backend)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to build entity store: %w", err)
	}
	if err := store.EnsureSeed(ctx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to seed demo data: %w", err)
	}

	var opts []booking.Option
	if backend.Locker != nil {
		opts = append(opts, booking.WithLocker(backend.Locker))
	}

	return &app{
		cfg:      cfg,
		backend:  backend,
		store:    store,
		bookings: booking.NewService(store, opts...),
	}, nil
}

func (a *app) close() {
	a.backend.Close()
}

// withApp opens the app for the duration of fn.
func withApp(fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

// storeError prints a store error with a suggestion matching its kind.
// Errors of unknown kind are returned unchanged.
func storeError(err error, listCmd string) error {
	var ambig *entitystore.AmbiguousError
	if errors.As(err, &ambig) {
		return printer.Error(
			fmt.Sprintf("ambiguous %s ID '%s'", ambig.Entity, ambig.Prefix),
			fmt.Sprintf("The prefix matches %d records. Use more characters of one of:", len(ambig.Matches)),
			ambig.Matches,
		)
	}

	var se *entitystore.Error
	if !errors.As(err, &se) {
		return err
	}

	switch se.Kind {
	case entitystore.KindNotFound:
		return printer.Error(
			fmt.Sprintf("%s '%s' not found", se.Entity, se.ID),
			"No record with this ID exists in the instance.",
			[]string{fmt.Sprintf("List existing records:\n  %s", listCmd)},
		)
	case entitystore.KindConflict:
		title := fmt.Sprintf("%s '%s' conflict", se.Entity, se.ID)
		return printer.Error(title, se.Reason, nil)
	case entitystore.KindInvalidArgument:
		return printer.Error(fmt.Sprintf("invalid %s request", se.Entity), se.Reason, nil)
	}
	return err
}
