package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/chatodo/chatodo/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

// Init runs schema migration when the database has not been set up yet.
func (s *Store) Init(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database state")
	}
	if initialized {
		return nil
	}
	if err := s.driver.Migrate(ctx); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}
