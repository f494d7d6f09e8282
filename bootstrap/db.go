package bootstrap

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"devup/database"
)

// DatabaseStore persists specification records in the settings database.
type DatabaseStore struct {
	db *database.Database
}

var _ Store = (*DatabaseStore)(nil)

func NewStore(db *database.Database) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) Lookup(ctx context.Context, name string) (Record, bool, error) {
	var record Record
	err := s.db.QueryRowContext(ctx,
		"SELECT name, image, fingerprint FROM container WHERE name = ?", name).
		Scan(&record.Name, &record.Image, &record.Fingerprint)

	switch {
	case err == sql.ErrNoRows:
		return Record{}, false, nil
	case err != nil:
		return Record{}, false, errors.Wrapf(err, "unable to look up container %s", name)
	}

	return record, true, nil
}

func (s *DatabaseStore) Save(ctx context.Context, record Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO container (name, image, fingerprint, created_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(name) DO UPDATE SET
		   image = excluded.image,
		   fingerprint = excluded.fingerprint,
		   created_at = excluded.created_at`,
		record.Name, record.Image, record.Fingerprint)

	return errors.Wrapf(err, "unable to save container %s", record.Name)
}

func (s *DatabaseStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM container WHERE name = ?", name)
	return errors.Wrapf(err, "unable to delete container %s", name)
}
