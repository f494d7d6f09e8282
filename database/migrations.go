package database

import (
	"crypto/md5"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	"devup/log"
)

type Migration struct {
	Service     string
	Description string
	Query       string
}

func (migration Migration) String() string {
	return migration.Service + " - " + migration.Description
}

type Migrations struct {
	migrations []Migration
}

func (m *Migrations) AddAll(migrations []Migration) {
	m.migrations = append(m.migrations, migrations...)
}

func (m *Migrations) Size() int {
	return len(m.migrations)
}

const createMigrationTable = `
CREATE TABLE IF NOT EXISTS migration (
	id          integer primary key autoincrement,
	service     text not null,
	description text not null,
	hash        text not null,
	applied     boolean
)
`

// Migrate applies all pending migrations, tracking each by a hash of its
// query so an edited migration is caught rather than silently re-run.
func (db *Database) Migrate(migrations Migrations) error {
	log.Debug("Creating migration table if necessary")

	_, err := db.Exec(createMigrationTable)
	if err != nil {
		return errors.Wrap(err, "unable to create migration table")
	}

	for _, migration := range migrations.migrations {
		if err := migration.apply(db); err != nil {
			return err
		}
	}

	return nil
}

func (migration Migration) apply(db *Database) error {
	rawHash := md5.Sum([]byte(migration.Query))
	hash := fmt.Sprintf("%x", rawHash)

	var dbHash string
	var dbApplied bool
	needsApplying := false
	err := db.QueryRow("SELECT hash, applied FROM migration WHERE service = ? and description = ?",
		migration.Service, migration.Description).Scan(&dbHash, &dbApplied)

	switch {
	case err == sql.ErrNoRows:
		log.Debug("Migration %v needs to be applied.", migration)
		needsApplying = true
	case err != nil:
		return errors.Wrapf(err, "error when searching for migration %v", migration)
	}

	if !needsApplying {
		if !dbApplied {
			return errors.Errorf("migration %v was already attempted, but failed to apply", migration)
		}

		if hash != dbHash {
			return errors.Errorf("migration %v already applied but hashes differ: found %s != expected %s",
				migration, dbHash, hash)
		}

		log.Debug("Migration %v already applied.", migration)
		return nil
	}

	log.Info("Applying migration %v ...", migration)

	_, err = db.Exec(migration.Query)
	applied := err == nil
	if err != nil {
		log.Error("... unable to apply migration %v: %v", migration, err)
	}

	_, recordErr := db.Exec("INSERT INTO migration (service, description, hash, applied) VALUES (?, ?, ?, ?)",
		migration.Service, migration.Description, hash, applied)
	if recordErr != nil {
		return errors.Wrapf(recordErr, "unable to save migration %v", migration)
	}

	if !applied {
		return errors.Wrapf(err, "unable to apply migration %v", migration)
	}

	return nil
}
