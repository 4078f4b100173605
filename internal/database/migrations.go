package database

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/xelth-com/jobintake/internal/models"
	"gorm.io/gorm"
)

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "20261015_create_user_auths",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.UserAuth{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("user_auths")
			},
		},
		{
			ID: "20261015_create_jobs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.JobRecord{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("jobs")
			},
		},
	}
}

// Migrate brings the schema up to date
func (db *DB) Migrate() error {
	m := gormigrate.New(db.DB, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if db.log != nil {
		db.log.Info("Schema synchronized", "migrations", len(migrations()))
	}
	return nil
}
