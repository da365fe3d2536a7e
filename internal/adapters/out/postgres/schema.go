package postgres

import (
	"fmt"

	"orderflow/internal/adapters/out/postgres/artifactrepo"
	"orderflow/internal/adapters/out/postgres/eventlogrepo"
	"orderflow/internal/adapters/out/postgres/notificationrepo"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectionConfig holds the DSN parts read from configuration.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c ConnectionConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Open connects and migrates the schema.
func Open(dsn string, config *gorm.Config) (*gorm.DB, error) {
	if config == nil {
		config = &gorm.Config{}
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table used by the adapters.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&artifactrepo.ArtifactDTO{},
		&artifactrepo.HistoryDTO{},
		&eventlogrepo.EventDTO{},
		&notificationrepo.NotificationDTO{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Tables lists the tables Migrate manages, children first.
func Tables() []string {
	return []string{"artifact_history", "artifacts", "events", "notifications"}
}
