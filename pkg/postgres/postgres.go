package postgres

import (
	"database/sql"
	"fmt"

	"github.com/blobfi/staking-engine/internal/config"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type PostgresConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	DbName     string
	SchemaName string
}

type Postgres struct {
	Db *sql.DB
}

func PostgresConfigFromDbConfig(cfg *config.DatabaseConfig) *PostgresConfig {
	return &PostgresConfig{
		Host:       cfg.Host,
		Port:       cfg.Port,
		Username:   cfg.User,
		Password:   cfg.Password,
		DbName:     cfg.DbName,
		SchemaName: cfg.SchemaName,
	}
}

func (c *PostgresConfig) GetConnectionString() string {
	connectString := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable",
		c.Host,
		c.Port,
		c.Username,
		c.DbName,
	)
	if c.Password != "" {
		connectString = fmt.Sprintf("%s password=%s", connectString, c.Password)
	}
	if c.SchemaName != "" {
		connectString = fmt.Sprintf("%s search_path=%s", connectString, c.SchemaName)
	}
	return connectString
}

func NewPostgres(cfg *PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.GetConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &Postgres{
		Db: db,
	}, nil
}

func NewGormFromPostgresConnection(pgDb *sql.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		Conn: pgDb,
	}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
}

// GetTestPostgresDatabase opens a migrated connection for integration tests.
// Callers are expected to gate on the database env vars being present.
func GetTestPostgresDatabase(cfg config.DatabaseConfig, l *zap.Logger) (*sql.DB, *gorm.DB, error) {
	pg, err := NewPostgres(PostgresConfigFromDbConfig(&cfg))
	if err != nil {
		return nil, nil, err
	}
	grm, err := NewGormFromPostgresConnection(pg.Db)
	if err != nil {
		return nil, nil, err
	}
	return pg.Db, grm, nil
}
