package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is the gorm handle shared by every repository
type Database struct {
	DB *gorm.DB
}

type DatabaseOption func(*gorm.Config)

// WithLogger replaces the silent default, normally with logger.GormLogger
func WithLogger(l logger.Interface) DatabaseOption {
	return func(c *gorm.Config) { c.Logger = l }
}

// WithoutPreparedStatements is for poolers in transaction mode and for sqlmock
func WithoutPreparedStatements() DatabaseOption {
	return func(c *gorm.Config) { c.PrepareStmt = false }
}

func NewDatabase(cfg *config.DatabaseConfig, opts ...DatabaseOption) (*Database, error) {
	return OpenDatabase(postgres.Open(cfg.DSN()), cfg, opts...)
}

// OpenDatabase opens dialector and pings it once. Pool limits from cfg are
// applied when cfg is set. TranslateError is on, so unique violations come
// back as gorm.ErrDuplicatedKey.
func OpenDatabase(dialector gorm.Dialector, cfg *config.DatabaseConfig, opts ...DatabaseOption) (*Database, error) {
	gc := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		DisableAutomaticPing:   true,
	}
	for _, opt := range opts {
		opt(gc)
	}

	gdb, err := gorm.Open(dialector, gc)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db := &Database{DB: gdb}
	pool, err := db.SQLDB()
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// SQLDB is the pool under gorm
func (d *Database) SQLDB() (*sql.DB, error) {
	pool, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}
	return pool, nil
}

func (d *Database) Close() error {
	pool, err := d.SQLDB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// Ping backs the readiness check
func (d *Database) Ping(ctx context.Context) error {
	pool, err := d.SQLDB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}
