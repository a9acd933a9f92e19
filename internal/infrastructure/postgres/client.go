package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shijra-api/internal/config"
	"github.com/shijra-api/internal/domain"
	"go.uber.org/zap"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL through gorm, applies pool limits and verifies
// the connection with a ping.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(gormpg.Open(cfg.PostgresDSN), &gorm.Config{Logger: NewLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info("connected to PostgreSQL")
	return db, nil
}

// NewLogger routes gorm's logger through zap. Slow statements over one second
// are reported; record-not-found is not an error for callers here.
func NewLogger(log *zap.Logger) logger.Interface {
	return logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Migrate creates or updates every table this service reads or writes.
// The users table is owned elsewhere; creating it here only matters for local
// databases and tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Notification{},
		&domain.Hint{},
		&domain.DNAUpload{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Option customises a repository.
type Option func(*repoOptions)

type repoOptions struct {
	now func() time.Time
}

// WithClock overrides the time source used for store-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *repoOptions) { o.now = now }
}

func buildOptions(opts []Option) repoOptions {
	o := repoOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// stamp returns a UTC timestamp truncated to the precision PostgreSQL keeps,
// so the record handed back after insert equals what a later read returns.
func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Microsecond)
}
