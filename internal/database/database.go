package database

import (
	"context"
	"fmt"
	"time"

	"bus-track/internal/config"
	"bus-track/internal/mylogger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DataBase struct {
	cfg   *config.DBconfig
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// Connect initializes a pgx pool with retry logic and returns the DataBase handle.
func Connect(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DataBase, error) {
	d := &DataBase{
		cfg:   dbCfg,
		mylog: mylog,
	}

	if err := d.connect(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *DataBase) Pool() *pgxpool.Pool {
	return d.pool
}

func (d *DataBase) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// IsAlive pings the DB to verify it's responsive
func (d *DataBase) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (d *DataBase) connect(ctx context.Context) error {
	connStr := fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=disable",
		d.cfg.User,
		d.cfg.Password,
		d.cfg.Host,
		d.cfg.Port,
		d.cfg.Database,
	)

	var lastErr error
	for i := 0; i < d.cfg.MaxRetries; i++ {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				d.pool = pool
				d.mylog.Info("Successfully connected to the database")
				return nil
			}
			pool.Close()
		}

		lastErr = fmt.Errorf("failed to connect to database: %w", err)
		d.mylog.Error(fmt.Sprintf("DB connection attempt %d failed", i+1), err)

		// Backoff (1s, 2s, 3s, ...)
		time.Sleep(time.Second * time.Duration(i+1))
	}

	return fmt.Errorf("failed to connect to the database after %d attempts: %w", d.cfg.MaxRetries, lastErr)
}
