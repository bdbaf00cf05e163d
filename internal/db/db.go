package db

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/agorahq/agora/internal/models"
)

const (
	TokenLen         = 64 // bytes of entropy per session token
	LimitMaxTitleLen = 200
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	ErrInvalidFormat    = errors.New("invalid email format")
	ErrEmailAlreadyUsed = errors.New("the email is already used")
	ErrWeakPasswd       = errors.New("the password is too weak")
	ErrBadTitleLen      = errors.New("the title is empty or too long")
	ErrPollFrozen       = errors.New("the poll definition can't change after the first vote")
)

// SharedDB is the explicitly constructed database handle every other handle
// is derived from. There is no process-wide singleton.
type SharedDB struct {
	db         *pgxpool.Pool
	config     *models.EnvConfig
	bcryptCost int
}

func Connect(config *models.EnvConfig) (SharedDB, error) {
	pool, err := pgxpool.Connect(context.Background(), config.DatabaseURL)
	if err != nil {
		err = fmt.Errorf("failed to connect to postgres: %w", err)
	}
	bcryptCost := bcrypt.DefaultCost + 2
	if config.Debug {
		bcryptCost = bcrypt.MinCost
	}

	return SharedDB{
		db:         pool,
		config:     config,
		bcryptCost: bcryptCost,
	}, err
}

func (sdb *SharedDB) Close() {
	sdb.db.Close()
}

func MigrateUp(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}
	defer m.Close()
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("while migrating up: %w", err)
	}
	return nil
}

func MigrateDown(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}
	defer m.Close()
	err = m.Down()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("while migrating down: %w", err)
	}
	return nil
}

func Drop(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("error reading migrations: %w", err)
	}
	defer m.Close()
	return m.Drop()
}

func execTx(ctx context.Context, db *pgxpool.Pool, txFunc func(context.Context, pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	err = txFunc(ctx, tx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
