package statestore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationTable = "oauth_state_migrations"

// Postgres is a state store backed by a Postgres table. Expired rows behave
// as absent immediately; Cleanup removes them physically and is meant to be
// run periodically by the host's scheduler.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed state store. Run Migrate once at
// startup to create the oauth_states table.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate applies the embedded schema migrations for the store.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	// Bridge the pgx pool to the database/sql interface goose expects. The
	// wrapper shares the underlying connections, so it must not be closed.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log})
	goose.SetTableName(migrationTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("statestore: set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("statestore: apply migrations: %w", err)
	}
	return nil
}

// Save stores a token with its value for the given TTL, replacing any
// previous row for the token.
func (p *Postgres) Save(ctx context.Context, token, value string, ttl time.Duration) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO oauth_states (token, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		token, value, time.Now().Add(ttl))
	return err
}

// Get returns the stored value for a live token.
// Returns ErrNotFound for an unknown or expired token.
func (p *Postgres) Get(ctx context.Context, token string) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx, `
		SELECT value FROM oauth_states
		WHERE token = $1 AND expires_at > now()`,
		token).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Delete removes a token. Deleting an absent token is not an error.
func (p *Postgres) Delete(ctx context.Context, token string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM oauth_states WHERE token = $1`, token)
	return err
}

// Cleanup removes expired rows and returns how many were deleted.
func (p *Postgres) Cleanup(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM oauth_states WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLogger) Fatalf(format string, args ...any) {
	// Error level only; goose returns the error that propagates up.
	g.log.Error(fmt.Sprintf(format, args...))
}
