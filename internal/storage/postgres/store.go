// Package postgres is the PostgreSQL backend. Multi-row invariants (seat
// counts, member counts) are kept inside single transactions so concurrent
// requests cannot overshoot capacity.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/Togather-Foundation/clubhub/internal/domain/ids"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/Togather-Foundation/clubhub/internal/metrics"
	"github.com/Togather-Foundation/clubhub/internal/storage"
	"github.com/Togather-Foundation/clubhub/internal/telemetry"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "clubhub/storage/postgres"

var (
	_ storage.Repository = (*Store)(nil)
	_ storage.Seeder     = (*Store)(nil)
)

// Store implements storage.Repository on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func New(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, errors.New("postgres store: pool is nil")
	}
	return &Store{pool: pool, now: time.Now}, nil
}

// Pool exposes the pool for connection metrics.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Clubs() clubs.Repository                 { return &ClubRepository{store: s} }
func (s *Store) Events() events.Repository               { return &EventRepository{store: s} }
func (s *Store) Registrations() registrations.Repository { return &RegistrationRepository{store: s} }
func (s *Store) Followers() followers.Repository         { return &FollowerRepository{store: s} }
func (s *Store) Announcements() announcements.Repository { return &AnnouncementRepository{store: s} }
func (s *Store) Admins() admins.Repository               { return &AdminRepository{store: s} }
func (s *Store) Sessions() auth.SessionStore             { return &SessionRepository{store: s} }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// queryer is satisfied by both the pool and a transaction.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// stamp returns a creation time at database precision and a ULID minted
// from it.
func (s *Store) stamp() (time.Time, string, error) {
	now := s.now().UTC().Truncate(time.Microsecond)
	id, err := ids.NewULIDAt(now)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("generate id: %w", err)
	}
	return now, id, nil
}

// domainErrors roll a transaction back without counting as database
// failures.
var domainErrors = []error{
	clubs.ErrNotFound,
	events.ErrNotFound,
	events.ErrFull,
	registrations.ErrNotFound,
	followers.ErrNotFound,
	followers.ErrAlreadyFollowing,
	admins.ErrNotFound,
	admins.ErrEmailTaken,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// withTx runs fn in a transaction, traced and timed under operation.
func (s *Store) withTx(ctx context.Context, operation string, fn func(pgx.Tx) error) (err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "postgres."+operation,
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", operation),
	)
	start := time.Now()
	defer func() {
		observed := err
		if isDomainError(err) {
			observed = nil
		}
		metrics.ObserveTx(operation, start, observed)
		telemetry.EndSpan(span, observed)
	}()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
