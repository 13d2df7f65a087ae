// Package postgres is the server-side data path. Every call goes through a
// Gateway that stops talking to the database for good once a connectivity
// failure has been seen, so callers fail fast instead of piling up timeouts.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/clientdesk/portal/internal/api/metrics"
	"github.com/clientdesk/portal/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for the portal database.
type Config struct {
	DSN     string
	Timeout time.Duration // per call; also bounds the startup ping
}

// Gateway wraps a *sql.DB with a sticky fallback flag. Once set the flag is
// never cleared for the life of the process.
type Gateway struct {
	db       *sql.DB
	timeout  time.Duration
	fallback atomic.Bool
	log      zerolog.Logger
}

// Open connects with the pgx driver and pings. It never fails: an empty DSN,
// a bad DSN or a failed ping all return a gateway that is already in
// fallback mode.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) *Gateway {
	g := &Gateway{timeout: cfg.Timeout, log: log}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}

	if strings.TrimSpace(cfg.DSN) == "" {
		log.Info().Msg("no database configured, portal data path disabled")
		g.fallback.Store(true)
		metrics.GatewayFallback.Set(1)
		return g
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		g.trip("open", err)
		return g
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	g.db = db

	pingCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		g.trip("ping", err)
		return g
	}
	metrics.GatewayFallback.Set(0)
	log.Info().Msg("database connected")
	return g
}

// New wraps an existing handle. Used by tests and callers that manage the
// pool themselves.
func New(db *sql.DB, timeout time.Duration, log zerolog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{db: db, timeout: timeout, log: log}
}

// InFallback reports whether the database has been declared unreachable.
func (g *Gateway) InFallback() bool { return g.fallback.Load() }

// Close releases the pool.
func (g *Gateway) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}

// Exec runs a statement.
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if g.InFallback() {
		return nil, g.shortCircuit("exec")
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	res, err := g.db.ExecContext(ctx, query, args...)
	metrics.GatewayQueryDuration.WithLabelValues("exec").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, g.classify(ctx, "exec", err)
	}
	return res, nil
}

// Query runs a query and hands the rows to scan. The rows are closed when
// scan returns. An error from scan itself is returned wrapped and leaves the
// fallback flag alone; a failure while fetching rows is classified as usual.
func (g *Gateway) Query(ctx context.Context, scan func(*sql.Rows) error, query string, args ...any) error {
	if g.InFallback() {
		return g.shortCircuit("query")
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.GatewayQueryDuration.WithLabelValues("query").Observe(time.Since(start).Seconds())
	}()

	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return g.classify(ctx, "query", err)
	}
	defer rows.Close()

	if err := scan(rows); err != nil {
		if rerr := rows.Err(); rerr != nil {
			return g.classify(ctx, "query", rerr)
		}
		return g.decodeFailure(ctx, "query", err)
	}
	if err := rows.Err(); err != nil {
		return g.classify(ctx, "query", err)
	}
	return nil
}

// QueryRow runs a single-row query. No row maps to domain.ErrNotFound. Errors
// from scan are treated like those in Query.
func (g *Gateway) QueryRow(ctx context.Context, scan func(*sql.Row) error, query string, args ...any) error {
	if g.InFallback() {
		return g.shortCircuit("query_row")
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.GatewayQueryDuration.WithLabelValues("query_row").Observe(time.Since(start).Seconds())
	}()

	row := g.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		return g.classify(ctx, "query_row", err)
	}
	if err := scan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return g.decodeFailure(ctx, "query_row", err)
	}
	return nil
}

// decodeFailure handles an error returned by a caller's scan function. Only a
// connection-class error reaching it through the driver trips the fallback;
// conversion and decode errors are returned as they are.
func (g *Gateway) decodeFailure(ctx context.Context, op string, err error) error {
	if connectivityError(err) {
		return g.classify(ctx, op, err)
	}
	return fmt.Errorf("%s: scan: %w", op, err)
}

func (g *Gateway) shortCircuit(op string) error {
	metrics.GatewayShortCircuitTotal.WithLabelValues(op).Inc()
	return domain.ErrUnavailable
}

// classify maps a driver error onto the domain errors. Errors the server
// reported about the statement itself pass through; anything that points at
// the connection trips the fallback flag.
func (g *Gateway) classify(ctx context.Context, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && !connectivityCode(pgErr.Code) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicateKey)
		case "23503":
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrInvalidReference)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	// The caller went away; the database may be fine.
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	g.trip(op, err)
	return domain.ErrUnavailable
}

// connectivityCode reports SQLSTATEs that describe the connection or server
// state rather than the statement: connection exceptions (08), invalid
// authorization (28), admin/crash shutdown (57P01-03) and too many
// connections (53300).
func connectivityCode(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "28"):
		return true
	case code == "57P01", code == "57P02", code == "57P03", code == "53300":
		return true
	}
	return false
}

// connectivityError reports errors that mean the connection, not the
// statement, went wrong.
func connectivityError(err error) bool {
	var (
		pgErr   *pgconn.PgError
		connErr *pgconn.ConnectError
		netErr  net.Error
	)
	switch {
	case errors.As(err, &pgErr):
		return connectivityCode(pgErr.Code)
	case errors.As(err, &connErr), errors.As(err, &netErr):
		return true
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}

func (g *Gateway) trip(op string, err error) {
	if g.fallback.CompareAndSwap(false, true) {
		metrics.GatewayFallback.Set(1)
		g.log.Error().Err(err).Str("op", op).Msg("database unreachable, entering fallback mode")
	}
}
