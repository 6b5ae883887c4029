// Package postgres persists transaction contexts in PostgreSQL as JSONB
// documents, one row per transaction.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/config"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.ContextStore  = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

//go:embed schema.sql
var schema string

// Store reads and writes the transaction_contexts table.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for updated_at.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Open connects with lib/pq, applies pool limits and verifies the
// connection.
func Open(ctx context.Context, cfg config.StoreConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// New wraps an open database. The database's lifecycle is managed by the
// caller.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Migrate creates the table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate transaction_contexts: %w", err)
	}
	return nil
}

// Load returns the stored context.
func (s *Store) Load(ctx context.Context, id string) (*transaction.Context, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT context FROM transaction_contexts WHERE transaction_id = $1`, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction %s: %w", id, err)
	}

	var tx transaction.Context
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction %s: %w", id, err)
	}
	return &tx, nil
}

// Save upserts the context under its TransactionID.
func (s *Store) Save(ctx context.Context, tx *transaction.Context) error {
	if tx == nil || tx.TransactionID == "" {
		return domain.NewValidationError("transaction_id", domain.MsgRequired)
	}
	raw, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction %s: %w", tx.TransactionID, err)
	}

	query := `
		INSERT INTO transaction_contexts (transaction_id, transaction_type, current_stage, context, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (transaction_id) DO UPDATE SET
			transaction_type = EXCLUDED.transaction_type,
			current_stage = EXCLUDED.current_stage,
			context = EXCLUDED.context,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		tx.TransactionID, tx.TransactionType, tx.StageMeta.CurrentStage, raw, s.clock().UTC())
	if err != nil {
		return fmt.Errorf("save transaction %s: %w", tx.TransactionID, err)
	}
	return nil
}

// Name returns the identifier used in the health registry.
func (s *Store) Name() string {
	return "postgres"
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
