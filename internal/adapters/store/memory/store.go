// Package memory is an in-process context store for single-instance
// deployments and tests. Contexts are kept as JSON so callers never share
// mutable state with the store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Compile-time interface check.
var _ ports.ContextStore = (*Store)(nil)

// Store keeps serialized contexts keyed by transaction id.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Load decodes the stored context.
func (s *Store) Load(_ context.Context, id string) (*transaction.Context, error) {
	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}

	var tx transaction.Context
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("decoding transaction %s: %w", id, err)
	}
	return &tx, nil
}

// Save upserts tx under its TransactionID.
func (s *Store) Save(_ context.Context, tx *transaction.Context) error {
	if tx == nil || tx.TransactionID == "" {
		return domain.NewValidationError("transaction_id", domain.MsgRequired)
	}
	raw, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encoding transaction %s: %w", tx.TransactionID, err)
	}

	s.mu.Lock()
	s.docs[tx.TransactionID] = raw
	s.mu.Unlock()
	return nil
}

// Name returns the identifier used in the health registry.
func (s *Store) Name() string {
	return "context-store"
}

// HealthCheck always succeeds.
func (s *Store) HealthCheck(context.Context) error {
	return nil
}
