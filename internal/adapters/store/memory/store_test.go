package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	_, err := s.Load(ctx, "tx-1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	tx := transaction.New("tx-1", "property_transfer")
	tx.Property.Folio = "1234567"
	require.NoError(t, s.Save(ctx, tx))

	// Later changes to the saved value do not leak into the store.
	tx.Property.Folio = "7654321"

	got, err := s.Load(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, "1234567", got.Property.Folio)
	assert.Equal(t, "property_transfer", got.TransactionType)
}

func TestStore_SaveRequiresID(t *testing.T) {
	t.Parallel()

	err := New().Save(context.Background(), &transaction.Context{})
	require.ErrorIs(t, err, domain.ErrValidation)
}
