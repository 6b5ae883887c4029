package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arkus-mindteams/Notary-sub000/internal/app/extraction"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/preaviso"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/document"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
	"github.com/arkus-mindteams/Notary-sub000/mocks"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string][]byte)
	}
	c.items[key] = value
	return nil
}

var registryText = strings.Repeat("CERTIFICADO DE LIBERTAD DE GRAVAMEN FOLIO REAL 1234567. ", 5)

func registryExtraction(t *testing.T) *ports.CompletionResponse {
	t.Helper()
	raw, err := json.Marshal(document.Extracted{
		Folios:       []string{"1234567"},
		BookEntries:  []transaction.BookEntry{{Book: "12", Section: "I", Entry: "345"}},
		TitleHolders: []string{"Luis Martínez Gómez"},
		Address:      "Calle Reforma 100, Centro",
		Text:         registryText,
	})
	require.NoError(t, err)
	return &ports.CompletionResponse{JSON: raw, Usage: ports.Usage{InputTokens: 1000, OutputTokens: 200, Calls: 1}}
}

func newDocumentService(store ports.ContextStore, llm ports.LLM, objects ports.ObjectStore) *DocumentService {
	pipeline := extraction.New(llm, &memoryCache{}, nil, extraction.Config{})
	return NewDocumentService(testDeps(store), pipeline, objects, Config{}, DocumentConfig{})
}

func registryUpload() ports.DocumentUpload {
	return ports.DocumentUpload{
		FileName:     "certificado.PDF",
		Content:      []byte("%PDF-1.7 registry scan"),
		MIMEType:     "application/pdf",
		DeclaredType: document.TypeRegistry,
	}
}

func TestSubmit_RegistryDocumentConfirmsFolio(t *testing.T) {
	t.Parallel()

	llm := mocks.NewMockLLM(t)
	llm.EXPECT().Complete(mock.Anything, mock.Anything).Return(registryExtraction(t), nil).Once()

	up := registryUpload()
	key := "transactions/tx-1/documents/" + extraction.Hash(up.Content) + ".pdf"
	objects := mocks.NewMockObjectStore(t)
	objects.EXPECT().Put(mock.Anything, key, up.Content, "application/pdf").Return(key, nil).Once()

	store := mocks.NewMockContextStore(t)
	store.EXPECT().Load(mock.Anything, "tx-1").Return(nil, domain.ErrNotFound).Once()
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()

	svc := newDocumentService(store, llm, objects)
	res, err := svc.Submit(context.Background(), ports.SubmitRequest{TransactionID: "tx-1", Document: up})
	require.NoError(t, err)

	assert.Equal(t, "1234567", res.Context.Property.Folio)
	assert.Equal(t, transaction.SourceDocument, res.Context.SourceOf(transaction.FieldFolio))
	assert.Equal(t, preaviso.StageSeller, res.Summary.CurrentStage)
	assert.Equal(t, key, res.Document.ObjectRef)
	assert.Equal(t, 1, res.Document.Passes)
	assert.Empty(t, res.Failures)

	rec := res.Context.Document(res.Document.Hash)
	require.NotNil(t, rec)
	assert.Equal(t, transaction.DocumentExtracted, rec.Status)
	assert.Equal(t, key, rec.ObjectRef)
}

func TestSubmit_ResubmissionIsIdempotent(t *testing.T) {
	t.Parallel()

	llm := mocks.NewMockLLM(t)
	llm.EXPECT().Complete(mock.Anything, mock.Anything).Return(registryExtraction(t), nil).Once()
	objects := mocks.NewMockObjectStore(t)
	objects.EXPECT().Put(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ref", nil).Once()

	svc := newDocumentService(nil, llm, objects)
	first, err := svc.Submit(context.Background(), ports.SubmitRequest{TransactionID: "tx-1", Document: registryUpload()})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), ports.SubmitRequest{
		TransactionID: "tx-1",
		Document:      registryUpload(),
		Context:       first.Context,
	})
	require.NoError(t, err)

	assert.True(t, second.Document.Cached)
	assert.Zero(t, second.Document.Usage.Calls)
	require.Len(t, second.AppliedCommands, 1)
	assert.Equal(t, command.KindRecordDocument, second.AppliedCommands[0].Kind())
	assert.Equal(t, first.Context.Parties, second.Context.Parties)
	assert.Equal(t, first.Context.Property, second.Context.Property)
	assert.Equal(t, first.Context.Documents, second.Context.Documents)
}

func TestSubmit_ExtractionFailureIsRecorded(t *testing.T) {
	t.Parallel()

	llm := mocks.NewMockLLM(t)
	llm.EXPECT().Complete(mock.Anything, mock.Anything).Return(nil, domain.ErrUnavailable).Twice()
	objects := mocks.NewMockObjectStore(t)

	svc := newDocumentService(nil, llm, objects)
	res, err := svc.Submit(context.Background(), ports.SubmitRequest{TransactionID: "tx-1", Document: registryUpload()})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Document.Failure)
	assert.Empty(t, res.Document.ObjectRef)
	require.Len(t, res.Context.Documents, 1)
	assert.Equal(t, transaction.DocumentFailed, res.Context.Documents[0].Status)
	// A failed document is not treated as "no data".
	assert.Empty(t, res.Context.Property.Folio)
	assert.Equal(t, preaviso.StageProperty, res.Summary.CurrentStage)
}

func TestSubmitBatch_ExtractsConcurrentlyAppliesInOrder(t *testing.T) {
	t.Parallel()

	registry := document.HandlerFor(document.TypeRegistry)
	llm := mocks.NewMockLLM(t)
	llm.EXPECT().Complete(mock.Anything, mock.MatchedBy(func(r ports.CompletionRequest) bool {
		return r.Text == registry.Instructions
	})).Return(registryExtraction(t), nil).Once()
	llm.EXPECT().Complete(mock.Anything, mock.MatchedBy(func(r ports.CompletionRequest) bool {
		return strings.Contains(r.Text, "INSTITUTO NACIONAL ELECTORAL")
	})).RunAndReturn(func(context.Context, ports.CompletionRequest) (*ports.CompletionResponse, error) {
		raw, _ := json.Marshal(document.Extracted{People: []document.Person{{Name: "Juan Pérez López", TaxID: "PELJ800101AB1"}}})
		return &ports.CompletionResponse{JSON: raw, Usage: ports.Usage{InputTokens: 50, OutputTokens: 10, Calls: 1}}, nil
	}).Once()

	svc := newDocumentService(nil, llm, nil)
	res, err := svc.SubmitBatch(context.Background(), ports.BatchRequest{
		TransactionID: "tx-1",
		Documents: []ports.DocumentUpload{
			registryUpload(),
			{
				FileName:     "ine.txt",
				Content:      []byte("INSTITUTO NACIONAL ELECTORAL\nJUAN PÉREZ LÓPEZ"),
				MIMEType:     "text/plain",
				DeclaredType: document.TypeIdentification,
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, "registry", res.Documents[0].Type)
	assert.Equal(t, "identification", res.Documents[1].Type)
	assert.Equal(t, 2, res.TokenUsage.Calls)
	assert.Equal(t, "1234567", res.Context.Property.Folio)
	require.Len(t, res.Context.Unresolved, 1)
	assert.Equal(t, "PELJ800101AB1", res.Context.Unresolved[0].TaxID)
	assert.Len(t, res.Context.Documents, 2)
}

func TestSubmit_SaveFailureDeletesUpload(t *testing.T) {
	t.Parallel()

	llm := mocks.NewMockLLM(t)
	llm.EXPECT().Complete(mock.Anything, mock.Anything).Return(registryExtraction(t), nil).Once()

	errDown := errors.New("database is down")
	store := mocks.NewMockContextStore(t)
	store.EXPECT().Load(mock.Anything, "tx-1").Return(nil, domain.ErrNotFound).Once()
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(errDown).Once()

	objects := mocks.NewMockObjectStore(t)
	objects.EXPECT().Put(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ref", nil).Once()
	objects.EXPECT().Delete(mock.Anything, mock.Anything).Return(nil).Once()

	svc := newDocumentService(store, llm, objects)
	_, err := svc.Submit(context.Background(), ports.SubmitRequest{TransactionID: "tx-1", Document: registryUpload()})
	require.ErrorIs(t, err, errDown)
}

func TestSubmit_RejectsInvalidUploads(t *testing.T) {
	t.Parallel()

	svc := NewDocumentService(testDeps(nil), extraction.New(nil, nil, nil, extraction.Config{}), nil, Config{}, DocumentConfig{MaxDocumentBytes: 8})

	tests := []struct {
		name string
		up   ports.DocumentUpload
	}{
		{name: "empty", up: ports.DocumentUpload{MIMEType: "image/png"}},
		{name: "too large", up: ports.DocumentUpload{Content: []byte("123456789"), MIMEType: "image/png"}},
		{name: "no mime type", up: ports.DocumentUpload{Content: []byte("1234")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), ports.SubmitRequest{TransactionID: "tx-1", Document: tc.up})
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := svc.SubmitBatch(context.Background(), ports.BatchRequest{TransactionID: "tx-1"})
	require.ErrorIs(t, err, domain.ErrValidation)
}
