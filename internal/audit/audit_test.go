package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blpgate/internal/audit"
	"blpgate/internal/storage"
	id "blpgate/pkg/domain"
	"blpgate/pkg/requestcontext"
)

func TestPublisherStampsEvents(t *testing.T) {
	store := storage.NewInMemoryAuditStore()
	publisher := audit.NewPublisher(store)

	fixed := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), fixed)
	ctx = requestcontext.WithRequestID(ctx, "req-42")

	err := publisher.Emit(ctx, audit.Event{
		Type:      audit.EventReadAccess,
		SubjectID: id.NewUserID(),
		Details:   "READ granted: Secret can read Public",
		Success:   true,
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	assert.False(t, events[0].ID.IsNil())
	assert.Equal(t, fixed, events[0].Timestamp)
	assert.Equal(t, "req-42", events[0].RequestID)
}

type brokenStore struct{}

func (brokenStore) Append(context.Context, audit.Event) error { return errors.New("sink down") }
func (brokenStore) List(context.Context, audit.Query) ([]audit.Event, error) {
	return nil, errors.New("sink down")
}
func (brokenStore) Statistics(context.Context) (audit.Statistics, error) {
	return audit.Statistics{}, errors.New("sink down")
}

func TestPublisherSurfacesAppendFailure(t *testing.T) {
	publisher := audit.NewPublisher(brokenStore{})
	err := publisher.Emit(context.Background(), audit.Event{Type: audit.EventWriteAccess})
	require.Error(t, err)
}

func TestServiceListAndStatistics(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemoryAuditStore()
	service, err := audit.NewService(store)
	require.NoError(t, err)

	subject := id.NewUserID()
	other := id.NewUserID()
	seed := []audit.Event{
		{ID: id.NewAuditEventID(), Type: audit.EventReadAccess, SubjectID: subject, Success: true},
		{ID: id.NewAuditEventID(), Type: audit.EventReadAccess, SubjectID: subject, Success: false},
		{ID: id.NewAuditEventID(), Type: audit.EventWriteAccess, SubjectID: other, Success: false},
		{ID: id.NewAuditEventID(), Type: audit.EventObjectDelete, SubjectID: subject, Success: true},
	}
	for _, event := range seed {
		require.NoError(t, store.Append(ctx, event))
	}

	t.Run("newest first", func(t *testing.T) {
		events, lerr := service.List(ctx, audit.Query{})
		require.NoError(t, lerr)
		require.Len(t, events, 4)
		assert.Equal(t, audit.EventObjectDelete, events[0].Type)
	})

	t.Run("filter by type and success", func(t *testing.T) {
		failed := false
		events, lerr := service.List(ctx, audit.Query{Type: audit.EventReadAccess, Success: &failed})
		require.NoError(t, lerr)
		require.Len(t, events, 1)
		assert.False(t, events[0].Success)
	})

	t.Run("filter by subject", func(t *testing.T) {
		events, lerr := service.List(ctx, audit.Query{SubjectID: subject})
		require.NoError(t, lerr)
		assert.Len(t, events, 3)
	})

	t.Run("limit caps the view", func(t *testing.T) {
		events, lerr := service.List(ctx, audit.Query{Limit: 2})
		require.NoError(t, lerr)
		assert.Len(t, events, 2)
	})

	t.Run("statistics aggregate the whole trail", func(t *testing.T) {
		stats, serr := service.Statistics(ctx)
		require.NoError(t, serr)
		assert.Equal(t, 4, stats.TotalEvents)
		assert.Equal(t, 2, stats.SuccessEvents)
		assert.Equal(t, 2, stats.FailedEvents)
		assert.Equal(t, 2, stats.ByType[audit.EventReadAccess])
	})
}

func TestEventTypeCategories(t *testing.T) {
	assert.Equal(t, audit.CategorySecurity, audit.EventReadAccess.Category())
	assert.Equal(t, audit.CategoryAdmin, audit.EventChangeUserLevel.Category())
	assert.Equal(t, audit.CategoryOperations, audit.EventType("unknown").Category())
}
