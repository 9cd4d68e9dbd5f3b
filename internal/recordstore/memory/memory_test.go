package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolver/internal/domain"
	"resolver/internal/recordstore"
	"resolver/internal/recordstore/memory"
)

func TestStorage_ReplaceAndRead(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStorage()

	recs := []domain.Record{{"id": 1.0, "email": "a@x.com"}, {"id": 2.0, "email": "b@x.com"}}
	require.NoError(t, s.Replace(ctx, domain.Alias, recs))

	got, err := s.Records(ctx, domain.Alias)
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	// the store keeps its own slice
	recs[0] = domain.Record{"id": 9.0}
	got[1] = nil
	again, err := s.Records(ctx, domain.Alias)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", again[0].String("email"))
	assert.NotNil(t, again[1])

	empty, err := s.Records(ctx, domain.Mailbox)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestStorage_ReplaceWithNothingClears(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStorage()
	require.NoError(t, s.Replace(ctx, domain.Domain, []domain.Record{{"suffix": "@sl.io"}}))
	require.NoError(t, s.Replace(ctx, domain.Domain, nil))

	got, err := s.Records(ctx, domain.Domain)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_InvalidType(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStorage()

	_, err := s.Records(ctx, "printer")
	assert.ErrorIs(t, err, recordstore.ErrInvalidInput)
	assert.ErrorIs(t, s.Replace(ctx, "printer", nil), recordstore.ErrInvalidInput)
}

func TestStorage_CloseDropsEverything(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStorage()
	require.NoError(t, s.Replace(ctx, domain.Contact, []domain.Record{{"id": 1.0}}))
	require.NoError(t, s.Close())

	got, err := s.Records(ctx, domain.Contact)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStorage()
	require.NoError(t, s.Replace(ctx, domain.Mailbox, []domain.Record{{"id": 1.0, "email": "me@x.com"}}))

	snap, err := recordstore.Snapshot(ctx, s)
	require.NoError(t, err)
	assert.Len(t, snap, len(domain.EntityTypes))
	assert.Len(t, snap[domain.Mailbox], 1)
	assert.Nil(t, snap[domain.Alias])
}
