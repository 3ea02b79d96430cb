package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/models"
)

func TestMessageLifecycle(t *testing.T) {
	db := RequireTestDB(t)
	ctx := context.Background()

	created, err := db.CreateMessage(ctx, &models.Message{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hello",
		Message: "I'd like to work together",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.Read)

	_, err = db.CreateMessage(ctx, &models.Message{Name: "Bob", Email: "bob@example.com", Message: "Hi"})
	require.NoError(t, err)

	unread, total, err := db.ListMessages(ctx, models.ListParams{Unread: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)
	assert.Equal(t, int64(2), total)

	marked, err := db.MarkMessageRead(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, marked.Read)

	unread, _, err = db.ListMessages(ctx, models.ListParams{Unread: true})
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	all, _, err := db.ListMessages(ctx, models.ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := db.GetMessage(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	require.NoError(t, db.DeleteMessage(ctx, created.ID))
	_, err = db.GetMessage(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessage_NotFound(t *testing.T) {
	db := RequireTestDB(t)
	ctx := context.Background()

	_, err := db.MarkMessageRead(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteMessage(ctx, uuid.New()), ErrNotFound)
}
