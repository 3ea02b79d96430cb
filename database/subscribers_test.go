package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/models"
)

func TestSubscribe_Idempotent(t *testing.T) {
	db := RequireTestDB(t)
	ctx := context.Background()

	sub, created, err := db.Subscribe(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.SubscriberActive, sub.Status)

	again, created, err := db.Subscribe(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sub.SubscribedAt.Unix(), again.SubscribedAt.Unix())

	subs, total, err := db.ListSubscribers(ctx, models.ListParams{})
	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.Equal(t, int64(1), total)
}

func TestSubscribe_ReactivatesUnsubscribed(t *testing.T) {
	db := RequireTestDB(t)
	ctx := context.Background()

	_, _, err := db.Subscribe(ctx, "back@example.com")
	require.NoError(t, err)
	require.NoError(t, db.Unsubscribe(ctx, "back@example.com"))

	got, err := db.GetSubscriber(ctx, "back@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriberUnsubscribed, got.Status)

	sub, created, err := db.Subscribe(ctx, "back@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.SubscriberActive, sub.Status)
}

func TestUnsubscribeAndDelete_NotFound(t *testing.T) {
	db := RequireTestDB(t)
	ctx := context.Background()

	assert.ErrorIs(t, db.Unsubscribe(ctx, "nobody@example.com"), ErrNotFound)
	assert.ErrorIs(t, db.DeleteSubscriber(ctx, "nobody@example.com"), ErrNotFound)
}

func TestImportSubscribers(t *testing.T) {
	db := RequireTestDB(t)
	ctx := context.Background()

	_, _, err := db.Subscribe(ctx, "existing@example.com")
	require.NoError(t, err)

	inserted, err := db.ImportSubscribers(ctx, []string{"existing@example.com", "a@example.com", "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = db.ImportSubscribers(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestStats(t *testing.T) {
	db := RequireTestDB(t)
	ctx := context.Background()

	_, err := db.CreateProject(ctx, newProject("p1", models.StatusPublished))
	require.NoError(t, err)
	_, err = db.CreatePost(ctx, newPost("a", models.StatusPublished, "x"))
	require.NoError(t, err)
	_, err = db.CreatePost(ctx, newPost("b", models.StatusDraft, "x"))
	require.NoError(t, err)
	_, err = db.CreateMessage(ctx, &models.Message{Name: "n", Email: "e@example.com", Message: "m"})
	require.NoError(t, err)
	_, _, err = db.Subscribe(ctx, "s@example.com")
	require.NoError(t, err)

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{
		Projects:          1,
		PublishedPosts:    1,
		DraftPosts:        1,
		UnreadMessages:    1,
		ActiveSubscribers: 1,
	}, stats)
}
