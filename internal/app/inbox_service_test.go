package app

import (
	"context"
	"testing"
	"time"

	"training_center_ledger/internal/domain/notification"
	idb "training_center_ledger/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(t *testing.T, nr *memNotificationRepo, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, nr.Create(context.Background(), &notification.Notification{
			Title:     TrainingNotificationTitle,
			Message:   "message",
			RelatedTo: notification.RelatedToStaffTraining,
			RelatedID: int64(i),
			Date:      day(2024, time.June, 5),
		}))
	}
}

func TestInbox_UnreadCountEmpty(t *testing.T) {
	inbox := NewInboxService(newMemNotificationRepo())

	count, err := inbox.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInbox_MarkRead(t *testing.T) {
	nr := newMemNotificationRepo()
	seedNotifications(t, nr, 3)
	inbox := NewInboxService(nr)
	ctx := context.Background()

	n, err := inbox.MarkRead(ctx, 2)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	// Marking twice is fine.
	_, err = inbox.MarkRead(ctx, 2)
	require.NoError(t, err)

	count, err := inbox.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = inbox.MarkRead(ctx, 99)
	assert.ErrorIs(t, err, idb.ErrNotificationNotFound)
}

func TestInbox_UnreadAndMarkAll(t *testing.T) {
	nr := newMemNotificationRepo()
	seedNotifications(t, nr, 25)
	inbox := NewInboxService(nr)
	ctx := context.Background()

	items, err := inbox.Unread(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, items, defaultInboxLimit)
	assert.Equal(t, int64(25), items[0].ID, "newest first")

	marked, err := inbox.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(25), marked)

	count, err := inbox.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
