package app

import (
	"context"
	"fmt"

	"training_center_ledger/internal/domain/notification"
)

const defaultInboxLimit = 20

// InboxService is the user-facing side of stored notifications.
type InboxService struct {
	notifRepo notification.Repository
}

func NewInboxService(nr notification.Repository) *InboxService {
	return &InboxService{notifRepo: nr}
}

// UnreadCount backs the unread badge. An empty inbox yields 0.
func (s *InboxService) UnreadCount(ctx context.Context) (int, error) {
	count, err := s.notifRepo.CountUnread(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *InboxService) Unread(ctx context.Context, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = defaultInboxLimit
	}
	items, err := s.notifRepo.ListUnread(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return items, nil
}

// MarkRead marks one notification read. Marking an already read notification is not an error.
func (s *InboxService) MarkRead(ctx context.Context, id int64) (*notification.Notification, error) {
	n, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.notifRepo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

func (s *InboxService) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.notifRepo.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}
