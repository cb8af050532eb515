// internal/app/training_notifier.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"training_center_ledger/internal/domain/notification"
	"training_center_ledger/internal/domain/staff"
	domainTelegram "training_center_ledger/internal/domain/telegram"
	idb "training_center_ledger/internal/infra/database"

	"github.com/sirupsen/logrus"
)

const (
	TrainingNotificationTitle = "Training Period Ending"
	trainingEndDateLayout     = "January 2, 2006"
)

// NotifierResult summarises one training-expiry pass.
type NotifierResult struct {
	Date    time.Time
	Created int
	Skipped int
	Failed  int
}

// TrainingNotifier raises one notification per day for every staff member whose
// training period ends within the notice window.
type TrainingNotifier struct {
	staffRepo      staff.Repository
	notifRepo      notification.Repository
	telegramClient domainTelegram.Client // Optional, nil disables push
	adminChatID    int64
	logger         *logrus.Entry
	windowDays     int
}

func NewTrainingNotifier(
	sr staff.Repository,
	nr notification.Repository,
	tc domainTelegram.Client,
	adminChatID int64,
	logger *logrus.Entry,
	windowDays int,
) *TrainingNotifier {
	return &TrainingNotifier{
		staffRepo:      sr,
		notifRepo:      nr,
		telegramClient: tc,
		adminChatID:    adminChatID,
		logger:         logger,
		windowDays:     windowDays,
	}
}

// Notify creates today's notifications. Staff already notified today are skipped.
// An error is returned only when the staff listing failed.
func (n *TrainingNotifier) Notify(ctx context.Context, now time.Time) (NotifierResult, error) {
	today := startOfDay(now)
	until := today.AddDate(0, 0, n.windowDays)
	result := NotifierResult{Date: today}
	log := n.logger.WithField("date", today.Format("2006-01-02"))

	members, err := n.staffRepo.ListTrainingEndingBetween(ctx, today, until)
	if err != nil {
		return result, fmt.Errorf("failed to list staff with training ending before %s: %w", until.Format("2006-01-02"), err)
	}
	if len(members) == 0 {
		log.Debug("No training periods ending within the notice window")
		return result, nil
	}

	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("training notifier interrupted: %w", err)
		}
		staffLog := log.WithFields(logrus.Fields{"staff_id": m.ID, "staff_name": m.FullName})

		if !m.TrainingEndDate.Valid {
			staffLog.Warn("Staff in training has no end date, skipping")
			result.Skipped++
			continue
		}

		exists, err := n.notifRepo.ExistsForDate(ctx, notification.RelatedToStaffTraining, m.ID, today)
		if err != nil {
			staffLog.WithError(err).Error("Failed to check existing training notification")
			result.Failed++
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		notif := &notification.Notification{
			Title:     TrainingNotificationTitle,
			Message:   TrainingEndingMessage(m),
			RelatedTo: notification.RelatedToStaffTraining,
			RelatedID: m.ID,
			Date:      today,
		}
		if err := n.notifRepo.Create(ctx, notif); err != nil {
			if errors.Is(err, idb.ErrDuplicate) {
				staffLog.Info("Training notification was created concurrently, skipping")
				result.Skipped++
				continue
			}
			staffLog.WithError(err).Error("Failed to create training notification")
			result.Failed++
			continue
		}
		staffLog.WithField("notification_id", notif.ID).Info("Training notification created")
		result.Created++

		n.push(staffLog, notif)
	}

	log.WithFields(logrus.Fields{
		"created": result.Created,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	}).Info("Training notifier finished")
	return result, nil
}

// TrainingEndingMessage is the notification text for m. m must have a training end date.
func TrainingEndingMessage(m *staff.Member) string {
	return fmt.Sprintf("Training period of %s (NIC: %s) ends on %s.",
		m.FullName, m.NIC, m.TrainingEndDate.Time.Format(trainingEndDateLayout))
}

// push forwards a stored notification to the admin chat. The stored row stays regardless.
func (n *TrainingNotifier) push(log *logrus.Entry, notif *notification.Notification) {
	if n.telegramClient == nil || n.adminChatID == 0 {
		return
	}
	text := fmt.Sprintf("%s\n%s", notif.Title, notif.Message)
	if err := n.telegramClient.SendMessage(n.adminChatID, text); err != nil {
		log.WithError(err).Warn("Failed to push training notification to admin")
	}
}
