package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"training_center_ledger/internal/app"
	idb "training_center_ledger/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unreadListLimit = 10

// AdminServices bundles what the admin commands operate on.
type AdminServices struct {
	Reconciliation *app.ReconciliationService
	Inbox          *app.InboxService
	Reports        *app.ReportService
	Location       *time.Location
}

type adminHandler func(c telebot.Context, log *logrus.Entry) error

// requireAdmin runs next only for the admin. Updates without a sender, such as
// channel posts, are ignored.
func requireAdmin(adminTelegramID int64, baseLogger *logrus.Entry, command string, next adminHandler) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   command,
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not allowed to run this command.")
		}
		return next(c, handlerLogger)
	}
}

// RegisterAdminHandlers registers the admin commands and the "mark read" callback.
// Every command answers only the configured admin Telegram ID.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, svc AdminServices, adminTelegramID int64, baseLogger *logrus.Entry) {
	adminOnly := func(command string, next adminHandler) telebot.HandlerFunc {
		return requireAdmin(adminTelegramID, baseLogger, command, next)
	}

	b.Handle("/reconcile", adminOnly("/reconcile", func(c telebot.Context, log *logrus.Entry) error {
		force := len(c.Args()) > 0 && c.Args()[0] == "payroll"
		report, err := svc.Reconciliation.Reconcile(ctx, time.Now().In(svc.Location), force)
		if err != nil {
			if errors.Is(err, app.ErrReconciliationBusy) {
				return c.Send("A reconciliation pass is already running, try again shortly.")
			}
			log.WithError(err).Error("Reconciliation failed")
			return c.Send(fmt.Sprintf("Reconciliation failed: %s", err.Error()))
		}
		log.WithField("force_payroll", force).Info("Reconciliation run from admin command")
		return c.Send(formatReconciliationReport(report))
	}))

	b.Handle("/unread", adminOnly("/unread", func(c telebot.Context, log *logrus.Entry) error {
		count, err := svc.Inbox.UnreadCount(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to count unread notifications")
			return c.Send("Could not load notifications. Please try again later.")
		}
		if count == 0 {
			return c.Send(formatUnread(0, nil))
		}
		items, err := svc.Inbox.Unread(ctx, unreadListLimit)
		if err != nil {
			log.WithError(err).Error("Failed to list unread notifications")
			return c.Send("Could not load notifications. Please try again later.")
		}

		markup := &telebot.ReplyMarkup{}
		rows := make([]telebot.Row, 0, len(items))
		for _, n := range items {
			rows = append(rows, markup.Row(telebot.Btn{
				Text: fmt.Sprintf("Mark #%d read", n.ID),
				Data: readCallbackData(n.ID),
			}))
		}
		markup.Inline(rows...)
		return c.Send(formatUnread(count, items), markup)
	}))

	b.Handle("/read", adminOnly("/read", func(c telebot.Context, log *logrus.Entry) error {
		if len(c.Args()) != 1 {
			return c.Send("Invalid command format. Use: /read <notification id>")
		}
		id, err := strconv.ParseInt(c.Args()[0], 10, 64)
		if err != nil {
			return c.Send("Error: the notification id must be a number.")
		}
		return c.Send(markRead(ctx, svc.Inbox, id, log))
	}))

	b.Handle("/read_all", adminOnly("/read_all", func(c telebot.Context, log *logrus.Entry) error {
		n, err := svc.Inbox.MarkAllRead(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to mark all notifications read")
			return c.Send("Could not update notifications. Please try again later.")
		}
		return c.Send(fmt.Sprintf("%d notification(s) marked as read.", n))
	}))

	b.Handle("/summary", adminOnly("/summary", func(c telebot.Context, log *logrus.Entry) error {
		year, err := parseYearArg(c.Args(), time.Now().In(svc.Location))
		if err != nil {
			return c.Send("Invalid command format. Use: /summary [year]")
		}
		months, err := svc.Reports.MonthlySummary(ctx, year)
		if err != nil {
			log.WithError(err).Error("Failed to build monthly summary")
			return c.Send("Could not build the summary. Please try again later.")
		}
		quarters, err := svc.Reports.QuarterlySummary(ctx, year)
		if err != nil {
			log.WithError(err).Error("Failed to build quarterly summary")
			return c.Send("Could not build the summary. Please try again later.")
		}
		breakdown, err := svc.Reports.YearExpenseBreakdown(ctx, year)
		if err != nil {
			log.WithError(err).Error("Failed to build expense breakdown")
			return c.Send("Could not build the summary. Please try again later.")
		}
		return c.Send(formatSummary(year, months, quarters, breakdown))
	}))

	b.Handle("/payroll", adminOnly("/payroll", func(c telebot.Context, log *logrus.Entry) error {
		month, err := parseMonthArg(c.Args(), time.Now().In(svc.Location))
		if err != nil {
			return c.Send("Invalid command format. Use: /payroll [YYYY-MM]")
		}
		records, err := svc.Reports.SalaryRecords(ctx, month)
		if err != nil {
			log.WithError(err).WithField("month", month).Error("Failed to list salary records")
			return c.Send("Could not load salary records. Please try again later.")
		}
		return c.Send(formatPayroll(month, records))
	}))

	b.Handle(telebot.OnCallback, readCallbackHandler(ctx, svc.Inbox, adminTelegramID, baseLogger))
}

func readCallbackHandler(ctx context.Context, inbox *app.InboxService, adminTelegramID int64, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Callback() == nil {
			return nil
		}
		log := baseLogger.WithFields(logrus.Fields{
			"handler":   "callback",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			log.Warn("Unauthorized callback")
			return c.Respond(&telebot.CallbackResponse{Text: "Not allowed."})
		}
		id, err := parseReadCallback(c.Callback().Data)
		if err != nil {
			log.WithError(err).Warn("Unhandled callback data")
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
		}
		return c.Respond(&telebot.CallbackResponse{Text: markRead(ctx, inbox, id, log)})
	}
}

func markRead(ctx context.Context, inbox *app.InboxService, id int64, log *logrus.Entry) string {
	if _, err := inbox.MarkRead(ctx, id); err != nil {
		if errors.Is(err, idb.ErrNotificationNotFound) {
			return fmt.Sprintf("Notification #%d not found.", id)
		}
		log.WithError(err).WithField("notification_id", id).Error("Failed to mark notification read")
		return "Could not update the notification. Please try again later."
	}
	return fmt.Sprintf("Notification #%d marked as read.", id)
}
