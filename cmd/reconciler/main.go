package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"training_center_ledger/internal/app"
	domainTelegram "training_center_ledger/internal/domain/telegram"
	"training_center_ledger/internal/infra/config"
	idb "training_center_ledger/internal/infra/database"
	"training_center_ledger/internal/infra/logger"
	"training_center_ledger/internal/infra/scheduler"
	"training_center_ledger/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"timezone":    cfg.Location.String(),
		"bot_enabled": cfg.BotEnabled(),
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	if err := idb.RunMigrations(ctx, db, logger.Component("migrations")); err != nil {
		mainLogger.WithError(err).Fatal("Could not migrate database")
	}

	// Initialize Repositories
	staffRepo := idb.NewPostgresStaffRepository(db)
	ledgerRepo := idb.NewPostgresLedgerRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	locker := idb.NewAdvisoryLocker(db, logger.Component("locker"))

	// Initialize Telegram Bot (optional)
	var bot *telebot.Bot
	var pushClient domainTelegram.Client
	if cfg.BotEnabled() {
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				entry := logger.Component("telebot").WithError(err)
				if c != nil && c.Sender() != nil {
					entry = entry.WithField("sender_id", c.Sender().ID)
				}
				entry.Error("Telegram handler error")
			},
		})
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		pushClient = telegram.NewTelebotAdapter(bot)
	}

	// Initialize Services
	payroll := app.NewPayrollGenerator(staffRepo, ledgerRepo, logger.Component("payroll"), cfg.PayrollDay)
	notifier := app.NewTrainingNotifier(staffRepo, notificationRepo, pushClient, cfg.AdminTelegramID,
		logger.Component("training_notifier"), cfg.TrainingNoticeDays)
	reconciliation := app.NewReconciliationService(payroll, notifier, locker, logger.Component("reconciliation"), cfg.JobTimeout)
	inbox := app.NewInboxService(notificationRepo)
	reports := app.NewReportService(ledgerRepo, cfg.Location)

	// Initialize Scheduler
	reconScheduler := scheduler.NewReconciliationScheduler(reconciliation, logger.Component("scheduler"), cfg.CronSpecReconcile, cfg.Location)
	if err := reconScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}
	if cfg.RunOnStartup {
		go reconScheduler.RunNow()
	}

	if bot != nil {
		botLogger := logger.Component("telegram")
		telegram.RegisterBotCommands(bot, cfg.AdminTelegramID, botLogger)
		telegram.RegisterAdminHandlers(ctx, bot, telegram.AdminServices{
			Reconciliation: reconciliation,
			Inbox:          inbox,
			Reports:        reports,
			Location:       cfg.Location,
		}, cfg.AdminTelegramID, botLogger)
		go bot.Start()
		mainLogger.Info("Telegram admin bot started.")
	}

	mainLogger.Info("Application setup complete.")
	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	if bot != nil {
		bot.Stop()
	}
	reconScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
