package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// adminCommand describes one admin command for /help and the Telegram command menu.
type adminCommand struct {
	usage       string
	description string
}

var adminCommands = []adminCommand{
	{"/reconcile [payroll]", "Run due jobs now. `payroll` posts this month's salaries even if today is not payroll day."},
	{"/unread", "Show unread notifications."},
	{"/read <id>", "Mark a notification as read."},
	{"/read_all", "Mark every notification as read."},
	{"/summary [year]", "Monthly and quarterly income and expenses, and expenses by type."},
	{"/payroll [YYYY-MM]", "Salary records booked for a month, this month by default."},
	{"/help", "Show this message."},
}

// name returns the bare command, "/read <id>" gives "read".
func (c adminCommand) name() string {
	return strings.TrimPrefix(strings.Fields(c.usage)[0], "/")
}

func adminHelpText() string {
	var b strings.Builder
	b.WriteString("Administrator commands:\n")
	for _, c := range adminCommands {
		fmt.Fprintf(&b, "\n`%s`\n - %s\n", c.usage, c.description)
	}
	return b.String()
}

func menuCommands() []telebot.Command {
	cmds := make([]telebot.Command, 0, len(adminCommands))
	for _, c := range adminCommands {
		// Menu descriptions are plain text.
		cmds = append(cmds, telebot.Command{Text: c.name(), Description: strings.ReplaceAll(c.description, "`", "")})
	}
	return cmds
}

// RegisterBotCommands wires /start and /help and publishes the command menu.
func RegisterBotCommands(b *telebot.Bot, adminTelegramID int64, baseLogger *logrus.Entry) {
	log := baseLogger.WithField("handler_group", "start_help")

	if err := b.SetCommands(menuCommands()); err != nil {
		log.WithError(err).Warn("Could not publish command menu")
	}

	b.Handle("/start", func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		isAdmin := c.Sender().ID == adminTelegramID
		log.WithFields(logrus.Fields{"command": "/start", "sender_id": c.Sender().ID, "admin": isAdmin}).Info("Command received")
		if !isAdmin {
			return c.Send("This bot only serves the training center administrator.")
		}
		return c.Send("Hello! Training alerts will be posted here. Use /help for the list of commands.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		isAdmin := c.Sender().ID == adminTelegramID
		log.WithFields(logrus.Fields{"command": "/help", "sender_id": c.Sender().ID, "admin": isAdmin}).Info("Command received")
		if !isAdmin {
			return c.Send("No commands are available for you.")
		}
		return c.Send(adminHelpText(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
