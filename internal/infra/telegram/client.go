package telegram

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

// maxMessageLength is Telegram's limit for one text message, in characters.
const maxMessageLength = 4096

// TelebotAdapter pushes plain text to a chat through a telebot.Bot.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

func (a *TelebotAdapter) SendMessage(chatID int64, text string) error {
	_, err := a.bot.Send(&telebot.Chat{ID: chatID}, truncateMessage(text), &telebot.SendOptions{DisableWebPagePreview: true})
	if err != nil {
		return fmt.Errorf("telegram send to chat %d: %w", chatID, err)
	}
	return nil
}

func truncateMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	return string(runes[:maxMessageLength-1]) + "…"
}
