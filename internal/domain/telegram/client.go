package telegram

// Client pushes a text message to one Telegram chat.
type Client interface {
	SendMessage(recipientChatID int64, text string) error
}
