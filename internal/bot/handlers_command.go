package bot

import (
	"bazar-bot/internal/intake"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var (
	moderatorCommands = map[string]bool{"pending": true}
	intakeCommands    = map[string]bool{"new": true, "restart": true, "done": true}
)

func (b *TelegramBot) handleCommand(message *tgbotapi.Message) {
	cmd := message.Command()
	chatID := message.Chat.ID
	userID := message.From.ID

	if moderatorCommands[cmd] && !b.moderation.IsModerator(userID) {
		b.sendText(chatID, b.text("permission_denied"))
		return
	}
	if intakeCommands[cmd] && !message.Chat.IsPrivate() {
		return
	}

	switch cmd {
	case "start":
		if message.Chat.IsPrivate() {
			b.sendWithKeyboard(chatID, b.text("welcome_message"), b.startKeyboard())
		}
	case "help":
		b.sendText(chatID, b.text("help_message"))
	case "new":
		b.startIntake(chatID, userID, false)
	case "restart":
		b.startIntake(chatID, userID, true)
	case "done":
		b.handleIntakeInput(chatID, userID, intake.Input{Kind: intake.InputDone})
	case "cancel":
		b.handleCancelCommand(message)
	case "pending":
		b.handlePendingCommand(chatID)
	}
}

// handleCancelCommand drops a pending deny prompt first, then the sender's draft.
func (b *TelegramBot) handleCancelCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID

	if _, ok := b.moderation.CancelDeny(userID); ok {
		b.sendText(chatID, b.text("deny_cancelled"))
		return
	}
	if !message.Chat.IsPrivate() {
		return
	}
	if b.cancelIntake(userID) {
		b.sendWithKeyboard(chatID, b.text("intake_cancelled"), b.startKeyboard())
		return
	}
	b.sendText(chatID, b.text("nothing_to_cancel"))
}

func (b *TelegramBot) handlePendingCommand(chatID int64) {
	n, err := b.storage.CountPending()
	if err != nil {
		b.logger.Error("failed to count pending submissions", zap.Error(err))
		b.sendText(chatID, b.text("action_failed"))
		return
	}
	b.sendText(chatID, b.text("pending_count", n))
}
