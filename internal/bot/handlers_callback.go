package bot

import (
	"strings"

	"bazar-bot/internal/intake"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *TelegramBot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	data, err := parseCallback(callback.Data)
	if err != nil || callback.Message == nil || callback.From == nil {
		if err != nil {
			b.logger.Warn("ignoring callback query", zap.String("data", callback.Data), zap.Error(err))
		}
		b.answerCallback(callback.ID, "", false)
		return
	}
	if strings.HasPrefix(data.action, "mod_") {
		b.handleModerationCallback(callback, data)
		return
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	userID := callback.From.ID
	b.answerCallback(callback.ID, "", false)

	switch data.action {
	case actionIntakeStart:
		b.startIntake(chatID, userID, false)
	case actionIntakeDone:
		b.handleIntakeInput(chatID, userID, intake.Input{Kind: intake.InputDone})
	case actionIntakeSubmit:
		b.submitDraft(chatID, messageID, callback.From)
	case actionIntakeCancel:
		if b.cancelIntake(userID) {
			b.send(tgbotapi.NewEditMessageText(chatID, messageID, b.text("intake_cancelled")))
			return
		}
		b.sendText(chatID, b.text("nothing_to_cancel"))
	}
}
