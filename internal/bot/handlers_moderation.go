package bot

import (
	"errors"
	"strings"

	"bazar-bot/internal/listing"
	"bazar-bot/internal/moderation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendToModeration posts the listing preview and its control message to the moderators' chat.
func (b *TelegramBot) sendToModeration(sub *listing.Submission) {
	post := listing.Render(sub.Answers, nil, b.cfg.PostFooter)
	if err := sendListing(b.api, b.cfg.ModGroupID, "", sub.Media, post); err != nil {
		b.logger.Warn("failed to send moderation preview", zap.Int64("submission_id", sub.ID), zap.Error(err))
	}
	msg := tgbotapi.NewMessage(b.cfg.ModGroupID, b.moderationHeader(sub))
	msg.ReplyMarkup = b.decisionKeyboard(sub.ID)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("moderators were not notified about submission",
			zap.Int64("submission_id", sub.ID), zap.Error(err))
	}
}

func (b *TelegramBot) moderationHeader(sub *listing.Submission) string {
	return b.text("moderation_header", sub.ID, sub.SubmitterName, sub.SubmitterID)
}

// markDecided rewrites the control message with the outcome and drops its buttons.
func (b *TelegramBot) markDecided(chatID int64, messageID int, sub *listing.Submission, decision string) {
	b.send(tgbotapi.NewEditMessageText(chatID, messageID, b.moderationHeader(sub)+"\n\n"+decision))
}

func (b *TelegramBot) editKeyboard(chatID int64, messageID int, keyboard tgbotapi.InlineKeyboardMarkup) {
	b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, keyboard))
}

func (b *TelegramBot) handleModerationCallback(callback *tgbotapi.CallbackQuery, data callbackData) {
	actor := callback.From.ID
	if !b.moderation.IsModerator(actor) {
		b.logger.Warn("moderation action from non-moderator",
			zap.Int64("user_id", actor), zap.String("data", callback.Data))
		b.answerCallback(callback.ID, b.text("permission_denied"), true)
		return
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	id := data.submissionID
	moderatorName := displayName(callback.From)
	var notice string

	switch data.action {
	case actionApprove:
		if _, err := b.moderation.Approve(actor, id); err != nil {
			b.answerError(callback.ID, actor, id, err)
			return
		}
		b.editKeyboard(chatID, messageID, b.approveKeyboard(id))
	case actionBack:
		if err := b.moderation.CancelTagging(actor, id); err != nil {
			b.answerError(callback.ID, actor, id, err)
			return
		}
		b.editKeyboard(chatID, messageID, b.decisionKeyboard(id))
	case actionPickTags:
		tags, err := b.moderation.StartTagging(actor, id)
		if err != nil {
			b.answerError(callback.ID, actor, id, err)
			return
		}
		b.editKeyboard(chatID, messageID, b.tagKeyboard(id, tags))
	case actionToggleTag:
		tags, err := b.moderation.ToggleTag(actor, id, data.tagIndex)
		if err != nil {
			b.answerError(callback.ID, actor, id, err)
			return
		}
		b.editKeyboard(chatID, messageID, b.tagKeyboard(id, tags))
	case actionCancelTags:
		if err := b.moderation.CancelTagging(actor, id); err != nil {
			b.answerError(callback.ID, actor, id, err)
			return
		}
		b.editKeyboard(chatID, messageID, b.approveKeyboard(id))
	case actionPublishNow:
		sub, err := b.moderation.PublishWithoutTags(actor, id)
		if err != nil {
			b.answerError(callback.ID, actor, id, err)
			return
		}
		b.markDecided(chatID, messageID, sub, b.text("decision_approved", moderatorName))
		notice = b.text("published_ok")
	case actionConfirmTags:
		sub, err := b.moderation.ConfirmTags(actor, id)
		if err != nil {
			b.answerError(callback.ID, actor, id, err)
			return
		}
		decision := b.text("decision_approved", moderatorName)
		if len(sub.Tags) > 0 {
			decision = b.text("decision_approved_tags", moderatorName, strings.Join(sub.Tags, " "))
		}
		b.markDecided(chatID, messageID, sub, decision)
		notice = b.text("published_ok")
	case actionDeny:
		if err := b.moderation.Deny(actor, id, chatID, messageID); err != nil {
			b.answerError(callback.ID, actor, id, err)
			return
		}
		b.sendText(chatID, b.text("deny_reason_prompt", moderatorName, id))
	}
	b.answerCallback(callback.ID, notice, false)
}

// handleDenyReason treats message as the reason for the sender's pending deny.
// It returns false when there turned out to be no pending deny.
func (b *TelegramBot) handleDenyReason(message *tgbotapi.Message) bool {
	res, handled, err := b.moderation.ResolveDeny(message.From.ID, message.Text)
	if !handled {
		return false
	}
	switch {
	case errors.Is(err, moderation.ErrBusy):
		b.sendText(message.Chat.ID, b.text("deny_busy"))
	case err != nil:
		b.logger.Error("failed to deny submission", zap.Int64("moderator_id", message.From.ID), zap.Error(err))
		b.sendText(message.Chat.ID, b.text("action_failed"))
	case res == nil:
		b.sendText(message.Chat.ID, b.text("already_processed"))
	default:
		decision := b.text("decision_denied", displayName(message.From), message.Text)
		b.markDecided(res.Prompt.ChatID, res.Prompt.MessageID, res.Submission, decision)
	}
	return true
}

func (b *TelegramBot) answerError(callbackID string, actor, id int64, err error) {
	key := "action_failed"
	switch {
	case errors.Is(err, moderation.ErrForbidden):
		key = "permission_denied"
	case errors.Is(err, moderation.ErrAlreadyProcessed):
		key = "already_processed"
	case errors.Is(err, moderation.ErrNotFound):
		key = "submission_not_found"
	case errors.Is(err, moderation.ErrSelectionExpired):
		key = "selection_expired"
	default:
		b.logger.Error("moderation action failed",
			zap.Int64("submission_id", id), zap.Int64("moderator_id", actor), zap.Error(err))
	}
	b.answerCallback(callbackID, b.text(key), true)
}
