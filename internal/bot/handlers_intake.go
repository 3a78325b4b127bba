package bot

import (
	"bazar-bot/internal/intake"
	"bazar-bot/internal/listing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *TelegramBot) handleIntakeMessage(message *tgbotapi.Message) {
	b.handleIntakeInput(message.Chat.ID, message.From.ID, inputFromMessage(message))
}

func (b *TelegramBot) handleIntakeInput(chatID, userID int64, in intake.Input) {
	b.sessions.With(userID, func(s *intake.Session) {
		out := b.machine.Handle(s, in)
		b.replyOutcome(chatID, s, out)
	})
}

func (b *TelegramBot) startIntake(chatID, userID int64, restart bool) {
	b.sessions.With(userID, func(s *intake.Session) {
		var out intake.Outcome
		if restart {
			out = b.machine.Restart(s)
		} else {
			out = b.machine.Start(s)
		}
		b.logger.Debug("intake started", zap.Int64("user_id", userID), zap.Bool("restart", restart))
		b.replyOutcome(chatID, s, out)
	})
}

// cancelIntake drops the user's draft and reports whether there was one.
func (b *TelegramBot) cancelIntake(userID int64) bool {
	var active bool
	b.sessions.With(userID, func(s *intake.Session) {
		active = s.Active()
		b.machine.Cancel(s)
	})
	return active
}

func (b *TelegramBot) replyOutcome(chatID int64, s *intake.Session, out intake.Outcome) {
	switch out.Event {
	case intake.EventPrompt:
		b.sendPrompt(chatID, out.State, "")
	case intake.EventReprompt:
		b.sendReprompt(chatID, out.State)
	case intake.EventDescriptionTooLong:
		b.sendText(chatID, b.text("description_too_long", out.Max, out.Length))
	case intake.EventMediaAdded:
		b.sendWithKeyboard(chatID, b.text("media_added", out.MediaCount, listing.MaxMedia), b.doneKeyboard())
	case intake.EventMediaLimit:
		b.sendWithKeyboard(chatID, b.text("media_limit", out.Max), b.doneKeyboard())
	case intake.EventTooFewMedia:
		b.sendWithKeyboard(chatID, b.text("too_few_media", listing.MinMedia), b.doneKeyboard())
	case intake.EventReview:
		b.sendReview(chatID, s)
	}
}

// sendPrompt asks the question for state, optionally prefixed by a hint line.
func (b *TelegramBot) sendPrompt(chatID int64, state intake.State, hint string) {
	var text string
	switch state {
	case intake.StateDescription:
		text = b.text("ask_description", b.machine.MaxDescription())
	case intake.StatePhotosExtra:
		text = b.text("ask_photos_extra", listing.MaxMedia-listing.MinMedia)
	default:
		text = b.text("ask_" + string(state))
	}
	if hint != "" {
		text = hint + "\n\n" + text
	}
	if state == intake.StatePhotosExtra {
		b.sendWithKeyboard(chatID, text, b.doneKeyboard())
		return
	}
	b.sendText(chatID, text)
}

func (b *TelegramBot) sendReprompt(chatID int64, state intake.State) {
	switch {
	case state == intake.StateIdle:
		b.sendWithKeyboard(chatID, b.text("idle_hint"), b.startKeyboard())
	case state == intake.StateReview:
		b.sendText(chatID, b.text("review_hint"))
	case intake.Accepts(state, intake.InputDone):
		b.sendWithKeyboard(chatID, b.text("expect_media_or_done"), b.doneKeyboard())
	case intake.Accepts(state, intake.InputPhoto):
		b.sendPrompt(chatID, state, b.text("expect_media"))
	default:
		b.sendPrompt(chatID, state, b.text("expect_text"))
	}
}

// sendReview shows the draft exactly as it would be posted, then asks for confirmation.
func (b *TelegramBot) sendReview(chatID int64, s *intake.Session) {
	post := listing.Render(s.Answers, nil, b.cfg.PostFooter)
	if err := sendListing(b.api, chatID, "", s.Media, post); err != nil {
		b.logger.Warn("failed to send listing preview", zap.Int64("user_id", s.UserID), zap.Error(err))
	}
	b.sendWithKeyboard(chatID, b.text("review_intro"), b.reviewKeyboard())
}

// submitDraft stores a reviewed draft and hands it to the moderators.
func (b *TelegramBot) submitDraft(chatID int64, messageID int, from *tgbotapi.User) {
	var sub *listing.Submission
	b.sessions.With(from.ID, func(s *intake.Session) {
		if s.State != intake.StateReview {
			b.sendText(chatID, b.text("nothing_to_submit"))
			return
		}
		name := displayName(from)
		id, err := b.storage.CreateSubmission(from.ID, name, s.Answers, s.Media)
		if err != nil {
			b.logger.Error("failed to store submission", zap.Int64("user_id", from.ID), zap.Error(err))
			b.sendText(chatID, b.text("submit_failed"))
			return
		}
		sub = &listing.Submission{
			ID:            id,
			SubmitterID:   from.ID,
			SubmitterName: name,
			Answers:       s.Answers,
			Media:         s.Media,
			Status:        listing.StatusPending,
		}
		b.machine.Cancel(s)
		b.send(tgbotapi.NewEditMessageText(chatID, messageID, b.text("submitted", id)))
		b.logger.Info("submission received", zap.Int64("submission_id", id), zap.Int64("user_id", from.ID))
	})
	if sub != nil {
		b.sendToModeration(sub)
	}
}

func (b *TelegramBot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}
