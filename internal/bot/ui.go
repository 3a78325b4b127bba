package bot

import (
	"slices"
	"strconv"

	"bazar-bot/internal/listing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const tagsPerRow = 3

func (b *TelegramBot) button(key, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(b.text(key), data)
}

func (b *TelegramBot) startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.button("btn_new_listing", actionIntakeStart)),
	)
}

func (b *TelegramBot) doneKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.button("btn_done", actionIntakeDone)),
	)
}

func (b *TelegramBot) reviewKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			b.button("btn_submit", actionIntakeSubmit),
			b.button("btn_cancel", actionIntakeCancel),
		),
	)
}

func (b *TelegramBot) submitAgainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.button("btn_submit_again", actionIntakeStart)),
	)
}

// decisionKeyboard is the first step under a moderation control message.
func (b *TelegramBot) decisionKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			b.button("btn_approve", submissionCallback(actionApprove, id)),
			b.button("btn_deny", submissionCallback(actionDeny, id)),
		),
	)
}

func (b *TelegramBot) approveKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(b.button("btn_publish_now", submissionCallback(actionPublishNow, id))),
		tgbotapi.NewInlineKeyboardRow(b.button("btn_pick_tags", submissionCallback(actionPickTags, id))),
		tgbotapi.NewInlineKeyboardRow(b.button("btn_back", submissionCallback(actionBack, id))),
	)
}

// tagKeyboard lists the whole vocabulary group by group, marking selected tags.
func (b *TelegramBot) tagKeyboard(id int64, selected []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	index := 0
	for _, group := range listing.Vocabulary {
		var row []tgbotapi.InlineKeyboardButton
		for _, tag := range group.Tags {
			label := tag
			if slices.Contains(selected, tag) {
				label = "✅ " + tag
			}
			data := submissionCallback(actionToggleTag, id) + ":" + strconv.Itoa(index)
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
			index++
			if len(row) == tagsPerRow {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		b.button("btn_tags_confirm", submissionCallback(actionConfirmTags, id)),
		b.button("btn_tags_cancel", submissionCallback(actionCancelTags, id)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mediaGroup(chatID int64, channelUsername string, media []listing.Media, caption string) tgbotapi.MediaGroupConfig {
	items := make([]interface{}, 0, len(media))
	for i, m := range media {
		var c, mode string
		if i == 0 {
			c, mode = caption, tgbotapi.ModeHTML
		}
		switch m.Kind {
		case listing.MediaVideo:
			v := tgbotapi.NewInputMediaVideo(tgbotapi.FileID(m.FileID))
			v.Caption, v.ParseMode = c, mode
			items = append(items, v)
		default:
			p := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(m.FileID))
			p.Caption, p.ParseMode = c, mode
			items = append(items, p)
		}
	}
	return tgbotapi.MediaGroupConfig{ChatID: chatID, ChannelUsername: channelUsername, Media: items}
}
