package bot

import (
	"fmt"
	"unicode/utf16"

	"bazar-bot/internal/listing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendListing posts media as one album with the rendered post as the caption
// of the first item. A post too long for a caption follows the album as a
// separate HTML message.
// Telegram measures captions in UTF-16 units; counting the HTML source
// overestimates the visible text, never underestimates it.
func sendListing(api Sender, chatID int64, channelUsername string, media []listing.Media, post string) error {
	caption := post
	if captionLength(post) > captionLimit {
		caption = ""
	}
	if _, err := api.Request(mediaGroup(chatID, channelUsername, media, caption)); err != nil {
		return fmt.Errorf("failed to send media group: %w", err)
	}
	if caption != "" {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, post)
	msg.ChannelUsername = channelUsername
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := api.Send(msg); err != nil {
		return fmt.Errorf("failed to send post text: %w", err)
	}
	return nil
}

func captionLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// channelPublisher emits approved listings to the public channel.
type channelPublisher struct {
	api             Sender
	chatID          int64
	channelUsername string
	footer          string
	logger          *zap.Logger
}

func (p *channelPublisher) Publish(sub *listing.Submission, tags []string) error {
	post := listing.Render(sub.Answers, tags, p.footer)
	if err := sendListing(p.api, p.chatID, p.channelUsername, sub.Media, post); err != nil {
		return err
	}
	p.logger.Info("listing published to channel",
		zap.Int64("submission_id", sub.ID), zap.Int("media", len(sub.Media)), zap.Strings("tags", tags))
	return nil
}

func (b *TelegramBot) NotifyPublished(sub *listing.Submission) error {
	_, err := b.api.Send(tgbotapi.NewMessage(sub.SubmitterID, b.text("submission_published", sub.ID)))
	return err
}

// NotifyDenied sends the reason as plain text, exactly as the moderator typed it.
func (b *TelegramBot) NotifyDenied(sub *listing.Submission, reason string) error {
	msg := tgbotapi.NewMessage(sub.SubmitterID, b.text("submission_denied", sub.ID, reason))
	msg.ReplyMarkup = b.submitAgainKeyboard()
	_, err := b.api.Send(msg)
	return err
}
