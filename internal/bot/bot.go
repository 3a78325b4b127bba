package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bazar-bot/config"
	"bazar-bot/internal/intake"
	"bazar-bot/internal/localization"
	"bazar-bot/internal/moderation"
	"bazar-bot/internal/scheduler"
	"bazar-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of the Bot API the handlers use. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type TelegramBot struct {
	api        Sender
	client     *tgbotapi.BotAPI
	cfg        *config.Config
	localizer  *localization.Localizer
	storage    *storage.Storage
	machine    *intake.Machine
	sessions   *intake.Sessions
	moderation *moderation.Coordinator
	scheduler  *scheduler.Scheduler
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewBot(
	cfg *config.Config,
	localizer *localization.Localizer,
	storage *storage.Storage,
	scheduler *scheduler.Scheduler,
	logger *zap.Logger,
) (*TelegramBot, error) {
	client, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	client.Debug = cfg.Debug

	b, err := newTelegramBot(client, cfg, localizer, storage, scheduler, logger)
	if err != nil {
		return nil, err
	}
	b.client = client
	return b, nil
}

func newTelegramBot(
	api Sender,
	cfg *config.Config,
	localizer *localization.Localizer,
	storage *storage.Storage,
	scheduler *scheduler.Scheduler,
	logger *zap.Logger,
) (*TelegramBot, error) {
	channelID, channelUsername, err := cfg.Channel()
	if err != nil {
		return nil, err
	}
	b := &TelegramBot{
		api:       api,
		cfg:       cfg,
		localizer: localizer,
		storage:   storage,
		machine:   intake.NewMachine(cfg.MaxDescriptionLength),
		sessions:  intake.NewSessions(),
		scheduler: scheduler,
		logger:    logger,
	}
	publisher := &channelPublisher{
		api:             api,
		chatID:          channelID,
		channelUsername: channelUsername,
		footer:          cfg.PostFooter,
		logger:          logger,
	}
	b.moderation = moderation.NewCoordinator(storage, publisher, b, cfg.ModeratorIDs, logger)
	if len(cfg.ModeratorIDs) == 0 {
		logger.Warn("MODERATOR_IDS is empty, nobody can approve or deny submissions")
	}
	return b, nil
}

// Start blocks, handling updates until ctx is cancelled.
func (b *TelegramBot) Start(ctx context.Context) {
	b.logger.Info("authorized on account", zap.String("username", b.client.Self.UserName))
	b.scheduleSweeper()
	b.scheduler.Start()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.client.GetUpdatesChan(u)
	b.listenForUpdates(ctx, updates)

	b.client.StopReceivingUpdates()
	b.wg.Wait()
	b.logger.Info("bot stopped")
}

func (b *TelegramBot) listenForUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(update)
			}()
		}
	}
}

func (b *TelegramBot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling update",
				zap.Int("update_id", update.UpdateID), zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *TelegramBot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	if message.IsCommand() {
		b.handleCommand(message)
		return
	}
	if message.Text != "" && b.moderation.AwaitingReason(message.From.ID) {
		if b.handleDenyReason(message) {
			return
		}
	}
	if message.Chat.IsPrivate() {
		b.handleIntakeMessage(message)
	}
}

func (b *TelegramBot) scheduleSweeper() {
	interval := time.Duration(b.cfg.SweepIntervalMinutes) * time.Minute
	if err := b.scheduler.AddJob(sweeperJobTag, interval, b.sweep); err != nil {
		b.logger.Error("sweeper disabled", zap.Error(err))
	}
}

// sweep forgets drafts and moderator selections nobody touched for too long.
func (b *TelegramBot) sweep() {
	now := time.Now()
	if n := b.sessions.Sweep(now.Add(-time.Duration(b.cfg.DraftTTLHours) * time.Hour)); n > 0 {
		b.logger.Info("dropped abandoned drafts", zap.Int("count", n))
	}
	b.moderation.Sweep(now.Add(-time.Duration(b.cfg.SelectionTTLMinutes) * time.Minute))
}

func (b *TelegramBot) getLang() string {
	return b.cfg.DefaultLanguage
}

// text looks up key and formats it with args, if any.
func (b *TelegramBot) text(key string, args ...any) string {
	msg := b.localizer.GetMessage(b.getLang(), key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func (b *TelegramBot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warn("failed to send message", zap.Error(err))
	}
}

func (b *TelegramBot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *TelegramBot) answerCallback(callbackID, text string, alert bool) {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	if _, err := b.api.Request(cb); err != nil {
		b.logger.Warn("failed to answer callback query", zap.Error(err))
	}
}
