// Package telegram connects the chat responder to the Telegram Bot API
// using long polling.
package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-bot/internal/chat"
)

// pollTimeout is the long-polling timeout in seconds.
const pollTimeout = 60

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot dispatches every incoming message once and sends exactly one reply.
type Bot struct {
	api       API
	username  string
	responder *chat.Responder
	keyboard  tgbotapi.ReplyKeyboardMarkup
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// New creates a new Bot. username is the bot's own account name; commands
// addressed to another bot ("/start@OtherBot") are ignored.
func New(api API, username string, responder *chat.Responder, logger *zap.SugaredLogger) *Bot {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Bot{
		api:       api,
		username:  username,
		responder: responder,
		keyboard:  buildKeyboard(responder.Menu()),
		logger:    logger,
		now:       time.Now,
	}
}

func buildKeyboard(menu [][]string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(menu))
	for _, labels := range menu {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, l := range labels {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(l))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.InputFieldPlaceholder = chat.MenuPlaceholder
	return kb
}

// Run polls for updates until ctx is cancelled or the update channel closes.
// Each update is handled on its own goroutine; Run waits for in-flight
// handlers before returning. Handlers do not inherit ctx cancellation, so
// messages already being answered finish normally on shutdown.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout

	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Info("bot started")

	handlerCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping")
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("update channel closed")
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.HandleUpdate(handlerCtx, update)
			}()
		}
	}
}

// HandleUpdate answers a single update. Updates without a message, unknown
// commands and non-text messages are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	log := b.logger.With(
		"request_id", uuid.NewString(),
		"update_id", update.UpdateID,
		"chat_id", msg.Chat.ID,
	)

	var reply string
	switch {
	case msg.IsCommand():
		if !b.addressedToMe(msg.CommandWithAt()) {
			log.Debugw("ignoring command for another bot", "command", msg.CommandWithAt())
			return
		}
		switch msg.Command() {
		case "start":
			reply = b.responder.Greeting(profileOf(msg.From), b.now())
		case "help":
			reply = b.responder.Help()
		default:
			log.Debugw("ignoring unknown command", "command", msg.Command())
			return
		}
	case msg.Text != "":
		reply = b.responder.Reply(ctx, msg.Text)
	default:
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	out.ReplyMarkup = b.keyboard
	if _, err := b.api.Send(out); err != nil {
		log.Errorw("failed to send reply", "error", err)
		return
	}
	log.Debug("reply sent")
}

// addressedToMe reports whether a command, with or without an @mention,
// targets this bot.
func (b *Bot) addressedToMe(commandWithAt string) bool {
	i := strings.IndexByte(commandWithAt, '@')
	if i < 0 || b.username == "" {
		return true
	}
	return strings.EqualFold(commandWithAt[i+1:], b.username)
}

func profileOf(u *tgbotapi.User) chat.Profile {
	if u == nil {
		return chat.Profile{}
	}
	return chat.Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.UserName,
	}
}
