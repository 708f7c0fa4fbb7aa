package notify

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
)

// TelegramBot is the slice of the bot API used for delivery.
type TelegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetSelf() tgbotapi.User
}

type tgBotWrapper struct {
	bot *tgbotapi.BotAPI
}

func (w *tgBotWrapper) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return w.bot.Send(c)
}

func (w *tgBotWrapper) GetSelf() tgbotapi.User {
	return w.bot.Self
}

// BotFactory creates TelegramBot instances; tests swap in a fake.
type BotFactory func(token, apiEndpoint string, client *http.Client) (TelegramBot, error)

var defaultBotFactory BotFactory = func(token, apiEndpoint string, client *http.Client) (TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
	if err != nil {
		return nil, err
	}
	return &tgBotWrapper{bot: bot}, nil
}

type Telegram struct {
	bot TelegramBot
}

func NewTelegram(token string) (*Telegram, error) {
	return NewTelegramWithFactory(token, defaultBotFactory)
}

func NewTelegramWithFactory(token string, factory BotFactory) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("notify: telegram token is required")
	}
	bot, err := factory(token, tgbotapi.APIEndpoint, http.DefaultClient)
	if err != nil {
		return nil, fmt.Errorf("notify: create telegram bot: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) BotName() string {
	return t.bot.GetSelf().UserName
}

func (t *Telegram) Send(ctx context.Context, to model.User, msg Message) error {
	if to.TelegramChatID == 0 {
		return fmt.Errorf("%w: user %s has no telegram chat", ErrNoRoute, to.ID)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDispatch, err)
	}
	out := tgbotapi.NewMessage(to.TelegramChatID, msg.Text())
	if _, err := t.bot.Send(out); err != nil {
		return fmt.Errorf("%w: telegram: %v", ErrDispatch, err)
	}
	return nil
}
