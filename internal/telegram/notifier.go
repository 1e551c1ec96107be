package telegram

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	tg "gopkg.in/telegram-bot-api.v4"

	"tg-miniapp-backend/internal/events"
	"tg-miniapp-backend/internal/models"
)

// Sender is the part of *tg.BotAPI the notifier uses.
type Sender interface {
	Send(c tg.Chattable) (tg.Message, error)
}

// UserLookup resolves internal user ids to accounts carrying the telegram chat id.
type UserLookup interface {
	GetUsers(ctx context.Context, ids []string) ([]*models.User, error)
}

// Notifier messages affected users in their private chat with the bot.
type Notifier struct {
	bot   Sender
	users UserLookup
	log   *logrus.Entry
}

var _ events.Sink = (*Notifier)(nil)

// NewBot connects to the Bot API with token.
func NewBot(token string) (*tg.BotAPI, error) {
	bot, err := tg.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram bot api: %w", err)
	}
	bot.Debug = false
	return bot, nil
}

func NewNotifier(bot Sender, users UserLookup, log *logrus.Logger) *Notifier {
	return &Notifier{bot: bot, users: users, log: log.WithField("component", "telegram")}
}

func (n *Notifier) Name() string { return "telegram" }

func (n *Notifier) Deliver(ctx context.Context, e events.Event) error {
	text := messageText(e)
	if text == "" || len(e.UserIDs) == 0 {
		return nil
	}

	users, err := n.users.GetUsers(ctx, e.UserIDs)
	if err != nil {
		return fmt.Errorf("failed to load recipients: %w", err)
	}

	var firstErr error
	for _, u := range users {
		msg := tg.NewMessage(u.TelegramID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.log.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "event": e.Type}).Warn("failed to send telegram message")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func messageText(e events.Event) string {
	listing := fmt.Sprint(e.Payload["target_kind"]) == string(models.TargetListing)
	demoted := e.Payload["demoted"] == true

	switch e.Type {
	case events.MatchCreated:
		return "It's a match! Open the app to start talking."
	case events.TargetEscalated:
		if listing {
			return "Your listing was hidden after several reports. A moderator will review it."
		}
		return "Your account was suspended after several reports. A moderator will review it."
	case events.TargetStatusChanged:
		switch {
		case listing && demoted:
			return "A moderator archived your listing."
		case listing:
			return "Your listing is visible again."
		case demoted:
			return "A moderator suspended your account."
		default:
			return "Your account has been restored."
		}
	case events.ReportResolved:
		return "Thanks for your report. A moderator has reviewed it."
	}
	return ""
}
