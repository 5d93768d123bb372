package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	moderationDomain "github.com/mraprguild/guardbot/internal/modules/moderation/domain"
	"github.com/samber/oops"
)

// BotTransport implements moderation.Transport over the Telegram bot
type BotTransport struct {
	b *bot.Bot
}

// NewBotTransport creates a transport adapter around the bot
func NewBotTransport(b *bot.Bot) *BotTransport {
	return &BotTransport{b: b}
}

func (t *BotTransport) DeleteMessage(ctx context.Context, ref moderationDomain.MessageRef) error {
	ok, err := t.b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    ref.ChatID,
		MessageID: ref.MessageID,
	})
	if err != nil {
		return oops.With("chat_id", ref.ChatID, "message_id", ref.MessageID).Wrap(err)
	}
	if !ok {
		return oops.With("chat_id", ref.ChatID, "message_id", ref.MessageID).Errorf("delete was refused")
	}
	return nil
}

func (t *BotTransport) Notify(ctx context.Context, chatID int64, text string) error {
	_, err := t.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return oops.With("chat_id", chatID).Wrap(err)
	}
	return nil
}
