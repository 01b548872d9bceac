package bot

import (
	"context"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v3"
)

// Sender is the part of *tele.Bot used for outbound messages.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// AdminNotifier posts alerts to the management chat, addressed to the admin.
// Without a sender or management chat it only logs.
type AdminNotifier struct {
	sender Sender
	bctx   *BotContext
}

func NewAdminNotifier(sender Sender, bctx *BotContext) *AdminNotifier {
	return &AdminNotifier{sender: sender, bctx: bctx}
}

func (n *AdminNotifier) NotifyAdmin(ctx context.Context, message string) error {
	slog.ErrorContext(ctx, "admin alert", "message", message)
	text := message
	if n.bctx.AdminUsername != "" {
		text = fmt.Sprintf("@%s, %s", n.bctx.AdminUsername, message)
	}
	return n.send(text)
}

// Announce posts a lifecycle notice to the management chat.
func (n *AdminNotifier) Announce(ctx context.Context, message string) error {
	slog.InfoContext(ctx, message)
	return n.send(message)
}

func (n *AdminNotifier) send(text string) error {
	if n.sender == nil || n.bctx.ManagementChat == 0 {
		return nil
	}
	if _, err := n.sender.Send(tele.ChatID(n.bctx.ManagementChat), text); err != nil {
		return fmt.Errorf("send to management chat: %w", err)
	}
	return nil
}
