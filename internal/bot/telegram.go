package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"vestige-bot/internal/domain"
	"vestige-bot/internal/service"

	tele "gopkg.in/telebot.v3"
)

const (
	MsgLoading      = "Bot is still loading, try again in a moment."
	MsgComingOnline = "Bot coming online."
	MsgReady        = "Bot ready, data loaded!"
	msgCooldown     = "Slow down, try again in a few seconds."
	msgPending      = "⏳ Looking up..."
	maxTickerLen    = 8
)

type TickerRunner interface {
	Run(ctx context.Context, symbol string) *service.TickerReport
}

type MarketQuerier interface {
	Pools(ctx context.Context, assetID *int64) ([]domain.Pool, error)
	BestSwapRoute(ctx context.Context, assetIn, assetOut int64, amount float64) (*domain.SwapRoute, error)
}

type Cooldown interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Handlers answers chat commands.
type Handlers struct {
	bctx     *BotContext
	tickers  TickerRunner
	markets  MarketQuerier
	cooldown Cooldown
	timeout  time.Duration
}

func NewHandlers(bctx *BotContext, tickers TickerRunner, markets MarketQuerier, cooldown Cooldown) *Handlers {
	return &Handlers{
		bctx:     bctx,
		tickers:  tickers,
		markets:  markets,
		cooldown: cooldown,
		timeout:  time.Minute,
	}
}

// NewTelegramBot creates a long-polling bot for token.
func NewTelegramBot(token string) (*tele.Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

// Register binds every command to b.
func (h *Handlers) Register(b *tele.Bot) {
	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/info", h.command("info", h.infoReply))
	b.Handle("/swap", h.command("swap", h.swapReply))
	b.Handle("/pools", h.command("pools", h.poolsReply))
}

type replyFunc func(ctx context.Context, args []string) string

func (h *Handlers) command(name string, reply replyFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender != nil && sender.IsBot {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		log := slog.With("command", name)
		if sender != nil {
			log = log.With("user", sender.Username, "id", sender.ID)
		}

		if gate := h.gate(ctx, sender); gate != "" {
			log.InfoContext(ctx, "command gated", "reason", gate)
			return c.Send(gate)
		}

		log.InfoContext(ctx, "command received", "args", c.Args())
		pending, err := c.Bot().Send(c.Recipient(), msgPending)
		if err != nil {
			return err
		}
		text := reply(ctx, c.Args())
		if _, err := c.Bot().Edit(pending, text); err != nil {
			log.ErrorContext(ctx, "edit reply failed", "error", err)
			return err
		}
		return nil
	}
}

// gate returns the message to send instead of running a command, or "".
func (h *Handlers) gate(ctx context.Context, sender *tele.User) string {
	if !h.bctx.Ready() {
		return MsgLoading
	}
	if h.cooldown == nil || sender == nil {
		return ""
	}
	ok, err := h.cooldown.Allow(ctx, strconv.FormatInt(sender.ID, 10))
	if err != nil {
		slog.WarnContext(ctx, "cooldown check failed", "error", err)
	}
	if !ok {
		return msgCooldown
	}
	return ""
}

func (h *Handlers) infoReply(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /info <ticker>"
	}
	symbol := args[0]
	if utf8.RuneCountInString(symbol) > maxTickerLen {
		return fmt.Sprintf("Ticker must be at most %d characters.", maxTickerLen)
	}

	report := h.tickers.Run(ctx, symbol)
	if report.State == service.StateFailed {
		return report.UserMessage
	}
	display, err := report.Display()
	if err != nil {
		slog.ErrorContext(ctx, "render ticker", "symbol", symbol, "error", err)
		return service.MsgUnexpected
	}
	return renderTicker(display)
}

func (h *Handlers) swapReply(ctx context.Context, args []string) string {
	const usage = "Usage: /swap <asset_in> <asset_out> <amount>"
	if len(args) != 3 {
		return usage
	}
	in, err1 := strconv.ParseInt(args[0], 10, 64)
	out, err2 := strconv.ParseInt(args[1], 10, 64)
	amount, err3 := strconv.ParseFloat(args[2], 64)
	if err := errors.Join(err1, err2, err3); err != nil {
		return usage
	}

	route, err := h.markets.BestSwapRoute(ctx, in, out, amount)
	switch {
	case errors.Is(err, service.ErrNoSwapRoute):
		return "No swap route found."
	case errors.Is(err, service.ErrInvalidSwap):
		return "Swap needs two different assets and a positive amount."
	case err != nil:
		return service.MsgUnexpected
	}
	return renderSwap(*route)
}

func (h *Handlers) poolsReply(ctx context.Context, args []string) string {
	var assetID *int64
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return "Usage: /pools [asset_id]"
		}
		assetID = &id
	}

	pools, err := h.markets.Pools(ctx, assetID)
	if err != nil {
		return service.MsgUnexpected
	}
	return renderPools(pools, service.PoolsShown)
}
