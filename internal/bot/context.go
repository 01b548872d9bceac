package bot

import "sync/atomic"

// BotContext is the runtime state shared by every command handler.
type BotContext struct {
	ready          atomic.Bool
	ManagementChat int64
	AdminUsername  string
}

func NewBotContext(managementChat int64, adminUsername string) *BotContext {
	return &BotContext{ManagementChat: managementChat, AdminUsername: adminUsername}
}

// Ready reports whether startup data has loaded.
func (b *BotContext) Ready() bool { return b.ready.Load() }

func (b *BotContext) MarkReady() { b.ready.Store(true) }
