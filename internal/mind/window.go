package mind

import (
	"strings"
	"sync"
)

const windowCap = 10

// Exchange is one (user message, bot reply) pair.
type Exchange struct {
	User string
	Bot  string
}

// Window keeps the short-term conversation context per channel: the last
// few exchanges, oldest first. It only feeds the prompt; nothing here is
// persisted.
type Window struct {
	mu       sync.RWMutex
	channels map[string][]Exchange
}

func NewWindow() *Window {
	return &Window{channels: make(map[string][]Exchange)}
}

// Append records an exchange, evicting the oldest when the channel is full.
func (w *Window) Append(channelID, userMsg, botReply string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	buf := append(w.channels[channelID], Exchange{User: userMsg, Bot: botReply})
	if len(buf) > windowCap {
		buf = buf[len(buf)-windowCap:]
	}
	w.channels[channelID] = buf
}

// Clear forgets a channel's context. Returns false when there was nothing
// to clear.
func (w *Window) Clear(channelID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.channels[channelID]) == 0 {
		return false
	}
	delete(w.channels, channelID)
	return true
}

// Len returns the number of exchanges held for a channel.
func (w *Window) Len(channelID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.channels[channelID])
}

// Exchanges returns a copy of the channel's buffer, oldest first.
func (w *Window) Exchanges(channelID string) []Exchange {
	w.mu.RLock()
	defer w.mu.RUnlock()

	buf := w.channels[channelID]
	out := make([]Exchange, len(buf))
	copy(out, buf)
	return out
}

// Render formats the channel context as a prompt block, or "" when empty.
func (w *Window) Render(channelID string) string {
	exchanges := w.Exchanges(channelID)
	if len(exchanges) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nCONTEXTO DA CONVERSA ATUAL (últimas mensagens):\n")
	for _, e := range exchanges {
		b.WriteString("Usuário: " + e.User + "\n")
		b.WriteString("Você respondeu: " + e.Bot + "\n")
	}
	b.WriteString("\nIMPORTANTE: Mantenha COERÊNCIA com o que você disse acima. " +
		"Se mencionou estar lendo um livro, continue com o MESMO livro. " +
		"Não mude informações no meio da conversa!\n")
	return b.String()
}
