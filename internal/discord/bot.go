package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/chatmind/internal/ai"
	"github.com/keshon/chatmind/internal/config"
	"github.com/keshon/chatmind/internal/mind"
	"github.com/keshon/chatmind/internal/storage"
)

// Bot is the Discord binding around the conversation engine.
type Bot struct {
	dg     *discordgo.Session
	store  *storage.Store
	engine *mind.Engine
}

// StartBot opens the Discord session and blocks until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, store *storage.Store, provider ai.Provider) error {
	b := &Bot{store: store}
	if err := b.run(ctx, cfg.DiscordToken, provider); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

func (b *Bot) run(ctx context.Context, token string, provider ai.Provider) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg
	b.engine = mind.NewEngine(b.store, provider, &sessionSink{dg: dg})

	b.configureSession()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	go b.engine.RunSpontaneous(ctx)

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) configureSession() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	// Handlers run on the event loop itself: one message is processed to
	// completion (paced fragments, bookkeeping, window update) before the
	// next is looked at. Only the spontaneous task runs beside it.
	b.dg.SyncEvents = true
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	name, err := b.store.GetConfig(context.Background(), "bot_name", "Akutagawa")
	if err != nil {
		name = "Akutagawa"
	}
	log.Printf("[INFO] ✅ Discord bot %v is running as %s.", r.User.Username, name)
}

// onMessageCreate routes an incoming message either to the command surface
// or to the conversation engine.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	ctx := context.Background()

	prefix, err := b.store.GetConfig(ctx, "prefix", "!")
	if err != nil {
		log.Printf("[ERR] Failed to read prefix: %v", err)
		prefix = "!"
	}

	content := strings.TrimSpace(m.Content)
	if strings.HasPrefix(content, prefix) && len(content) > len(prefix) {
		b.handleCommand(ctx, s, m, strings.TrimPrefix(content, prefix))
		return
	}

	mentioned := false
	for _, user := range m.Mentions {
		if user.ID == s.State.User.ID {
			mentioned = true
			break
		}
	}

	msg := mind.Inbound{
		UserID:    m.Author.ID,
		UserName:  m.Author.Username,
		ChannelID: m.ChannelID,
		ServerID:  m.GuildID,
		MessageID: m.ID,
		Content:   stripMention(m.Content, s.State.User.ID),
		Mentioned: mentioned,
		DM:        m.GuildID == "",
	}

	if err := b.engine.HandleMessage(ctx, msg); err != nil {
		log.Printf("[ERR] Message handling failed: %v", err)
	}
}

// stripMention removes the bot's own mention tokens so the engine sees only
// what the user actually said.
func stripMention(content, botID string) string {
	content = strings.ReplaceAll(content, "<@"+botID+">", "")
	content = strings.ReplaceAll(content, "<@!"+botID+">", "")
	return strings.TrimSpace(content)
}
