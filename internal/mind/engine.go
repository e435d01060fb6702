package mind

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/keshon/chatmind/internal/ai"
	"github.com/keshon/chatmind/internal/storage"
)

// Inbound is a platform-agnostic view of a chat message. Content arrives
// with the bot mention already stripped.
type Inbound struct {
	UserID    string
	UserName  string
	ChannelID string
	ServerID  string
	MessageID string
	Content   string
	Mentioned bool
	DM        bool
}

// Sink is the outbound side of the engine. The Discord binding implements
// it; tests use fakes.
type Sink interface {
	Send(channelID, content string) error
	Reply(channelID, messageID, content string) error
}

// Engine decides when to speak, what to remember and how to shape replies.
// One message is processed to completion at a time; no locks are held
// across the model call or pacing delays.
type Engine struct {
	store    *storage.Store
	provider ai.Provider
	sink     Sink
	window   *Window
	rnd      Rand
	now      func() time.Time
	sleep    func(time.Duration)
}

func NewEngine(store *storage.Store, provider ai.Provider, sink Sink) *Engine {
	return &Engine{
		store:    store,
		provider: provider,
		sink:     sink,
		window:   NewWindow(),
		rnd:      NewRand(),
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Window exposes the short-term context for the command surface
// (viewcontext, clearcontext).
func (e *Engine) Window() *Window {
	return e.window
}

// HandleMessage runs the full pipeline for one inbound chat message.
func (e *Engine) HandleMessage(ctx context.Context, msg Inbound) error {
	if !msg.DM {
		blocked, err := e.store.IsChannelBlocked(ctx, msg.ChannelID)
		if err != nil {
			return fmt.Errorf("blocked check: %w", err)
		}
		if blocked {
			return nil
		}
	}

	defaultChannel, err := e.store.GetConfig(ctx, "default_channel", "")
	if err != nil {
		return err
	}
	isDefault := defaultChannel != "" && msg.ChannelID == defaultChannel

	respondAll, err := e.store.GetConfig(ctx, "respond_all_channels", "false")
	if err != nil {
		return err
	}

	var participation Participation
	if respondAll == "true" && !msg.DM && !isDefault && !msg.Mentioned {
		mood, _ := e.store.GetConfig(ctx, "current_mood", "neutro")
		participation = DecideParticipation(msg.Content, mood, e.rnd)
	}

	if !msg.Mentioned && !msg.DM && !isDefault && !participation.ShouldRespond {
		return nil
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		if msg.Mentioned || msg.DM {
			return e.sink.Send(msg.ChannelID, "👋 Olá! Como posso ajudar?")
		}
		return nil
	}

	companion := e.isCompanion(ctx, msg.UserID)
	now := InSaoPaulo(e.now())

	// Clock questions get exact answers straight from the system clock.
	wantTime, wantDate := IsTimeQuery(content), IsDateQuery(content)
	if wantTime || wantDate {
		answer := ClockAnswer(now, wantTime, wantDate, companion)
		if err := e.sink.Send(msg.ChannelID, answer); err != nil {
			return err
		}
		e.bookkeep(ctx, msg, content, answer, true)
		return nil
	}

	// A user signalling disinterest gets a minimal acknowledgement, never
	// a model call.
	if ShouldDisengage(content) {
		if err := e.sink.Send(msg.ChannelID, ShortAcknowledgment(e.rnd)); err != nil {
			return err
		}
		e.bookkeep(ctx, msg, "", "", false)
		return nil
	}

	if learning, _ := e.store.GetConfig(ctx, "continuous_learning", "true"); learning == "true" {
		for _, f := range ExtractFacts(content) {
			if err := e.store.SetFact(ctx, msg.UserID, f.Key, f.Value); err != nil {
				log.Printf("[MIND] Failed to save fact %s for %s: %v", f.Key, msg.UserID, err)
				continue
			}
			log.Printf("[MIND] Learned %s=%q for user %s", f.Key, f.Value, msg.UserID)
		}
	}

	prompt, err := e.buildPrompt(ctx, msg, content, companion, now)
	if err != nil {
		return err
	}

	reply, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrNoProvider) {
			return e.sink.Send(msg.ChannelID,
				"⚠️ IA não configurada. Defina GEMINI_API_KEY para respostas inteligentes.")
		}
		log.Printf("[ERR] Model call failed: %v", err)
		return e.sink.Send(msg.ChannelID, ".")
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return e.sink.Send(msg.ChannelID, ".")
	}

	useReply := (msg.Mentioned || participation.UseReply) && !msg.DM
	count := DecideMessageCount(content, reply, companion, e.rnd)

	parts := []string{reply}
	if count > 1 {
		parts = SplitNaturally(reply, count)
	}

	for i, part := range parts {
		if i == 0 && useReply {
			err = e.sink.Reply(msg.ChannelID, msg.MessageID, part)
		} else {
			err = e.sink.Send(msg.ChannelID, part)
		}
		if err != nil {
			return fmt.Errorf("send part %d/%d: %w", i+1, len(parts), err)
		}
		if i < len(parts)-1 {
			e.sleep(PacingDelay(len(strings.Fields(part)), e.rnd))
		}
	}

	e.window.Append(msg.ChannelID, content, reply)
	e.bookkeep(ctx, msg, content, reply, true)
	return nil
}

func (e *Engine) buildPrompt(ctx context.Context, msg Inbound, content string, companion bool, now time.Time) (string, error) {
	personality, err := e.store.Personality(ctx)
	if err != nil {
		return "", err
	}

	stored, err := e.store.UserFacts(ctx, msg.UserID)
	if err != nil {
		return "", err
	}
	facts := make([]Learned, 0, len(stored))
	for _, f := range stored {
		facts = append(facts, Learned{Key: f.Key, Value: f.Value})
	}

	level, interactions, err := e.store.Relationship(ctx, msg.UserID)
	if err != nil {
		return "", err
	}

	tone, _ := e.store.GetConfig(ctx, "tone", "neutro")
	mood, _ := e.store.GetConfig(ctx, "current_mood", "neutro")
	if companion {
		tone = "extremamente carinhoso e amoroso"
		mood = "apaixonado"
	}

	prompt := BuildPrompt(PromptInput{
		Personality:  personality,
		Facts:        facts,
		Level:        level,
		Interactions: interactions,
		Tone:         tone,
		Mood:         mood,
		UserID:       msg.UserID,
		UserName:     msg.UserName,
		Companion:    companion,
		Window:       e.window.Render(msg.ChannelID),
		Now:          now,
	})

	return prompt + "\n\nUsuário: " + content, nil
}

// isCompanion reports whether the user is the configured special companion:
// either a companion=true fact or the companion_user config key.
func (e *Engine) isCompanion(ctx context.Context, userID string) bool {
	if v, _ := e.store.FactValue(ctx, userID, "companion"); v == "true" {
		return true
	}
	if v, _ := e.store.GetConfig(ctx, "companion_user", ""); v != "" && v == userID {
		return true
	}
	return false
}

// bookkeep updates the relationship counter, the daily stats and, when
// logAudit is set, the interaction history. Failures here are logged, not
// fatal: the reply already went out.
func (e *Engine) bookkeep(ctx context.Context, msg Inbound, content, reply string, logAudit bool) {
	if err := e.store.BumpRelationship(ctx, msg.UserID); err != nil {
		log.Printf("[ERR] Relationship bump failed: %v", err)
	}

	date := InSaoPaulo(e.now()).Format("2006-01-02")
	if err := e.store.IncrementDailyMessages(ctx, date); err != nil {
		log.Printf("[ERR] Daily counter failed: %v", err)
	}

	if logAudit {
		serverID := msg.ServerID
		if msg.DM {
			serverID = "DM"
		}
		if err := e.store.LogInteraction(ctx, msg.UserID, msg.ChannelID, serverID, content, reply); err != nil {
			log.Printf("[ERR] Interaction log failed: %v", err)
		}
	}
}
