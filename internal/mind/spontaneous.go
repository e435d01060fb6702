package mind

import (
	"context"
	"fmt"
	"log"
	"time"
)

// spontaneousPrompts vary with the persona's local period of day.
var spontaneousPrompts = map[string][]string{
	"madrugada": {
		"Comente sobre a madrugada de forma breve e introspectiva.",
		"Faça uma observação pensativa curta sobre estar acordado tarde.",
		"Mencione algo sobre solidão ou silêncio noturno (5-20 palavras).",
	},
	"manhã": {
		"Faça um comentário sarcástico ou direto sobre o amanhecer.",
		"Comente brevemente sobre o início do dia, com ceticismo.",
		"Diga algo curto sobre manhãs ou rotina (pode ser crítico ou filosófico).",
	},
	"tarde": {
		"Comente sobre a tarde de forma breve, pode ser sobre produtividade ou tédio.",
		"Faça uma observação curta sobre o meio do dia (seja variado nos temas).",
		"Mencione algo sobre a tarde, não precisa ser sempre sobre força/fraqueza.",
	},
	"noite": {
		"Comente brevemente sobre a noite caindo (pode ser poético ou sarcástico).",
		"Faça uma observação curta sobre o fim do dia.",
		"Diga algo sobre a noite - varie entre reflexivo, cínico ou observador.",
	},
}

// PeriodOfDay classifies an hour on the persona's clock.
func PeriodOfDay(t time.Time) string {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 12:
		return "manhã"
	case hour >= 12 && hour < 18:
		return "tarde"
	case hour >= 18 && hour < 23:
		return "noite"
	default:
		return "madrugada"
	}
}

// SpontaneousPrompt picks a conversation opener for the current period.
func SpontaneousPrompt(t time.Time, rnd Rand) string {
	return pick(rnd, spontaneousPrompts[PeriodOfDay(t)])
}

const (
	spontaneousMinInterval = 30 * time.Minute
	spontaneousMaxInterval = 180 * time.Minute
)

// RunSpontaneous occasionally starts a conversation in the configured
// default channel. Blocks until ctx is cancelled; run it in a goroutine.
func (e *Engine) RunSpontaneous(ctx context.Context) {
	log.Println("[MIND] Spontaneous conversation task started")

	timer := time.NewTimer(e.spontaneousInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[MIND] Spontaneous conversation task stopped")
			return
		case <-timer.C:
			if err := e.speakSpontaneously(ctx); err != nil {
				log.Printf("[MIND] Spontaneous conversation failed: %v", err)
			}
			timer.Reset(e.spontaneousInterval())
		}
	}
}

func (e *Engine) spontaneousInterval() time.Duration {
	span := int(spontaneousMaxInterval - spontaneousMinInterval)
	return spontaneousMinInterval + time.Duration(e.rnd.Intn(span))
}

func (e *Engine) speakSpontaneously(ctx context.Context) error {
	channelID, err := e.store.GetConfig(ctx, "default_channel", "")
	if err != nil {
		return err
	}
	if channelID == "" {
		return nil
	}
	if blocked, err := e.store.IsChannelBlocked(ctx, channelID); err != nil || blocked {
		return err
	}

	personality, err := e.store.Personality(ctx)
	if err != nil {
		return err
	}

	now := InSaoPaulo(e.now())
	prompt := personality + "\n\n" + SpontaneousPrompt(now, e.rnd)

	reply, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if err := e.sink.Send(channelID, reply); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	if err := e.store.IncrementDailyMessages(ctx, now.Format("2006-01-02")); err != nil {
		log.Printf("[ERR] Daily counter failed: %v", err)
	}

	log.Printf("[MIND] Spontaneous conversation started in channel %s (%s)", channelID, PeriodOfDay(now))
	return nil
}
