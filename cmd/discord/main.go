// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/chatmind/internal/ai"
	"github.com/keshon/chatmind/internal/config"
	"github.com/keshon/chatmind/internal/discord"
	"github.com/keshon/chatmind/internal/storage"
)

func main() {
	log.Println("[INFO] Starting chatmind bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	provider := ai.NewRetrier(ai.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel))
	if cfg.GeminiAPIKey == "" {
		log.Println("[WARN] GEMINI_API_KEY not set, responses will be limited")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := discord.StartBot(ctx, cfg, store, provider); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
