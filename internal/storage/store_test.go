package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFactOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetFact(ctx, "u1", "idade", "19 anos"); err != nil {
		t.Fatalf("SetFact: %v", err)
	}
	if err := s.SetFact(ctx, "u1", "idade", "20 anos"); err != nil {
		t.Fatalf("SetFact overwrite: %v", err)
	}

	facts, err := s.UserFacts(ctx, "u1")
	if err != nil {
		t.Fatalf("UserFacts: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact after overwrite, got %d", len(facts))
	}
	if facts[0].Value != "20 anos" {
		t.Errorf("expected overwritten value, got %q", facts[0].Value)
	}
}

func TestDeleteFact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetFact(ctx, "u1", "nome", "joão"); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.DeleteFact(ctx, "u1", "nome")
	if err != nil {
		t.Fatalf("DeleteFact: %v", err)
	}
	if !deleted {
		t.Error("expected deletion of existing fact to report true")
	}

	deleted, err = s.DeleteFact(ctx, "u1", "nome")
	if err != nil {
		t.Fatalf("DeleteFact second: %v", err)
	}
	if deleted {
		t.Error("expected deletion of absent fact to report false")
	}
}

func TestClearFacts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SetFact(ctx, "u1", "a", "1")
	s.SetFact(ctx, "u1", "b", "2")
	s.SetFact(ctx, "u2", "a", "3")

	n, err := s.ClearFacts(ctx, "u1")
	if err != nil {
		t.Fatalf("ClearFacts: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 facts cleared, got %d", n)
	}

	if v, _ := s.FactValue(ctx, "u2", "a"); v != "3" {
		t.Errorf("other user's facts should survive, got %q", v)
	}
}

func TestRelationshipBumpCrossesThreshold(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := s.BumpRelationship(ctx, "u1"); err != nil {
			t.Fatalf("BumpRelationship: %v", err)
		}
	}
	level, interactions, err := s.Relationship(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if interactions != 4 || level != 0 {
		t.Fatalf("after 4 bumps: got level=%d interactions=%d, want 0/4", level, interactions)
	}

	if err := s.BumpRelationship(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	level, interactions, err = s.Relationship(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if interactions != 5 || level != 1 {
		t.Errorf("after 5 bumps: got level=%d interactions=%d, want 1/5", level, interactions)
	}
}

func TestRelationshipUnknownUser(t *testing.T) {
	s := newTestStore(t)

	level, interactions, err := s.Relationship(context.Background(), "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if level != 0 || interactions != 0 {
		t.Errorf("unknown user should be (0,0), got (%d,%d)", level, interactions)
	}
}

func TestSetRelationshipLevel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetRelationshipLevel(ctx, "u1", 11); err == nil {
		t.Error("expected error for level 11")
	}
	if err := s.SetRelationshipLevel(ctx, "u1", -1); err == nil {
		t.Error("expected error for level -1")
	}

	if err := s.SetRelationshipLevel(ctx, "u1", 7); err != nil {
		t.Fatalf("SetRelationshipLevel: %v", err)
	}
	level, _, err := s.Relationship(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if level != 7 {
		t.Errorf("expected level 7, got %d", level)
	}
}

func TestConfigDefaultsSeeded(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	prefix, err := s.GetConfig(ctx, "prefix", "?")
	if err != nil {
		t.Fatal(err)
	}
	if prefix != "!" {
		t.Errorf("expected seeded prefix %q, got %q", "!", prefix)
	}

	if err := s.SetConfig(ctx, "current_mood", "reflexivo"); err != nil {
		t.Fatal(err)
	}
	mood, _ := s.GetConfig(ctx, "current_mood", "neutro")
	if mood != "reflexivo" {
		t.Errorf("expected updated mood, got %q", mood)
	}

	// Missing keys fall back to the caller's default.
	v, _ := s.GetConfig(ctx, "no_such_key", "fallback")
	if v != "fallback" {
		t.Errorf("expected fallback, got %q", v)
	}
}

func TestSeedSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memory.db")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetConfig(ctx, "tone", "sarcastico"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	tone, _ := s2.GetConfig(ctx, "tone", "neutro")
	if tone != "sarcastico" {
		t.Errorf("user override lost across reopen: got %q", tone)
	}
}

func TestPersonality(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	text, err := s.Personality(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if text == "" {
		t.Fatal("expected seeded personality")
	}

	if err := s.SetPersonality(ctx, "novo texto"); err != nil {
		t.Fatal(err)
	}
	text, _ = s.Personality(ctx)
	if text != "novo texto" {
		t.Errorf("expected updated personality, got %q", text)
	}
}

func TestBlockedChannels(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.BlockChannel(ctx, "c1", "g1"); err != nil {
		t.Fatal(err)
	}
	// Blocking twice is a no-op.
	if err := s.BlockChannel(ctx, "c1", "g1"); err != nil {
		t.Fatal(err)
	}

	blocked, err := s.IsChannelBlocked(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !blocked {
		t.Error("c1 should be blocked")
	}

	s.BlockChannel(ctx, "c2", "g2")
	list, err := s.BlockedChannels(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0] != "c1" {
		t.Errorf("expected [c1] for g1, got %v", list)
	}

	ok, err := s.UnblockChannel(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("unblock of blocked channel should report true")
	}
	ok, _ = s.UnblockChannel(ctx, "c1")
	if ok {
		t.Error("second unblock should report false")
	}
}

func TestDailyCounterAndSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.IncrementDailyMessages(ctx, "2026-08-28"); err != nil {
			t.Fatal(err)
		}
	}
	s.IncrementDailyMessages(ctx, "2026-08-27")

	n, err := s.MessagesOnDate(ctx, "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 messages on 2026-08-28, got %d", n)
	}

	s.LogInteraction(ctx, "u1", "c1", "g1", "oi", "diga.")
	s.BumpRelationship(ctx, "u1")

	sum, err := s.Summary(ctx, "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if sum.MessagesToday != 3 {
		t.Errorf("MessagesToday = %d, want 3", sum.MessagesToday)
	}
	if sum.TotalInteractions != 1 {
		t.Errorf("TotalInteractions = %d, want 1", sum.TotalInteractions)
	}
	if len(sum.TopUsers) != 1 || sum.TopUsers[0].UserID != "u1" {
		t.Errorf("unexpected top users: %+v", sum.TopUsers)
	}

	act, err := s.RecentActivity(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(act) != 2 || act[0].Date != "2026-08-28" {
		t.Errorf("unexpected activity: %+v", act)
	}
}

func TestRecentHistoryFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.LogInteraction(ctx, "u1", "c1", "g1", "a", "b")
	s.LogInteraction(ctx, "u2", "c2", "g1", "c", "d")

	byUser, err := s.RecentHistory(ctx, "u1", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(byUser) != 1 || byUser[0].UserID != "u1" {
		t.Errorf("user filter failed: %+v", byUser)
	}

	byChannel, err := s.RecentHistory(ctx, "", "c2", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(byChannel) != 1 || byChannel[0].ChannelID != "c2" {
		t.Errorf("channel filter failed: %+v", byChannel)
	}

	n, err := s.UserInteractionCount(ctx, "u2")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("UserInteractionCount = %d, want 1", n)
	}
}

// Handlers log interactions concurrently; id generation and the insert
// path must hold up without losing records.
func TestConcurrentInteractionLogging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers, perWorker = 8, 5
	errs := make(chan error, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if err := s.LogInteraction(ctx, "u1", "c1", "g1", "oi", "diga."); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("LogInteraction: %v", err)
	}

	n, err := s.UserInteractionCount(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if n != workers*perWorker {
		t.Errorf("UserInteractionCount = %d, want %d", n, workers*perWorker)
	}
}

func TestResetConfig(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetConfig(ctx, "prefix", "?"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetConfig(ctx, "current_mood", "triste"); err != nil {
		t.Fatal(err)
	}

	if err := s.ResetConfig(ctx); err != nil {
		t.Fatalf("ResetConfig: %v", err)
	}

	prefix, _ := s.GetConfig(ctx, "prefix", "")
	if prefix != "!" {
		t.Errorf("prefix after reset = %q, want %q", prefix, "!")
	}
	mood, _ := s.GetConfig(ctx, "current_mood", "")
	if mood != "neutro" {
		t.Errorf("mood after reset = %q, want %q", mood, "neutro")
	}
}

func TestLastInteraction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	last, err := s.LastInteraction(ctx, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if !last.IsZero() {
		t.Errorf("unknown user should have zero last interaction, got %v", last)
	}

	if err := s.BumpRelationship(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	last, err = s.LastInteraction(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if last.IsZero() {
		t.Error("expected a last interaction timestamp after a bump")
	}
}
