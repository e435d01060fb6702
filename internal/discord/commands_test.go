package discord

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/chatmind/internal/mind"
	"github.com/keshon/chatmind/internal/storage"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()

	st, err := storage.New(filepath.Join(t.TempDir(), "memory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return &Bot{
		store:  st,
		engine: mind.NewEngine(st, nil, nil),
	}
}

func message(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ID:        "m1",
			ChannelID: "c1",
			GuildID:   "g1",
			Content:   content,
			Author:    &discordgo.User{ID: "u1", Username: "joão"},
		},
	}
}

func run(t *testing.T, b *Bot, input string) string {
	t.Helper()
	fields := strings.Fields(input)
	require.NotEmpty(t, fields)
	rest := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))
	reply, err := b.runCommand(context.Background(), nil, message(input), fields[0], fields[1:], rest)
	require.NoError(t, err)
	return reply
}

func TestRememberForgetMemories(t *testing.T) {
	b := newTestBot(t)

	reply := run(t, b, "remember cor azul escuro")
	assert.Contains(t, reply, "cor: azul escuro")

	reply = run(t, b, "memories")
	assert.Contains(t, reply, "- cor: azul escuro")

	reply = run(t, b, "forget cor")
	assert.Contains(t, reply, "Esqueci cor")

	reply = run(t, b, "forget cor")
	assert.Contains(t, reply, "Não sei nada")
}

func TestClearMemories(t *testing.T) {
	b := newTestBot(t)

	assert.Contains(t, run(t, b, "clearmemories"), "nada para apagar")

	run(t, b, "remember cor azul")
	run(t, b, "remember idade 20 anos")
	assert.Contains(t, run(t, b, "clearmemories"), "2 memórias")
}

func TestSetPrefixValidation(t *testing.T) {
	b := newTestBot(t)

	assert.Contains(t, run(t, b, "setprefix toolong"), "máximo 5")

	assert.Contains(t, run(t, b, "setprefix ?"), "`?`")
	value, err := b.store.GetConfig(context.Background(), "prefix", "!")
	require.NoError(t, err)
	assert.Equal(t, "?", value)
}

func TestSetToneAndMoodValidation(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	assert.Contains(t, run(t, b, "settone gritando"), "Tons válidos")
	assert.Contains(t, run(t, b, "settone sarcastico"), "sarcastico")

	tone, _ := b.store.GetConfig(ctx, "tone", "neutro")
	assert.Equal(t, "sarcastico", tone)

	assert.Contains(t, run(t, b, "setmood eufórico"), "Humores válidos")
	assert.Contains(t, run(t, b, "setmood reflexivo"), "reflexivo")

	mood, _ := b.store.GetConfig(ctx, "current_mood", "neutro")
	assert.Equal(t, "reflexivo", mood)
}

func TestRespondAllToggle(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	assert.Contains(t, run(t, b, "respondall talvez"), "Uso:")

	run(t, b, "respondall on")
	value, _ := b.store.GetConfig(ctx, "respond_all_channels", "false")
	assert.Equal(t, "true", value)

	run(t, b, "respondall off")
	value, _ = b.store.GetConfig(ctx, "respond_all_channels", "false")
	assert.Equal(t, "false", value)
}

func TestToggleLearning(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	assert.Contains(t, run(t, b, "togglelearning"), "desativado")
	value, _ := b.store.GetConfig(ctx, "continuous_learning", "true")
	assert.Equal(t, "false", value)

	assert.Contains(t, run(t, b, "togglelearning"), "ativado")
}

func TestBlockUnblockChannel(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	run(t, b, "blockchannel")
	blocked, err := b.store.IsChannelBlocked(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, blocked)

	assert.Contains(t, run(t, b, "blockedchannels"), "<#c1>")

	assert.Contains(t, run(t, b, "unblockchannel"), "desbloqueado")
	assert.Contains(t, run(t, b, "unblockchannel"), "não estava bloqueado")
}

func TestSetRelationshipCommand(t *testing.T) {
	b := newTestBot(t)

	m := message("setrelationship @ana 7")
	m.Mentions = []*discordgo.User{{ID: "u2", Username: "ana"}}

	reply, err := b.runCommand(context.Background(), nil, m, "setrelationship", []string{"<@u2>", "7"}, "<@u2> 7")
	require.NoError(t, err)
	assert.Contains(t, reply, "7/10")

	level, _, err := b.store.Relationship(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, 7, level)

	reply, err = b.runCommand(context.Background(), nil, m, "setrelationship", []string{"<@u2>", "15"}, "<@u2> 15")
	require.NoError(t, err)
	assert.Contains(t, reply, "entre 0 e 10")
}

func TestRelationshipShowsLastInteraction(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	reply := run(t, b, "relationship")
	assert.NotContains(t, reply, "Última interação", "unknown user has no timestamp")

	require.NoError(t, b.store.BumpRelationship(ctx, "u1"))

	reply = run(t, b, "relationship")
	assert.Contains(t, reply, "1 interações")
	assert.Contains(t, reply, "Última interação")
}

func TestResetConfigCommand(t *testing.T) {
	b := newTestBot(t)
	ctx := context.Background()

	run(t, b, "setprefix ?")
	run(t, b, "setmood triste")

	assert.Contains(t, run(t, b, "resetconfig"), "restaurada")

	prefix, err := b.store.GetConfig(ctx, "prefix", "")
	require.NoError(t, err)
	assert.Equal(t, "!", prefix)

	mood, _ := b.store.GetConfig(ctx, "current_mood", "")
	assert.Equal(t, "neutro", mood)
}

func TestViewAndClearContext(t *testing.T) {
	b := newTestBot(t)

	assert.Contains(t, run(t, b, "viewcontext"), "vazio")

	b.engine.Window().Append("c1", "oi", "diga.")
	assert.Contains(t, run(t, b, "viewcontext"), "**Usuário:** oi")

	assert.Contains(t, run(t, b, "clearcontext"), "limpo")
	assert.Contains(t, run(t, b, "clearcontext"), "já estava vazio")
}

func TestUnknownCommandStaysSilent(t *testing.T) {
	b := newTestBot(t)
	assert.Empty(t, run(t, b, "dance"))
}

func TestParseChannelMention(t *testing.T) {
	assert.Equal(t, "123", parseChannelMention("<#123>"))
	assert.Equal(t, "123", parseChannelMention("123"))
	assert.Equal(t, "", parseChannelMention("<@456>"))
}
