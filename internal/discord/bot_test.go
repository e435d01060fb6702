package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureSessionSerializesEvents(t *testing.T) {
	dg, err := discordgo.New("Bot token")
	require.NoError(t, err)

	b := &Bot{dg: dg}
	b.configureSession()

	assert.True(t, dg.SyncEvents, "message handlers must run one at a time")
	assert.NotZero(t, dg.Identify.Intents&discordgo.IntentsGuildMessages)
	assert.NotZero(t, dg.Identify.Intents&discordgo.IntentsDirectMessages)
	assert.NotZero(t, dg.Identify.Intents&discordgo.IntentsMessageContent)
}

func TestStripMention(t *testing.T) {
	assert.Equal(t, "oi", stripMention("<@42> oi", "42"))
	assert.Equal(t, "oi", stripMention("<@!42> oi", "42"))
	assert.Equal(t, "oi <@99>", stripMention("oi <@99>", "42"))
}
