package discord

import (
	"github.com/bwmarrin/discordgo"
)

// sessionSink adapts a discordgo session to the engine's outbound interface.
type sessionSink struct {
	dg *discordgo.Session
}

func (s *sessionSink) Send(channelID, content string) error {
	_, err := s.dg.ChannelMessageSend(channelID, content)
	return err
}

func (s *sessionSink) Reply(channelID, messageID, content string) error {
	_, err := s.dg.ChannelMessageSendReply(channelID, content, &discordgo.MessageReference{
		MessageID: messageID,
		ChannelID: channelID,
	})
	return err
}
