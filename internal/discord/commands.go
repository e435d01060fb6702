package discord

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/chatmind/internal/mind"
)

var validTones = map[string]bool{
	"formal": true, "neutro": true, "casual": true, "sarcastico": true,
}

var validMoods = map[string]bool{
	"feliz": true, "neutro": true, "triste": true,
	"irritado": true, "reflexivo": true, "sarcastico": true,
}

// handleCommand parses and executes one prefix command. input arrives with
// the prefix already stripped.
func (b *Bot) handleCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, input string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	reply, err := b.runCommand(ctx, s, m, name, args, rest)
	if err != nil {
		log.Printf("[ERR] Command %s failed: %v", name, err)
		reply = "❌ Algo deu errado, tenta de novo."
	}
	if reply == "" {
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		log.Printf("[ERR] Failed to send command reply: %v", err)
	}
}

func (b *Bot) runCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, name string, args []string, rest string) (string, error) {
	switch name {
	case "remember":
		if len(args) < 2 {
			return "Uso: remember <chave> <valor>", nil
		}
		key := strings.ToLower(args[0])
		value := strings.Join(args[1:], " ")
		if err := b.store.SetFact(ctx, m.Author.ID, key, value); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Lembrarei que %s: %s", key, value), nil

	case "forget":
		if len(args) < 1 {
			return "Uso: forget <chave>", nil
		}
		key := strings.ToLower(args[0])
		deleted, err := b.store.DeleteFact(ctx, m.Author.ID, key)
		if err != nil {
			return "", err
		}
		if !deleted {
			return fmt.Sprintf("🤔 Não sei nada sobre %s.", key), nil
		}
		return fmt.Sprintf("✅ Esqueci %s.", key), nil

	case "memories":
		facts, err := b.store.UserFacts(ctx, m.Author.ID)
		if err != nil {
			return "", err
		}
		if len(facts) == 0 {
			return "🤔 Ainda não sei nada sobre você.", nil
		}
		var sb strings.Builder
		sb.WriteString("📝 **O que sei sobre você:**\n")
		for _, f := range facts {
			fmt.Fprintf(&sb, "- %s: %s\n", f.Key, f.Value)
		}
		return sb.String(), nil

	case "clearmemories":
		n, err := b.store.ClearFacts(ctx, m.Author.ID)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "🤔 Não havia nada para apagar.", nil
		}
		return fmt.Sprintf("🗑️ Apaguei %d memórias sobre você.", n), nil

	case "clearcontext":
		if b.engine.Window().Clear(m.ChannelID) {
			return "🧹 Contexto da conversa limpo.", nil
		}
		return "O contexto já estava vazio.", nil

	case "viewcontext":
		exchanges := b.engine.Window().Exchanges(m.ChannelID)
		if len(exchanges) == 0 {
			return "O contexto está vazio.", nil
		}
		var sb strings.Builder
		sb.WriteString("💬 **Contexto atual da conversa:**\n")
		for _, ex := range exchanges {
			fmt.Fprintf(&sb, "**Usuário:** %s\n**Bot:** %s\n", ex.User, ex.Bot)
		}
		return sb.String(), nil

	case "relationship":
		userID := m.Author.ID
		label := "você"
		if len(m.Mentions) > 0 {
			userID = m.Mentions[0].ID
			label = m.Mentions[0].Username
		}
		level, interactions, err := b.store.Relationship(ctx, userID)
		if err != nil {
			return "", err
		}
		reply := fmt.Sprintf("💙 Proximidade com %s: **%d/10** (%s) após %d interações.",
			label, level, mind.LevelName(level), interactions)
		last, err := b.store.LastInteraction(ctx, userID)
		if err != nil {
			return "", err
		}
		if !last.IsZero() {
			reply += fmt.Sprintf(" Última interação: %s.",
				mind.InSaoPaulo(last).Format("02/01/2006 15:04"))
		}
		return reply, nil

	case "setrelationship":
		if len(m.Mentions) == 0 || len(args) < 2 {
			return "Uso: setrelationship @usuário <nível 0-10>", nil
		}
		level, err := strconv.Atoi(args[len(args)-1])
		if err != nil {
			return "O nível precisa ser um número entre 0 e 10.", nil
		}
		if err := b.store.SetRelationshipLevel(ctx, m.Mentions[0].ID, level); err != nil {
			return "O nível precisa ser um número entre 0 e 10.", nil
		}
		return fmt.Sprintf("✅ Proximidade de %s ajustada para %d/10 (%s).",
			m.Mentions[0].Username, level, mind.LevelName(level)), nil

	case "toprelationships":
		top, err := b.store.TopRelationships(ctx, 11)
		if err != nil {
			return "", err
		}
		if len(top) == 0 {
			return "Ainda não conheço ninguém por aqui.", nil
		}
		var sb strings.Builder
		sb.WriteString("🏆 **Usuários mais próximos:**\n")
		for i, r := range top {
			fmt.Fprintf(&sb, "%d. <@%s> — %d/10 (%d interações)\n",
				i+1, r.UserID, r.Level, r.Interactions)
		}
		return sb.String(), nil

	case "stats":
		today := mind.InSaoPaulo(time.Now()).Format("2006-01-02")
		stats, err := b.store.Summary(ctx, today)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		sb.WriteString("📊 **Estatísticas:**\n")
		fmt.Fprintf(&sb, "- Mensagens hoje: %d\n", stats.MessagesToday)
		fmt.Fprintf(&sb, "- Interações totais: %d\n", stats.TotalInteractions)
		if len(stats.TopUsers) > 0 {
			sb.WriteString("- Usuários mais ativos:\n")
			for _, r := range stats.TopUsers {
				fmt.Fprintf(&sb, "  - <@%s>: %d interações\n", r.UserID, r.Interactions)
			}
		}
		return sb.String(), nil

	case "activity":
		days := 7
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
				days = n
			}
		}
		activity, err := b.store.RecentActivity(ctx, days)
		if err != nil {
			return "", err
		}
		if len(activity) == 0 {
			return "Sem atividade registrada ainda.", nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "📅 **Atividade dos últimos %d dias:**\n", days)
		for _, d := range activity {
			fmt.Fprintf(&sb, "- %s: %d mensagens\n", d.Date, d.Messages)
		}
		return sb.String(), nil

	case "setprefix":
		if len(args) < 1 {
			return "Uso: setprefix <prefixo>", nil
		}
		prefix := args[0]
		if len(prefix) > 5 {
			return "O prefixo deve ter no máximo 5 caracteres.", nil
		}
		if err := b.store.SetConfig(ctx, "prefix", prefix); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Prefixo alterado para `%s`", prefix), nil

	case "settone":
		if len(args) < 1 || !validTones[strings.ToLower(args[0])] {
			return "Tons válidos: formal, neutro, casual, sarcastico", nil
		}
		tone := strings.ToLower(args[0])
		if err := b.store.SetConfig(ctx, "tone", tone); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Tom de conversa: %s", tone), nil

	case "setmood":
		if len(args) < 1 || !validMoods[strings.ToLower(args[0])] {
			return "Humores válidos: feliz, neutro, triste, irritado, reflexivo, sarcastico", nil
		}
		mood := strings.ToLower(args[0])
		if err := b.store.SetConfig(ctx, "current_mood", mood); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Humor atual: %s", mood), nil

	case "setchannel":
		channelID := m.ChannelID
		if len(args) > 0 {
			channelID = parseChannelMention(args[0])
			if channelID == "" {
				return "Uso: setchannel [#canal]", nil
			}
		}
		if err := b.store.SetConfig(ctx, "default_channel", channelID); err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Canal padrão definido: <#%s>", channelID), nil

	case "setpersonality":
		if rest == "" {
			return "Uso: setpersonality <texto da personalidade>", nil
		}
		if err := b.store.SetPersonality(ctx, rest); err != nil {
			return "", err
		}
		return "✅ Personalidade atualizada.", nil

	case "respondall":
		if len(args) < 1 || (args[0] != "on" && args[0] != "off") {
			return "Uso: respondall <on|off>", nil
		}
		value := "false"
		if args[0] == "on" {
			value = "true"
		}
		if err := b.store.SetConfig(ctx, "respond_all_channels", value); err != nil {
			return "", err
		}
		if value == "true" {
			return "✅ Agora participo de conversas em todos os canais.", nil
		}
		return "✅ Agora respondo apenas quando mencionado ou no canal padrão.", nil

	case "togglelearning":
		current, err := b.store.GetConfig(ctx, "continuous_learning", "true")
		if err != nil {
			return "", err
		}
		next := "true"
		if current == "true" {
			next = "false"
		}
		if err := b.store.SetConfig(ctx, "continuous_learning", next); err != nil {
			return "", err
		}
		if next == "true" {
			return "🧠 Aprendizado contínuo ativado.", nil
		}
		return "🧠 Aprendizado contínuo desativado.", nil

	case "blockchannel":
		channelID := m.ChannelID
		if len(args) > 0 {
			if id := parseChannelMention(args[0]); id != "" {
				channelID = id
			}
		}
		if err := b.store.BlockChannel(ctx, channelID, m.GuildID); err != nil {
			return "", err
		}
		return fmt.Sprintf("🔇 Canal <#%s> bloqueado. Não respondo mais lá.", channelID), nil

	case "unblockchannel":
		channelID := m.ChannelID
		if len(args) > 0 {
			if id := parseChannelMention(args[0]); id != "" {
				channelID = id
			}
		}
		unblocked, err := b.store.UnblockChannel(ctx, channelID)
		if err != nil {
			return "", err
		}
		if !unblocked {
			return fmt.Sprintf("O canal <#%s> não estava bloqueado.", channelID), nil
		}
		return fmt.Sprintf("🔊 Canal <#%s> desbloqueado.", channelID), nil

	case "blockedchannels":
		channels, err := b.store.BlockedChannels(ctx, m.GuildID)
		if err != nil {
			return "", err
		}
		if len(channels) == 0 {
			return "Nenhum canal bloqueado.", nil
		}
		var sb strings.Builder
		sb.WriteString("🔇 **Canais bloqueados:**\n")
		for _, id := range channels {
			fmt.Fprintf(&sb, "- <#%s>\n", id)
		}
		return sb.String(), nil

	case "resetconfig":
		if err := b.store.ResetConfig(ctx); err != nil {
			return "", err
		}
		return "♻️ Configuração restaurada para os padrões.", nil

	case "config":
		keys := []string{
			"prefix", "tone", "current_mood", "respond_all_channels",
			"bot_name", "memory_duration", "continuous_learning", "default_channel",
		}
		var sb strings.Builder
		sb.WriteString("⚙️ **Configuração atual:**\n")
		for _, key := range keys {
			value, err := b.store.GetConfig(ctx, key, "")
			if err != nil {
				return "", err
			}
			if value == "" {
				value = "(vazio)"
			}
			fmt.Fprintf(&sb, "- %s: %s\n", key, value)
		}
		return sb.String(), nil
	}

	// Unknown command names stay silent so the prefix can coexist with other
	// bots in the same server.
	return "", nil
}

// parseChannelMention extracts the ID from a <#123> token. Bare IDs pass
// through unchanged.
func parseChannelMention(token string) string {
	if strings.HasPrefix(token, "<#") && strings.HasSuffix(token, ">") {
		return strings.TrimSuffix(strings.TrimPrefix(token, "<#"), ">")
	}
	if token != "" && !strings.ContainsAny(token, "<>@&") {
		return token
	}
	return ""
}
