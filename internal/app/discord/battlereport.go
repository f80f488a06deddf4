package discord

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/leesiuhin7/gge-utility-bot/internal/app/metrics"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/report"
)

// onBattleReportMessage summarizes battle report screenshots posted to a
// guild's registered battle report channels.
func (b *Bot) onBattleReportMessage(
	ctx context.Context,
	s *discordgo.Session,
	m *discordgo.MessageCreate,
	channelID int64,
) {
	if m.GuildID == "" {
		return
	}
	guildID, err := parseSnowflake(m.GuildID)
	if err != nil {
		return
	}
	if !b.isBattleReportChannel(ctx, guildID, channelID) {
		return
	}
	if !b.summaryEnabled(ctx, guildID) {
		return
	}
	for _, attachment := range m.Attachments {
		if !strings.HasPrefix(attachment.ContentType, "image") {
			continue
		}
		summary, err := b.summarizeAttachment(ctx, attachment.URL)
		if err != nil {
			logrus.WithError(err).WithField("channel", channelID).
				Debug("attachment was not summarized")
			continue
		}
		b.replySummary(ctx, s, m, summary)
	}
}

// isBattleReportChannel reports whether the channel is registered in the
// guild's battle report channel list.
func (b *Bot) isBattleReportChannel(ctx context.Context, guildID, channelID int64) bool {
	raw, err := b.cfgSvc.Get(ctx, guildID, []string{"services", "battle_report", "channel_ids"})
	if err != nil {
		return false
	}
	channels, ok := raw.(map[string]interface{})
	if !ok {
		return false
	}
	for _, v := range channels {
		f, ok := v.(float64)
		if ok && int64(f) == channelID {
			return true
		}
	}
	return false
}

func (b *Bot) summaryEnabled(ctx context.Context, guildID int64) bool {
	enabled, err := b.cfgSvc.Get(ctx, guildID, []string{"services", "battle_report", "summary", "enabled"})
	return err == nil && enabled == true
}

// summarizeAttachment downloads the attachment and produces the summary PNG.
func (b *Bot) summarizeAttachment(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return report.Summarize(resp.Body)
}

func (b *Bot) replySummary(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, summary []byte) {
	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content: msgBattleReportSummary,
		Files: []*discordgo.File{{
			Name:        "summary.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(summary),
		}},
		Reference:       m.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		logrus.WithError(err).Warn("failed to reply with a battle report summary")
		return
	}
	metrics.DiscordMessagesSent.Inc()
}
