package discord

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/gamedata"
)

var commandDefs = []*discordgo.ApplicationCommand{
	{
		Name:        "config",
		Description: "Manage bot configurations",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "reload",
				Description: "Reload bot configurations",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "dump",
				Description: "Dump bot configurations",
			},
		},
	},
	{
		Name:        "puppet",
		Description: "Manage puppets",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "status",
				Description: "Get current status of puppets",
			},
		},
	},
}

func (b *Bot) onInteraction(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	switch data.Name + " " + data.Options[0].Name {
	case "config reload":
		b.handleConfigReload(ctx, s, i)
	case "config dump":
		b.handleConfigDump(ctx, s, i)
	case "puppet status":
		b.handlePuppetStatus(ctx, s, i)
	}
}

func (b *Bot) handleConfigReload(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !deferResponse(ctx, s, i, false) {
		return
	}
	channelID, err := parseSnowflake(i.ChannelID)
	if err != nil {
		followUp(ctx, s, i, msgReloadNotChannel, false)
		return
	}
	guildID, ok := b.configGuild(channelID)
	if !ok {
		followUp(ctx, s, i, msgReloadNotRegistered, false)
		return
	}
	err = b.reloadGuildConfig(ctx, config.GuildChannel{GuildID: guildID, ConfigChannel: channelID})
	if err != nil {
		logrus.WithError(err).WithField("guild", guildID).Error("config reload failed")
		followUp(ctx, s, i, msgReloadFailed, false)
		return
	}
	followUp(ctx, s, i, msgReloadSucceeded, false)
}

func (b *Bot) handleConfigDump(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !deferResponse(ctx, s, i, true) {
		return
	}
	channelID, err := parseSnowflake(i.ChannelID)
	if err != nil {
		followUp(ctx, s, i, msgDumpNotChannel, true)
		return
	}
	guildID, ok := b.configGuild(channelID)
	if !ok {
		followUp(ctx, s, i, msgDumpNotRegistered, true)
		return
	}
	doc, err := b.cfgSvc.Dump(ctx, guildID)
	if err != nil {
		logrus.WithError(err).WithField("guild", guildID).Error("config dump failed")
		return
	}
	followUpFile(ctx, s, i, msgDumpSucceeded, "config.json", displayJSON(doc), true)
}

func (b *Bot) handlePuppetStatus(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !deferResponse(ctx, s, i, true) {
		return
	}
	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		return
	}
	statuses, err := b.statusSvc.Statuses(ctx)
	if err != nil {
		logrus.WithError(err).Error("puppet status sweep failed")
		return
	}
	encoded := make([]gamedata.EncodedStatus, 0, len(statuses))
	for _, status := range statuses {
		if visibleTo(status, guildID) {
			encoded = append(encoded, gamedata.EncodeStatus(status.Status))
		}
	}
	followUpFile(ctx, s, i, msgPuppetStatusLoaded, "status.json", displayJSON(encoded), true)
}

func visibleTo(status app.VisibleStatus, guildID int64) bool {
	for _, id := range status.Visibility {
		if id == guildID {
			return true
		}
	}
	return false
}

func displayJSON(obj interface{}) []byte {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return []byte("{}")
	}
	return data
}

func deferResponse(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) bool {
	response := discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	err := s.InteractionRespond(i.Interaction, &response, discordgo.WithContext(ctx))
	if err != nil {
		logrus.WithError(err).Warn("failed to defer an interaction response")
		return false
	}
	return true
}

func followUp(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	params := discordgo.WebhookParams{Content: content}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := s.FollowupMessageCreate(i.Interaction, true, &params, discordgo.WithContext(ctx))
	if err != nil {
		logrus.WithError(err).Warn("failed to send an interaction follow-up")
	}
}

func followUpFile(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	content, filename string,
	data []byte,
	ephemeral bool,
) {
	params := discordgo.WebhookParams{
		Content: content,
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "application/json",
			Reader:      bytes.NewReader(data),
		}},
	}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := s.FollowupMessageCreate(i.Interaction, true, &params, discordgo.WithContext(ctx))
	if err != nil {
		logrus.WithError(err).Warn("failed to send an interaction follow-up")
	}
}
