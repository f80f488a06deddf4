package discord

import (
	"context"

	"github.com/beldeveloper/go-errors-context"
	"github.com/bwmarrin/discordgo"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/svc"
)

const historyPageSize = 100

// reloadGuildConfig rebuilds a guild's configuration from the history of its
// configuration channel. Messages are read newest first and replayed oldest
// first; a patch addressing the whole document makes anything older irrelevant.
func (b *Bot) reloadGuildConfig(ctx context.Context, gc config.GuildChannel) error {
	patches, err := b.collectConfigHistory(ctx, gc.ConfigChannel)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "discord.Bot.reloadGuildConfig",
			Params: errors.Params{"guild": gc.GuildID},
		})
	}
	reverse(patches)
	err = b.cfgSvc.Replace(ctx, gc.GuildID, patches)
	return errors.WrapContext(err, errors.Context{
		Path:   "discord.Bot.reloadGuildConfig.Replace",
		Params: errors.Params{"guild": gc.GuildID},
	})
}

// collectConfigHistory pages through the channel messages, newest first, and
// parses every valid configuration input.
func (b *Bot) collectConfigHistory(ctx context.Context, channelID int64) ([]app.ConfigPatch, error) {
	var patches []app.ConfigPatch
	channel := formatSnowflake(channelID)
	before := ""
	for {
		messages, err := b.session.ChannelMessages(
			channel, historyPageSize, before, "", "",
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return nil, errors.WrapContext(err, errors.Context{
				Path:   "discord.Bot.collectConfigHistory",
				Params: errors.Params{"channel": channelID},
			})
		}
		if len(messages) == 0 {
			return patches, nil
		}
		before = messages[len(messages)-1].ID
		for _, msg := range messages {
			patch, ok := svc.ParseConfigInput(msg.Content)
			if !ok {
				continue
			}
			patches = append(patches, patch)
			if len(patch.Path) == 0 {
				return patches, nil
			}
		}
	}
}

func reverse(patches []app.ConfigPatch) {
	for i, j := 0, len(patches)-1; i < j; i, j = i+1, j-1 {
		patches[i], patches[j] = patches[j], patches[i]
	}
}
