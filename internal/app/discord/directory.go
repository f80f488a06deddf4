package discord

import (
	"context"
	"strconv"

	"github.com/beldeveloper/go-errors-context"
	"github.com/bwmarrin/discordgo"

	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

// NewDirectory creates a channel directory backed by a Discord session.
func NewDirectory(session *discordgo.Session) Directory {
	return Directory{session: session}
}

// Directory resolves channel ownership, preferring the session state cache
// over the REST API.
type Directory struct {
	session *discordgo.Session
}

// ChannelGuildID returns the id of the guild that owns the channel.
// Returns errtype.ErrNotFound for channels outside a guild.
func (d Directory) ChannelGuildID(ctx context.Context, channelID int64) (int64, error) {
	id := formatSnowflake(channelID)
	channel, err := d.session.State.Channel(id)
	if err != nil {
		channel, err = d.session.Channel(id, discordgo.WithContext(ctx))
	}
	if err != nil {
		return 0, errors.WrapContext(err, errors.Context{
			Path:   "discord.Directory.ChannelGuildID",
			Params: errors.Params{"channel": channelID},
		})
	}
	if channel.GuildID == "" {
		return 0, errors.WrapContext(errtype.ErrNotFound, errors.Context{
			Path:   "discord.Directory.ChannelGuildID",
			Params: errors.Params{"channel": channelID},
		})
	}
	return parseSnowflake(channel.GuildID)
}

func parseSnowflake(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, errors.WrapContext(err, errors.Context{
		Path:   "discord.parseSnowflake",
		Params: errors.Params{"id": id},
	})
}

func formatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}
