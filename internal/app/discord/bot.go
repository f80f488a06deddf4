// Package discord runs the Discord-facing side of the bot: slash commands,
// configuration channels, attack warning delivery and battle report replies.
package discord

import (
	"context"
	"net/http"
	"time"

	"github.com/beldeveloper/go-errors-context"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/metrics"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/svc"
)

const (
	sendQueueSize     = 64
	attachmentTimeout = 30 * time.Second
)

// NewSession creates the gateway session with the intents the bot needs.
// The session is not opened until Bot.Run.
func NewSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, errors.WrapContext(errtype.ErrBadInput, errors.Context{
			Path:   "discord.NewSession",
			Params: errors.Params{"reason": "empty bot token"},
		})
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{Path: "discord.NewSession"})
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent
	return session, nil
}

// NewBot creates the Discord bot on top of an unopened session.
func NewBot(
	session *discordgo.Session,
	cfg config.Discord,
	cfgSvc app.GuildConfigSvc,
	statusSvc app.StatusMonitorSvc,
	listener app.AttackListenerSvc,
	router app.WarningRouterSvc,
) *Bot {
	return &Bot{
		session:   session,
		guilds:    cfg.Guilds,
		cfgSvc:    cfgSvc,
		statusSvc: statusSvc,
		listener:  listener,
		router:    router,
		http:      &http.Client{Timeout: attachmentTimeout},
		sendQueue: make(chan outgoingMessage, sendQueueSize),
	}
}

// Bot wires the Discord gateway events to the bot services.
type Bot struct {
	session   *discordgo.Session
	guilds    []config.GuildChannel
	cfgSvc    app.GuildConfigSvc
	statusSvc app.StatusMonitorSvc
	listener  app.AttackListenerSvc
	router    app.WarningRouterSvc
	http      *http.Client

	sendQueue chan outgoingMessage
}

type outgoingMessage struct {
	channelID int64
	content   string
}

// Run opens the gateway connection and blocks until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.onReady(ctx, s, r)
	})
	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessage(ctx, s, m)
	})
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.onInteraction(ctx, s, i)
	})

	err := b.session.Open()
	if err != nil {
		return errors.WrapContext(err, errors.Context{Path: "discord.Bot.Run.Open"})
	}
	go b.sendLoop(ctx)
	go b.warningLoop(ctx)

	<-ctx.Done()
	err = b.session.Close()
	return errors.WrapContext(err, errors.Context{Path: "discord.Bot.Run.Close"})
}

func (b *Bot) onReady(ctx context.Context, s *discordgo.Session, r *discordgo.Ready) {
	_, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", commandDefs)
	if err != nil {
		logrus.WithError(err).Error("failed to register the slash commands")
	}
	logrus.WithField("user", r.User.String()).Info("bot is online")
	go b.reloadAllConfigs(ctx)
}

func (b *Bot) reloadAllConfigs(ctx context.Context) {
	for _, gc := range b.guilds {
		err := b.reloadGuildConfig(ctx, gc)
		if err != nil {
			logrus.WithError(err).WithField("guild", gc.GuildID).
				Error("failed to reload the guild configuration")
		}
	}
}

// queueMessage schedules a channel message for delivery by the send loop.
func (b *Bot) queueMessage(ctx context.Context, channelID int64, content string) {
	select {
	case b.sendQueue <- outgoingMessage{channelID: channelID, content: content}:
	case <-ctx.Done():
	}
}

func (b *Bot) sendLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.sendQueue:
			_, err := b.session.ChannelMessageSend(
				formatSnowflake(msg.channelID), msg.content,
				discordgo.WithContext(ctx),
			)
			if err != nil {
				logrus.WithError(err).WithField("channel", msg.channelID).
					Warn("failed to send a channel message")
				continue
			}
			metrics.DiscordMessagesSent.Inc()
		}
	}
}

// warningLoop delivers attack warning batches to every routed channel.
func (b *Bot) warningLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-b.listener.Warnings():
			channels, err := b.router.Route(ctx, batch.Routing)
			if err != nil {
				logrus.WithError(err).Error("failed to route an attack warning batch")
				continue
			}
			for _, warning := range batch.Warnings {
				for _, channelID := range channels {
					b.queueMessage(ctx, channelID, warning)
				}
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if s.State.User != nil && m.Author != nil && m.Author.ID == s.State.User.ID {
		return
	}
	channelID, err := parseSnowflake(m.ChannelID)
	if err != nil {
		return
	}
	if guildID, ok := b.configGuild(channelID); ok {
		b.onConfigMessage(ctx, guildID, m)
	}
	b.onBattleReportMessage(ctx, s, m, channelID)
}

// configGuild returns the guild whose configuration channel this is.
func (b *Bot) configGuild(channelID int64) (int64, bool) {
	for _, gc := range b.guilds {
		if gc.ConfigChannel == channelID {
			return gc.GuildID, true
		}
	}
	return 0, false
}

func (b *Bot) onConfigMessage(ctx context.Context, guildID int64, m *discordgo.MessageCreate) {
	patch, ok := svc.ParseConfigInput(m.Content)
	if !ok {
		return
	}
	err := b.cfgSvc.Apply(ctx, guildID, patch)
	if err != nil {
		logrus.WithError(err).WithField("guild", guildID).
			Debug("config message was not applied")
	}
}
