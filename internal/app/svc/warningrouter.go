package svc

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
)

// NewWarningRouter creates a new instance of the warning router service.
func NewWarningRouter(cfgSvc app.GuildConfigSvc, directory app.ChannelDirectory) app.WarningRouterSvc {
	return WarningRouter{cfgSvc: cfgSvc, directory: directory}
}

// WarningRouter resolves which Discord channels should receive a batch of
// attack warnings, based on each guild's stored routing configuration.
type WarningRouter struct {
	cfgSvc    app.GuildConfigSvc
	directory app.ChannelDirectory
}

// Route returns the ids of all valid target channels for the routing info.
// Guilds with missing or malformed configuration are skipped, and every
// candidate channel must belong to the guild that claims it.
func (s WarningRouter) Route(ctx context.Context, info app.RoutingInfo) ([]int64, error) {
	valid := make(map[int64]struct{})
	for _, guildID := range info.Routes {
		for _, channelID := range s.guildTargetChannels(ctx, guildID, info) {
			owner, err := s.directory.ChannelGuildID(ctx, channelID)
			if err != nil {
				logrus.WithError(err).WithField("channel", channelID).
					Debug("skipping channel with unknown guild")
				continue
			}
			if owner == guildID {
				valid[channelID] = struct{}{}
			}
		}
	}
	channels := make([]int64, 0, len(valid))
	for channelID := range valid {
		channels = append(channels, channelID)
	}
	return channels, nil
}

// guildTargetChannels reads one guild's attack listener routes and collects
// the channels of the routes matching the puppet in the routing info.
func (s WarningRouter) guildTargetChannels(ctx context.Context, guildID int64, info app.RoutingInfo) []int64 {
	enabled, err := s.cfgSvc.Get(ctx, guildID, []string{"services", "attack_listener", "enabled"})
	if err != nil || enabled != true {
		return nil
	}
	rawRoutes, err := s.cfgSvc.Get(ctx, guildID, []string{"services", "attack_listener", "routes"})
	if err != nil {
		return nil
	}
	routes, ok := rawRoutes.(map[string]interface{})
	if !ok {
		return nil
	}
	var channels []int64
	for _, rawRoute := range routes {
		route, ok := rawRoute.(map[string]interface{})
		if !ok {
			continue
		}
		username, ok := route["username"].(string)
		if !ok || username != info.Username {
			continue
		}
		server, ok := route["server"].(string)
		if !ok || server != info.Server {
			continue
		}
		channels = append(channels, channelIDs(route["channel_ids"])...)
	}
	return channels
}

// channelIDs extracts the channel ids out of a user-configured
// {"name": id} object, skipping malformed entries.
func channelIDs(raw interface{}) []int64 {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(obj))
	for _, v := range obj {
		// JSON numbers decode as float64.
		f, ok := v.(float64)
		if !ok {
			continue
		}
		ids = append(ids, int64(f))
	}
	return ids
}
