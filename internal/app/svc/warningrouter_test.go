package svc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
	"github.com/leesiuhin7/gge-utility-bot/pkg/pathtree"
)

type fakeConfigSvc struct {
	docs map[int64]map[string]interface{}
}

func (f fakeConfigSvc) Get(_ context.Context, guildID int64, path []string) (interface{}, error) {
	doc, ok := f.docs[guildID]
	if !ok {
		return nil, errtype.ErrGuildNotFound
	}
	return pathtree.Get(doc, path)
}

func (f fakeConfigSvc) Apply(context.Context, int64, app.ConfigPatch) error { return nil }

func (f fakeConfigSvc) Replace(context.Context, int64, []app.ConfigPatch) error { return nil }

func (f fakeConfigSvc) Dump(_ context.Context, guildID int64) (map[string]interface{}, error) {
	return f.docs[guildID], nil
}

type fakeDirectory struct {
	owners map[int64]int64
}

func (f fakeDirectory) ChannelGuildID(_ context.Context, channelID int64) (int64, error) {
	owner, ok := f.owners[channelID]
	if !ok {
		return 0, errtype.ErrNotFound
	}
	return owner, nil
}

func routingDoc(enabled bool, username, server string, channels map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"services": map[string]interface{}{
			"attack_listener": map[string]interface{}{
				"enabled": enabled,
				"routes": map[string]interface{}{
					"main": map[string]interface{}{
						"username":    username,
						"server":      server,
						"channel_ids": channels,
					},
				},
			},
		},
	}
}

func TestWarningRouterRoute(t *testing.T) {
	cfgSvc := fakeConfigSvc{docs: map[int64]map[string]interface{}{
		1: routingDoc(true, "scout", "EmpireEx_3", map[string]interface{}{
			"alerts":  float64(100),
			"foreign": float64(200),
		}),
		2: routingDoc(false, "scout", "EmpireEx_3", map[string]interface{}{
			"alerts": float64(300),
		}),
		3: routingDoc(true, "other", "EmpireEx_3", map[string]interface{}{
			"alerts": float64(400),
		}),
	}}
	// Channel 200 is claimed by guild 1 but belongs to guild 9.
	directory := fakeDirectory{owners: map[int64]int64{
		100: 1,
		200: 9,
		300: 2,
		400: 3,
	}}
	router := NewWarningRouter(cfgSvc, directory)

	channels, err := router.Route(context.Background(), app.RoutingInfo{
		Username: "scout",
		Server:   "EmpireEx_3",
		Routes:   []int64{1, 2, 3, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, channels)
}

func TestWarningRouterDedupesChannels(t *testing.T) {
	doc := routingDoc(true, "scout", "EmpireEx_3", map[string]interface{}{
		"alerts": float64(100),
	})
	routes := doc["services"].(map[string]interface{})["attack_listener"].(map[string]interface{})["routes"].(map[string]interface{})
	routes["backup"] = map[string]interface{}{
		"username":    "scout",
		"server":      "EmpireEx_3",
		"channel_ids": map[string]interface{}{"same": float64(100)},
	}
	cfgSvc := fakeConfigSvc{docs: map[int64]map[string]interface{}{1: doc}}
	directory := fakeDirectory{owners: map[int64]int64{100: 1}}

	channels, err := NewWarningRouter(cfgSvc, directory).Route(context.Background(), app.RoutingInfo{
		Username: "scout",
		Server:   "EmpireEx_3",
		Routes:   []int64{1},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, channels)
}

func TestWarningRouterIgnoresMalformedRoutes(t *testing.T) {
	cfgSvc := fakeConfigSvc{docs: map[int64]map[string]interface{}{
		1: {
			"services": map[string]interface{}{
				"attack_listener": map[string]interface{}{
					"enabled": true,
					"routes":  "not an object",
				},
			},
		},
	}}
	channels, err := NewWarningRouter(cfgSvc, fakeDirectory{}).Route(context.Background(), app.RoutingInfo{
		Username: "scout",
		Server:   "EmpireEx_3",
		Routes:   []int64{1},
	})
	require.NoError(t, err)
	assert.Empty(t, channels)
}
