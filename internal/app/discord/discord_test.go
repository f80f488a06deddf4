package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

func TestNewSessionRequiresToken(t *testing.T) {
	session, err := NewSession("")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, errtype.ErrBadInput)

	session, err = NewSession("token")
	require.NoError(t, err)
	assert.NotNil(t, session)
}

func TestSnowflakeConversions(t *testing.T) {
	id, err := parseSnowflake("1234567890123456789")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567890123456789), id)
	assert.Equal(t, "1234567890123456789", formatSnowflake(id))

	_, err = parseSnowflake("not a snowflake")
	assert.Error(t, err)
}

func TestConfigGuild(t *testing.T) {
	b := Bot{guilds: []config.GuildChannel{
		{GuildID: 1, ConfigChannel: 10},
		{GuildID: 2, ConfigChannel: 20},
	}}

	guildID, ok := b.configGuild(20)
	require.True(t, ok)
	assert.Equal(t, int64(2), guildID)

	_, ok = b.configGuild(30)
	assert.False(t, ok)
}

func TestVisibleTo(t *testing.T) {
	status := app.VisibleStatus{Visibility: []int64{1, 2, 3}}
	assert.True(t, visibleTo(status, 2))
	assert.False(t, visibleTo(status, 4))
}

func TestReverse(t *testing.T) {
	patches := []app.ConfigPatch{
		{Path: []string{"a"}},
		{Path: []string{"b"}},
		{Path: []string{"c"}},
	}
	reverse(patches)
	assert.Equal(t, []string{"c"}, patches[0].Path)
	assert.Equal(t, []string{"b"}, patches[1].Path)
	assert.Equal(t, []string{"a"}, patches[2].Path)
}

func TestDisplayJSON(t *testing.T) {
	out := displayJSON(map[string]interface{}{"b": 2, "a": 1})
	assert.JSONEq(t, `{"a": 1, "b": 2}`, string(out))
}
