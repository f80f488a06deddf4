package app

import "context"

const (
	// ConfigActionSet overwrites the field at the patch path, creating intermediate objects.
	ConfigActionSet = "set"
	// ConfigActionDelete removes the field at the patch path.
	ConfigActionDelete = "delete"
)

// ConfigPatch is a single update to a guild configuration document.
type ConfigPatch struct {
	Path   []string    `json:"path"`
	Action string      `json:"action"`
	Value  interface{} `json:"value,omitempty"`
}

// GuildConfigRepo describes interactions with the guild configuration DB.
type GuildConfigRepo interface {
	Find(ctx context.Context, guildID int64) (map[string]interface{}, error)
	Mutate(ctx context.Context, guildID int64, fn func(doc map[string]interface{}) (map[string]interface{}, error)) error
}

// GuildConfigSvc describes the guild configuration service.
type GuildConfigSvc interface {
	Get(ctx context.Context, guildID int64, path []string) (interface{}, error)
	Apply(ctx context.Context, guildID int64, patch ConfigPatch) error
	Replace(ctx context.Context, guildID int64, patches []ConfigPatch) error
	Dump(ctx context.Context, guildID int64) (map[string]interface{}, error)
}
