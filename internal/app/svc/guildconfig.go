package svc

import (
	"context"
	"encoding/json"

	"github.com/beldeveloper/go-errors-context"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
	"github.com/leesiuhin7/gge-utility-bot/pkg/pathtree"
)

// NewGuildConfig creates a new instance of the guild configuration service.
func NewGuildConfig(repo app.GuildConfigRepo) app.GuildConfigSvc {
	return GuildConfig{repo: repo}
}

// GuildConfig manages the per-guild configuration documents.
type GuildConfig struct {
	repo app.GuildConfigRepo
}

// Get reads the value at the given path from the guild's document.
func (s GuildConfig) Get(ctx context.Context, guildID int64, path []string) (interface{}, error) {
	doc, err := s.repo.Find(ctx, guildID)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{
			Path:   "svc.GuildConfig.Get.Find",
			Params: errors.Params{"guild": guildID},
		})
	}
	v, err := pathtree.Get(doc, path)
	return v, errors.WrapContext(err, errors.Context{
		Path:   "svc.GuildConfig.Get",
		Params: errors.Params{"guild": guildID, "path": path},
	})
}

// Apply applies a single patch to the guild's document.
func (s GuildConfig) Apply(ctx context.Context, guildID int64, patch app.ConfigPatch) error {
	err := s.repo.Mutate(ctx, guildID, func(doc map[string]interface{}) (map[string]interface{}, error) {
		return applyPatch(doc, patch)
	})
	return errors.WrapContext(err, errors.Context{
		Path:   "svc.GuildConfig.Apply",
		Params: errors.Params{"guild": guildID, "action": patch.Action},
	})
}

// Replace rebuilds the guild's document from scratch by applying the patches
// in order. Patches that cannot be applied, such as a delete of a key that
// was never set, are skipped.
func (s GuildConfig) Replace(ctx context.Context, guildID int64, patches []app.ConfigPatch) error {
	err := s.repo.Mutate(ctx, guildID, func(_ map[string]interface{}) (map[string]interface{}, error) {
		doc := make(map[string]interface{})
		for _, patch := range patches {
			next, err := applyPatch(doc, patch)
			if err != nil {
				continue
			}
			doc = next
		}
		return doc, nil
	})
	return errors.WrapContext(err, errors.Context{
		Path:   "svc.GuildConfig.Replace",
		Params: errors.Params{"guild": guildID, "patches": len(patches)},
	})
}

// Dump returns the guild's whole document. A guild without a stored document
// dumps as an empty one.
func (s GuildConfig) Dump(ctx context.Context, guildID int64) (map[string]interface{}, error) {
	doc, err := s.repo.Find(ctx, guildID)
	if err != nil {
		if errors.Is(err, errtype.ErrGuildNotFound) {
			return map[string]interface{}{}, nil
		}
		return nil, errors.WrapContext(err, errors.Context{
			Path:   "svc.GuildConfig.Dump.Find",
			Params: errors.Params{"guild": guildID},
		})
	}
	return doc, nil
}

func applyPatch(doc map[string]interface{}, patch app.ConfigPatch) (map[string]interface{}, error) {
	switch patch.Action {
	case app.ConfigActionSet:
		return pathtree.Set(doc, patch.Path, patch.Value)
	case app.ConfigActionDelete:
		return pathtree.Delete(doc, patch.Path)
	default:
		return nil, errors.WrapContext(errtype.ErrBadInput, errors.Context{
			Path:   "svc.applyPatch",
			Params: errors.Params{"action": patch.Action},
		})
	}
}

// ParseConfigInput parses a config message posted by a user. The expected
// shape is {"path": [...], "action": "set"|"delete", "value": ...} with the
// value mandatory for "set". Anything else is rejected.
func ParseConfigInput(content string) (app.ConfigPatch, bool) {
	var patch app.ConfigPatch
	var raw map[string]json.RawMessage
	if json.Unmarshal([]byte(content), &raw) != nil {
		return patch, false
	}
	if json.Unmarshal(raw["path"], &patch.Path) != nil || patch.Path == nil {
		return patch, false
	}
	if json.Unmarshal(raw["action"], &patch.Action) != nil {
		return patch, false
	}
	switch patch.Action {
	case app.ConfigActionSet:
		rawValue, exists := raw["value"]
		if !exists {
			return app.ConfigPatch{}, false
		}
		if json.Unmarshal(rawValue, &patch.Value) != nil {
			return app.ConfigPatch{}, false
		}
	case app.ConfigActionDelete:
		patch.Value = nil
	default:
		return app.ConfigPatch{}, false
	}
	return patch, true
}
