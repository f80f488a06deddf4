package postgres

import (
	"context"
	"encoding/json"

	"github.com/beldeveloper/go-errors-context"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

// NewGuildConfig creates a new instance of the guild configuration repository.
func NewGuildConfig(conn *pgxpool.Pool) app.GuildConfigRepo {
	return GuildConfig{conn: conn}
}

// GuildConfig stores one JSONB configuration document per guild.
type GuildConfig struct {
	conn *pgxpool.Pool
}

// Migrate creates the storage schema.
func Migrate(ctx context.Context, conn *pgxpool.Pool) error {
	q := `CREATE TABLE IF NOT EXISTS "guild_configs" (
		"guild_id" BIGINT PRIMARY KEY,
		"config" JSONB NOT NULL DEFAULT '{}'::jsonb
	)`
	_, err := conn.Exec(ctx, q)
	return errors.WrapContext(err, errors.Context{Path: "postgres.Migrate.exec"})
}

// Find returns the configuration document of a guild.
func (r GuildConfig) Find(ctx context.Context, guildID int64) (map[string]interface{}, error) {
	var data []byte
	q := `SELECT "config" FROM "guild_configs" WHERE "guild_id" = $1`
	err := r.conn.QueryRow(ctx, q, guildID).Scan(&data)
	if err == pgx.ErrNoRows {
		err = errtype.ErrGuildNotFound
	}
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{
			Path:   "postgres.guildconfig.Find.scan",
			Params: errors.Params{"guild": guildID},
		})
	}
	doc := make(map[string]interface{})
	err = json.Unmarshal(data, &doc)
	return doc, errors.WrapContext(err, errors.Context{
		Path:   "postgres.guildconfig.Find.unmarshal",
		Params: errors.Params{"guild": guildID},
	})
}

// Mutate applies fn to the configuration document of a guild inside a
// transaction. A guild without a stored document starts from an empty one.
func (r GuildConfig) Mutate(
	ctx context.Context,
	guildID int64,
	fn func(doc map[string]interface{}) (map[string]interface{}, error),
) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "postgres.guildconfig.Mutate.begin",
			Params: errors.Params{"guild": guildID},
		})
	}
	defer tx.Rollback(ctx)

	doc := make(map[string]interface{})
	var data []byte
	q := `SELECT "config" FROM "guild_configs" WHERE "guild_id" = $1 FOR UPDATE`
	err = tx.QueryRow(ctx, q, guildID).Scan(&data)
	switch err {
	case nil:
		err = json.Unmarshal(data, &doc)
		if err != nil {
			return errors.WrapContext(err, errors.Context{
				Path:   "postgres.guildconfig.Mutate.unmarshal",
				Params: errors.Params{"guild": guildID},
			})
		}
	case pgx.ErrNoRows:
	default:
		return errors.WrapContext(err, errors.Context{
			Path:   "postgres.guildconfig.Mutate.scan",
			Params: errors.Params{"guild": guildID},
		})
	}

	doc, err = fn(doc)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "postgres.guildconfig.Mutate.fn",
			Params: errors.Params{"guild": guildID},
		})
	}
	data, err = json.Marshal(doc)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "postgres.guildconfig.Mutate.marshal",
			Params: errors.Params{"guild": guildID},
		})
	}

	q = `INSERT INTO "guild_configs" ("guild_id", "config") VALUES ($1, $2)
		ON CONFLICT ("guild_id") DO UPDATE SET "config" = EXCLUDED."config"`
	_, err = tx.Exec(ctx, q, guildID, data)
	if err != nil {
		return errors.WrapContext(err, errors.Context{
			Path:   "postgres.guildconfig.Mutate.exec",
			Params: errors.Params{"guild": guildID},
		})
	}
	return errors.WrapContext(tx.Commit(ctx), errors.Context{
		Path:   "postgres.guildconfig.Mutate.commit",
		Params: errors.Params{"guild": guildID},
	})
}
