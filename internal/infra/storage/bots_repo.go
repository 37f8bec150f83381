package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"
)

// Jugadores de prueba (/bots) para llenar brackets sin gente real.
type BotsRepo struct{ db *sql.DB }

func NewBotsRepo(db *sql.DB) *BotsRepo { return &BotsRepo{db: db} }

func (r *BotsRepo) Add(ctx context.Context, guildID string, labels []string) error {
	for _, l := range labels {
		if _, err := r.db.ExecContext(ctx, `
INSERT INTO bot_players (guild_id, label) VALUES ($1, $2)
`, guildID, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *BotsRepo) List(ctx context.Context, guildID string) ([]BotPlayer, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, guild_id, label
  FROM bot_players
 WHERE guild_id = $1
 ORDER BY id ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BotPlayer
	for rows.Next() {
		var b BotPlayer
		if err := rows.Scan(&b.ID, &b.GuildID, &b.Label); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BotsRepo) Count(ctx context.Context, guildID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM bot_players WHERE guild_id = $1
`, guildID).Scan(&n)
	return n, err
}

// DeleteIDs consume los bots ya agrupados en un equipo.
func (r *BotsRepo) DeleteIDs(ctx context.Context, guildID string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
DELETE FROM bot_players
 WHERE guild_id = $1 AND id = ANY($2)
`, guildID, pq.Array(ids))
	return err
}

func (r *BotsRepo) Clear(ctx context.Context, guildID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bot_players WHERE guild_id = $1`, guildID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
