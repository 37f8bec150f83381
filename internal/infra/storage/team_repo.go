package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"
)

type TeamRepo struct{ db *sql.DB }

func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

func (r *TeamRepo) Add(ctx context.Context, t Team) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO teams (guild_id, team_name, role_id, captain_id, channel_id, is_ready, is_bot)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING team_id
`, t.GuildID, t.Name, t.RoleID, t.CaptainID, t.ChannelID, t.IsReady, t.IsBot).Scan(&id)
	return id, err
}

const teamCols = `team_id, guild_id, team_name, role_id, captain_id, channel_id, is_ready, is_bot, created_at`

func scanTeams(rows *sql.Rows) ([]Team, error) {
	defer rows.Close()
	var out []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.TeamID, &t.GuildID, &t.Name, &t.RoleID, &t.CaptainID, &t.ChannelID, &t.IsReady, &t.IsBot, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TeamRepo) GetByRole(ctx context.Context, guildID, roleID string) (Team, error) {
	var t Team
	err := r.db.QueryRowContext(ctx, `
SELECT `+teamCols+`
  FROM teams
 WHERE guild_id = $1 AND role_id = $2
`, guildID, roleID).Scan(&t.TeamID, &t.GuildID, &t.Name, &t.RoleID, &t.CaptainID, &t.ChannelID, &t.IsReady, &t.IsBot, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return Team{}, ErrNotFound
	}
	return t, err
}

func (r *TeamRepo) GetByName(ctx context.Context, guildID, name string) (Team, error) {
	var t Team
	err := r.db.QueryRowContext(ctx, `
SELECT `+teamCols+`
  FROM teams
 WHERE guild_id = $1 AND team_name = $2
`, guildID, name).Scan(&t.TeamID, &t.GuildID, &t.Name, &t.RoleID, &t.CaptainID, &t.ChannelID, &t.IsReady, &t.IsBot, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return Team{}, ErrNotFound
	}
	return t, err
}

func (r *TeamRepo) List(ctx context.Context, guildID string) ([]Team, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+teamCols+`
  FROM teams
 WHERE guild_id = $1
 ORDER BY team_id ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	return scanTeams(rows)
}

// ListReady: los equipos que entran al bracket, en orden de creacion (el seeding
// mezcla despues con semilla fija).
func (r *TeamRepo) ListReady(ctx context.Context, guildID string) ([]Team, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+teamCols+`
  FROM teams
 WHERE guild_id = $1 AND is_ready = TRUE
 ORDER BY team_id ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	return scanTeams(rows)
}

func (r *TeamRepo) ListBots(ctx context.Context, guildID string) ([]Team, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+teamCols+`
  FROM teams
 WHERE guild_id = $1 AND is_bot = TRUE
 ORDER BY team_id ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	return scanTeams(rows)
}

func (r *TeamRepo) SetReady(ctx context.Context, guildID, roleID string, ready bool) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE teams
   SET is_ready = $3
 WHERE guild_id = $1 AND role_id = $2
`, guildID, roleID, ready)
	return err
}

func (r *TeamRepo) DeleteByRole(ctx context.Context, guildID, roleID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM teams
 WHERE guild_id = $1 AND role_id = $2
`, guildID, roleID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RoleIDsByNames: mapa team_name -> role_id (para armar overwrites de los canales de match).
func (r *TeamRepo) RoleIDsByNames(ctx context.Context, guildID string, names []string) (map[string]string, error) {
	out := map[string]string{}
	if len(names) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT team_name, role_id
  FROM teams
 WHERE guild_id = $1 AND team_name = ANY($2)
`, guildID, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name, rid string
		if err := rows.Scan(&name, &rid); err != nil {
			return nil, err
		}
		out[name] = rid
	}
	return out, rows.Err()
}
