package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

type TournamentRepo struct{ db *sql.DB }

func NewTournamentRepo(db *sql.DB) *TournamentRepo { return &TournamentRepo{db: db} }

const tournamentCols = `
guild_id, name, max_teams, team_size, best_of, bracket_type,
captain_scoring, screenshot_proof, queue_status, status,
category_id, teams_category_id, matches_category_id,
panel_channel_id, panel_message_id,
join_panel_channel_id, join_panel_message_id, join_invite_code,
create_team_channel_id, teams_channel_id, chat_channel_id,
bracket_channel_id, bracket_message_id, results_channel_id,
rules_channel_id, announce_channel_id,
player_role_id, spectator_role_id,
teams_joined, players_joined, spectators_joined,
created_at, updated_at`

func scanTournament(row *sql.Row) (Tournament, error) {
	var t Tournament
	err := row.Scan(
		&t.GuildID, &t.Name, &t.MaxTeams, &t.TeamSize, &t.BestOf, &t.BracketType,
		&t.CaptainScoring, &t.ScreenshotProof, &t.QueueStatus, &t.Status,
		&t.CategoryID, &t.TeamsCategoryID, &t.MatchesCategoryID,
		&t.PanelChannelID, &t.PanelMessageID,
		&t.JoinPanelChannelID, &t.JoinPanelMessageID, &t.JoinInviteCode,
		&t.CreateTeamChannelID, &t.TeamsChannelID, &t.ChatChannelID,
		&t.BracketChannelID, &t.BracketMessageID, &t.ResultsChannelID,
		&t.RulesChannelID, &t.AnnounceChannelID,
		&t.PlayerRoleID, &t.SpectatorRoleID,
		&t.TeamsJoined, &t.PlayersJoined, &t.SpectatorsJoined,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return Tournament{}, ErrNotFound
	}
	return t, err
}

func (r *TournamentRepo) Get(ctx context.Context, guildID string) (Tournament, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+tournamentCols+`
  FROM tournaments
 WHERE guild_id = $1
`, guildID)
	return scanTournament(row)
}

// Upsert guarda la fila completa (la usamos al provisionar; PK garantiza un torneo por guild).
func (r *TournamentRepo) Upsert(ctx context.Context, t Tournament) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tournaments (
  guild_id, name, max_teams, team_size, best_of, bracket_type,
  captain_scoring, screenshot_proof, queue_status, status,
  category_id, teams_category_id, matches_category_id,
  panel_channel_id, panel_message_id,
  join_panel_channel_id, join_panel_message_id, join_invite_code,
  create_team_channel_id, teams_channel_id, chat_channel_id,
  bracket_channel_id, bracket_message_id, results_channel_id,
  rules_channel_id, announce_channel_id,
  player_role_id, spectator_role_id,
  teams_joined, players_joined, spectators_joined
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
  $11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
  $21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31
)
ON CONFLICT (guild_id) DO UPDATE SET
  name                   = EXCLUDED.name,
  max_teams              = EXCLUDED.max_teams,
  team_size              = EXCLUDED.team_size,
  best_of                = EXCLUDED.best_of,
  bracket_type           = EXCLUDED.bracket_type,
  captain_scoring        = EXCLUDED.captain_scoring,
  screenshot_proof       = EXCLUDED.screenshot_proof,
  queue_status           = EXCLUDED.queue_status,
  status                 = EXCLUDED.status,
  category_id            = EXCLUDED.category_id,
  teams_category_id      = EXCLUDED.teams_category_id,
  matches_category_id    = EXCLUDED.matches_category_id,
  panel_channel_id       = EXCLUDED.panel_channel_id,
  panel_message_id       = EXCLUDED.panel_message_id,
  join_panel_channel_id  = EXCLUDED.join_panel_channel_id,
  join_panel_message_id  = EXCLUDED.join_panel_message_id,
  join_invite_code       = EXCLUDED.join_invite_code,
  create_team_channel_id = EXCLUDED.create_team_channel_id,
  teams_channel_id       = EXCLUDED.teams_channel_id,
  chat_channel_id        = EXCLUDED.chat_channel_id,
  bracket_channel_id     = EXCLUDED.bracket_channel_id,
  bracket_message_id     = EXCLUDED.bracket_message_id,
  results_channel_id     = EXCLUDED.results_channel_id,
  rules_channel_id       = EXCLUDED.rules_channel_id,
  announce_channel_id    = EXCLUDED.announce_channel_id,
  player_role_id         = EXCLUDED.player_role_id,
  spectator_role_id      = EXCLUDED.spectator_role_id,
  teams_joined           = EXCLUDED.teams_joined,
  players_joined         = EXCLUDED.players_joined,
  spectators_joined      = EXCLUDED.spectators_joined,
  updated_at             = now()
`,
		t.GuildID, t.Name, t.MaxTeams, t.TeamSize, t.BestOf, t.BracketType,
		t.CaptainScoring, t.ScreenshotProof, t.QueueStatus, t.Status,
		t.CategoryID, t.TeamsCategoryID, t.MatchesCategoryID,
		t.PanelChannelID, t.PanelMessageID,
		t.JoinPanelChannelID, t.JoinPanelMessageID, t.JoinInviteCode,
		t.CreateTeamChannelID, t.TeamsChannelID, t.ChatChannelID,
		t.BracketChannelID, t.BracketMessageID, t.ResultsChannelID,
		t.RulesChannelID, t.AnnounceChannelID,
		t.PlayerRoleID, t.SpectatorRoleID,
		t.TeamsJoined, t.PlayersJoined, t.SpectatorsJoined,
	)
	return err
}

// Update parcial: solo lo que venga en el patch.
func (r *TournamentRepo) Update(ctx context.Context, guildID string, p TournamentPatch) (Tournament, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	i := 1

	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, v)
		i++
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.MaxTeams != nil {
		add("max_teams", *p.MaxTeams)
	}
	if p.TeamSize != nil {
		add("team_size", *p.TeamSize)
	}
	if p.BestOf != nil {
		add("best_of", *p.BestOf)
	}
	if p.BracketType != nil {
		add("bracket_type", *p.BracketType)
	}
	if p.CaptainScoring != nil {
		add("captain_scoring", *p.CaptainScoring)
	}
	if p.ScreenshotProof != nil {
		add("screenshot_proof", *p.ScreenshotProof)
	}
	if p.QueueStatus != nil {
		add("queue_status", *p.QueueStatus)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.TeamsCategoryID != nil {
		add("teams_category_id", *p.TeamsCategoryID)
	}
	if p.MatchesCategoryID != nil {
		add("matches_category_id", *p.MatchesCategoryID)
	}
	if p.JoinPanelChannelID != nil {
		add("join_panel_channel_id", *p.JoinPanelChannelID)
	}
	if p.JoinPanelMessageID != nil {
		add("join_panel_message_id", *p.JoinPanelMessageID)
	}
	if p.JoinInviteCode != nil {
		add("join_invite_code", *p.JoinInviteCode)
	}
	if p.BracketMessageID != nil {
		add("bracket_message_id", *p.BracketMessageID)
	}
	if len(sets) == 0 {
		// nada que cambiar
		return r.Get(ctx, guildID)
	}
	add("updated_at", time.Now())

	args = append(args, guildID)
	_, err := r.db.ExecContext(ctx, `
UPDATE tournaments
   SET `+strings.Join(sets, ", ")+`
 WHERE guild_id = $`+fmt.Sprint(i), args...)
	if err != nil {
		return Tournament{}, err
	}
	return r.Get(ctx, guildID)
}

// AdjustCounts suma deltas a los contadores sin bajar de cero (clicks concurrentes).
func (r *TournamentRepo) AdjustCounts(ctx context.Context, guildID string, dTeams, dPlayers, dSpectators int) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE tournaments
   SET teams_joined      = GREATEST(0, teams_joined + $2),
       players_joined    = GREATEST(0, players_joined + $3),
       spectators_joined = GREATEST(0, spectators_joined + $4),
       updated_at        = now()
 WHERE guild_id = $1
`, guildID, dTeams, dPlayers, dSpectators)
	return err
}

// Delete borra el torneo y todo lo que cuelga de el (equipos, bracket, bots).
func (r *TournamentRepo) Delete(ctx context.Context, guildID string) error {
	for _, q := range []string{
		`DELETE FROM bracket_matches WHERE guild_id = $1`,
		`DELETE FROM teams WHERE guild_id = $1`,
		`DELETE FROM bot_players WHERE guild_id = $1`,
		`DELETE FROM tournaments WHERE guild_id = $1`,
	} {
		if _, err := r.db.ExecContext(ctx, q, guildID); err != nil {
			return err
		}
	}
	return nil
}
