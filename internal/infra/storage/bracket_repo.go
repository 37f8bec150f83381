package storage

import (
	"context"
	"database/sql"
)

type BracketRepo struct{ db *sql.DB }

func NewBracketRepo(db *sql.DB) *BracketRepo { return &BracketRepo{db: db} }

const matchCols = `guild_id, match_id, round_number, team_a, team_b, winner, score_a, score_b, status, channel_id`

func scanMatches(rows *sql.Rows) ([]BracketMatch, error) {
	defer rows.Close()
	var out []BracketMatch
	for rows.Next() {
		var m BracketMatch
		if err := rows.Scan(&m.GuildID, &m.MatchID, &m.Round, &m.TeamA, &m.TeamB, &m.Winner, &m.ScoreA, &m.ScoreB, &m.Status, &m.ChannelID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *BracketRepo) Clear(ctx context.Context, guildID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bracket_matches WHERE guild_id = $1`, guildID)
	return err
}

func (r *BracketRepo) Insert(ctx context.Context, m BracketMatch) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO bracket_matches
  (guild_id, match_id, round_number, team_a, team_b, winner, score_a, score_b, status, channel_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`, m.GuildID, m.MatchID, m.Round, m.TeamA, m.TeamB, m.Winner, m.ScoreA, m.ScoreB, m.Status, m.ChannelID)
	return err
}

func (r *BracketRepo) Get(ctx context.Context, guildID string, matchID int) (BracketMatch, error) {
	var m BracketMatch
	err := r.db.QueryRowContext(ctx, `
SELECT `+matchCols+`
  FROM bracket_matches
 WHERE guild_id = $1 AND match_id = $2
`, guildID, matchID).Scan(&m.GuildID, &m.MatchID, &m.Round, &m.TeamA, &m.TeamB, &m.Winner, &m.ScoreA, &m.ScoreB, &m.Status, &m.ChannelID)
	if err == sql.ErrNoRows {
		return BracketMatch{}, ErrNotFound
	}
	return m, err
}

func (r *BracketRepo) List(ctx context.Context, guildID string) ([]BracketMatch, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+matchCols+`
  FROM bracket_matches
 WHERE guild_id = $1
 ORDER BY round_number ASC, match_id ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

func (r *BracketRepo) Round(ctx context.Context, guildID string, round int) ([]BracketMatch, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+matchCols+`
  FROM bracket_matches
 WHERE guild_id = $1 AND round_number = $2
 ORDER BY match_id ASC
`, guildID, round)
	if err != nil {
		return nil, err
	}
	return scanMatches(rows)
}

func (r *BracketRepo) MaxRound(ctx context.Context, guildID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(MAX(round_number), 0) FROM bracket_matches WHERE guild_id = $1
`, guildID).Scan(&n)
	return n, err
}

func (r *BracketRepo) MaxMatchID(ctx context.Context, guildID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(MAX(match_id), 0) FROM bracket_matches WHERE guild_id = $1
`, guildID).Scan(&n)
	return n, err
}

func (r *BracketRepo) CountRound(ctx context.Context, guildID string, round int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM bracket_matches WHERE guild_id = $1 AND round_number = $2
`, guildID, round).Scan(&n)
	return n, err
}

// Complete cierra la partida de forma atomica: solo pisa filas PENDING,
// asi dos capitanes no pueden puntuar dos veces el mismo match.
func (r *BracketRepo) Complete(ctx context.Context, guildID string, matchID int, winner string, scoreA, scoreB int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE bracket_matches
   SET winner = $3, score_a = $4, score_b = $5, status = 'COMPLETED'
 WHERE guild_id = $1 AND match_id = $2 AND status = 'PENDING'
`, guildID, matchID, winner, scoreA, scoreB)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
