package service

import (
	"context"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// Lo implementa internal/infra/storage.TournamentRepo
type TournamentRepo interface {
	Get(ctx context.Context, guildID string) (storage.Tournament, error)
	Upsert(ctx context.Context, t storage.Tournament) error
	Update(ctx context.Context, guildID string, p storage.TournamentPatch) (storage.Tournament, error)
	AdjustCounts(ctx context.Context, guildID string, dTeams, dPlayers, dSpectators int) error
	Delete(ctx context.Context, guildID string) error
}

// Lo implementa internal/infra/storage.TeamRepo
type TeamRepo interface {
	Add(ctx context.Context, t storage.Team) (int64, error)
	GetByRole(ctx context.Context, guildID, roleID string) (storage.Team, error)
	GetByName(ctx context.Context, guildID, name string) (storage.Team, error)
	List(ctx context.Context, guildID string) ([]storage.Team, error)
	ListReady(ctx context.Context, guildID string) ([]storage.Team, error)
	ListBots(ctx context.Context, guildID string) ([]storage.Team, error)
	SetReady(ctx context.Context, guildID, roleID string, ready bool) error
	DeleteByRole(ctx context.Context, guildID, roleID string) (bool, error)
	RoleIDsByNames(ctx context.Context, guildID string, names []string) (map[string]string, error)
}

// Lo implementa internal/infra/storage.BracketRepo
type BracketRepo interface {
	Clear(ctx context.Context, guildID string) error
	Insert(ctx context.Context, m storage.BracketMatch) error
	Get(ctx context.Context, guildID string, matchID int) (storage.BracketMatch, error)
	List(ctx context.Context, guildID string) ([]storage.BracketMatch, error)
	Round(ctx context.Context, guildID string, round int) ([]storage.BracketMatch, error)
	MaxRound(ctx context.Context, guildID string) (int, error)
	MaxMatchID(ctx context.Context, guildID string) (int, error)
	CountRound(ctx context.Context, guildID string, round int) (int, error)
	Complete(ctx context.Context, guildID string, matchID int, winner string, scoreA, scoreB int) (bool, error)
}

// Lo implementa internal/infra/storage.BotsRepo
type BotPlayersRepo interface {
	Add(ctx context.Context, guildID string, labels []string) error
	List(ctx context.Context, guildID string) ([]storage.BotPlayer, error)
	Count(ctx context.Context, guildID string) (int, error)
	DeleteIDs(ctx context.Context, guildID string, ids []int64) error
	Clear(ctx context.Context, guildID string) (int64, error)
}
