package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// fakes de los puertos: solo lo que CanScore/SubmitScore tocan de verdad.

type fakeTournamentRepo struct {
	t   storage.Tournament
	err error
}

func (f *fakeTournamentRepo) Get(ctx context.Context, guildID string) (storage.Tournament, error) {
	return f.t, f.err
}
func (f *fakeTournamentRepo) Upsert(ctx context.Context, t storage.Tournament) error { return nil }
func (f *fakeTournamentRepo) Update(ctx context.Context, guildID string, p storage.TournamentPatch) (storage.Tournament, error) {
	return f.t, f.err
}
func (f *fakeTournamentRepo) AdjustCounts(ctx context.Context, guildID string, dTeams, dPlayers, dSpectators int) error {
	return nil
}
func (f *fakeTournamentRepo) Delete(ctx context.Context, guildID string) error { return nil }

type fakeTeamRepo struct {
	byName map[string]storage.Team
}

func (f *fakeTeamRepo) Add(ctx context.Context, t storage.Team) (int64, error) { return 0, nil }
func (f *fakeTeamRepo) GetByRole(ctx context.Context, guildID, roleID string) (storage.Team, error) {
	return storage.Team{}, storage.ErrNotFound
}
func (f *fakeTeamRepo) GetByName(ctx context.Context, guildID, name string) (storage.Team, error) {
	if t, ok := f.byName[name]; ok {
		return t, nil
	}
	return storage.Team{}, storage.ErrNotFound
}
func (f *fakeTeamRepo) List(ctx context.Context, guildID string) ([]storage.Team, error) {
	return nil, nil
}
func (f *fakeTeamRepo) ListReady(ctx context.Context, guildID string) ([]storage.Team, error) {
	return nil, nil
}
func (f *fakeTeamRepo) ListBots(ctx context.Context, guildID string) ([]storage.Team, error) {
	return nil, nil
}
func (f *fakeTeamRepo) SetReady(ctx context.Context, guildID, roleID string, ready bool) error {
	return nil
}
func (f *fakeTeamRepo) DeleteByRole(ctx context.Context, guildID, roleID string) (bool, error) {
	return false, nil
}
func (f *fakeTeamRepo) RoleIDsByNames(ctx context.Context, guildID string, names []string) (map[string]string, error) {
	return map[string]string{}, nil
}

type fakeBracketRepo struct {
	matches     map[int]storage.BracketMatch
	completeOK  bool
	completeHit int
}

func (f *fakeBracketRepo) Clear(ctx context.Context, guildID string) error          { return nil }
func (f *fakeBracketRepo) Insert(ctx context.Context, m storage.BracketMatch) error { return nil }
func (f *fakeBracketRepo) Get(ctx context.Context, guildID string, matchID int) (storage.BracketMatch, error) {
	if m, ok := f.matches[matchID]; ok {
		return m, nil
	}
	return storage.BracketMatch{}, storage.ErrNotFound
}
func (f *fakeBracketRepo) List(ctx context.Context, guildID string) ([]storage.BracketMatch, error) {
	return nil, nil
}
func (f *fakeBracketRepo) Round(ctx context.Context, guildID string, round int) ([]storage.BracketMatch, error) {
	return nil, nil
}
func (f *fakeBracketRepo) MaxRound(ctx context.Context, guildID string) (int, error)   { return 0, nil }
func (f *fakeBracketRepo) MaxMatchID(ctx context.Context, guildID string) (int, error) { return 0, nil }
func (f *fakeBracketRepo) CountRound(ctx context.Context, guildID string, round int) (int, error) {
	return 0, nil
}
func (f *fakeBracketRepo) Complete(ctx context.Context, guildID string, matchID int, winner string, scoreA, scoreB int) (bool, error) {
	f.completeHit++
	return f.completeOK, nil
}

func newTestBracketService(captainScoring bool) (*BracketService, *fakeBracketRepo) {
	repo := &fakeTournamentRepo{t: storage.Tournament{
		GuildID:        "g1",
		Name:           "Copa",
		CaptainScoring: captainScoring,
		Status:         "RUNNING",
	}}
	teams := &fakeTeamRepo{byName: map[string]storage.Team{
		"Equipo | Uno": {Name: "Equipo | Uno", CaptainID: "cap-uno"},
		"Equipo | Dos": {Name: "Equipo | Dos", CaptainID: "cap-dos"},
	}}
	matches := &fakeBracketRepo{matches: map[int]storage.BracketMatch{
		1: {GuildID: "g1", MatchID: 1, Round: 1, TeamA: "Equipo | Uno",
			TeamB: strPtr("Equipo | Dos"), Status: "PENDING"},
		2: {GuildID: "g1", MatchID: 2, Round: 1, TeamA: "Equipo | Uno",
			Winner: strPtr("Equipo | Uno"), Status: "COMPLETED"},
	}}
	return NewBracketService(nil, repo, teams, matches), matches
}

func TestCanScore(t *testing.T) {
	ctx := context.Background()

	t.Run("staff siempre puede", func(t *testing.T) {
		b, _ := newTestBracketService(false)
		ok, _, err := b.CanScore(ctx, "g1", 1, "random", true)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("captain scoring OFF bloquea capitanes", func(t *testing.T) {
		b, _ := newTestBracketService(false)
		ok, refusal, err := b.CanScore(ctx, "g1", 1, "cap-uno", false)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, refusal, "Captain Scoring")
	})

	t.Run("captain scoring ON deja a ambos capitanes", func(t *testing.T) {
		b, _ := newTestBracketService(true)
		for _, uid := range []string{"cap-uno", "cap-dos"} {
			ok, _, err := b.CanScore(ctx, "g1", 1, uid, false)
			require.NoError(t, err)
			assert.True(t, ok, "capitán %s", uid)
		}
	})

	t.Run("un jugador cualquiera no puede", func(t *testing.T) {
		b, _ := newTestBracketService(true)
		ok, refusal, err := b.CanScore(ctx, "g1", 1, "random", false)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, refusal, "capitanes")
	})

	t.Run("partida inexistente", func(t *testing.T) {
		b, _ := newTestBracketService(true)
		ok, refusal, err := b.CanScore(ctx, "g1", 99, "cap-uno", false)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NotEmpty(t, refusal)
	})
}

func TestSubmitScoreValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("empate rechazado", func(t *testing.T) {
		b, m := newTestBracketService(true)
		msg, err := b.SubmitScore(ctx, "g1", 1, 2, 2, "cap-uno", false)
		require.NoError(t, err)
		assert.Contains(t, msg, "empates")
		assert.Zero(t, m.completeHit)
	})

	t.Run("negativos rechazados", func(t *testing.T) {
		b, m := newTestBracketService(true)
		msg, err := b.SubmitScore(ctx, "g1", 1, -1, 2, "cap-uno", false)
		require.NoError(t, err)
		assert.Contains(t, msg, "negativos")
		assert.Zero(t, m.completeHit)
	})

	t.Run("ya completada", func(t *testing.T) {
		b, m := newTestBracketService(true)
		msg, err := b.SubmitScore(ctx, "g1", 2, 2, 0, "cap-uno", false)
		require.NoError(t, err)
		assert.Contains(t, msg, "ya tiene resultado")
		assert.Zero(t, m.completeHit)
	})

	t.Run("inexistente", func(t *testing.T) {
		b, m := newTestBracketService(true)
		msg, err := b.SubmitScore(ctx, "g1", 42, 2, 0, "cap-uno", false)
		require.NoError(t, err)
		assert.Contains(t, msg, "no existe")
		assert.Zero(t, m.completeHit)
	})

	t.Run("sin permiso no llega al Complete", func(t *testing.T) {
		b, m := newTestBracketService(false)
		msg, err := b.SubmitScore(ctx, "g1", 1, 2, 0, "cap-uno", false)
		require.NoError(t, err)
		assert.Contains(t, msg, "🔒")
		assert.Zero(t, m.completeHit)
	})

	t.Run("carrera: alguien puntuo antes", func(t *testing.T) {
		b, m := newTestBracketService(true)
		m.completeOK = false
		msg, err := b.SubmitScore(ctx, "g1", 1, 2, 0, "cap-uno", false)
		require.NoError(t, err)
		assert.Contains(t, msg, "justo antes")
		assert.Equal(t, 1, m.completeHit)
	})
}
