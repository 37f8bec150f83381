package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// BotsService: jugadores de mentira para probar el torneo sin gente real.
// Los equipos bot nacen READY y entran al bracket como cualquier otro.
type BotsService struct {
	s     *discordgo.Session
	repo  TournamentRepo
	teams TeamRepo
	bots  BotPlayersRepo
}

func NewBotsService(s *discordgo.Session, repo TournamentRepo, teams TeamRepo, bots BotPlayersRepo) *BotsService {
	return &BotsService{s: s, repo: repo, teams: teams, bots: bots}
}

func (bs *BotsService) Add(ctx context.Context, guildID string, n int) (string, error) {
	if _, err := bs.repo.Get(ctx, guildID); err != nil {
		return "", fmt.Errorf("no hay torneo; crea uno con `/create_tournament`")
	}
	if n < 1 || n > 128 {
		return "❌ La cantidad debe estar entre **1** y **128**.", nil
	}
	have, err := bs.bots.Count(ctx, guildID)
	if err != nil {
		return "", err
	}
	labels := make([]string, 0, n)
	for k := 1; k <= n; k++ {
		labels = append(labels, fmt.Sprintf("Bot #%d", have+k))
	}
	if err := bs.bots.Add(ctx, guildID, labels); err != nil {
		return "", err
	}
	return fmt.Sprintf("🤖 Agregué **%d** bot(s). Pool actual: **%d**. Armalos con `/bots force_teams`.",
		n, have+n), nil
}

// ForceTeams agrupa el pool en equipos de team_size hasta llenar los cupos
// libres. Los bots sobrantes quedan en el pool para la proxima.
func (bs *BotsService) ForceTeams(ctx context.Context, guildID string) (string, error) {
	t, err := bs.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	pool, err := bs.bots.List(ctx, guildID)
	if err != nil {
		return "", err
	}
	if len(pool) < t.TeamSize {
		return fmt.Sprintf("⚠️ El pool tiene **%d** bot(s) y cada equipo lleva **%d**. Suma más con `/bots add`.",
			len(pool), t.TeamSize), nil
	}
	slots := t.MaxTeams - t.TeamsJoined
	if slots <= 0 {
		return fmt.Sprintf("⚠️ Ya están los **%d** equipos del torneo.", t.MaxTeams), nil
	}

	existing, err := bs.teams.ListBots(ctx, guildID)
	if err != nil {
		return "", err
	}
	nextNum := len(existing) + 1

	catID, err := bs.ensureTeamsCategory(ctx, t)
	if err != nil {
		return "", err
	}

	created := 0
	for len(pool) >= t.TeamSize && created < slots {
		group := pool[:t.TeamSize]
		pool = pool[t.TeamSize:]

		name := fmt.Sprintf("%s%d", botTeamPrefix, nextNum)
		mentionable := true
		role, err := bs.s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name, Mentionable: &mentionable})
		if err != nil {
			return "", fmt.Errorf("creando rol de %s: %w", name, err)
		}
		hub, err := bs.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     fmt.Sprintf("team-bot-%d", nextNum),
			Type:     discordgo.ChannelTypeGuildText,
			ParentID: catID,
			PermissionOverwrites: []*discordgo.PermissionOverwrite{
				{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole,
					Deny: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
				{ID: bs.s.State.User.ID, Type: discordgo.PermissionOverwriteTypeMember,
					Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
			},
		})
		if err != nil {
			return "", fmt.Errorf("creando hub de %s: %w", name, err)
		}

		if _, err := bs.teams.Add(ctx, storage.Team{
			GuildID:   guildID,
			Name:      name,
			RoleID:    role.ID,
			CaptainID: bs.s.State.User.ID,
			ChannelID: hub.ID,
			IsReady:   true,
			IsBot:     true,
		}); err != nil {
			return "", err
		}

		var roster strings.Builder
		ids := make([]int64, 0, len(group))
		for _, b := range group {
			fmt.Fprintf(&roster, "• %s\n", b.Label)
			ids = append(ids, b.ID)
		}
		if _, err := bs.s.ChannelMessageSend(hub.ID, "🤖 **"+name+"** (READY)\n"+roster.String()); err != nil {
			log.Printf("[bots] roster %s: %v", name, err)
		}
		if err := bs.bots.DeleteIDs(ctx, guildID, ids); err != nil {
			return "", err
		}

		log.Printf("🤖 %s armado con %d bot(s) en guild %s", name, len(group), guildID)
		nextNum++
		created++
	}

	if created == 0 {
		return "⚠️ No pude armar ningún equipo bot.", nil
	}
	if err := bs.repo.AdjustCounts(ctx, guildID, created, 0, 0); err != nil {
		return "", err
	}
	bs.refresh(ctx, guildID)
	return fmt.Sprintf("✅ Armé **%d** equipo(s) bot, todos READY. Quedan **%d** bot(s) en el pool.",
		created, len(pool)), nil
}

// Clear borra los equipos bot (rol, hub, fila) y vacia el pool.
func (bs *BotsService) Clear(ctx context.Context, guildID string) (string, error) {
	if _, err := bs.repo.Get(ctx, guildID); err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	botTeams, err := bs.teams.ListBots(ctx, guildID)
	if err != nil {
		return "", err
	}
	for _, team := range botTeams {
		if team.ChannelID != "" {
			if _, err := bs.s.ChannelDelete(team.ChannelID); err != nil {
				log.Printf("[bots] borrar hub %s: %v", team.ChannelID, err)
			}
		}
		if team.RoleID != "" {
			if err := bs.s.GuildRoleDelete(guildID, team.RoleID); err != nil {
				log.Printf("[bots] borrar rol %s: %v", team.Name, err)
			}
		}
		if _, err := bs.teams.DeleteByRole(ctx, guildID, team.RoleID); err != nil {
			return "", err
		}
	}
	pooled, err := bs.bots.Clear(ctx, guildID)
	if err != nil {
		return "", err
	}
	if len(botTeams) > 0 {
		if err := bs.repo.AdjustCounts(ctx, guildID, -len(botTeams), 0, 0); err != nil {
			return "", err
		}
	}
	bs.refresh(ctx, guildID)
	return fmt.Sprintf("🧹 Fuera los bots: **%d** equipo(s) y **%d** bot(s) del pool.",
		len(botTeams), pooled), nil
}

func (bs *BotsService) ensureTeamsCategory(ctx context.Context, t storage.Tournament) (string, error) {
	if t.TeamsCategoryID != "" {
		return t.TeamsCategoryID, nil
	}
	cat, err := bs.s.GuildChannelCreateComplex(t.GuildID, discordgo.GuildChannelCreateData{
		Name: teamsCategoryName,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return "", fmt.Errorf("creando categoría de equipos: %w", err)
	}
	if _, err := bs.repo.Update(ctx, t.GuildID, storage.TournamentPatch{TeamsCategoryID: &cat.ID}); err != nil {
		return "", err
	}
	return cat.ID, nil
}

func (bs *BotsService) refresh(ctx context.Context, guildID string) {
	if t, err := bs.repo.Get(ctx, guildID); err == nil {
		refreshPanels(bs.s, t)
	}
}
