package service

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// JoinService maneja el panel de inscripcion y el swap de roles
// jugador/espectador con los contadores en vivo.
type JoinService struct {
	s    *discordgo.Session
	repo TournamentRepo
}

func NewJoinService(s *discordgo.Session, repo TournamentRepo) *JoinService {
	return &JoinService{s: s, repo: repo}
}

// PublishPanel postea el embed de inscripcion con sus botones en channelID y
// guarda canal/mensaje/invite para poder repintarlo en cada click. Solo se
// invoca desde el canal admin del torneo.
func (j *JoinService) PublishPanel(ctx context.Context, guildID, channelID, fromChannelID string) (string, error) {
	t, err := j.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo; crea uno con `/create_tournament`")
	}
	if t.PanelChannelID != "" && fromChannelID != t.PanelChannelID {
		return "⚠️ Este comando se usa desde <#" + t.PanelChannelID + ">.", nil
	}

	// invite permanente para compartir fuera del server
	inviteCode := t.JoinInviteCode
	if inviteCode == "" {
		inv, err := j.s.ChannelInviteCreate(channelID, discordgo.Invite{MaxAge: 0, MaxUses: 0, Unique: true})
		if err != nil {
			log.Printf("[join] invite: %v", err)
		} else {
			inviteCode = inv.Code
		}
	}
	t.JoinInviteCode = inviteCode

	msg, err := j.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{joinEmbed(t)},
		Components: joinButtons(),
	})
	if err != nil {
		return "", err
	}

	if _, err := j.repo.Update(ctx, guildID, storage.TournamentPatch{
		JoinPanelChannelID: &channelID,
		JoinPanelMessageID: &msg.ID,
		JoinInviteCode:     &inviteCode,
	}); err != nil {
		return "", err
	}
	return "✅ Panel de inscripción publicado en <#" + channelID + ">.", nil
}

func hasRole(roles []string, roleID string) bool {
	for _, r := range roles {
		if r == roleID {
			return true
		}
	}
	return false
}

func (j *JoinService) JoinPlayer(ctx context.Context, guildID, userID string, memberRoles []string) (string, error) {
	t, err := j.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	if t.QueueStatus != "OPEN" {
		return "⚠️ La inscripción está **cerrada**.", nil
	}
	if hasRole(memberRoles, t.PlayerRoleID) {
		return "ℹ️ Ya estás inscripto como jugador.", nil
	}
	capacity := t.MaxTeams * t.TeamSize
	if t.PlayersJoined >= capacity {
		return fmt.Sprintf("⚠️ Cupo lleno: **%d / %d** jugadores.", t.PlayersJoined, capacity), nil
	}

	dSpec := 0
	if hasRole(memberRoles, t.SpectatorRoleID) {
		if err := j.s.GuildMemberRoleRemove(guildID, userID, t.SpectatorRoleID); err != nil {
			log.Printf("[join] quitar espectador %s: %v", userID, err)
		} else {
			dSpec = -1
		}
	}
	if err := j.s.GuildMemberRoleAdd(guildID, userID, t.PlayerRoleID); err != nil {
		return "", fmt.Errorf("no pude darte el rol de jugador: %w", err)
	}
	if err := j.repo.AdjustCounts(ctx, guildID, 0, 1, dSpec); err != nil {
		return "", err
	}
	j.refresh(ctx, guildID)

	return fmt.Sprintf(
		"🎮 ¡Dentro! Ya eres jugador de **%s**.\n"+
			"Arma tu equipo en <#%s>, charla en <#%s> y repasa <#%s>.",
		t.Name, t.CreateTeamChannelID, t.ChatChannelID, t.RulesChannelID), nil
}

func (j *JoinService) Spectate(ctx context.Context, guildID, userID string, memberRoles []string) (string, error) {
	t, err := j.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	if hasRole(memberRoles, t.PlayerRoleID) {
		return "⚠️ Ya eres **jugador**; usa Salir primero si solo quieres mirar.", nil
	}
	if hasRole(memberRoles, t.SpectatorRoleID) {
		return "ℹ️ Ya estás como espectador.", nil
	}
	if err := j.s.GuildMemberRoleAdd(guildID, userID, t.SpectatorRoleID); err != nil {
		return "", fmt.Errorf("no pude darte el rol de espectador: %w", err)
	}
	if err := j.repo.AdjustCounts(ctx, guildID, 0, 0, 1); err != nil {
		return "", err
	}
	j.refresh(ctx, guildID)
	return "👀 Listo, espectador de **" + t.Name + "**. Sigue todo en <#" + t.BracketChannelID + ">.", nil
}

func (j *JoinService) Leave(ctx context.Context, guildID, userID string, memberRoles []string) (string, error) {
	t, err := j.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	dPlayers, dSpecs := 0, 0
	if hasRole(memberRoles, t.PlayerRoleID) {
		if err := j.s.GuildMemberRoleRemove(guildID, userID, t.PlayerRoleID); err != nil {
			log.Printf("[join] quitar jugador %s: %v", userID, err)
		} else {
			dPlayers = -1
		}
	}
	if hasRole(memberRoles, t.SpectatorRoleID) {
		if err := j.s.GuildMemberRoleRemove(guildID, userID, t.SpectatorRoleID); err != nil {
			log.Printf("[join] quitar espectador %s: %v", userID, err)
		} else {
			dSpecs = -1
		}
	}
	if dPlayers == 0 && dSpecs == 0 {
		return "ℹ️ No estabas inscripto.", nil
	}
	if err := j.repo.AdjustCounts(ctx, guildID, 0, dPlayers, dSpecs); err != nil {
		return "", err
	}
	j.refresh(ctx, guildID)
	return "👋 Saliste del torneo. ¡Te esperamos en el próximo!", nil
}

func (j *JoinService) refresh(ctx context.Context, guildID string) {
	if t, err := j.repo.Get(ctx, guildID); err == nil {
		refreshPanels(j.s, t)
	}
}
