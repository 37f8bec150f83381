package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// TeamService: creacion de equipos, hub privado, invitaciones por DM,
// ready up y borrado.
type TeamService struct {
	s       *discordgo.Session
	repo    TournamentRepo
	teams   TeamRepo
	matches BracketRepo
}

func NewTeamService(s *discordgo.Session, repo TournamentRepo, teams TeamRepo, matches BracketRepo) *TeamService {
	return &TeamService{s: s, repo: repo, teams: teams, matches: matches}
}

type InviteCandidate struct {
	UserID string
	Name   string
}

func (ts *TeamService) Create(ctx context.Context, guildID, userID string, memberRoles []string, rawName string) (string, error) {
	t, err := ts.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	if !hasRole(memberRoles, t.PlayerRoleID) {
		return "⚠️ Primero inscríbete como **jugador** en el panel de inscripción.", nil
	}
	if t.TeamsJoined >= t.MaxTeams {
		return fmt.Sprintf("⚠️ Ya están los **%d** equipos del torneo.", t.MaxTeams), nil
	}

	// un jugador, un equipo
	existing, err := ts.teams.List(ctx, guildID)
	if err != nil {
		return "", err
	}
	for _, team := range existing {
		if hasRole(memberRoles, team.RoleID) {
			return "⚠️ Ya estás en **" + team.Name + "**. Sal de ese equipo antes de crear otro.", nil
		}
	}

	name := strings.TrimSpace(rawName)
	if len(name) < 2 {
		return "⚠️ El nombre del equipo necesita al menos **2** caracteres.", nil
	}
	fullName := teamRolePrefix + name
	if _, err := ts.teams.GetByName(ctx, guildID, fullName); err == nil {
		return "⚠️ Ya existe un equipo llamado **" + name + "**.", nil
	}

	mentionable := true
	role, err := ts.s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: fullName, Mentionable: &mentionable})
	if err != nil {
		return "", fmt.Errorf("creando rol del equipo: %w", err)
	}
	if err := ts.s.GuildMemberRoleAdd(guildID, userID, role.ID); err != nil {
		return "", fmt.Errorf("asignando rol del equipo: %w", err)
	}

	catID, err := ts.ensureTeamsCategory(ctx, guildID, t)
	if err != nil {
		return "", err
	}
	hub, err := ts.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     "🛡│team-" + slugify(name),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: catID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
			{ID: role.ID, Type: discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory | discordgo.PermissionAttachFiles},
			{ID: ts.s.State.User.ID, Type: discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creando hub del equipo: %w", err)
	}

	if _, err := ts.teams.Add(ctx, storage.Team{
		GuildID:   guildID,
		Name:      fullName,
		RoleID:    role.ID,
		CaptainID: userID,
		ChannelID: hub.ID,
	}); err != nil {
		return "", err
	}
	if err := ts.repo.AdjustCounts(ctx, guildID, 1, 0, 0); err != nil {
		return "", err
	}
	ts.refresh(ctx, guildID)
	ts.sendHubWelcome(hub.ID, fullName, role.ID, t.TeamSize)

	log.Printf("🛡 equipo %q creado por %s en guild %s", fullName, userID, guildID)
	return "✅ Equipo **" + name + "** creado. Tu hub privado: <#" + hub.ID + ">.", nil
}

func (ts *TeamService) ensureTeamsCategory(ctx context.Context, guildID string, t storage.Tournament) (string, error) {
	if t.TeamsCategoryID != "" {
		return t.TeamsCategoryID, nil
	}
	cat, err := ts.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: teamsCategoryName,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return "", fmt.Errorf("creando categoría de equipos: %w", err)
	}
	if _, err := ts.repo.Update(ctx, guildID, storage.TournamentPatch{TeamsCategoryID: &cat.ID}); err != nil {
		return "", err
	}
	return cat.ID, nil
}

func (ts *TeamService) sendHubWelcome(channelID, teamName, roleID string, teamSize int) {
	embed := &discordgo.MessageEmbed{
		Title: "🛡 " + teamName,
		Description: fmt.Sprintf(
			"Hub privado del equipo.\n\n"+
				"• **Invitar**: suma jugadores por DM.\n"+
				"• **Ready Up**: habilitado con el roster completo (**%d**).\n"+
				"• **Mi partida**: dónde te toca jugar.\n"+
				"• **Borrar equipo**: elimina rol, hub y la inscripción.",
			teamSize),
		Color: embedColor,
	}
	comps := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Style: discordgo.PrimaryButton, Label: "Invitar", CustomID: "team_invites:" + roleID, Emoji: &discordgo.ComponentEmoji{Name: "✉️"}},
				discordgo.Button{Style: discordgo.SuccessButton, Label: "Ready Up", CustomID: "team_ready:" + roleID, Emoji: &discordgo.ComponentEmoji{Name: "✅"}},
				discordgo.Button{Style: discordgo.SecondaryButton, Label: "Mi partida", CustomID: "team_matchinfo:" + roleID, Emoji: &discordgo.ComponentEmoji{Name: "🎯"}},
				discordgo.Button{Style: discordgo.DangerButton, Label: "Borrar equipo", CustomID: "team_delete:" + roleID, Emoji: &discordgo.ComponentEmoji{Name: "🗑"}},
			},
		},
	}
	if _, err := ts.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: comps,
	}); err != nil {
		log.Printf("[team] hub welcome %s: %v", channelID, err)
	}
}

// rosterMembers: miembros del guild con el rol del equipo. Un GuildMembers de
// 1000 alcanza de sobra para un server de torneo.
func (ts *TeamService) rosterMembers(guildID, roleID string) ([]*discordgo.Member, error) {
	members, err := ts.s.GuildMembers(guildID, "", 1000)
	if err != nil {
		return nil, err
	}
	var out []*discordgo.Member
	for _, m := range members {
		if m.User == nil || m.User.Bot {
			continue
		}
		if hasRole(m.Roles, roleID) {
			out = append(out, m)
		}
	}
	return out, nil
}

// InviteCandidates: jugadores inscriptos que todavia no estan en este equipo
// (tope 25, el limite del select menu de Discord).
func (ts *TeamService) InviteCandidates(ctx context.Context, guildID, teamRoleID, requesterID string, requesterRoles []string) ([]InviteCandidate, string, error) {
	t, err := ts.repo.Get(ctx, guildID)
	if err != nil {
		return nil, "", fmt.Errorf("no hay torneo activo")
	}
	if !hasRole(requesterRoles, teamRoleID) {
		return nil, "⚠️ Solo los miembros del equipo pueden invitar.", nil
	}
	members, err := ts.s.GuildMembers(guildID, "", 1000)
	if err != nil {
		return nil, "", err
	}
	var out []InviteCandidate
	for _, m := range members {
		if m.User == nil || m.User.Bot || m.User.ID == requesterID {
			continue
		}
		if !hasRole(m.Roles, t.PlayerRoleID) || hasRole(m.Roles, teamRoleID) {
			continue
		}
		name := m.Nick
		if name == "" {
			name = m.User.Username
		}
		out = append(out, InviteCandidate{UserID: m.User.ID, Name: name})
		if len(out) == 25 {
			break
		}
	}
	if len(out) == 0 {
		msg := "ℹ️ No hay jugadores libres para invitar. Comparte el panel de inscripción"
		if t.JoinInviteCode != "" {
			msg += ": https://discord.gg/" + t.JoinInviteCode
		} else {
			msg += "."
		}
		return nil, msg, nil
	}
	return out, "", nil
}

// Invite manda el DM con Aceptar/Rechazar. El custom_id carga
// guild/rol/invitador para sobrevivir reinicios del bot.
func (ts *TeamService) Invite(ctx context.Context, guildID, teamRoleID, inviterID, targetID string) (string, error) {
	t, err := ts.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	team, err := ts.teams.GetByRole(ctx, guildID, teamRoleID)
	if err != nil {
		return "⚠️ Ese equipo ya no existe.", nil
	}

	dm, err := ts.s.UserChannelCreate(targetID)
	if err != nil {
		return "", fmt.Errorf("no pude abrir DM con <@%s>: %w", targetID, err)
	}
	suffix := ":" + guildID + ":" + teamRoleID + ":" + inviterID
	_, err = ts.s.ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf("✉️ <@%s> te invitó a **%s** en el torneo **%s**.", inviterID, team.Name, t.Name),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Style: discordgo.SuccessButton, Label: "Aceptar", CustomID: "invite_accept" + suffix},
					discordgo.Button{Style: discordgo.DangerButton, Label: "Rechazar", CustomID: "invite_decline" + suffix},
				},
			},
		},
	})
	if err != nil {
		// DMs cerrados es el caso tipico
		return "⚠️ No pude mandarle DM a <@" + targetID + "> (los tiene cerrados).", nil
	}
	return "✅ Invitación enviada a <@" + targetID + ">.", nil
}

// Accept revalida todo al momento del click: el estado puede haber cambiado
// desde que salio el DM.
func (ts *TeamService) Accept(ctx context.Context, guildID, teamRoleID, inviterID, userID string) (string, error) {
	t, err := ts.repo.Get(ctx, guildID)
	if err != nil {
		return "⚠️ Ese torneo ya no existe.", nil
	}
	team, err := ts.teams.GetByRole(ctx, guildID, teamRoleID)
	if err != nil {
		return "⚠️ Ese equipo ya no existe.", nil
	}
	member, err := ts.s.GuildMember(guildID, userID)
	if err != nil {
		return "⚠️ Parece que ya no estás en el server del torneo.", nil
	}
	if !hasRole(member.Roles, t.PlayerRoleID) {
		return "⚠️ Primero inscríbete como jugador en el panel del torneo.", nil
	}
	all, err := ts.teams.List(ctx, guildID)
	if err != nil {
		return "", err
	}
	for _, other := range all {
		if hasRole(member.Roles, other.RoleID) {
			return "⚠️ Ya estás en **" + other.Name + "**.", nil
		}
	}
	roster, err := ts.rosterMembers(guildID, teamRoleID)
	if err != nil {
		return "", err
	}
	if len(roster) >= t.TeamSize {
		return "⚠️ **" + team.Name + "** ya está completo.", nil
	}

	if err := ts.s.GuildMemberRoleAdd(guildID, userID, teamRoleID); err != nil {
		return "", fmt.Errorf("asignando rol: %w", err)
	}
	ts.notifyInviter(inviterID, fmt.Sprintf("✅ <@%s> aceptó tu invitación a **%s**.", userID, team.Name))
	return "✅ ¡Bienvenido a **" + team.Name + "**! Tu hub: <#" + team.ChannelID + ">.", nil
}

func (ts *TeamService) Decline(ctx context.Context, guildID, teamRoleID, inviterID, userID string) (string, error) {
	team, err := ts.teams.GetByRole(ctx, guildID, teamRoleID)
	teamName := "ese equipo"
	if err == nil {
		teamName = "**" + team.Name + "**"
	}
	ts.notifyInviter(inviterID, fmt.Sprintf("❌ <@%s> rechazó tu invitación a %s.", userID, teamName))
	return "👌 Invitación rechazada.", nil
}

func (ts *TeamService) notifyInviter(inviterID, content string) {
	dm, err := ts.s.UserChannelCreate(inviterID)
	if err != nil {
		log.Printf("[team] DM invitador %s: %v", inviterID, err)
		return
	}
	if _, err := ts.s.ChannelMessageSend(dm.ID, content); err != nil {
		log.Printf("[team] DM invitador %s: %v", inviterID, err)
	}
}

// ToggleReady exige roster completo para marcar ready; desmarcar vale siempre.
func (ts *TeamService) ToggleReady(ctx context.Context, guildID, teamRoleID string, memberRoles []string) (string, error) {
	t, err := ts.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	if !hasRole(memberRoles, teamRoleID) {
		return "⚠️ Solo los miembros del equipo pueden tocar el ready.", nil
	}
	team, err := ts.teams.GetByRole(ctx, guildID, teamRoleID)
	if err != nil {
		return "⚠️ Ese equipo ya no existe.", nil
	}
	roster, err := ts.rosterMembers(guildID, teamRoleID)
	if err != nil {
		return "", err
	}

	next := !team.IsReady
	if next && len(roster) != t.TeamSize {
		return fmt.Sprintf("⚠️ Faltan jugadores: **%d / %d**. Completa el roster antes del ready.",
			len(roster), t.TeamSize), nil
	}
	if err := ts.teams.SetReady(ctx, guildID, teamRoleID, next); err != nil {
		return "", err
	}
	ts.postRoster(guildID, t.TeamsChannelID, team.Name, roster, next)

	if next {
		return "✅ **" + team.Name + "** marcado como **READY**. ¡A esperar el bracket!", nil
	}
	return "↩️ **" + team.Name + "** ya no está ready.", nil
}

func (ts *TeamService) postRoster(guildID, teamsChannelID, teamName string, roster []*discordgo.Member, ready bool) {
	if teamsChannelID == "" {
		return
	}
	status := "⏳ armándose"
	if ready {
		status = "✅ READY"
	}
	var b strings.Builder
	for _, m := range roster {
		fmt.Fprintf(&b, "• <@%s>\n", m.User.ID)
	}
	if b.Len() == 0 {
		b.WriteString("(sin jugadores)")
	}
	embed := &discordgo.MessageEmbed{
		Title:       teamName,
		Description: b.String() + "\nEstado: " + status,
		Color:       embedColor,
	}
	if _, err := ts.s.ChannelMessageSendComplex(teamsChannelID, &discordgo.MessageSend{
		Content: "🧾 " + teamName,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Printf("[team] roster %s: %v", teamName, err)
	}
}

// Delete borra rol, hub, fila y los posts del equipo en #equipos-torneo.
func (ts *TeamService) Delete(ctx context.Context, guildID, teamRoleID, userID string, memberRoles []string, isStaff bool) (string, error) {
	t, err := ts.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	if !isStaff && !hasRole(memberRoles, teamRoleID) {
		return "⚠️ Solo los miembros del equipo (o el staff) pueden borrarlo.", nil
	}
	team, err := ts.teams.GetByRole(ctx, guildID, teamRoleID)
	if err != nil {
		return "⚠️ Ese equipo ya no existe.", nil
	}

	ts.scrubTeamPosts(t.TeamsChannelID, team.Name)

	if roster, err := ts.rosterMembers(guildID, teamRoleID); err == nil {
		for _, m := range roster {
			if err := ts.s.GuildMemberRoleRemove(guildID, m.User.ID, teamRoleID); err != nil {
				log.Printf("[team] quitar rol a %s: %v", m.User.ID, err)
			}
		}
	}
	if err := ts.s.GuildRoleDelete(guildID, teamRoleID); err != nil {
		log.Printf("[team] borrar rol %s: %v", teamRoleID, err)
	}
	if team.ChannelID != "" {
		if _, err := ts.s.ChannelDelete(team.ChannelID); err != nil {
			log.Printf("[team] borrar hub %s: %v", team.ChannelID, err)
		}
	}
	if _, err := ts.teams.DeleteByRole(ctx, guildID, teamRoleID); err != nil {
		return "", err
	}
	if err := ts.repo.AdjustCounts(ctx, guildID, -1, 0, 0); err != nil {
		return "", err
	}
	ts.refresh(ctx, guildID)
	log.Printf("🗑 equipo %q borrado por %s en guild %s", team.Name, userID, guildID)
	return "✅ Equipo **" + team.Name + "** eliminado.", nil
}

// scrubTeamPosts limpia los mensajes del bot sobre este equipo en #equipos-torneo.
func (ts *TeamService) scrubTeamPosts(teamsChannelID, teamName string) {
	if teamsChannelID == "" {
		return
	}
	msgs, err := ts.s.ChannelMessages(teamsChannelID, 100, "", "", "")
	if err != nil {
		log.Printf("[team] scrub listar: %v", err)
		return
	}
	me := ts.s.State.User.ID
	for _, m := range msgs {
		if m.Author == nil || m.Author.ID != me {
			continue
		}
		if strings.Contains(m.Content, teamName) {
			if err := ts.s.ChannelMessageDelete(teamsChannelID, m.ID); err != nil {
				log.Printf("[team] scrub delete %s: %v", m.ID, err)
			}
		}
	}
}

// MatchInfo: donde juega este equipo ahora mismo.
func (ts *TeamService) MatchInfo(ctx context.Context, guildID, teamRoleID string) (string, error) {
	t, err := ts.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	team, err := ts.teams.GetByRole(ctx, guildID, teamRoleID)
	if err != nil {
		return "⚠️ Ese equipo ya no existe.", nil
	}
	rows, err := ts.matches.List(ctx, guildID)
	if err != nil {
		return "", err
	}
	for _, m := range rows {
		if m.Status != "PENDING" {
			continue
		}
		if m.TeamA == team.Name || (m.TeamB != nil && *m.TeamB == team.Name) {
			rival := "(por definir)"
			if m.TeamA != team.Name {
				rival = m.TeamA
			} else if m.TeamB != nil {
				rival = *m.TeamB
			}
			return fmt.Sprintf("🎯 Partida **#%d** (ronda %d) contra **%s** en <#%s>.",
				m.MatchID, m.Round, rival, m.ChannelID), nil
		}
	}
	return "ℹ️ Todavía no tienes partida asignada. Atento a <#" + t.BracketChannelID + ">.", nil
}

func (ts *TeamService) refresh(ctx context.Context, guildID string) {
	if t, err := ts.repo.Get(ctx, guildID); err == nil {
		refreshPanels(ts.s, t)
	}
}
