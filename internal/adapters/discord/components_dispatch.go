// botones y select menus. Igual que con los comandos: lo que abre modal
// responde el modal de una, el resto se deferea y contesta por followup.
package discord

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()
	action, args := customIDParts(data.CustomID)
	user := interactionUser(ic)
	log.Printf("component: %s by=%s guild=%s", action, user.ID, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in component %s: %v", action, rec)
			ReplyEphemeral(s, ic, "⚠️ Ocurrió un error inesperado.")
		}
	}()

	// aperturas de modal: primera respuesta, sin defer
	switch action {
	case "team_create":
		r.openCreateTeamModal(s, ic)
		return
	case "score_match":
		r.handleScoreButton(s, ic, args)
		return
	}

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	switch action {

	case "join_player":
		if !r.clickLimiter.Allow(user.ID) {
			ReplyEphemeral(s, ic, "⏳ Esperá un segundo…")
			return
		}
		stop := step("component.join_player")
		msg, err := r.join.JoinPlayer(ctx, ic.GuildID, user.ID, memberRoles(ic))
		stop()
		if err != nil {
			msg = "⚠️ No pude inscribirte: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "join_spectator":
		if !r.clickLimiter.Allow(user.ID) {
			ReplyEphemeral(s, ic, "⏳ Esperá un segundo…")
			return
		}
		msg, err := r.join.Spectate(ctx, ic.GuildID, user.ID, memberRoles(ic))
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "join_leave":
		if !r.clickLimiter.Allow(user.ID) {
			ReplyEphemeral(s, ic, "⏳ Esperá un segundo…")
			return
		}
		msg, err := r.join.Leave(ctx, ic.GuildID, user.ID, memberRoles(ic))
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "team_invites":
		if len(args) != 1 {
			ReplyEphemeral(s, ic, "⚠️ Botón inválido.")
			return
		}
		teamRoleID := args[0]
		cands, emptyMsg, err := r.teams.InviteCandidates(ctx, ic.GuildID, teamRoleID, user.ID, memberRoles(ic))
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ "+err.Error())
			return
		}
		if emptyMsg != "" {
			ReplyEphemeral(s, ic, emptyMsg)
			return
		}
		opts := make([]discordgo.SelectMenuOption, 0, len(cands))
		for _, c := range cands {
			label := c.Name
			if len(label) > 100 {
				label = label[:100]
			}
			opts = append(opts, discordgo.SelectMenuOption{Label: label, Value: c.UserID})
		}
		row := discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "team_invite_pick:" + teamRoleID,
					Placeholder: "Elige a quién invitar",
					Options:     opts,
				},
			},
		}
		if _, err := s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
			Content:    "✉️ Elige un jugador para invitar al equipo:",
			Components: []discordgo.MessageComponent{row},
		}); err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude mostrar la lista: "+err.Error())
		}

	case "team_invite_pick":
		if len(args) != 1 || len(data.Values) == 0 {
			ReplyEphemeral(s, ic, "⚠️ Selección inválida.")
			return
		}
		msg, err := r.teams.Invite(ctx, ic.GuildID, args[0], user.ID, data.Values[0])
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "team_ready":
		if len(args) != 1 {
			ReplyEphemeral(s, ic, "⚠️ Botón inválido.")
			return
		}
		if !r.clickLimiter.Allow(user.ID) {
			ReplyEphemeral(s, ic, "⏳ Esperá un segundo…")
			return
		}
		msg, err := r.teams.ToggleReady(ctx, ic.GuildID, args[0], memberRoles(ic))
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "team_matchinfo":
		if len(args) != 1 {
			ReplyEphemeral(s, ic, "⚠️ Botón inválido.")
			return
		}
		msg, err := r.teams.MatchInfo(ctx, ic.GuildID, args[0])
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "team_delete":
		if len(args) != 1 {
			ReplyEphemeral(s, ic, "⚠️ Botón inválido.")
			return
		}
		msg, err := r.teams.Delete(ctx, ic.GuildID, args[0], user.ID, memberRoles(ic), r.isStaff(s, ic))
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	// llegan por DM: el guild va en el custom_id porque ic.GuildID viene vacio
	case "invite_accept", "invite_decline":
		if len(args) != 3 {
			ReplyEphemeral(s, ic, "⚠️ Esta invitación ya no es válida.")
			return
		}
		guildID, teamRoleID, inviterID := args[0], args[1], args[2]
		var (
			msg string
			err error
		)
		if action == "invite_accept" {
			msg, err = r.teams.Accept(ctx, guildID, teamRoleID, inviterID, user.ID)
		} else {
			msg, err = r.teams.Decline(ctx, guildID, teamRoleID, inviterID, user.ID)
		}
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	}
}

// handleScoreButton valida permisos y abre el modal con los nombres de los
// equipos como labels. Todo antes de los 3s de la primera respuesta.
func (r *Router) handleScoreButton(s *discordgo.Session, ic *discordgo.InteractionCreate, args []string) {
	if len(args) != 1 {
		_ = SendEphemeral(s, ic, "⚠️ Botón inválido.")
		return
	}
	matchID, err := strconv.Atoi(args[0])
	if err != nil {
		_ = SendEphemeral(s, ic, "⚠️ Botón inválido.")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ok, refusal, err := r.bracket.CanScore(ctx, ic.GuildID, matchID, interactionUser(ic).ID, r.isStaff(s, ic))
	if err != nil {
		_ = SendEphemeral(s, ic, "⚠️ "+err.Error())
		return
	}
	if !ok {
		_ = SendEphemeral(s, ic, refusal)
		return
	}
	m, err := r.bracket.Match(ctx, ic.GuildID, matchID)
	if err != nil || m.TeamB == nil {
		_ = SendEphemeral(s, ic, "⚠️ Esa partida ya no existe.")
		return
	}
	r.openScoreModal(s, ic, matchID, m.TeamA, *m.TeamB)
}
