// modales: formularios de crear/editar/borrar torneo, crear equipo y cargar
// resultado. El custom_id del modal lleva los args para sobrevivir reinicios.
package discord

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) openCreateTournamentModal(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	_ = RespondModal(s, ic, "modal_create_tournament", "Crear torneo", []discordgo.TextInput{
		{CustomID: "t_name", Label: "Nombre del torneo", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 60, Placeholder: "Copa del Server"},
		{CustomID: "t_max", Label: "Máximo de equipos", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 3, Value: "8"},
		{CustomID: "t_bo", Label: "Best of (1, 3 o 5)", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 1, Value: "3"},
		{CustomID: "t_size", Label: "Jugadores por equipo (1 a 6)", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 1, Value: "2"},
	})
}

func (r *Router) openEditSettingsModal(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	t, err := r.tournaments.Get(ctx, ic.GuildID)
	if err != nil {
		_ = SendEphemeral(s, ic, "⚠️ No hay torneo; crea uno con `/create_tournament`.")
		return
	}
	_ = RespondModal(s, ic, "modal_edit_settings", "Editar torneo", []discordgo.TextInput{
		{CustomID: "t_name", Label: "Nombre del torneo", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 60, Value: t.Name},
		{CustomID: "t_max", Label: "Máximo de equipos", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 3, Value: strconv.Itoa(t.MaxTeams)},
		{CustomID: "t_bo", Label: "Best of (1, 3 o 5)", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 1, Value: strconv.Itoa(t.BestOf)},
		{CustomID: "t_size", Label: "Jugadores por equipo (1 a 6)", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 1, Value: strconv.Itoa(t.TeamSize)},
	})
}

func (r *Router) openDeleteTournamentModal(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	_ = RespondModal(s, ic, "modal_delete_tournament", "Borrar torneo", []discordgo.TextInput{
		{CustomID: "t_confirm", Label: "Escribe DELETE para confirmar", Style: discordgo.TextInputShort,
			Required: true, MaxLength: 10, Placeholder: "DELETE"},
	})
}

func (r *Router) openCreateTeamModal(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	_ = RespondModal(s, ic, "modal_create_team", "Crear equipo", []discordgo.TextInput{
		{CustomID: "team_name", Label: "Nombre del equipo", Style: discordgo.TextInputShort,
			Required: true, MinLength: 2, MaxLength: 32, Placeholder: "Los Invencibles"},
	})
}

func (r *Router) openScoreModal(s *discordgo.Session, ic *discordgo.InteractionCreate, matchID int, teamA, teamB string) {
	_ = RespondModal(s, ic, "modal_score:"+strconv.Itoa(matchID), "Cargar resultado", []discordgo.TextInput{
		{CustomID: "score_a", Label: "Puntos de " + teamA, Style: discordgo.TextInputShort,
			Required: true, MaxLength: 3, Placeholder: "0"},
		{CustomID: "score_b", Label: "Puntos de " + teamB, Style: discordgo.TextInputShort,
			Required: true, MaxLength: 3, Placeholder: "0"},
	})
}

func (r *Router) handleModalSubmit(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.ModalSubmitData()
	action, args := customIDParts(data.CustomID)
	log.Printf("modal: %s by=%s guild=%s", action, interactionUser(ic).ID, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in modal %s: %v", action, rec)
			ReplyEphemeral(s, ic, "⚠️ Ocurrió un error inesperado.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch action {

	case "modal_create_tournament", "modal_edit_settings":
		name := modalValue(data, "t_name")
		maxTeams, err1 := strconv.Atoi(modalValue(data, "t_max"))
		bestOf, err2 := strconv.Atoi(modalValue(data, "t_bo"))
		teamSize, err3 := strconv.Atoi(modalValue(data, "t_size"))
		if err1 != nil || err2 != nil || err3 != nil {
			ReplyEphemeral(s, ic, "❌ Equipos, best-of y tamaño tienen que ser números.")
			return
		}
		var (
			msg string
			err error
		)
		if action == "modal_create_tournament" {
			stop := step("modal.create_tournament")
			msg, err = r.provision.Create(ctx, ic.GuildID, name, maxTeams, bestOf, teamSize)
			stop()
		} else {
			msg, err = r.tournaments.EditSettings(ctx, ic.GuildID, name, maxTeams, bestOf, teamSize)
		}
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "modal_delete_tournament":
		if modalValue(data, "t_confirm") != "DELETE" {
			ReplyEphemeral(s, ic, "❌ Confirmación incorrecta: escribe exactamente `DELETE`.")
			return
		}
		stop := step("modal.delete_tournament")
		msg, err := r.provision.Delete(ctx, ic.GuildID)
		stop()
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "modal_create_team":
		msg, err := r.teams.Create(ctx, ic.GuildID, interactionUser(ic).ID, memberRoles(ic), modalValue(data, "team_name"))
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "modal_score":
		if len(args) != 1 {
			ReplyEphemeral(s, ic, "⚠️ Formulario inválido.")
			return
		}
		matchID, err := strconv.Atoi(args[0])
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ Formulario inválido.")
			return
		}
		scoreA, errA := strconv.Atoi(modalValue(data, "score_a"))
		scoreB, errB := strconv.Atoi(modalValue(data, "score_b"))
		if errA != nil || errB != nil {
			ReplyEphemeral(s, ic, "❌ Los puntajes tienen que ser números.")
			return
		}
		msg, err := r.bracket.SubmitScore(ctx, ic.GuildID, matchID, scoreA, scoreB,
			interactionUser(ic).ID, r.isStaff(s, ic))
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	}
}
