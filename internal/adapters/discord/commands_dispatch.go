// logica de InteractionApplicationCommand: validar permisos, despachar al
// servicio y contestar efimero. Los comandos que abren modal NO se deferean.
package discord

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	log.Printf("cmd: /%s by=%s guild=%s", cmd.Name, interactionUser(ic).ID, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in cmd /%s: %v", cmd.Name, rec)
			ReplyEphemeral(s, ic, "❌ Ocurrió un error inesperado procesando el comando. Contacta con un administrador.")
		}
	}()

	// el modal tiene que ser la primera respuesta; nada de defer aqui
	switch cmd.Name {
	case "create_tournament":
		if !r.requireAdminFirstResponse(s, ic) {
			return
		}
		r.openCreateTournamentModal(s, ic)
		return
	case "t_edit_settings":
		if !r.requireAdminFirstResponse(s, ic) {
			return
		}
		r.openEditSettingsModal(s, ic)
		return
	case "t_delete_tournament":
		if !r.requireAdminFirstResponse(s, ic) {
			return
		}
		r.openDeleteTournamentModal(s, ic)
		return
	}

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {

	case "ping":
		ReplyEphemeral(s, ic, "🏓 Pong!")

	case "tournament_join_panel":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		channelID, ok := optChannel(ic, "canal")
		if !ok {
			ReplyEphemeral(s, ic, "⚠️ Falta el canal.")
			return
		}
		msg, err := r.join.PublishPanel(ctx, ic.GuildID, channelID, ic.ChannelID)
		if err != nil {
			msg = "⚠️ No pude publicar el panel: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "t_open_join", "t_close_join":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		msg, err := r.tournaments.SetQueueStatus(ctx, ic.GuildID, cmd.Name == "t_open_join")
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "t_toggle_bracket":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		msg, err := r.tournaments.ToggleBracketType(ctx, ic.GuildID)
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "t_captain_scoring":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		msg, err := r.tournaments.ToggleCaptainScoring(ctx, ic.GuildID)
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "t_screenshot_proof":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		msg, err := r.tournaments.ToggleScreenshotProof(ctx, ic.GuildID)
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "generate_bracket":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		stop := step("cmd.generate_bracket")
		msg, err := r.bracket.Generate(ctx, ic.GuildID)
		stop()
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "start_tournament":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		stop := step("cmd.start_tournament")
		msg, err := r.bracket.Start(ctx, ic.GuildID)
		stop()
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "bots":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		sub, ok := subcmdName(ic)
		if !ok {
			ReplyEphemeral(s, ic, "Usa `/bots add`, `/bots force_teams` o `/bots clear`.")
			return
		}
		var (
			msg string
			err error
		)
		switch sub {
		case "add":
			n, _ := optInt(ic, "cantidad")
			msg, err = r.bots.Add(ctx, ic.GuildID, n)
		case "force_teams":
			msg, err = r.bots.ForceTeams(ctx, ic.GuildID)
		case "clear":
			msg, err = r.bots.Clear(ctx, ic.GuildID)
		}
		if err != nil {
			msg = "⚠️ " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	}
}
