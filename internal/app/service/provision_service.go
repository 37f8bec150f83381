package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// Nombres fijos de la infraestructura que el bot provisiona por torneo.
const (
	chAdmin    = "🔒│torneo-admin"
	chAnnounce = "📢│anuncios-torneo"
	chRules    = "📜│reglas-torneo"
	chCreate   = "🏷│crear-equipo"
	chTeams    = "🧾│equipos-torneo"
	chChat     = "💬│chat-torneo"
	chBracket  = "🏆│bracket-y-marcadores"
	chResults  = "🎯│resultados"

	teamsCategoryName = "🛡 Equipos del Torneo"
	teamRolePrefix    = "Equipo | "
	botTeamPrefix     = "Equipo Bot "
)

// ProvisionService crea y destruye toda la infraestructura Discord de un torneo:
// categoria, los ocho canales, roles de jugador/espectador y el panel admin.
type ProvisionService struct {
	s     *discordgo.Session
	repo  TournamentRepo
	teams TeamRepo
}

func NewProvisionService(s *discordgo.Session, repo TournamentRepo, teams TeamRepo) *ProvisionService {
	return &ProvisionService{s: s, repo: repo, teams: teams}
}

func (p *ProvisionService) Create(ctx context.Context, guildID, name string, maxTeams, bestOf, teamSize int) (string, error) {
	if _, err := p.repo.Get(ctx, guildID); err == nil {
		return "", fmt.Errorf("ya hay un torneo en este server; borralo con `/t_delete_tournament` primero")
	}
	if err := validateSettings(name, maxTeams, bestOf, teamSize); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)

	mentionable := true
	playerRole, err := p.s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name: name + " Jugador", Mentionable: &mentionable,
	})
	if err != nil {
		return "", fmt.Errorf("creando rol de jugador: %w", err)
	}
	spectatorRole, err := p.s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name: name + " Espectador", Mentionable: &mentionable,
	})
	if err != nil {
		return "", fmt.Errorf("creando rol de espectador: %w", err)
	}

	cat, err := p.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: "🎮 " + name,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return "", fmt.Errorf("creando categoría: %w", err)
	}

	everyone := guildID // el rol @everyone comparte ID con el guild
	botID := p.s.State.User.ID

	hidden := []*discordgo.PermissionOverwrite{
		{ID: everyone, Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
		{ID: botID, Type: discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
	}
	readOnly := []*discordgo.PermissionOverwrite{
		{ID: everyone, Type: discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionReadMessageHistory,
			Deny:  discordgo.PermissionSendMessages},
		{ID: botID, Type: discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
	}

	create := func(chName string, ow []*discordgo.PermissionOverwrite) (*discordgo.Channel, error) {
		return p.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:                 chName,
			Type:                 discordgo.ChannelTypeGuildText,
			ParentID:             cat.ID,
			PermissionOverwrites: ow,
		})
	}

	admin, err := create(chAdmin, hidden)
	if err != nil {
		return "", fmt.Errorf("creando %s: %w", chAdmin, err)
	}
	announce, err := create(chAnnounce, readOnly)
	if err != nil {
		return "", err
	}
	rules, err := create(chRules, readOnly)
	if err != nil {
		return "", err
	}
	createTeam, err := create(chCreate, readOnly)
	if err != nil {
		return "", err
	}
	teamsCh, err := create(chTeams, readOnly)
	if err != nil {
		return "", err
	}
	chat, err := create(chChat, nil)
	if err != nil {
		return "", err
	}
	bracket, err := create(chBracket, readOnly)
	if err != nil {
		return "", err
	}
	results, err := create(chResults, readOnly)
	if err != nil {
		return "", err
	}

	p.seedChannels(name, bestOf, teamSize, announce.ID, rules.ID, createTeam.ID, teamsCh.ID, bracket.ID, results.ID)

	t := storage.Tournament{
		GuildID:         guildID,
		Name:            name,
		MaxTeams:        maxTeams,
		TeamSize:        teamSize,
		BestOf:          bestOf,
		BracketType:     "Single Elim",
		QueueStatus:     "CLOSED",
		Status:          "WAITING",
		CategoryID:      cat.ID,
		PanelChannelID:  admin.ID,
		PlayerRoleID:    playerRole.ID,
		SpectatorRoleID: spectatorRole.ID,

		CreateTeamChannelID: createTeam.ID,
		TeamsChannelID:      teamsCh.ID,
		ChatChannelID:       chat.ID,
		BracketChannelID:    bracket.ID,
		ResultsChannelID:    results.ID,
		RulesChannelID:      rules.ID,
		AnnounceChannelID:   announce.ID,
	}

	msg, err := p.s.ChannelMessageSendEmbed(admin.ID, panelEmbed(t))
	if err != nil {
		log.Printf("[provision] panel send: %v", err)
	} else {
		t.PanelMessageID = msg.ID
	}

	if err := p.repo.Upsert(ctx, t); err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"✅ Torneo **%s** creado.\n"+
			"Panel de control en <#%s>. Publica la inscripción con `/tournament_join_panel` y abrila con `/t_open_join`.",
		name, admin.ID), nil
}

// Mensajes iniciales de cada canal. Cualquier fallo se loguea y seguimos.
func (p *ProvisionService) seedChannels(name string, bestOf, teamSize int, announceID, rulesID, createID, teamsID, bracketID, resultsID string) {
	send := func(chID, content string) {
		if _, err := p.s.ChannelMessageSend(chID, content); err != nil {
			log.Printf("[provision] seed %s: %v", chID, err)
		}
	}
	send(announceID, "📢 ¡Bienvenidos a **"+name+"**! Los anuncios oficiales del torneo van a salir por acá.")
	send(rulesID, fmt.Sprintf(
		"📜 **Reglas de %s**\n"+
			"• Partidas al **best-of-%d**, sin empates.\n"+
			"• Equipos de **%d** jugador(es); un jugador por equipo.\n"+
			"• El ganador avanza de ronda; el canal de la partida se borra tras cargar el resultado.\n"+
			"• Respeto ante todo. El staff tiene la última palabra.",
		name, bestOf, teamSize))
	send(teamsID, "🧾 Acá van apareciendo los equipos inscriptos y su estado de ready.")
	send(bracketID, "🏆 El bracket y los resultados se publican en este canal cuando arranque el torneo.")
	send(resultsID, "🎯 Resultados de cada partida, apenas se cargan.")

	if _, err := p.s.ChannelMessageSendComplex(createID, &discordgo.MessageSend{
		Content: "🏷 ¿Tienes equipo? Crealo con el botón de abajo. El capitán invita al resto desde el hub privado.",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Style:    discordgo.PrimaryButton,
						Label:    "Crear equipo",
						CustomID: "team_create",
						Emoji:    &discordgo.ComponentEmoji{Name: "🛡"},
					},
				},
			},
		},
	}); err != nil {
		log.Printf("[provision] boton crear equipo: %v", err)
	}
}

// Delete desarma todo: invite, canales de las tres categorias, roles del torneo
// y las filas en DB. Los errores de Discord se loguean y seguimos (cleanup
// parcial es mejor que cleanup trabado).
func (p *ProvisionService) Delete(ctx context.Context, guildID string) (string, error) {
	t, err := p.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo que borrar")
	}

	if t.JoinInviteCode != "" {
		if _, err := p.s.InviteDelete(t.JoinInviteCode); err != nil {
			log.Printf("[delete] invite %s: %v", t.JoinInviteCode, err)
		}
	}

	cats := map[string]bool{}
	for _, id := range []string{t.CategoryID, t.TeamsCategoryID, t.MatchesCategoryID} {
		if id != "" {
			cats[id] = true
		}
	}

	channels, err := p.s.GuildChannels(guildID)
	if err != nil {
		log.Printf("[delete] listar canales: %v", err)
	}
	for _, ch := range channels {
		// canales dentro de las categorias del torneo + hubs de equipo sueltos
		if cats[ch.ParentID] || (ch.Type == discordgo.ChannelTypeGuildText && strings.Contains(ch.Name, "team-")) {
			if _, err := p.s.ChannelDelete(ch.ID); err != nil {
				log.Printf("[delete] canal %s: %v", ch.Name, err)
			}
		}
	}
	for id := range cats {
		if _, err := p.s.ChannelDelete(id); err != nil {
			log.Printf("[delete] categoría %s: %v", id, err)
		}
	}

	for _, rid := range []string{t.PlayerRoleID, t.SpectatorRoleID} {
		if rid == "" {
			continue
		}
		if err := p.s.GuildRoleDelete(guildID, rid); err != nil {
			log.Printf("[delete] rol %s: %v", rid, err)
		}
	}
	roles, err := p.s.GuildRoles(guildID)
	if err != nil {
		log.Printf("[delete] listar roles: %v", err)
	}
	for _, ro := range roles {
		if strings.HasPrefix(ro.Name, teamRolePrefix) || strings.HasPrefix(ro.Name, botTeamPrefix) {
			if err := p.s.GuildRoleDelete(guildID, ro.ID); err != nil {
				log.Printf("[delete] rol %s: %v", ro.Name, err)
			}
		}
	}

	if err := p.repo.Delete(ctx, guildID); err != nil {
		return "", err
	}
	log.Printf("🧹 torneo %q borrado en guild %s", t.Name, guildID)
	return "✅ Torneo **" + t.Name + "** eliminado: canales, roles y datos.", nil
}
