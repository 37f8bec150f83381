package service

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

const embedColor = 0xC9002B

func onOff(v bool) string {
	if v {
		return "✅ ON"
	}
	return "❌ OFF"
}

// Panel de control que vive en el canal de admins.
func panelEmbed(t storage.Tournament) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎮 " + t.Name + " — Panel de control",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Equipos", Value: fmt.Sprintf("%d / %d", t.TeamsJoined, t.MaxTeams), Inline: true},
			{Name: "Tamaño de equipo", Value: fmt.Sprint(t.TeamSize), Inline: true},
			{Name: "Best of", Value: fmt.Sprint(t.BestOf), Inline: true},
			{Name: "Bracket", Value: t.BracketType, Inline: true},
			{Name: "Captain scoring", Value: onOff(t.CaptainScoring), Inline: true},
			{Name: "Screenshot de prueba", Value: onOff(t.ScreenshotProof), Inline: true},
			{Name: "Inscripción", Value: t.QueueStatus, Inline: true},
			{Name: "Estado", Value: t.Status, Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Panel publico de inscripcion, con cupos en vivo.
func joinEmbed(t storage.Tournament) *discordgo.MessageEmbed {
	capacity := t.MaxTeams * t.TeamSize
	desc := fmt.Sprintf(
		"Únete a **%s** con los botones de abajo.\n\n"+
			"👥 Jugadores: **%d / %d**\n"+
			"👀 Espectadores: **%d**\n"+
			"📋 Inscripción: **%s**",
		t.Name, t.PlayersJoined, capacity, t.SpectatorsJoined, t.QueueStatus,
	)
	if t.JoinInviteCode != "" {
		desc += "\n🔗 Invita a tus amigos: https://discord.gg/" + t.JoinInviteCode
	}
	return &discordgo.MessageEmbed{
		Title:       "🏆 " + t.Name,
		Description: desc,
		Color:       embedColor,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func joinButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Style:    discordgo.SuccessButton,
					Label:    "Jugar",
					CustomID: "join_player",
					Emoji:    &discordgo.ComponentEmoji{Name: "🎮"},
				},
				discordgo.Button{
					Style:    discordgo.SecondaryButton,
					Label:    "Solo mirar",
					CustomID: "join_spectator",
					Emoji:    &discordgo.ComponentEmoji{Name: "👀"},
				},
				discordgo.Button{
					Style:    discordgo.DangerButton,
					Label:    "Salir",
					CustomID: "join_leave",
					Emoji:    &discordgo.ComponentEmoji{Name: "👋"},
				},
			},
		},
	}
}

// refreshPanels re-edita el panel admin y el de inscripcion con los contadores
// actuales. Los errores de edit se loguean y seguimos; el proximo click repinta.
func refreshPanels(s *discordgo.Session, t storage.Tournament) {
	if t.PanelChannelID != "" && t.PanelMessageID != "" {
		em := []*discordgo.MessageEmbed{panelEmbed(t)}
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel: t.PanelChannelID,
			ID:      t.PanelMessageID,
			Embeds:  &em,
		}); err != nil {
			log.Printf("[panel] edit admin: %v", err)
		}
	}
	if t.JoinPanelChannelID != "" && t.JoinPanelMessageID != "" {
		em := []*discordgo.MessageEmbed{joinEmbed(t)}
		cc := joinButtons()
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    t.JoinPanelChannelID,
			ID:         t.JoinPanelMessageID,
			Embeds:     &em,
			Components: &cc,
		}); err != nil {
			log.Printf("[panel] edit join: %v", err)
		}
	}
}
