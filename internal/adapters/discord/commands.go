package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Comprueba que el bot responde",
	},
	{
		Name:        "create_tournament",
		Description: "Crea el torneo del server: canales, roles y panel admin",
	},
	{
		Name:        "t_edit_settings",
		Description: "Edita nombre, equipos, best-of y tamaño de equipo",
	},
	{
		Name:        "t_delete_tournament",
		Description: "Borra el torneo completo (canales, roles y datos)",
	},
	{
		Name:        "tournament_join_panel",
		Description: "Publica el panel de inscripción en un canal",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal donde publicar el panel",
			Required:    true,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		}},
	},
	{
		Name:        "t_open_join",
		Description: "Abre la inscripción de jugadores",
	},
	{
		Name:        "t_close_join",
		Description: "Cierra la inscripción de jugadores",
	},
	{
		Name:        "t_toggle_bracket",
		Description: "Alterna Single Elim / Double Elim",
	},
	{
		Name:        "t_captain_scoring",
		Description: "Alterna si los capitanes pueden cargar resultados",
	},
	{
		Name:        "t_screenshot_proof",
		Description: "Alterna el pedido de screenshot como prueba",
	},
	{
		Name:        "generate_bracket",
		Description: "Publica el bracket con los equipos READY",
	},
	{
		Name:        "start_tournament",
		Description: "Arranca el torneo y crea los canales de la ronda 1",
	},
	{
		Name:        "bots",
		Description: "Jugadores bot para probar el torneo",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Suma bots al pool",
				Options: []*discordgo.ApplicationCommandOption{{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "cantidad",
					Description: "Cuántos bots agregar",
					Required:    true,
					MinValue:    func() *float64 { v := 1.0; return &v }(),
					MaxValue:    128,
				}},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "force_teams",
				Description: "Arma equipos READY con el pool de bots",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "clear",
				Description: "Borra equipos bot y vacía el pool",
			},
		},
	},
}
