package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomIDParts(t *testing.T) {
	action, args := customIDParts("join_player")
	assert.Equal(t, "join_player", action)
	assert.Empty(t, args)

	action, args = customIDParts("team_ready:123456")
	assert.Equal(t, "team_ready", action)
	assert.Equal(t, []string{"123456"}, args)

	action, args = customIDParts("invite_accept:g1:r1:u1")
	assert.Equal(t, "invite_accept", action)
	assert.Equal(t, []string{"g1", "r1", "u1"}, args)
}

func TestModalValue(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: "modal_create_tournament",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "t_name", Value: "  Copa del Server  "},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "t_max", Value: "8"},
			}},
		},
	}
	assert.Equal(t, "Copa del Server", modalValue(data, "t_name"), "recorta espacios")
	assert.Equal(t, "8", modalValue(data, "t_max"))
	assert.Empty(t, modalValue(data, "no_existe"))
}

func TestOptIntAndSubcmd(t *testing.T) {
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "bots",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name: "add",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{
					Name:  "cantidad",
					Type:  discordgo.ApplicationCommandOptionInteger,
					Value: float64(16), // discordgo entrega los enteros como float64
				}},
			}},
		},
	}}

	sub, ok := subcmdName(ic)
	require.True(t, ok)
	assert.Equal(t, "add", sub)

	n, ok := optInt(ic, "cantidad")
	require.True(t, ok)
	assert.Equal(t, 16, n)

	_, ok = optInt(ic, "no_existe")
	assert.False(t, ok)
}

func TestInteractionUser(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{
			User:  &discordgo.User{ID: "u-guild"},
			Roles: []string{"r1", "r2"},
		},
	}}
	assert.Equal(t, "u-guild", interactionUser(guild).ID)
	assert.Equal(t, []string{"r1", "r2"}, memberRoles(guild))

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "u-dm"},
	}}
	assert.Equal(t, "u-dm", interactionUser(dm).ID)
	assert.Empty(t, memberRoles(dm))
}
