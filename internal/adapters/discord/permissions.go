package discord

import "github.com/bwmarrin/discordgo"

// isStaff: owner, Administrator/ManageGuild o rol admin explícito del bot.
// No responde nada; el caller decide qué contestar.
func (r *Router) isStaff(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil || ic.Member.User == nil {
		return false
	}

	// Owner
	if g, _ := s.State.Guild(ic.GuildID); g != nil && ic.Member.User.ID == g.OwnerID {
		return true
	}

	// Bits de Administrator / Manage Guild
	roles, _ := s.GuildRoles(ic.GuildID)
	var perms int64
outer:
	for _, rid := range ic.Member.Roles {
		for _, ro := range roles {
			if ro.ID == rid {
				perms |= ro.Permissions
				if (perms & (discordgo.PermissionAdministrator | discordgo.PermissionManageGuild)) != 0 {
					break outer
				}
			}
		}
	}
	if (perms & (discordgo.PermissionAdministrator | discordgo.PermissionManageGuild)) != 0 {
		return true
	}

	// Roles explícitos del bot
	if len(r.adminRoleIDs) > 0 {
		has := make(map[string]struct{}, len(ic.Member.Roles))
		for _, rid := range ic.Member.Roles {
			has[rid] = struct{}{}
		}
		for _, want := range r.adminRoleIDs {
			if _, ok := has[want]; ok {
				return true
			}
		}
	}
	return false
}

// requireAdminOrRoles responde el rechazo via followup (interaccion ya deferida).
func (r *Router) requireAdminOrRoles(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if r.isStaff(s, ic) {
		return true
	}
	ReplyEphemeral(s, ic, "🔒 No tienes permisos para esta acción.")
	return false
}

// requireAdminFirstResponse rechaza ANTES de abrir un modal, cuando todavia
// no hubo defer.
func (r *Router) requireAdminFirstResponse(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if r.isStaff(s, ic) {
		return true
	}
	_ = SendEphemeral(s, ic, "🔒 No tienes permisos para esta acción.")
	return false
}
