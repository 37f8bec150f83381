package discord

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/tournament-bot/internal/app/service"
)

type Router struct {
	s       *discordgo.Session
	guildID string

	adminRoleIDs []string

	tournaments *service.TournamentService
	provision   *service.ProvisionService
	join        *service.JoinService
	teams       *service.TeamService
	bracket     *service.BracketService
	bots        *service.BotsService

	clickLimiter *userLimiter
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	adminRoleIDs []string,
	tournaments *service.TournamentService,
	provision *service.ProvisionService,
	join *service.JoinService,
	teams *service.TeamService,
	bracket *service.BracketService,
	bots *service.BotsService,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		adminRoleIDs: adminRoleIDs,
		tournaments:  tournaments,
		provision:    provision,
		join:         join,
		teams:        teams,
		bracket:      bracket,
		bots:         bots,
		clickLimiter: newUserLimiter(1500 * time.Millisecond),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	log.Printf("⚙️ %d comandos registrados en guild %s", len(Commands), r.guildID)
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlashCommand(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(s, ic)
		case discordgo.InteractionModalSubmit:
			r.handleModalSubmit(s, ic)
		}
	})
}
