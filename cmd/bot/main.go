package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/tournament-bot/internal/adapters/discord"
	"github.com/jose-valero/tournament-bot/internal/adapters/httpresults"
	"github.com/jose-valero/tournament-bot/internal/app/service"
	"github.com/jose-valero/tournament-bot/internal/infra/config"
	"github.com/jose-valero/tournament-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")

	// Repos
	tournamentRepo := storage.NewTournamentRepo(db)
	teamRepo := storage.NewTeamRepo(db)
	bracketRepo := storage.NewBracketRepo(db)
	botsRepo := storage.NewBotsRepo(db)

	// Discord session (antes de los services, que la necesitan)
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	// Services
	tournamentSvc := service.NewTournamentService(s, tournamentRepo)
	provisionSvc := service.NewProvisionService(s, tournamentRepo, teamRepo)
	joinSvc := service.NewJoinService(s, tournamentRepo)
	teamSvc := service.NewTeamService(s, tournamentRepo, teamRepo, bracketRepo)
	bracketSvc := service.NewBracketService(s, tournamentRepo, teamRepo, bracketRepo)
	botsSvc := service.NewBotsService(s, tournamentRepo, teamRepo, botsRepo)

	// Webhook de resultados (opcional, con secret)
	if cfg.WebhookSecret != "" {
		web := httpresults.New(cfg.WebhookSecret, func(ctx context.Context, guildID string, matchID, scoreA, scoreB int) {
			bracketSvc.HandleResultEvent(ctx, guildID, matchID, scoreA, scoreB)
		})
		go web.Start(cfg.HTTPAddr)
	}

	// Router
	r := discordrouter.NewRouter(
		s,
		cfg.DiscordGuild,
		cfg.AdminRoleIDs,
		tournamentSvc,
		provisionSvc,
		joinSvc,
		teamSvc,
		bracketSvc,
		botsSvc,
	)
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	r.Handlers()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}
