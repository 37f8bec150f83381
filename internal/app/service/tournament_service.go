package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// Settings y toggles del torneo. Lo que toca canales/roles vive en
// ProvisionService; aca solo estado + repintado de paneles.
type TournamentService struct {
	s    *discordgo.Session
	repo TournamentRepo
}

func NewTournamentService(s *discordgo.Session, repo TournamentRepo) *TournamentService {
	return &TournamentService{s: s, repo: repo}
}

func (t *TournamentService) Get(ctx context.Context, guildID string) (storage.Tournament, error) {
	return t.repo.Get(ctx, guildID)
}

func validateSettings(name string, maxTeams, bestOf, teamSize int) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("el nombre no puede estar vacío")
	}
	if maxTeams <= 0 {
		return errors.New("max equipos debe ser mayor a 0")
	}
	if bestOf != 1 && bestOf != 3 && bestOf != 5 {
		return errors.New("best-of debe ser 1, 3 o 5")
	}
	if teamSize < 1 || teamSize > 6 {
		return errors.New("el tamaño de equipo debe estar entre 1 y 6")
	}
	return nil
}

func (t *TournamentService) EditSettings(ctx context.Context, guildID, name string, maxTeams, bestOf, teamSize int) (string, error) {
	if err := validateSettings(name, maxTeams, bestOf, teamSize); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	tour, err := t.repo.Update(ctx, guildID, storage.TournamentPatch{
		Name:     &name,
		MaxTeams: &maxTeams,
		BestOf:   &bestOf,
		TeamSize: &teamSize,
	})
	if err != nil {
		return "", err
	}
	refreshPanels(t.s, tour)
	return fmt.Sprintf("✅ Configuración guardada: **%s**, %d equipos, best-of-%d, tamaño %d.",
		tour.Name, tour.MaxTeams, tour.BestOf, tour.TeamSize), nil
}

func (t *TournamentService) SetQueueStatus(ctx context.Context, guildID string, open bool) (string, error) {
	status := "CLOSED"
	if open {
		status = "OPEN"
	}
	tour, err := t.repo.Update(ctx, guildID, storage.TournamentPatch{QueueStatus: &status})
	if err != nil {
		return "", err
	}
	refreshPanels(t.s, tour)
	if open {
		return "✅ Inscripción **abierta**. Los jugadores ya pueden unirse.", nil
	}
	return "✅ Inscripción **cerrada**.", nil
}

func (t *TournamentService) ToggleBracketType(ctx context.Context, guildID string) (string, error) {
	tour, err := t.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	next := "Single Elim"
	if tour.BracketType == "Single Elim" {
		next = "Double Elim"
	}
	tour, err = t.repo.Update(ctx, guildID, storage.TournamentPatch{BracketType: &next})
	if err != nil {
		return "", err
	}
	refreshPanels(t.s, tour)
	msg := "✅ Tipo de bracket: **" + next + "**."
	if next == "Double Elim" {
		// el generador todavia no arma lower bracket; avisamos de una
		msg += "\n⚠️ Double Elim aún no genera partidas; es solo la etiqueta del panel."
	}
	return msg, nil
}

func (t *TournamentService) ToggleCaptainScoring(ctx context.Context, guildID string) (string, error) {
	tour, err := t.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	v := !tour.CaptainScoring
	tour, err = t.repo.Update(ctx, guildID, storage.TournamentPatch{CaptainScoring: &v})
	if err != nil {
		return "", err
	}
	refreshPanels(t.s, tour)
	if v {
		return "✅ Captain scoring **ON**: los capitanes pueden cargar resultados.", nil
	}
	return "✅ Captain scoring **OFF**: solo staff carga resultados.", nil
}

func (t *TournamentService) ToggleScreenshotProof(ctx context.Context, guildID string) (string, error) {
	tour, err := t.repo.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	v := !tour.ScreenshotProof
	tour, err = t.repo.Update(ctx, guildID, storage.TournamentPatch{ScreenshotProof: &v})
	if err != nil {
		return "", err
	}
	refreshPanels(t.s, tour)
	return "✅ Screenshot de prueba: **" + onOff(v) + "**.", nil
}
