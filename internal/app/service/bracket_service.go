package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// BracketService: seeding, creacion de rondas con sus canales privados,
// carga de resultados y avance hasta el campeon.
type BracketService struct {
	s       *discordgo.Session
	repo    TournamentRepo
	teams   TeamRepo
	matches BracketRepo
}

func NewBracketService(s *discordgo.Session, repo TournamentRepo, teams TeamRepo, matches BracketRepo) *BracketService {
	return &BracketService{s: s, repo: repo, teams: teams, matches: matches}
}

func (b *BracketService) Match(ctx context.Context, guildID string, matchID int) (storage.BracketMatch, error) {
	return b.matches.Get(ctx, guildID, matchID)
}

// seedsFor: equipos READY en orden de alta, mezclados con semilla fija.
func (b *BracketService) seedsFor(ctx context.Context, guildID string) ([]string, error) {
	ready, err := b.teams.ListReady(ctx, guildID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ready))
	for _, t := range ready {
		names = append(names, t.Name)
	}
	return seededOrder(names), nil
}

// Generate publica (o re-publica) el bracket en #bracket-y-marcadores.
func (b *BracketService) Generate(ctx context.Context, guildID string) (string, error) {
	t, err := b.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo; crea uno con `/create_tournament`")
	}
	if t.BracketType == "Double Elim" {
		return "⚠️ **Double Elim** todavía no genera bracket; vuelve a Single Elim con `/t_toggle_bracket`.", nil
	}
	seeds, err := b.seedsFor(ctx, guildID)
	if err != nil {
		return "", err
	}
	if len(seeds) < 2 {
		return fmt.Sprintf("⚠️ Necesitas al menos **2** equipos READY (hay %d).", len(seeds)), nil
	}
	if err := b.renderAndPost(ctx, guildID); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Bracket de **%d** equipos publicado en <#%s>.", len(seeds), t.BracketChannelID), nil
}

// Start marca RUNNING y crea los canales de la ronda 1.
func (b *BracketService) Start(ctx context.Context, guildID string) (string, error) {
	t, err := b.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo; crea uno con `/create_tournament`")
	}
	switch t.Status {
	case "RUNNING":
		return "⚠️ El torneo ya está **RUNNING**.", nil
	case "FINISHED":
		return "⚠️ El torneo ya terminó. Borralo y crea otro para volver a jugar.", nil
	}
	if t.BracketType == "Double Elim" {
		return "⚠️ **Double Elim** todavía no genera partidas; vuelve a Single Elim con `/t_toggle_bracket`.", nil
	}

	seeds, err := b.seedsFor(ctx, guildID)
	if err != nil {
		return "", err
	}
	if len(seeds) < 2 {
		return fmt.Sprintf("⚠️ Necesitas al menos **2** equipos READY (hay %d).", len(seeds)), nil
	}

	status := "RUNNING"
	t, err = b.repo.Update(ctx, guildID, storage.TournamentPatch{Status: &status})
	if err != nil {
		return "", err
	}
	refreshPanels(b.s, t)

	if err := b.matches.Clear(ctx, guildID); err != nil {
		return "", err
	}
	created, err := b.createRound(ctx, t, 1, seeds)
	if err != nil {
		return "", err
	}
	if err := b.renderAndPost(ctx, guildID); err != nil {
		log.Printf("[bracket] render inicial: %v", err)
	}
	return fmt.Sprintf("✅ Torneo **RUNNING**. Creé **%d** canal(es) de partida para la ronda 1.", created), nil
}

func (b *BracketService) ensureMatchesCategory(ctx context.Context, t storage.Tournament) (string, error) {
	if t.MatchesCategoryID != "" {
		return t.MatchesCategoryID, nil
	}
	cat, err := b.s.GuildChannelCreateComplex(t.GuildID, discordgo.GuildChannelCreateData{
		Name: "🎯 " + t.Name + " Partidas",
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return "", fmt.Errorf("creando categoría de partidas: %w", err)
	}
	if _, err := b.repo.Update(ctx, t.GuildID, storage.TournamentPatch{MatchesCategoryID: &cat.ID}); err != nil {
		return "", err
	}
	return cat.ID, nil
}

// createRound arma los cruces en orden de seeding. Cantidad impar: el ultimo
// recibe pase directo como fila COMPLETED sin canal.
func (b *BracketService) createRound(ctx context.Context, t storage.Tournament, round int, names []string) (int, error) {
	pairs, bye := pairTeams(names)
	maxID, err := b.matches.MaxMatchID(ctx, t.GuildID)
	if err != nil {
		return 0, err
	}
	roleIDs, err := b.teams.RoleIDsByNames(ctx, t.GuildID, names)
	if err != nil {
		return 0, err
	}
	catID, err := b.ensureMatchesCategory(ctx, t)
	if err != nil {
		return 0, err
	}

	idx := maxID + 1
	created := 0
	for _, p := range pairs {
		ow := []*discordgo.PermissionOverwrite{
			{ID: t.GuildID, Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
			{ID: b.s.State.User.ID, Type: discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory},
		}
		for _, team := range []string{p.a, p.b} {
			if rid := roleIDs[team]; rid != "" {
				ow = append(ow, &discordgo.PermissionOverwrite{
					ID: rid, Type: discordgo.PermissionOverwriteTypeRole,
					Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory | discordgo.PermissionAttachFiles,
				})
			}
		}

		ch, err := b.s.GuildChannelCreateComplex(t.GuildID, discordgo.GuildChannelCreateData{
			Name:                 fmt.Sprintf("match-%d-%s-vs-%s", idx, slugify(p.a), slugify(p.b)),
			Type:                 discordgo.ChannelTypeGuildText,
			ParentID:             catID,
			PermissionOverwrites: ow,
		})
		if err != nil {
			return created, fmt.Errorf("creando canal de la partida %d: %w", idx, err)
		}
		b.sendMatchEmbed(ch.ID, idx, round, t.BestOf, p.a, p.b)

		teamB := p.b
		if err := b.matches.Insert(ctx, storage.BracketMatch{
			GuildID:   t.GuildID,
			MatchID:   idx,
			Round:     round,
			TeamA:     p.a,
			TeamB:     &teamB,
			Status:    "PENDING",
			ChannelID: ch.ID,
		}); err != nil {
			return created, err
		}
		log.Printf("🎯 partida %d (ronda %d) %s vs %s canal=%s", idx, round, p.a, p.b, ch.ID)
		idx++
		created++
	}

	if bye != "" {
		winner := bye
		if err := b.matches.Insert(ctx, storage.BracketMatch{
			GuildID: t.GuildID,
			MatchID: idx,
			Round:   round,
			TeamA:   bye,
			Winner:  &winner,
			Status:  "COMPLETED",
		}); err != nil {
			return created, err
		}
		if t.BracketChannelID != "" {
			if _, err := b.s.ChannelMessageSend(t.BracketChannelID,
				fmt.Sprintf("ℹ️ **%s** pasa directo a la ronda %d (cantidad impar de equipos).", bye, round+1)); err != nil {
				log.Printf("[bracket] aviso de bye: %v", err)
			}
		}
	}
	return created, nil
}

func (b *BracketService) sendMatchEmbed(channelID string, matchID, round, bestOf int, teamA, teamB string) {
	desc := fmt.Sprintf(
		"📣 **¡Arranca la partida!** **%s** vs **%s**\n\n"+
			"Partida **#%d** de la ronda **%d**, **best-of-%d**.\n\n"+
			"Carguen el resultado con el botón **Cargar resultado** (sin empates).\n"+
			"Con Captain Scoring ON pueden cargarlo los capitanes; si no, solo staff.\n"+
			"El resultado se publica en los canales del torneo, el ganador avanza\n"+
			"y este canal se borra poco después.",
		teamA, teamB, matchID, round, bestOf)
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Partida %d: %s vs %s", matchID, teamA, teamB),
		Description: desc,
		Color:       embedColor,
	}
	if _, err := b.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Style:    discordgo.PrimaryButton,
						Label:    "Cargar resultado",
						CustomID: fmt.Sprintf("score_match:%d", matchID),
						Emoji:    &discordgo.ComponentEmoji{Name: "📊"},
					},
				},
			},
		},
	}); err != nil {
		log.Printf("[bracket] embed partida %d: %v", matchID, err)
	}
}

// CanScore: staff siempre; capitanes de cualquiera de los dos equipos solo
// con captain_scoring ON.
func (b *BracketService) CanScore(ctx context.Context, guildID string, matchID int, userID string, isStaff bool) (bool, string, error) {
	if isStaff {
		return true, "", nil
	}
	t, err := b.repo.Get(ctx, guildID)
	if err != nil {
		return false, "⚠️ No hay torneo activo.", nil
	}
	if !t.CaptainScoring {
		return false, "🔒 Solo el staff puede cargar resultados (Captain Scoring está OFF).", nil
	}
	m, err := b.matches.Get(ctx, guildID, matchID)
	if err != nil {
		return false, "⚠️ Esa partida no existe.", nil
	}
	names := []string{m.TeamA}
	if m.TeamB != nil {
		names = append(names, *m.TeamB)
	}
	for _, name := range names {
		team, err := b.teams.GetByName(ctx, guildID, name)
		if err != nil {
			continue
		}
		if team.CaptainID == userID {
			return true, "", nil
		}
	}
	return false, "🔒 Solo los **capitanes** de la partida (o el staff) pueden cargar el resultado.", nil
}

// SubmitScore valida, cierra la partida de forma atomica, espeja el resultado
// y dispara el avance de ronda.
func (b *BracketService) SubmitScore(ctx context.Context, guildID string, matchID, scoreA, scoreB int, userID string, isStaff bool) (string, error) {
	t, err := b.repo.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("no hay torneo activo")
	}
	m, err := b.matches.Get(ctx, guildID, matchID)
	if errors.Is(err, storage.ErrNotFound) {
		return "⚠️ La partida **#" + fmt.Sprint(matchID) + "** no existe.", nil
	}
	if err != nil {
		return "", err
	}
	if m.Status == "COMPLETED" {
		return "⚠️ Esa partida ya tiene resultado.", nil
	}
	if m.TeamB == nil {
		return "⚠️ Esa partida fue un pase directo; no lleva resultado.", nil
	}
	if scoreA < 0 || scoreB < 0 {
		return "❌ Los puntajes no pueden ser negativos.", nil
	}
	if scoreA == scoreB {
		return "❌ No hay empates: carguen un ganador.", nil
	}
	if ok, refusal, err := b.CanScore(ctx, guildID, matchID, userID, isStaff); err != nil {
		return "", err
	} else if !ok {
		return refusal, nil
	}

	winner := m.TeamA
	if scoreB > scoreA {
		winner = *m.TeamB
	}
	ok, err := b.matches.Complete(ctx, guildID, matchID, winner, scoreA, scoreB)
	if err != nil {
		return "", err
	}
	if !ok {
		return "⚠️ Alguien cargó el resultado justo antes que tú.", nil
	}
	log.Printf("📊 partida %d: %s %d - %d %s (gana %s)", matchID, m.TeamA, scoreA, scoreB, *m.TeamB, winner)

	b.mirrorResult(t, m, scoreA, scoreB, winner)
	b.scheduleChannelCleanup(t, m.ChannelID)

	if err := b.afterMatchScored(ctx, guildID); err != nil {
		log.Printf("[bracket] avance post-resultado: %v", err)
	}
	return "✅ Resultado guardado: **" + winner + "** avanza.", nil
}

func (b *BracketService) mirrorResult(t storage.Tournament, m storage.BracketMatch, scoreA, scoreB int, winner string) {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Resultado — Partida %d", m.MatchID),
		Description: fmt.Sprintf(
			"**%s**: **%d**\n**%s**: **%d**\n\n🏆 **Ganador: %s**",
			m.TeamA, scoreA, *m.TeamB, scoreB, winner),
		Color: embedColor,
	}
	if m.ChannelID != "" {
		if _, err := b.s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
			log.Printf("[bracket] resultado en canal de partida: %v", err)
		}
	}
	if t.ResultsChannelID != "" {
		if _, err := b.s.ChannelMessageSendEmbed(t.ResultsChannelID, embed); err != nil {
			log.Printf("[bracket] resultado en #resultados: %v", err)
		}
	}
	if t.BracketChannelID != "" {
		line := fmt.Sprintf("📊 **Partida %d:** **%s** %d – %d **%s** (ganó **%s**)",
			m.MatchID, m.TeamA, scoreA, scoreB, *m.TeamB, winner)
		if _, err := b.s.ChannelMessageSend(t.BracketChannelID, line); err != nil {
			log.Printf("[bracket] resultado en #bracket: %v", err)
		}
	}
}

func (b *BracketService) scheduleChannelCleanup(t storage.Tournament, channelID string) {
	if channelID == "" {
		return
	}
	notice := "✅ Resultado cargado. Este canal se borra en **5 segundos**."
	if t.ScreenshotProof {
		notice = "✅ Resultado cargado. 📸 Adjunten el screenshot de prueba YA: el canal se borra en **5 segundos**."
	}
	if _, err := b.s.ChannelMessageSend(channelID, notice); err != nil {
		log.Printf("[bracket] aviso de borrado %s: %v", channelID, err)
	}
	go func() {
		time.Sleep(5 * time.Second)
		if _, err := b.s.ChannelDelete(channelID); err != nil {
			log.Printf("[bracket] borrar canal %s: %v", channelID, err)
		}
	}()
}

// afterMatchScored: repinta el bracket y, con la ronda completa, cierra el
// torneo (un ganador) o crea la siguiente ronda con los ganadores en orden.
func (b *BracketService) afterMatchScored(ctx context.Context, guildID string) error {
	maxRound, err := b.matches.MaxRound(ctx, guildID)
	if err != nil || maxRound == 0 {
		return err
	}
	rows, err := b.matches.Round(ctx, guildID, maxRound)
	if err != nil {
		return err
	}
	winners, allDone := roundWinners(rows)

	if err := b.renderAndPost(ctx, guildID); err != nil {
		log.Printf("[bracket] re-render: %v", err)
	}
	if !allDone {
		return nil
	}

	if len(winners) == 1 {
		status := "FINISHED"
		t, err := b.repo.Update(ctx, guildID, storage.TournamentPatch{Status: &status})
		if err != nil {
			return err
		}
		refreshPanels(b.s, t)
		if t.BracketChannelID != "" {
			if _, err := b.s.ChannelMessageSend(t.BracketChannelID,
				"🏆 **¡Campeón del torneo: "+winners[0]+"!** 🎉"); err != nil {
				log.Printf("[bracket] anuncio campeón: %v", err)
			}
		}
		log.Printf("🏆 torneo terminado en guild %s, campeón %q", guildID, winners[0])
		return nil
	}

	next := maxRound + 1
	n, err := b.matches.CountRound(ctx, guildID, next)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	t, err := b.repo.Get(ctx, guildID)
	if err != nil {
		return err
	}
	created, err := b.createRound(ctx, t, next, winners)
	if err != nil {
		return err
	}
	log.Printf("🎯 ronda %d creada con %d partida(s) en guild %s", next, created, guildID)
	return nil
}

// renderAndPost reemplaza el post del bracket (borra el anterior, publica el
// nuevo y recuerda el message_id). Sin filas todavia, arma una vista previa
// de los cruces de la ronda 1.
func (b *BracketService) renderAndPost(ctx context.Context, guildID string) error {
	t, err := b.repo.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if t.BracketChannelID == "" {
		return nil
	}
	seeds, err := b.seedsFor(ctx, guildID)
	if err != nil {
		return err
	}
	rows, err := b.matches.List(ctx, guildID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		rows = previewRows(guildID, seeds)
	}
	content := renderBracket(t.Name, seeds, rows)
	if content == "" {
		return nil
	}

	if t.BracketMessageID != "" {
		if err := b.s.ChannelMessageDelete(t.BracketChannelID, t.BracketMessageID); err != nil {
			log.Printf("[bracket] borrar post anterior: %v", err)
		}
	}
	msg, err := b.s.ChannelMessageSend(t.BracketChannelID, content)
	if err != nil {
		return err
	}
	_, err = b.repo.Update(ctx, guildID, storage.TournamentPatch{BracketMessageID: &msg.ID})
	return err
}

// previewRows: cruces tentativos de la ronda 1 para publicar el bracket antes
// del start. No se persisten.
func previewRows(guildID string, seeds []string) []storage.BracketMatch {
	pairs, bye := pairTeams(seeds)
	rows := make([]storage.BracketMatch, 0, len(pairs)+1)
	idx := 1
	for _, p := range pairs {
		teamB := p.b
		rows = append(rows, storage.BracketMatch{
			GuildID: guildID, MatchID: idx, Round: 1, TeamA: p.a, TeamB: &teamB, Status: "PENDING",
		})
		idx++
	}
	if bye != "" {
		winner := bye
		rows = append(rows, storage.BracketMatch{
			GuildID: guildID, MatchID: idx, Round: 1, TeamA: bye, Winner: &winner, Status: "COMPLETED",
		})
	}
	return rows
}

// HandleResultEvent: mismo camino que el modal pero desde el webhook HTTP.
func (b *BracketService) HandleResultEvent(ctx context.Context, guildID string, matchID, scoreA, scoreB int) {
	msg, err := b.SubmitScore(ctx, guildID, matchID, scoreA, scoreB, "webhook", true)
	if err != nil {
		log.Printf("[results] evt guild=%s match=%d: %v", guildID, matchID, err)
		return
	}
	log.Printf("[results] evt guild=%s match=%d: %s", guildID, matchID, msg)
}
