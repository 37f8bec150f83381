package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

func TestRenderBracketEmpty(t *testing.T) {
	assert.Empty(t, renderBracket("Copa", nil, nil))
	assert.Empty(t, renderBracket("Copa", []string{"A"}, nil))
}

func TestRenderBracketPendingAndBye(t *testing.T) {
	seeds := []string{"A", "B", "C"}
	rows := []storage.BracketMatch{
		{MatchID: 1, Round: 1, TeamA: "A", TeamB: strPtr("B"), Status: "PENDING"},
		{MatchID: 2, Round: 1, TeamA: "C", Winner: strPtr("C"), Status: "COMPLETED"},
	}
	out := renderBracket("Copa", seeds, rows)

	assert.Contains(t, out, "**Copa**")
	assert.Contains(t, out, "**3** equipos")
	assert.Contains(t, out, "Ronda 1")
	assert.Contains(t, out, "pendiente")
	assert.Contains(t, out, "(pase directo)")
	assert.NotContains(t, out, "Campeón", "sin final cerrada no hay campeón")
}

func TestRenderBracketScoresAndChampion(t *testing.T) {
	seeds := []string{"A", "B", "C", "D"}
	rows := []storage.BracketMatch{
		{MatchID: 1, Round: 1, TeamA: "A", TeamB: strPtr("B"), Status: "COMPLETED",
			Winner: strPtr("A"), ScoreA: intPtr(2), ScoreB: intPtr(1)},
		{MatchID: 2, Round: 1, TeamA: "C", TeamB: strPtr("D"), Status: "COMPLETED",
			Winner: strPtr("D"), ScoreA: intPtr(0), ScoreB: intPtr(2)},
		{MatchID: 3, Round: 2, TeamA: "A", TeamB: strPtr("D"), Status: "COMPLETED",
			Winner: strPtr("A"), ScoreA: intPtr(2), ScoreB: intPtr(0)},
	}
	out := renderBracket("Copa", seeds, rows)

	assert.Contains(t, out, "Ronda 1")
	assert.Contains(t, out, "Ronda 2")
	assert.Contains(t, out, "2 - 1")
	assert.Contains(t, out, "B ✗", "el perdedor queda tachado")
	assert.Contains(t, out, "🏆 **Campeón: A**")

	// el bloque monospace cierra antes de la linea del campeon
	assert.True(t, strings.Index(out, "```\n") < strings.LastIndex(out, "```"))
}

func TestRenderBracketByeNoChampion(t *testing.T) {
	// final "de una sola fila" pero por bye: no es campeonato cerrado
	seeds := []string{"A", "B", "C"}
	rows := []storage.BracketMatch{
		{MatchID: 1, Round: 1, TeamA: "A", TeamB: strPtr("B"), Status: "COMPLETED",
			Winner: strPtr("A"), ScoreA: intPtr(1), ScoreB: intPtr(0)},
		{MatchID: 2, Round: 1, TeamA: "C", Winner: strPtr("C"), Status: "COMPLETED"},
		{MatchID: 3, Round: 2, TeamA: "A", Winner: strPtr("A"), Status: "COMPLETED"},
	}
	out := renderBracket("Copa", seeds, rows)
	assert.NotContains(t, out, "Campeón")
}
