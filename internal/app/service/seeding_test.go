package service

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

func TestSeededOrderDeterministic(t *testing.T) {
	in := []string{"Alfa", "Beta", "Gamma", "Delta", "Epsilon"}

	a := seededOrder(in)
	b := seededOrder(in)
	assert.Equal(t, a, b, "mismo input, mismo orden")

	// no toca el slice original
	assert.Equal(t, []string{"Alfa", "Beta", "Gamma", "Delta", "Epsilon"}, in)

	// es una permutacion, no pierde ni duplica equipos
	sortedA := append([]string(nil), a...)
	sortedIn := append([]string(nil), in...)
	sort.Strings(sortedA)
	sort.Strings(sortedIn)
	assert.Equal(t, sortedIn, sortedA)
}

func TestPairTeams(t *testing.T) {
	pairs, bye := pairTeams([]string{"A", "B", "C", "D"})
	require.Len(t, pairs, 2)
	assert.Equal(t, matchPair{a: "A", b: "B"}, pairs[0])
	assert.Equal(t, matchPair{a: "C", b: "D"}, pairs[1])
	assert.Empty(t, bye)

	pairs, bye = pairTeams([]string{"A", "B", "C"})
	require.Len(t, pairs, 1)
	assert.Equal(t, "C", bye, "el ultimo sin rival pasa directo")

	pairs, bye = pairTeams([]string{"A"})
	assert.Empty(t, pairs)
	assert.Equal(t, "A", bye)

	pairs, bye = pairTeams(nil)
	assert.Empty(t, pairs)
	assert.Empty(t, bye)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestRoundWinners(t *testing.T) {
	rows := []storage.BracketMatch{
		{MatchID: 1, Status: "COMPLETED", TeamA: "A", TeamB: strPtr("B"), Winner: strPtr("A")},
		{MatchID: 2, Status: "PENDING", TeamA: "C", TeamB: strPtr("D")},
	}
	winners, done := roundWinners(rows)
	assert.Equal(t, []string{"A"}, winners)
	assert.False(t, done)

	rows[1].Status = "COMPLETED"
	rows[1].Winner = strPtr("D")
	winners, done = roundWinners(rows)
	assert.Equal(t, []string{"A", "D"}, winners)
	assert.True(t, done)

	// bye cuenta como ganador
	winners, done = roundWinners([]storage.BracketMatch{
		{MatchID: 3, Status: "COMPLETED", TeamA: "E", Winner: strPtr("E")},
	})
	assert.Equal(t, []string{"E"}, winners)
	assert.True(t, done)
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Los Invencibles", "los-invencibles"},
		{"Equipo | Ñandú!!", "equipo-and"},
		{"  --A--  ", "a"},
		{"", "equipo"},
		{"!!!", "equipo"},
		{"nombre-larguisimo-de-equipo-que-no-entra", "nombre-larguisimo-de"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, slugify(c.in), "slugify(%q)", c.in)
	}
}
