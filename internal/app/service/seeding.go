package service

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// seededOrder mezcla los nombres con semilla fija: el bracket publicado y los
// cruces que creamos despues siempre coinciden, aunque se regenere.
func seededOrder(names []string) []string {
	out := append([]string(nil), names...)
	r := rand.New(rand.NewSource(1))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

type matchPair struct {
	a, b string
}

// pairTeams arma los cruces en orden de seeding. Con cantidad impar el ultimo
// equipo recibe pase directo (bye) en vez de trabar la ronda.
func pairTeams(names []string) (pairs []matchPair, bye string) {
	n := len(names)
	for i := 0; i+1 < n; i += 2 {
		pairs = append(pairs, matchPair{a: names[i], b: names[i+1]})
	}
	if n%2 != 0 {
		bye = names[n-1]
	}
	return pairs, bye
}

// roundWinners: ganadores de la ronda en orden de match_id y si ya cerro completa.
func roundWinners(rows []storage.BracketMatch) (winners []string, allDone bool) {
	allDone = true
	for _, m := range rows {
		if m.Status != "COMPLETED" {
			allDone = false
			continue
		}
		if m.Winner != nil && *m.Winner != "" {
			winners = append(winners, *m.Winner)
		}
	}
	return winners, allDone
}

var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug para nombres de canal: minusculas, todo lo raro a '-', max 20.
func slugify(name string) string {
	s := reSlug.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > 20 {
		s = strings.Trim(s[:20], "-")
	}
	if s == "" {
		s = "equipo"
	}
	return s
}
