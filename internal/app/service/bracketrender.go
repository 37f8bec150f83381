package service

import (
	"fmt"
	"strings"

	"github.com/jose-valero/tournament-bot/internal/infra/storage"
)

// renderBracket arma el bracket como bloque monospace para #bracket-y-marcadores.
// Los perdedores quedan tachados con ✗ en la ronda donde perdieron y si la final
// ya cerro agregamos la linea del campeon.
func renderBracket(name string, seeds []string, rows []storage.BracketMatch) string {
	if len(seeds) == 0 || len(rows) == 0 {
		return ""
	}

	byRound := map[int][]storage.BracketMatch{}
	maxRound := 0
	for _, m := range rows {
		byRound[m.Round] = append(byRound[m.Round], m)
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧾 Bracket — **%s** (**%d** equipos)\n```\n", name, len(seeds))

	mark := func(m storage.BracketMatch, team string) string {
		if m.Status == "COMPLETED" && m.Winner != nil && *m.Winner != team {
			return team + " ✗"
		}
		return team
	}

	for rnd := 1; rnd <= maxRound; rnd++ {
		ms := byRound[rnd]
		if len(ms) == 0 {
			continue
		}
		fmt.Fprintf(&b, "Ronda %d\n", rnd)
		for _, m := range ms {
			switch {
			case m.TeamB == nil:
				fmt.Fprintf(&b, "  #%-3d %s  (pase directo)  →  %s\n", m.MatchID, m.TeamA, m.TeamA)
			case m.Status == "COMPLETED" && m.Winner != nil:
				sa, sb := 0, 0
				if m.ScoreA != nil {
					sa = *m.ScoreA
				}
				if m.ScoreB != nil {
					sb = *m.ScoreB
				}
				fmt.Fprintf(&b, "  #%-3d %s  %d - %d  %s  →  %s\n",
					m.MatchID, mark(m, m.TeamA), sa, sb, mark(m, *m.TeamB), *m.Winner)
			default:
				fmt.Fprintf(&b, "  #%-3d %s  vs  %s  →  pendiente\n", m.MatchID, m.TeamA, *m.TeamB)
			}
		}
	}
	b.WriteString("```")

	// final cerrada con una sola partida => ya hay campeon
	if final := byRound[maxRound]; len(final) == 1 {
		if m := final[0]; m.Status == "COMPLETED" && m.Winner != nil && m.TeamB != nil {
			fmt.Fprintf(&b, "\n🏆 **Campeón: %s**", *m.Winner)
		}
	}
	return b.String()
}
